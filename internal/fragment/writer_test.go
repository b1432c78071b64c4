package fragment_test

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/ostafen/rescue/internal/format"
	"github.com/ostafen/rescue/internal/fragment"
	"github.com/ostafen/rescue/internal/logger"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
)

func newFragment(id uint64, ext string, start int, data []byte) format.Fragment {
	return format.Fragment{
		ID:   id,
		Span: format.Span{Start: start, End: start + len(data), Ext: ext},
		Data: data,
	}
}

func TestFileName(t *testing.T) {
	require.Equal(t, "jpg-fragment-12.jpg", fragment.FileName(12, "jpg", fragment.CodecNone))
	require.Equal(t, "txt-fragment-3.txt.gz", fragment.FileName(3, "txt", fragment.CodecGzip))
}

func TestWriterWritesFragments(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dump")

	var records []fragment.Record
	w, err := fragment.NewWriter(fragment.Options{
		Dir: dir,
		OnRecord: func(r fragment.Record) error {
			records = append(records, r)
			return nil
		},
	}, logger.Discard())
	require.NoError(t, err)

	data := []byte("hello world")
	require.NoError(t, w.WriteFragment(newFragment(1, "txt", 100, data)))

	content, err := os.ReadFile(filepath.Join(dir, "txt-fragment-1.txt"))
	require.NoError(t, err)
	require.Equal(t, data, content)

	sum := blake3.Sum256(data)
	require.Len(t, records, 1)
	require.Equal(t, uint64(100), records[0].Offset)
	require.Equal(t, uint64(len(data)), records[0].Size)
	require.Equal(t, "txt-fragment-1.txt", records[0].Name)
	require.Len(t, records[0].BLAKE3, 64)
	require.Equal(t, sum[:], mustDecodeHex(t, records[0].BLAKE3))

	require.Equal(t, fragment.Stats{Written: 1, Bytes: uint64(len(data))}, w.Stats())
}

func TestWriterCompressed(t *testing.T) {
	dir := t.TempDir()

	w, err := fragment.NewWriter(fragment.Options{Dir: dir, Codec: fragment.CodecZstd}, logger.Discard())
	require.NoError(t, err)

	data := bytes.Repeat([]byte{0xAB}, 4096)
	require.NoError(t, w.WriteFragment(newFragment(2, "jpg", 0, data)))

	f, err := os.Open(filepath.Join(dir, "jpg-fragment-2.jpg.zst"))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, data, decompress(t, fragment.CodecZstd, f))
}

func TestWriterRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()

	w, err := fragment.NewWriter(fragment.Options{Dir: dir, Codec: fragment.Codec(99)}, logger.Discard())
	require.NoError(t, err)

	err = w.WriteFragment(newFragment(1, "jpg", 0, []byte{0xFF, 0xD8}))
	require.ErrorIs(t, err, fragment.ErrUnknownCodec)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
	require.Zero(t, w.Stats().Written)
}

func TestWriterDedup(t *testing.T) {
	dir := t.TempDir()

	w, err := fragment.NewWriter(fragment.Options{Dir: dir, Dedup: true}, logger.Discard())
	require.NoError(t, err)

	data := []byte("same content")
	require.NoError(t, w.WriteFragment(newFragment(1, "txt", 0, data)))
	require.NoError(t, w.WriteFragment(newFragment(2, "txt", 50, data)))
	require.NoError(t, w.WriteFragment(newFragment(3, "txt", 90, []byte("other content"))))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	stats := w.Stats()
	require.Equal(t, 2, stats.Written)
	require.Equal(t, 1, stats.Duplicates)
}

func TestWriterWithoutDir(t *testing.T) {
	n := 0
	w, err := fragment.NewWriter(fragment.Options{
		OnRecord: func(fragment.Record) error {
			n++
			return nil
		},
	}, logger.Discard())
	require.NoError(t, err)

	require.NoError(t, w.WriteFragment(newFragment(1, "png", 0, []byte{1, 2, 3})))
	require.Equal(t, 1, n)
}

func mustDecodeHex(t *testing.T, s string) []byte {
	t.Helper()

	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}
