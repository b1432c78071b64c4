// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package fragment

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/ostafen/rescue/internal/format"
	osutils "github.com/ostafen/rescue/pkg/util/os"
	"github.com/zeebo/blake3"
)

const writeBufferSize = 1024 * 1024

// Record describes a fragment accepted by the Writer.
type Record struct {
	ID     uint64
	Ext    string
	Name   string // file name inside the dump directory
	Offset uint64 // offset of the first byte within the scanned image
	Size   uint64 // uncompressed size
	BLAKE3 string // hex digest of the uncompressed content
}

type Options struct {
	// Dir receives the fragment files. When empty fragments are only recorded.
	Dir   string
	Codec Codec
	// Dedup drops fragments whose content equals one already accepted.
	Dedup bool
	// OnRecord, if set, is called for every accepted fragment after it was written.
	OnRecord func(Record) error
}

type Stats struct {
	Written    int
	Duplicates int
	Bytes      uint64
}

// Writer persists fragments emitted by a format.Scanner.
type Writer struct {
	opts   Options
	logger *slog.Logger

	// xxhash of the content → BLAKE3 digests seen with that hash
	seen  map[uint64][]string
	stats Stats
}

func NewWriter(opts Options, logger *slog.Logger) (*Writer, error) {
	if opts.Dir != "" {
		if _, err := osutils.EnsureDir(opts.Dir, false); err != nil {
			return nil, err
		}
	}

	return &Writer{
		opts:   opts,
		logger: logger,
		seen:   make(map[uint64][]string),
	}, nil
}

// FileName returns the name of the file holding fragment id.
func FileName(id uint64, ext string, codec Codec) string {
	return fmt.Sprintf("%s-fragment-%d.%s%s", ext, id, ext, codec.Ext())
}

func (w *Writer) WriteFragment(f format.Fragment) error {
	sum := blake3.Sum256(f.Data)
	digest := hex.EncodeToString(sum[:])

	if w.opts.Dedup && w.isDuplicate(f.Data, digest) {
		w.stats.Duplicates++
		w.logger.Debug("skipping duplicate fragment", "id", f.ID, "ext", f.Ext, "offset", f.Start, "blake3", digest)
		return nil
	}

	rec := Record{
		ID:     f.ID,
		Ext:    f.Ext,
		Name:   FileName(f.ID, f.Ext, w.opts.Codec),
		Offset: uint64(f.Start),
		Size:   uint64(f.Len()),
		BLAKE3: digest,
	}

	if w.opts.Dir != "" {
		if err := w.writeFile(rec.Name, f.Data); err != nil {
			return err
		}
		w.logger.Info("wrote fragment", "file", rec.Name, "size", rec.Size)
	}

	w.stats.Written++
	w.stats.Bytes += rec.Size

	if w.opts.OnRecord != nil {
		return w.opts.OnRecord(rec)
	}
	return nil
}

func (w *Writer) isDuplicate(data []byte, digest string) bool {
	key := xxhash.Sum64(data)
	for _, d := range w.seen[key] {
		if d == digest {
			return true
		}
	}
	w.seen[key] = append(w.seen[key], digest)
	return false
}

// writeFile stores data under name. A file that could not be fully written is removed.
func (w *Writer) writeFile(name string, data []byte) error {
	path := filepath.Join(w.opts.Dir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", name, err)
	}

	err = writeCompressed(f, w.opts.Codec, data)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write file %q: %w", name, err)
	}
	return nil
}

func writeCompressed(dst io.Writer, codec Codec, data []byte) error {
	bw := bufio.NewWriterSize(dst, writeBufferSize)

	cw, err := codec.NewWriter(bw)
	if err != nil {
		return err
	}
	if _, err := cw.Write(data); err != nil {
		return err
	}
	if err := cw.Close(); err != nil {
		return err
	}
	return bw.Flush()
}

func (w *Writer) Stats() Stats {
	return w.stats
}
