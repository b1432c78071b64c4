package format_test

import (
	"testing"

	"github.com/ostafen/rescue/internal/format"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryOrder(t *testing.T) {
	r := format.DefaultRegistry()
	require.Equal(t, []string{"jpg", "png", "pdf", "txt"}, r.Exts())

	detectors := r.Detectors(format.DefaultConfig())
	require.Len(t, detectors, 4)
	for i, d := range detectors {
		require.Equal(t, r.Exts()[i], d.Ext())
		require.NotEmpty(t, d.Description())
	}
	require.Len(t, detectors[0].Signatures(), 2)
	require.Empty(t, detectors[3].Signatures())
}

func TestRegistrySelect(t *testing.T) {
	r := format.DefaultRegistry()

	sel, err := r.Select("TXT", ".jpg")
	require.NoError(t, err)
	require.Equal(t, []string{"jpg", "txt"}, sel.Exts())

	all, err := r.Select()
	require.NoError(t, err)
	require.Equal(t, r.Exts(), all.Exts())

	_, err = r.Select("docx")
	require.ErrorIs(t, err, format.ErrUnknownFormat)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := format.DefaultRegistry()
	require.Error(t, r.Add(format.TextFormat))
	require.Error(t, r.Add(format.Format{Ext: "bin"}))
	require.Error(t, r.Add(format.Format{}))
}

func TestDetectorsAreFreshPerCall(t *testing.T) {
	r := format.DefaultRegistry()
	a := r.Detectors(format.DefaultConfig())
	b := r.Detectors(format.DefaultConfig())
	require.NotSame(t, a[3], b[3])
}

func TestJPEGSignatureString(t *testing.T) {
	d := format.JPEGFormat.New(format.DefaultConfig())
	require.Equal(t, "ffd8ffe0????4a4649460001", d.Signatures()[0].String())
}
