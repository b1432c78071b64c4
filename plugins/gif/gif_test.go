package main

import (
	"testing"

	"github.com/ostafen/rescue/internal/format"
	"github.com/stretchr/testify/require"
)

func TestNewFormat(t *testing.T) {
	f, err := NewFormat()
	require.NoError(t, err)
	require.Equal(t, "gif", f.Ext)

	buf := append([]byte("xxGIF89a"), make([]byte, 20)...)
	buf = append(buf, 0x00, 0x3B, 'y')

	d := f.New(format.DefaultConfig())
	span, ok := d.Detect(buf, 2, format.NopObserver)
	require.True(t, ok)
	require.Equal(t, 2, span.Start)
	require.Equal(t, len(buf)-1, span.End)
}
