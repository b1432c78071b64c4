package pbar_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ostafen/rescue/pkg/pbar"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	var buf bytes.Buffer

	pb := pbar.New(&buf, 1000)
	pb.Update(500, 3)
	require.Empty(t, buf.String(), "updates are rate limited")

	pb.Finish()
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\r[INFO] Progress: [==========>         ]  50%"))
	require.Contains(t, out, "Files Found: 3")
	require.True(t, strings.HasSuffix(out, "\n"))
}

func TestRenderComplete(t *testing.T) {
	var buf bytes.Buffer

	pb := pbar.New(&buf, 10)
	pb.ProcessedBytes = 10
	pb.Render(true)
	require.Contains(t, buf.String(), "[====================] 100%")
}

func TestFormatDurationHMS(t *testing.T) {
	require.Equal(t, "0.50s", pbar.FormatDurationHMS(500*time.Millisecond))
	require.Equal(t, "01:01:05", pbar.FormatDurationHMS(time.Hour+time.Minute+5*time.Second))
	require.Equal(t, "26:00:00", pbar.FormatDurationHMS(26*time.Hour))
}
