package format_test

import (
	"bytes"
	"testing"

	"github.com/ostafen/rescue/internal/format"
	"github.com/stretchr/testify/require"
)

func newTextDetector(minLen int) format.Detector {
	cfg := format.DefaultConfig()
	cfg.MinRunLength = minLen
	return format.TextFormat.New(cfg)
}

func TestRunDetectorThreshold(t *testing.T) {
	const threshold = 1024

	short := append(bytes.Repeat([]byte("a"), threshold-1), 0x00)
	rec := &eventRecorder{}
	_, ok := newTextDetector(threshold).Detect(short, 0, rec)
	require.False(t, ok)
	require.Equal(t, []format.EventKind{format.EventRunRejected}, rec.kinds())
	require.Equal(t, threshold-1, rec.events[0].Length)

	exact := append(bytes.Repeat([]byte("a"), threshold), 0x00)
	span, ok := newTextDetector(threshold).Detect(exact, 0, format.NopObserver)
	require.True(t, ok)
	require.Equal(t, format.Span{Start: 0, End: threshold, Ext: "txt"}, span)
}

func TestRunDetectorRunToBufferEnd(t *testing.T) {
	buf := append([]byte{0x01}, bytes.Repeat([]byte("~ "), 8)...)

	span, ok := newTextDetector(16).Detect(buf, 1, format.NopObserver)
	require.True(t, ok)
	require.Equal(t, len(buf), span.End)
}

func TestRunDetectorClassBounds(t *testing.T) {
	require.True(t, format.PrintableASCII(0x20))
	require.True(t, format.PrintableASCII(0x7E))
	require.False(t, format.PrintableASCII(0x1F))
	require.False(t, format.PrintableASCII(0x7F))
	require.False(t, format.PrintableASCII('\n'))
}

func TestRunDetectorReportsOnce(t *testing.T) {
	buf := bytes.Repeat([]byte("x"), 40)
	buf = append(buf, 0x00)
	buf = append(buf, bytes.Repeat([]byte("y"), 10)...)

	d := newTextDetector(32)

	var spans []format.Span
	for pass := 0; pass < 2; pass++ {
		for pos := range buf {
			if span, ok := d.Detect(buf, pos, format.NopObserver); ok {
				spans = append(spans, span)
			}
		}
	}
	require.Equal(t, []format.Span{{Start: 0, End: 40, Ext: "txt"}}, spans)
}

func TestRunDetectorRejectedRunIsNotReclassified(t *testing.T) {
	buf := append(bytes.Repeat([]byte("z"), 10), 0x00)

	d := newTextDetector(32)
	rec := &eventRecorder{}
	for pos := range buf {
		_, ok := d.Detect(buf, pos, rec)
		require.False(t, ok)
	}
	require.Len(t, rec.events, 1)
	require.Equal(t, format.EventRunRejected, rec.events[0].Kind)
	require.Equal(t, 0, rec.events[0].Offset)
}

func TestCursorIsMonotonic(t *testing.T) {
	var c format.Cursor
	require.False(t, c.Covers(0))

	c.Advance(10)
	require.True(t, c.Covers(9))
	require.False(t, c.Covers(10))

	c.Advance(5)
	require.True(t, c.Covers(9))
	require.False(t, c.Covers(10))
}
