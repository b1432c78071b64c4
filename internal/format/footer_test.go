package format_test

import (
	"math"
	"testing"

	"github.com/ostafen/rescue/internal/format"
	"github.com/stretchr/testify/require"
)

var jfifHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01}

// jpegBlock returns a JFIF block of exactly n bytes ending with the EOI marker.
func jpegBlock(n int) []byte {
	b := make([]byte, n)
	copy(b, jfifHeader)
	b[n-2] = 0xFF
	b[n-1] = 0xD9
	return b
}

type eventRecorder struct {
	events []format.Event
}

func (r *eventRecorder) Observe(e format.Event) {
	r.events = append(r.events, e)
}

func (r *eventRecorder) kinds() []format.EventKind {
	kinds := make([]format.EventKind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}
	return kinds
}

func newJPEGDetector(maxSearch int) format.Detector {
	cfg := format.DefaultConfig()
	cfg.MaxFooterSearch = maxSearch
	return format.JPEGFormat.New(cfg)
}

func TestFooterDetectorSpanEndsAfterFooter(t *testing.T) {
	buf := append([]byte{0x00, 0x00}, jpegBlock(64)...)
	buf = append(buf, 0x00, 0x00, 0x00, 0x00)

	d := newJPEGDetector(format.DefaultMaxFooterSearch)

	span, ok := d.Detect(buf, 2, format.NopObserver)
	require.True(t, ok)
	require.Equal(t, 2, span.Start)
	require.Equal(t, 2+62+2, span.End)
	require.Equal(t, "jpg", span.Ext)

	_, ok = d.Detect(buf, 0, format.NopObserver)
	require.False(t, ok)
	_, ok = d.Detect(buf, 3, format.NopObserver)
	require.False(t, ok)
}

func TestFooterDetectorExifHeader(t *testing.T) {
	buf := jpegBlock(32)
	copy(buf, []byte{0xFF, 0xD8, 0xFF, 0xE1, 0xAB, 0xCD, 'E', 'x', 'i', 'f', 0x00, 0x00})

	span, ok := newJPEGDetector(format.DefaultMaxFooterSearch).Detect(buf, 0, format.NopObserver)
	require.True(t, ok)
	require.Equal(t, 32, span.End)
}

func TestFooterDetectorSkipsContinuation(t *testing.T) {
	buf := jpegBlock(64)
	// A footer followed by FF E1 introduces another part of the stream.
	copy(buf[20:], []byte{0xFF, 0xD9, 0xFF, 0xE1})

	span, ok := newJPEGDetector(format.DefaultMaxFooterSearch).Detect(buf, 0, format.NopObserver)
	require.True(t, ok)
	require.Equal(t, 64, span.End)

	// A footer followed by anything else terminates the file.
	copy(buf[20:], []byte{0xFF, 0xD9, 0xFF, 0xE2})
	span, ok = newJPEGDetector(format.DefaultMaxFooterSearch).Detect(buf, 0, format.NopObserver)
	require.True(t, ok)
	require.Equal(t, 22, span.End)
}

func TestFooterDetectorTruncatedContinuation(t *testing.T) {
	// Only one byte of the continuation marker fits in the buffer.
	buf := append(jpegBlock(40), 0xFF)

	span, ok := newJPEGDetector(format.DefaultMaxFooterSearch).Detect(buf, 0, format.NopObserver)
	require.True(t, ok)
	require.Equal(t, 40, span.End)
}

func TestFooterDetectorNoFooter(t *testing.T) {
	buf := jpegBlock(64)
	buf[62], buf[63] = 0x00, 0x00

	rec := &eventRecorder{}
	_, ok := newJPEGDetector(format.DefaultMaxFooterSearch).Detect(buf, 0, rec)
	require.False(t, ok)
	require.Equal(t, []format.EventKind{format.EventHeaderFound, format.EventFooterNotFound}, rec.kinds())
}

func TestFooterDetectorSearchBound(t *testing.T) {
	buf := jpegBlock(100) // footer at offset 98

	_, ok := newJPEGDetector(97).Detect(buf, 0, format.NopObserver)
	require.False(t, ok)

	span, ok := newJPEGDetector(98).Detect(buf, 0, format.NopObserver)
	require.True(t, ok)
	require.Equal(t, 100, span.End)
}

func TestFooterDetectorUnboundedSearch(t *testing.T) {
	buf := append([]byte{0x00, 0x00}, jpegBlock(64)...)

	span, ok := newJPEGDetector(math.MaxInt).Detect(buf, 2, format.NopObserver)
	require.True(t, ok)
	require.Equal(t, 2, span.Start)
	require.Equal(t, len(buf), span.End)
}

func TestFooterDetectorIgnoresFooterInHeader(t *testing.T) {
	buf := jpegBlock(64)
	// The segment length bytes are unmatched and may hold the footer bytes.
	buf[4], buf[5] = 0xFF, 0xD9

	span, ok := newJPEGDetector(format.DefaultMaxFooterSearch).Detect(buf, 0, format.NopObserver)
	require.True(t, ok)
	require.Equal(t, 64, span.End)
}

func TestFooterDetectorTruncatedHeader(t *testing.T) {
	buf := jfifHeader[:8]

	rec := &eventRecorder{}
	_, ok := newJPEGDetector(format.DefaultMaxFooterSearch).Detect(buf, 0, rec)
	require.False(t, ok)
	require.Empty(t, rec.events)
}

func TestPNGAndPDFFormats(t *testing.T) {
	cfg := format.DefaultConfig()

	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	png = append(png, []byte{'I', 'E', 'N', 'D', 0xAE, 0x42, 0x60, 0x82}...)
	png = append(png, 0x00, 0x00)

	span, ok := format.PNGFormat.New(cfg).Detect(png, 0, format.NopObserver)
	require.True(t, ok)
	require.Equal(t, len(png)-2, span.End)

	pdf := []byte("%PDF-1.4\n1 0 obj\nendobj\n%%EOF\n")
	span, ok = format.PDFFormat.New(cfg).Detect(pdf, 0, format.NopObserver)
	require.True(t, ok)
	require.Equal(t, len(pdf)-1, span.End)
	require.Equal(t, "pdf", span.Ext)
}
