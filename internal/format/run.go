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
package format

// ByteClass reports whether a byte belongs to a character class.
type ByteClass func(b byte) bool

// RangeClass returns a ByteClass accepting bytes in [lo, hi].
func RangeClass(lo, hi byte) ByteClass {
	return func(b byte) bool {
		return b >= lo && b <= hi
	}
}

// PrintableASCII accepts the printable ASCII range, space through tilde.
var PrintableASCII = RangeClass(0x20, 0x7E)

// RunDetector has no header: it measures the maximal run of bytes starting at
// the current position that all belong to a class, and accepts it when the run
// is at least minLen bytes long.
//
// Each byte is classified at most once per scan: after a run has been measured,
// accepted or not, the cursor moves past it and positions inside it are skipped.
type RunDetector struct {
	ext    string
	desc   string
	class  ByteClass
	minLen int

	cursor Cursor
}

func NewRunDetector(ext, desc string, class ByteClass, minLen int) *RunDetector {
	return &RunDetector{
		ext:    ext,
		desc:   desc,
		class:  class,
		minLen: minLen,
	}
}

func (d *RunDetector) Ext() string {
	return d.ext
}

func (d *RunDetector) Description() string {
	return d.desc
}

func (d *RunDetector) Signatures() []Signature {
	return nil
}

func (d *RunDetector) Detect(buf []byte, pos int, obs Observer) (Span, bool) {
	if d.cursor.Covers(pos) {
		return Span{}, false
	}

	end := pos
	for end < len(buf) && d.class(buf[end]) {
		end++
	}
	d.cursor.Advance(end)

	n := end - pos
	if n == 0 {
		return Span{}, false
	}
	if n < d.minLen {
		obs.Observe(Event{Kind: EventRunRejected, Ext: d.ext, Offset: pos, Length: n})
		return Span{}, false
	}

	obs.Observe(Event{Kind: EventRunAccepted, Ext: d.ext, Offset: pos, Length: n})
	return Span{Start: pos, End: end, Ext: d.ext}, true
}
