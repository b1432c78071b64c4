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

// Span is a candidate file found in the scanned buffer: bytes [Start, End) tagged
// with the extension of the format that produced it.
type Span struct {
	Start int
	End   int
	Ext   string
}

func (s Span) Len() int {
	return s.End - s.Start
}

// Detector recognizes one file format at a given buffer position.
//
// Detect is invoked by the Scanner at every position of the buffer, in
// increasing order. It must never write to buf nor read at or past len(buf).
// A detector that needs state between calls (such as a dedup cursor) owns it;
// a fresh Detector is built for every scan.
type Detector interface {
	Ext() string
	Description() string
	// Signatures returns the header signatures, if any. Used for listing only.
	Signatures() []Signature
	Detect(buf []byte, pos int, obs Observer) (Span, bool)
}

// Cursor is a per-detector watermark: positions before it were already
// classified and must not be reported again. It never moves backwards.
type Cursor struct {
	pos int
}

func (c *Cursor) Covers(pos int) bool {
	return pos < c.pos
}

func (c *Cursor) Advance(end int) {
	c.pos = max(c.pos, end)
}
