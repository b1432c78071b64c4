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

import "bytes"

// FooterDetector finds files made of a recognizable header followed, within a
// bounded distance, by an end marker. All header variants share one mask.
//
// A footer immediately followed by Continuation marks a multi-part stream and
// does not end the file; the search goes on past it.
type FooterDetector struct {
	ext          string
	desc         string
	headers      []Signature
	footer       []byte
	continuation []byte
	maxSearch    int
}

func NewFooterDetector(
	ext, desc string,
	headers []Signature,
	footer, continuation []byte,
	maxSearch int,
) *FooterDetector {
	return &FooterDetector{
		ext:          ext,
		desc:         desc,
		headers:      headers,
		footer:       footer,
		continuation: continuation,
		maxSearch:    maxSearch,
	}
}

func (d *FooterDetector) Ext() string {
	return d.ext
}

func (d *FooterDetector) Description() string {
	return d.desc
}

func (d *FooterDetector) Signatures() []Signature {
	return d.headers
}

func (d *FooterDetector) Detect(buf []byte, pos int, obs Observer) (Span, bool) {
	hdr, ok := d.matchHeader(buf, pos)
	if !ok {
		return Span{}, false
	}

	obs.Observe(Event{Kind: EventHeaderFound, Ext: d.ext, Offset: pos})

	end, found := d.findFooter(buf, pos, pos+hdr.Len())
	if !found {
		obs.Observe(Event{Kind: EventFooterNotFound, Ext: d.ext, Offset: pos})
		return Span{}, false
	}
	return Span{Start: pos, End: end, Ext: d.ext}, true
}

func (d *FooterDetector) matchHeader(buf []byte, pos int) (Signature, bool) {
	for _, hdr := range d.headers {
		if hdr.MatchAt(buf, pos) {
			return hdr, true
		}
	}
	return Signature{}, false
}

// findFooter returns one byte past the first footer found at or after from
// which is not followed by the continuation marker. The footer must start no
// more than maxSearch bytes after start.
func (d *FooterDetector) findFooter(buf []byte, start, from int) (int, bool) {
	last := len(buf) - len(d.footer)
	if d.maxSearch >= 0 && d.maxSearch < last-start {
		last = start + d.maxSearch
	}

	for p := from; p <= last; {
		idx := bytes.Index(buf[p:last+len(d.footer)], d.footer)
		if idx < 0 {
			return 0, false
		}
		p += idx

		end := p + len(d.footer)
		if !d.continues(buf, end) {
			return end, true
		}
		p++
	}
	return 0, false
}

func (d *FooterDetector) continues(buf []byte, end int) bool {
	if len(d.continuation) == 0 {
		return false
	}
	return bytes.HasPrefix(buf[end:], d.continuation)
}
