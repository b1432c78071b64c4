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

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Signature is a fixed-length byte pattern paired with a mask of the same length.
// A window matches when (window[i] & Mask[i]) == Pattern[i] for every i.
// A zero mask byte turns the corresponding position into a wildcard.
type Signature struct {
	Pattern []byte
	Mask    []byte
}

// NewSignature builds a Signature, rejecting pattern/mask pairs of different
// length and pattern bits that fall outside the mask (those could never match).
func NewSignature(pattern, mask []byte) (Signature, error) {
	if len(pattern) == 0 {
		return Signature{}, fmt.Errorf("empty signature pattern")
	}
	if len(pattern) != len(mask) {
		return Signature{}, fmt.Errorf("pattern length %d does not match mask length %d", len(pattern), len(mask))
	}
	for i := range pattern {
		if pattern[i]&^mask[i] != 0 {
			return Signature{}, fmt.Errorf("pattern byte %#02x at index %d is not covered by mask %#02x", pattern[i], i, mask[i])
		}
	}
	return Signature{Pattern: pattern, Mask: mask}, nil
}

// MustSignature is like NewSignature but panics on error.
// It is meant for package-level signature tables.
func MustSignature(pattern, mask []byte) Signature {
	sig, err := NewSignature(pattern, mask)
	if err != nil {
		panic(err)
	}
	return sig
}

// ExactSignature returns a Signature with every mask bit set.
func ExactSignature(pattern []byte) Signature {
	mask := make([]byte, len(pattern))
	for i := range mask {
		mask[i] = 0xFF
	}
	return Signature{Pattern: pattern, Mask: mask}
}

func (s Signature) Len() int {
	return len(s.Pattern)
}

// Match reports whether window starts with the signature.
// It stops at the end of window, so a window shorter than the signature never matches.
func (s Signature) Match(window []byte) bool {
	for i, p := range s.Pattern {
		if i >= len(window) {
			return false
		}
		if window[i]&s.Mask[i] != p {
			return false
		}
	}
	return true
}

// MatchAt reports whether the signature matches buf starting at pos.
func (s Signature) MatchAt(buf []byte, pos int) bool {
	if pos < 0 || pos >= len(buf) {
		return false
	}
	return s.Match(buf[pos:])
}

// String renders the signature as hex, using "??" for fully masked out bytes
// and "xx/mm" for partially masked ones.
func (s Signature) String() string {
	var sb strings.Builder
	for i, p := range s.Pattern {
		switch s.Mask[i] {
		case 0xFF:
			sb.WriteString(hex.EncodeToString([]byte{p}))
		case 0x00:
			sb.WriteString("??")
		default:
			fmt.Fprintf(&sb, "%02x/%02x", p, s.Mask[i])
		}
	}
	return sb.String()
}
