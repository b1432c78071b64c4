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
	"context"
	"errors"
	"fmt"
	"iter"
)

var ErrEmptyBuffer = errors.New("empty scan buffer")

// cancelCheckInterval is the number of positions scanned between two context checks.
const cancelCheckInterval = 64 * 1024

// Fragment is a span accepted during a scan, numbered in emission order.
// Data aliases the scanned buffer and is only valid while that buffer is.
type Fragment struct {
	ID uint64
	Span
	Data []byte
}

// Sink consumes the fragments produced by a scan.
type Sink interface {
	WriteFragment(f Fragment) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(f Fragment) error

func (fn SinkFunc) WriteFragment(f Fragment) error { return fn(f) }

// Stats summarizes a completed scan.
type Stats struct {
	BytesScanned int
	Fragments    int
	ByExt        map[string]int
}

type ScannerOption func(*Scanner)

// WithObserver sets the receiver of detector diagnostics.
func WithObserver(obs Observer) ScannerOption {
	return func(sc *Scanner) {
		sc.obs = obs
	}
}

// WithProgress registers a callback invoked each time another tenth of a
// percent of the buffer has been scanned, and once at the end.
func WithProgress(fn func(scanned, total int)) ScannerOption {
	return func(sc *Scanner) {
		sc.progress = fn
	}
}

// Scanner walks a buffer one byte at a time and runs every detector at each
// position, in registry order.
type Scanner struct {
	registry *Registry
	cfg      Config
	obs      Observer
	progress func(scanned, total int)

	nextID uint64
}

func NewScanner(registry *Registry, cfg Config, opts ...ScannerOption) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sc := &Scanner{
		registry: registry,
		cfg:      cfg,
		obs:      NopObserver,
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc, nil
}

// Scan runs every detector over buf and passes accepted fragments to sink.
// A sink error stops the scan. The buffer is never modified.
func (sc *Scanner) Scan(ctx context.Context, buf []byte, sink Sink) (Stats, error) {
	stats := Stats{ByExt: make(map[string]int)}

	for f, err := range sc.Fragments(ctx, buf) {
		if err != nil {
			return stats, err
		}

		if err := sink.WriteFragment(f); err != nil {
			return stats, fmt.Errorf("fragment %d (%s at offset %d): %w", f.ID, f.Ext, f.Start, err)
		}
		stats.Fragments++
		stats.ByExt[f.Ext]++
	}
	stats.BytesScanned = len(buf)
	return stats, nil
}

// Fragments returns an iterator over the fragments found in buf. If the scan
// cannot start or ctx is cancelled, the iterator yields a single error and stops.
func (sc *Scanner) Fragments(ctx context.Context, buf []byte) iter.Seq2[Fragment, error] {
	return func(yield func(Fragment, error) bool) {
		if len(buf) == 0 {
			yield(Fragment{}, ErrEmptyBuffer)
			return
		}

		detectors := sc.registry.Detectors(sc.cfg)

		total := len(buf)
		lastPermille := -1

		for pos := 0; pos < total; pos++ {
			if pos%cancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					yield(Fragment{}, fmt.Errorf("scan interrupted at offset %d: %w", pos, err))
					return
				}
			}

			if sc.progress != nil {
				if permille := int(int64(pos) * 1000 / int64(total)); permille > lastPermille {
					lastPermille = permille
					sc.progress(pos, total)
				}
			}

			for _, d := range detectors {
				span, ok := d.Detect(buf, pos, sc.obs)
				if !ok {
					continue
				}

				sc.nextID++
				f := Fragment{
					ID:   sc.nextID,
					Span: span,
					Data: buf[span.Start:span.End],
				}
				if !yield(f, nil) {
					return
				}
			}
		}

		if sc.progress != nil {
			sc.progress(total, total)
		}
	}
}
