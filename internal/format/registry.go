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
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrUnknownFormat = errors.New("unknown format")

const (
	DefaultMaxFooterSearch = 40 * 1024 * 1024
	DefaultMinRunLength    = 1024
)

// Config holds the tunables shared by the built-in detectors.
type Config struct {
	// MaxFooterSearch bounds how far after a header a footer is looked for.
	MaxFooterSearch int
	// MinRunLength is the shortest classification run reported as a file.
	MinRunLength int
}

func DefaultConfig() Config {
	return Config{
		MaxFooterSearch: DefaultMaxFooterSearch,
		MinRunLength:    DefaultMinRunLength,
	}
}

func (c Config) Validate() error {
	if c.MaxFooterSearch <= 0 {
		return fmt.Errorf("max footer search must be greater than 0, got %d", c.MaxFooterSearch)
	}
	if c.MinRunLength <= 0 {
		return fmt.Errorf("min run length must be greater than 0, got %d", c.MinRunLength)
	}
	return nil
}

// Format describes a detectable file format. New builds a fresh detector,
// so that per-scan state is never shared between scans.
type Format struct {
	Ext         string
	Description string
	New         func(cfg Config) Detector
}

// Registry is an ordered set of formats. The order is the order in which
// detectors run at each position.
type Registry struct {
	formats []Format
}

func NewRegistry(formats ...Format) (*Registry, error) {
	r := &Registry{}
	for _, f := range formats {
		if err := r.Add(f); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Add(f Format) error {
	if f.Ext == "" {
		return fmt.Errorf("format has no extension")
	}
	if f.New == nil {
		return fmt.Errorf("format %q has no detector constructor", f.Ext)
	}
	if _, ok := r.Get(f.Ext); ok {
		return fmt.Errorf("format %q already registered", f.Ext)
	}
	r.formats = append(r.formats, f)
	return nil
}

func (r *Registry) Get(ext string) (Format, bool) {
	idx := slices.IndexFunc(r.formats, func(f Format) bool {
		return f.Ext == ext
	})
	if idx < 0 {
		return Format{}, false
	}
	return r.formats[idx], true
}

func (r *Registry) Formats() []Format {
	return slices.Clone(r.formats)
}

func (r *Registry) Exts() []string {
	exts := make([]string, len(r.formats))
	for i, f := range r.formats {
		exts[i] = f.Ext
	}
	return exts
}

// Select returns a registry restricted to the given extensions, keeping the
// registration order. No extensions selects every format.
func (r *Registry) Select(exts ...string) (*Registry, error) {
	if len(exts) == 0 {
		return &Registry{formats: r.Formats()}, nil
	}

	wanted := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		if _, ok := r.Get(ext); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
		}
		wanted[ext] = true
	}

	sel := &Registry{}
	for _, f := range r.formats {
		if wanted[f.Ext] {
			sel.formats = append(sel.formats, f)
		}
	}
	return sel, nil
}

// Detectors builds one fresh detector per registered format.
func (r *Registry) Detectors(cfg Config) []Detector {
	detectors := make([]Detector, len(r.formats))
	for i, f := range r.formats {
		detectors[i] = f.New(cfg)
	}
	return detectors
}
