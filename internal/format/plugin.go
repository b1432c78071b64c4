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
	"fmt"
	"plugin"
)

// PluginSymbol is the constructor every format plugin must export:
//
//	func NewFormat() (format.Format, error)
const PluginSymbol = "NewFormat"

// LoadPlugins opens the given Go plugins and returns the formats they provide.
func LoadPlugins(paths ...string) ([]Format, error) {
	formats := make([]Format, 0, len(paths))
	for _, path := range paths {
		f, err := loadPlugin(path)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: %w", path, err)
		}
		formats = append(formats, f)
	}
	return formats, nil
}

func loadPlugin(path string) (Format, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return Format{}, err
	}

	sym, err := p.Lookup(PluginSymbol)
	if err != nil {
		return Format{}, err
	}

	newFormat, ok := sym.(func() (Format, error))
	if !ok {
		return Format{}, fmt.Errorf("symbol %s has type %T, expected func() (format.Format, error)", PluginSymbol, sym)
	}
	return newFormat()
}
