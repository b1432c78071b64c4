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

// Package config loads scan settings from a YAML file.
//
// The file is optional: every field has a default and command-line flags
// explicitly set by the user take precedence over values read from the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/ostafen/rescue/internal/format"
	"github.com/ostafen/rescue/internal/fragment"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid configuration")

// EnvConfigPath names the environment variable consulted when no --config flag is given.
const EnvConfigPath = "RESCUE_CONFIG"

type Config struct {
	// Formats restricts the scan to the listed extensions. Empty means all.
	Formats []string     `yaml:"formats"`
	Footer  FooterConfig `yaml:"footer"`
	Text    TextConfig   `yaml:"text"`
	Output  OutputConfig `yaml:"output"`
	Log     LogConfig    `yaml:"log"`
}

type FooterConfig struct {
	// MaxSearch bounds the distance between a header and its footer.
	MaxSearch ByteSize `yaml:"max_search"`
}

type TextConfig struct {
	// MinLength is the shortest printable run recovered as a text file.
	MinLength ByteSize `yaml:"min_length"`
}

type OutputConfig struct {
	// Dir is where fragments are written. Empty disables dumping.
	Dir string `yaml:"dir"`
	// Report is the DFXML report path. Empty means report_<session>.xml.
	Report string `yaml:"report"`
	// Compression is one of none, gzip, zstd, lz4.
	Compression string `yaml:"compression"`
	// Dedup skips fragments whose content was already written.
	Dedup bool `yaml:"dedup"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Disable bool   `yaml:"disable"`
}

func Default() *Config {
	return &Config{
		Footer: FooterConfig{MaxSearch: format.DefaultMaxFooterSearch},
		Text:   TextConfig{MinLength: format.DefaultMinRunLength},
		Output: OutputConfig{
			Compression: fragment.CodecNone.String(),
		},
		Log: LogConfig{Level: "INFO"},
	}
}

// Load reads the file at path, or the one named by RESCUE_CONFIG when path is
// empty. With neither set, the defaults are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %q: %w", path, err)
	}
	defer f.Close()

	cfg := Default()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	cfg.Output.Dir = os.ExpandEnv(cfg.Output.Dir)
	cfg.Output.Report = os.ExpandEnv(cfg.Output.Report)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the tunables. Format names are checked once plugins are loaded.
func (c *Config) Validate() error {
	for name, size := range map[string]ByteSize{
		"footer.max_search": c.Footer.MaxSearch,
		"text.min_length":   c.Text.MinLength,
	} {
		if uint64(size) > math.MaxInt {
			return fmt.Errorf("%w: %s must not exceed %d bytes, got %d", ErrInvalid, name, math.MaxInt, uint64(size))
		}
	}
	if err := c.FormatConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	if _, err := fragment.ParseCodec(c.Output.Compression); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	return nil
}

// FormatConfig returns the detector tunables.
func (c *Config) FormatConfig() format.Config {
	return format.Config{
		MaxFooterSearch: int(c.Footer.MaxSearch),
		MinRunLength:    int(c.Text.MinLength),
	}
}

// ByteSize is a size in bytes that may be written either as an integer or as a
// human readable string such as "40MiB" or "4MB".
type ByteSize uint64

func ParseByteSize(s string) (ByteSize, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	return ByteSize(n), nil
}

func (b *ByteSize) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a size, got a %s", value.Line, kindName(value.Kind))
	}

	if n, err := strconv.ParseUint(value.Value, 10, 64); err == nil {
		*b = ByteSize(n)
		return nil
	}

	n, err := ParseByteSize(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*b = n
	return nil
}

func (b ByteSize) MarshalYAML() (any, error) {
	return humanize.IBytes(uint64(b)), nil
}

func (b ByteSize) String() string {
	return humanize.IBytes(uint64(b))
}

// Set and Type let a ByteSize back a command-line flag.
func (b *ByteSize) Set(s string) error {
	n, err := ParseByteSize(s)
	if err != nil {
		return err
	}
	*b = n
	return nil
}

func (*ByteSize) Type() string {
	return "size"
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
