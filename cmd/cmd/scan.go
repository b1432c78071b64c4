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
package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ostafen/rescue/internal/config"
	"github.com/ostafen/rescue/internal/format"
	"github.com/ostafen/rescue/internal/fragment"
	"github.com/ostafen/rescue/internal/logger"
	"github.com/ostafen/rescue/internal/scan"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func DefineScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <image>",
		Short: "Scan an image file or disk",
		Long: `The 'scan' command carves files out of a disk image by looking for known signatures.
Recovered fragments are written to the dump directory and described in a DFXML report
that can later be used by the 'recover' and 'mount' commands.
Flags explicitly set on the command line override values read from the configuration file.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunScan,
	}

	maxFooterSearch := config.ByteSize(format.DefaultMaxFooterSearch)
	minTextLength := config.ByteSize(format.DefaultMinRunLength)

	cmd.Flags().StringP("dump", "d", "", "dump the found files to the specified directory")
	cmd.Flags().StringP("output", "o", "", "the path of the scan report file")
	cmd.Flags().Var(new(config.ByteSize), "offset", "start scanning at the given offset")
	cmd.Flags().Var(new(config.ByteSize), "max-scan-size", "max number of bytes to scan")
	cmd.Flags().Var(&maxFooterSearch, "max-footer-search", "maximum distance between a header and its footer")
	cmd.Flags().Var(&minTextLength, "min-text-length", "minimum length of a recovered text run")
	cmd.Flags().StringSlice("ext", nil, "file extensions to parse")
	cmd.Flags().String("compress", "none", "compression of dumped files: none, gzip, zstd or lz4")
	cmd.Flags().Bool("dedup", false, "skip files whose content was already dumped")
	cmd.Flags().Bool("no-log", false, "disable logging")
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")
	cmd.Flags().StringSlice("plugins", nil, "paths to plugin .so files or directories containing plugins")

	return cmd
}

func RunScan(cmd *cobra.Command, args []string) error {
	opts, err := parseOptions(cmd)
	if err != nil {
		return err
	}

	_, err = scan.Scan(cmd.Context(), args[0], opts)
	return err
}

func parseOptions(cmd *cobra.Command) (scan.Options, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return scan.Options{}, err
	}
	applyFlags(cmd.Flags(), cfg)

	if err := cfg.Validate(); err != nil {
		return scan.Options{}, err
	}

	codec, err := fragment.ParseCodec(cfg.Output.Compression)
	if err != nil {
		return scan.Options{}, err
	}

	plugins, _ := cmd.Flags().GetStringSlice("plugins")
	pluginPaths, err := listPlugins(plugins)
	if err != nil {
		return scan.Options{}, err
	}

	noProgress, _ := cmd.Flags().GetBool("no-progress")

	return scan.Options{
		DumpDir:     cfg.Output.Dir,
		ReportFile:  cfg.Output.Report,
		Offset:      uint64(sizeFlag(cmd.Flags(), "offset")),
		MaxScanSize: uint64(sizeFlag(cmd.Flags(), "max-scan-size")),
		Formats:     cfg.Formats,
		Plugins:     pluginPaths,
		Format:      cfg.FormatConfig(),
		Codec:       codec,
		Dedup:       cfg.Output.Dedup,
		DisableLog:  cfg.Log.Disable,
		LogLevel:    logger.ParseLevel(cfg.Log.Level),
		NoProgress:  noProgress,
	}, nil
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "dump":
			cfg.Output.Dir = f.Value.String()
		case "output":
			cfg.Output.Report = f.Value.String()
		case "compress":
			cfg.Output.Compression = f.Value.String()
		case "dedup":
			cfg.Output.Dedup, _ = flags.GetBool(f.Name)
		case "ext":
			cfg.Formats, _ = flags.GetStringSlice(f.Name)
		case "max-footer-search":
			cfg.Footer.MaxSearch = sizeFlag(flags, f.Name)
		case "min-text-length":
			cfg.Text.MinLength = sizeFlag(flags, f.Name)
		case "no-log":
			cfg.Log.Disable, _ = flags.GetBool(f.Name)
		case "log-level":
			cfg.Log.Level = f.Value.String()
		}
	})
}

func sizeFlag(flags *pflag.FlagSet, name string) config.ByteSize {
	f := flags.Lookup(name)
	if f == nil {
		return 0
	}
	if b, ok := f.Value.(*config.ByteSize); ok {
		return *b
	}
	return 0
}

// listPlugins expands plugin paths: if path is a file, add it directly;
// if path is a directory, scan it recursively for .so files.
func listPlugins(plugins []string) ([]string, error) {
	var pluginPaths []string

	for _, p := range plugins {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if !strings.HasSuffix(info.Name(), ".so") {
				return nil, fmt.Errorf("plugin file %s does not have .so extension", info.Name())
			}
			pluginPaths = append(pluginPaths, p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), ".so") {
				pluginPaths = append(pluginPaths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return pluginPaths, nil
}
