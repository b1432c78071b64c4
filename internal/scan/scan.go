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
package scan

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ostafen/rescue/internal/env"
	"github.com/ostafen/rescue/internal/format"
	"github.com/ostafen/rescue/internal/fragment"
	"github.com/ostafen/rescue/internal/logger"
	"github.com/ostafen/rescue/internal/mmap"
	"github.com/ostafen/rescue/pkg/dfxml"
	"github.com/ostafen/rescue/pkg/pbar"
	osutils "github.com/ostafen/rescue/pkg/util/os"
)

type Options struct {
	DumpDir     string
	ReportFile  string
	Offset      uint64
	MaxScanSize uint64
	Formats     []string
	Plugins     []string
	Format      format.Config
	Codec       fragment.Codec
	Dedup       bool
	DisableLog  bool
	LogLevel    slog.Level
	// NoProgress disables the progress bar.
	NoProgress bool
	// Stdout receives the console summary. Defaults to os.Stdout.
	Stdout io.Writer
}

type Result struct {
	Session    string
	ReportFile string
	LogFile    string
	Scan       format.Stats
	Fragments  fragment.Stats
	Duration   time.Duration

	// Unterminated counts headers for which no footer was found.
	Unterminated int
}

// Scan maps the image at filePath, carves it with the selected formats and
// writes fragments and the DFXML report.
func Scan(ctx context.Context, filePath string, opts Options) (*Result, error) {
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}

	registry, err := BuildRegistry(opts.Formats, opts.Plugins)
	if err != nil {
		return nil, err
	}

	mf, err := mmap.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer mf.Close()

	buf, err := scanWindow(mf.Data, opts.Offset, opts.MaxScanSize)
	if err != nil {
		return nil, err
	}

	session := GenSessionID()
	res := &Result{
		Session:    session,
		ReportFile: opts.ReportFile,
	}
	if res.ReportFile == "" {
		res.ReportFile = fmt.Sprintf("report_%s.xml", session)
	}

	if opts.DumpDir != "" {
		if _, err := osutils.EnsureDir(opts.DumpDir, false); err != nil {
			return nil, err
		}
	}

	log := logger.Discard()
	if !opts.DisableLog {
		res.LogFile = absPath(filepath.Join(opts.DumpDir, session) + ".log")

		fileLog, logFile, err := logger.NewFile(res.LogFile, opts.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %q: %w", res.LogFile, err)
		}
		defer logFile.Close()
		log = fileLog
	}

	reportFile, err := os.Create(res.ReportFile)
	if err != nil {
		return nil, err
	}
	defer reportFile.Close()

	report := dfxml.NewDFXMLWriter(reportFile)
	err = report.WriteHeader(dfxml.DFXMLHeader{
		XmlOutput: dfxml.XmlOutputVersion,
		Metadata:  dfxml.DefaultMetadata,
		Creator: dfxml.Creator{
			Package:              env.AppName,
			Version:              env.Version,
			ExecutionEnvironment: dfxml.GetExecEnv(),
		},
		Source: dfxml.Source{
			ImageFilename: absPath(filePath),
			ImageSize:     uint64(mf.Len()),
		},
	})
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(out, "[INFO] Starting scanning operation...")
	fmt.Fprintf(out, "[INFO] Source: \t%s\n", absPath(filePath))
	fmt.Fprintf(out, "[INFO] File Types: \t%s\n", strings.Join(registry.Exts(), ","))
	if opts.DumpDir != "" {
		fmt.Fprintf(out, "[INFO] Destination: \t%s\n", absPath(opts.DumpDir))
	}
	outLog := "disabled"
	if !opts.DisableLog {
		outLog = res.LogFile
	}
	fmt.Fprintf(out, "[INFO] Output Log: \t%s\n", outLog)

	writer, err := fragment.NewWriter(fragment.Options{
		Dir:   opts.DumpDir,
		Codec: opts.Codec,
		Dedup: opts.Dedup,
		OnRecord: func(rec fragment.Record) error {
			return report.WriteFileObject(fileObject(rec, opts.Offset))
		},
	}, log)
	if err != nil {
		return nil, err
	}

	var bar *pbar.ProgressBar
	slogObs := format.SlogObserver{Logger: log}
	scanOpts := []format.ScannerOption{
		format.WithObserver(format.ObserverFunc(func(e format.Event) {
			if e.Kind == format.EventFooterNotFound {
				res.Unterminated++
			}
			slogObs.Observe(e)
		})),
	}
	if !opts.NoProgress {
		bar = pbar.New(out, int64(len(buf)))
		scanOpts = append(scanOpts, format.WithProgress(func(scanned, _ int) {
			bar.Update(int64(scanned), writer.Stats().Written)
		}))
	}

	sc, err := format.NewScanner(registry, opts.Format, scanOpts...)
	if err != nil {
		return nil, err
	}

	log.Info("scan started", "source", filePath, "offset", opts.Offset, "size", len(buf), "formats", registry.Exts())

	start := time.Now()
	res.Scan, err = sc.Scan(ctx, buf, writer)
	res.Duration = time.Since(start)
	res.Fragments = writer.Stats()

	if bar != nil {
		bar.Finish()
	}

	if closeErr := report.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		log.Error("scan aborted", "err", err)
		return res, err
	}

	log.Info("scan completed", "fragments", res.Fragments.Written, "duplicates", res.Fragments.Duplicates, "unterminated", res.Unterminated)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "[INFO] Scan completed!\n")
	fmt.Fprintf(out, "[INFO] Files found: \t%d\n", res.Fragments.Written)
	if opts.Dedup {
		fmt.Fprintf(out, "[INFO] Duplicates skipped: \t%d\n", res.Fragments.Duplicates)
	}
	if res.Unterminated > 0 {
		fmt.Fprintf(out, "[INFO] Headers without footer: \t%d\n", res.Unterminated)
	}
	fmt.Fprintf(out, "[INFO] Recovered data: \t%s\n", humanize.IBytes(res.Fragments.Bytes))
	fmt.Fprintf(out, "[INFO] Total data: \t%s\n", humanize.IBytes(uint64(len(buf))))
	fmt.Fprintf(out, "[INFO] Duration: \t%s\n", pbar.FormatDurationHMS(res.Duration))
	fmt.Fprintf(out, "[INFO] Report saved to: \t%s\n", absPath(res.ReportFile))
	if !opts.DisableLog {
		fmt.Fprintf(out, "[INFO] Detailed scan log: \t%s\n", res.LogFile)
	}
	return res, nil
}

// BuildRegistry returns the built-in formats plus those provided by plugins,
// restricted to exts when given.
func BuildRegistry(exts []string, plugins []string) (*format.Registry, error) {
	registry := format.DefaultRegistry()

	pluginFormats, err := format.LoadPlugins(plugins...)
	if err != nil {
		return nil, fmt.Errorf("failed to load plugins: %w", err)
	}
	for _, f := range pluginFormats {
		if err := registry.Add(f); err != nil {
			return nil, err
		}
	}
	return registry.Select(exts...)
}

func scanWindow(data []byte, offset, maxSize uint64) ([]byte, error) {
	if offset >= uint64(len(data)) {
		return nil, fmt.Errorf("offset %d is beyond image size %d", offset, len(data))
	}

	buf := data[offset:]
	if maxSize > 0 && maxSize < uint64(len(buf)) {
		buf = buf[:maxSize]
	}
	return buf, nil
}

func fileObject(rec fragment.Record, baseOffset uint64) dfxml.FileObject {
	return dfxml.FileObject{
		Filename: rec.Name,
		FileSize: rec.Size,
		ByteRuns: dfxml.ByteRuns{
			Runs: []dfxml.ByteRun{{
				Offset:    0,
				ImgOffset: baseOffset + rec.Offset,
				Length:    rec.Size,
			}},
		},
		HashDigests: []dfxml.HashDigest{{
			Type:  dfxml.HashBLAKE3,
			Value: rec.BLAKE3,
		}},
	}
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// GenSessionID names a scan session after its start time, as YYYYMMDD_HHMMSS.
func GenSessionID() string {
	return time.Now().Format("20060102_150405")
}
