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
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ostafen/rescue/internal/fragment"
	"github.com/ostafen/rescue/pkg/dfxml"
	"github.com/zeebo/blake3"
)

var ErrDigestMismatch = errors.New("digest mismatch")

// Entry locates a recovered fragment inside the scanned image.
type Entry struct {
	// Name is the fragment file name without any compression suffix.
	Name   string
	Offset uint64
	Size   uint64
	BLAKE3 string
}

// ReadReport loads the fragment entries listed in a DFXML report.
func ReadReport(path string) ([]Entry, *dfxml.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	report, err := dfxml.ReadReport(bufio.NewReader(f))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse report %q: %w", path, err)
	}

	entries := make([]Entry, len(report.Objects))
	for i, o := range report.Objects {
		runs := o.ByteRuns.Runs
		if len(runs) != 1 {
			return nil, nil, fmt.Errorf("invalid report file: %q has %d byte runs", o.Filename, len(runs))
		}
		_, name := fragment.SplitName(o.Filename)
		digest, _ := o.Digest(dfxml.HashBLAKE3)

		entries[i] = Entry{
			Name:   name,
			Offset: runs[0].ImgOffset,
			Size:   runs[0].Length,
			BLAKE3: digest,
		}
	}
	return entries, &report.Source, nil
}

type RecoverStats struct {
	Recovered int
	Failed    int
	Bytes     uint64
}

// Recover extracts every entry from r into outDir. Entries that cannot be
// extracted or whose content does not match the recorded digest are logged
// and counted as failed.
func Recover(ctx context.Context, r io.ReaderAt, entries []Entry, outDir string, log *slog.Logger) (RecoverStats, error) {
	var stats RecoverStats
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		path := filepath.Join(outDir, e.Name)
		log.Info("recovering file", "file", path, "offset", e.Offset, "size", e.Size)

		if err := DumpFile(r, path, e); err != nil {
			log.Error("unable to dump file", "file", e.Name, "err", err)
			stats.Failed++
			continue
		}
		stats.Recovered++
		stats.Bytes += e.Size
	}
	return stats, nil
}

// DumpFile copies the bytes of e from r to path. When e carries a digest the
// copy is verified and removed on mismatch.
func DumpFile(r io.ReaderAt, path string, e Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	h := blake3.New()
	bw := bufio.NewWriterSize(f, 1024*1024)

	n, err := io.Copy(io.MultiWriter(bw, h), io.NewSectionReader(r, int64(e.Offset), int64(e.Size)))
	if err == nil && uint64(n) != e.Size {
		err = fmt.Errorf("short read: got %d of %d bytes", n, e.Size)
	}
	if err == nil {
		err = bw.Flush()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	if err == nil && e.BLAKE3 != "" {
		if sum := hex.EncodeToString(h.Sum(nil)); sum != e.BLAKE3 {
			err = fmt.Errorf("%w: expected %s, got %s", ErrDigestMismatch, e.BLAKE3, sum)
		}
	}

	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
