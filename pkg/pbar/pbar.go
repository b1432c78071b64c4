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
package pbar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const MinRefreshRate = time.Millisecond * 500

const barLength = 20

// ProgressBar renders scan progress on a single, continuously rewritten line.
type ProgressBar struct {
	out io.Writer

	TotalBytes     int64
	ProcessedBytes int64
	FilesFound     int

	startTime          time.Time
	lastUpdateTime     time.Time
	lastProcessedBytes int64
}

func New(out io.Writer, totalBytes int64) *ProgressBar {
	now := time.Now()
	return &ProgressBar{
		out:            out,
		TotalBytes:     totalBytes,
		startTime:      now,
		lastUpdateTime: now,
	}
}

// Update records the current position and redraws the bar if enough time has passed.
func (pb *ProgressBar) Update(processed int64, filesFound int) {
	pb.ProcessedBytes = processed
	pb.FilesFound = filesFound
	pb.Render(false)
}

// Render prints the progress line. Unless force is set, it is rate limited to MinRefreshRate.
func (pb *ProgressBar) Render(force bool) {
	elapsed := time.Since(pb.lastUpdateTime)
	if !force && elapsed < MinRefreshRate {
		return
	}

	percentage := 100.0
	if pb.TotalBytes > 0 {
		percentage = float64(pb.ProcessedBytes) / float64(pb.TotalBytes) * 100
	}

	speed := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		speed = float64(pb.ProcessedBytes-pb.lastProcessedBytes) / secs
	}

	eta := "calculating..."
	if pb.ProcessedBytes > 0 && speed > 0 {
		remaining := time.Duration(float64(pb.TotalBytes-pb.ProcessedBytes) / speed * float64(time.Second))
		eta = FormatDurationHMS(remaining) + " remaining"
	}

	pb.lastUpdateTime = time.Now()
	pb.lastProcessedBytes = pb.ProcessedBytes

	// Trailing spaces clear leftovers of a previous, longer line.
	fmt.Fprintf(pb.out, "\r[INFO] Progress: [%s] %3.0f%% (%s/%s) | Files Found: %d | @ %s/s [%s]    ",
		bar(percentage),
		percentage,
		humanize.IBytes(uint64(pb.ProcessedBytes)),
		humanize.IBytes(uint64(pb.TotalBytes)),
		pb.FilesFound,
		humanize.IBytes(uint64(speed)),
		eta,
	)
}

// Finish draws the final state and moves to the next line.
func (pb *ProgressBar) Finish() {
	pb.Render(true)
	fmt.Fprintln(pb.out)
}

func (pb *ProgressBar) Elapsed() time.Duration {
	return time.Since(pb.startTime)
}

func bar(percentage float64) string {
	filled := min(int(float64(barLength)*percentage/100), barLength)
	if filled == barLength {
		return strings.Repeat("=", barLength)
	}
	return strings.Repeat("=", filled) + ">" + strings.Repeat(" ", barLength-filled-1)
}

// FormatDurationHMS formats d as HH:MM:SS, or as fractional seconds below one second.
func FormatDurationHMS(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	total := int64(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
