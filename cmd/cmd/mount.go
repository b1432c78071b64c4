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
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ostafen/rescue/internal/fuse"
	"github.com/ostafen/rescue/internal/logger"
	"github.com/ostafen/rescue/internal/scan"
	"github.com/spf13/cobra"
)

func DefineMountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mount <image_path> <report_file>",
		Short: "Mount a disk image to a specified mountpoint",
		Long: `The 'mount' command exposes the files listed in a scan report as a read-only filesystem.
File contents are read directly from the image, so nothing is copied.
You must provide the full path to the image file and the report file.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         RunMount,
	}

	cmd.Flags().StringP("mountpoint", "m", "", "Absolute path to the directory where the filesystem will be mounted. If not specified, a default will be generated.")
	return cmd
}

func RunMount(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	log := logger.New(os.Stdout, logger.ParseLevel(level))

	f, entries, err := openReport(args[0], args[1], log)
	if err != nil {
		return err
	}
	defer f.Close()

	mountpoint, _ := cmd.Flags().GetString("mountpoint")
	if mountpoint == "" {
		mountpoint = getMountpoint(args[1])
	}

	fileEntries := make([]fuse.FileEntry, len(entries))
	for i, e := range entries {
		fileEntries[i] = fuse.FileEntry{
			Name:   e.Name,
			Offset: e.Offset,
			Size:   e.Size,
		}
	}
	return fuse.Mount(cmd.Context(), mountpoint, f, fileEntries, log)
}

// getMountpoint generates a mountpoint name from a report file name by stripping the extension.
// If the extension is empty, "_mnt" is added.
func getMountpoint(reportFileName string) string {
	baseName := filepath.Base(reportFileName)
	ext := filepath.Ext(baseName)
	baseName = strings.TrimSuffix(baseName, ext)
	mountpoint := baseName
	if ext == "" {
		mountpoint += "_mnt"
	}
	return mountpoint
}

// openReport opens the image and loads the entries of its report, warning
// when the image size differs from the one recorded at scan time.
func openReport(imagePath, reportPath string, log *slog.Logger) (*os.File, []scan.Entry, error) {
	entries, src, err := scan.ReadReport(reportPath)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(imagePath)
	if err != nil {
		return nil, nil, err
	}

	if fi, err := f.Stat(); err == nil && fi.Mode().IsRegular() && uint64(fi.Size()) != src.ImageSize {
		log.Warn("image size differs from the scanned one", "image", imagePath, "size", fi.Size(), "expected", src.ImageSize)
	}
	return f, entries, nil
}
