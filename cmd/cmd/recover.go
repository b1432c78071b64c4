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
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ostafen/rescue/internal/logger"
	"github.com/ostafen/rescue/internal/scan"
	osutils "github.com/ostafen/rescue/pkg/util/os"
	"github.com/spf13/cobra"
)

func DefineRecoverCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover <image_path> <report_file>",
		Short: "Recover files from a disk image using a scan report",
		Long: `The 'recover' command extracts files from a disk image or device based on the information provided in a scan report.
The scan report contains metadata and file information needed for recovery.
You must provide the full path to the image file and the report file.
Recovered files will be saved to the specified output directory and verified against the digests in the report.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         RunRecover,
	}
	cmd.Flags().StringP("output-dir", "i", "", "Absolute path to the directory where recovered data will be placed.")
	return cmd
}

func RunRecover(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	log := logger.New(os.Stdout, logger.ParseLevel(level))

	f, entries, err := openReport(args[0], args[1], log)
	if err != nil {
		return err
	}
	defer f.Close()

	outDir, _ := cmd.Flags().GetString("output-dir")
	if outDir == "" {
		wdir, err := os.Getwd()
		if err != nil {
			return err
		}

		base := filepath.Base(args[1])
		name := strings.TrimSuffix(base, filepath.Ext(base))
		outDir = filepath.Join(wdir, name+"-dump")
	}

	if _, err := osutils.EnsureDir(outDir, true); err != nil {
		return err
	}

	stats, err := scan.Recover(cmd.Context(), f, entries, outDir, log)
	if err != nil {
		return err
	}

	log.Info("recovery completed",
		"recovered", stats.Recovered,
		"failed", stats.Failed,
		"size", humanize.IBytes(stats.Bytes),
		"dir", outDir,
	)
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d files could not be recovered", stats.Failed, len(entries))
	}
	return nil
}
