package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ostafen/rescue/internal/fragment"
	"github.com/stretchr/testify/require"
)

func TestParseOptionsFlagsOverrideConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "rescue.yaml")
	err := os.WriteFile(cfgPath, []byte(`
output:
  dir: from-config
  compression: gzip
text:
  min_length: 2KiB
`), 0644)
	require.NoError(t, err)

	scanCmd, _, err := NewRootCommand().Find([]string{"scan"})
	require.NoError(t, err)

	err = scanCmd.ParseFlags([]string{
		"--config", cfgPath,
		"--dump", "from-flag",
		"--max-footer-search", "1MiB",
		"--offset", "4KiB",
		"--ext", "jpg,txt",
	})
	require.NoError(t, err)

	opts, err := parseOptions(scanCmd)
	require.NoError(t, err)
	require.Equal(t, "from-flag", opts.DumpDir)
	require.Equal(t, fragment.CodecGzip, opts.Codec)
	require.Equal(t, 2048, opts.Format.MinRunLength)
	require.Equal(t, 1<<20, opts.Format.MaxFooterSearch)
	require.Equal(t, uint64(4096), opts.Offset)
	require.Zero(t, opts.MaxScanSize)
	require.Equal(t, []string{"jpg", "txt"}, opts.Formats)
}

func TestParseOptionsInvalid(t *testing.T) {
	scanCmd, _, err := NewRootCommand().Find([]string{"scan"})
	require.NoError(t, err)

	require.NoError(t, scanCmd.ParseFlags([]string{"--compress", "bzip2"}))
	_, err = parseOptions(scanCmd)
	require.Error(t, err)
}

func TestGetMountpoint(t *testing.T) {
	require.Equal(t, "report_1", getMountpoint("/tmp/report_1.xml"))
	require.Equal(t, "report_mnt", getMountpoint("report"))
}
