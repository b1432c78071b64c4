package dfxml_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ostafen/rescue/pkg/dfxml"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadReport(t *testing.T) {
	var buf bytes.Buffer

	w := dfxml.NewDFXMLWriter(&buf)
	require.NoError(t, w.WriteHeader(dfxml.DFXMLHeader{
		XmlOutput: dfxml.XmlOutputVersion,
		Metadata:  dfxml.DefaultMetadata,
		Creator: dfxml.Creator{
			Package:              "rescue",
			Version:              "test",
			ExecutionEnvironment: dfxml.GetExecEnv(),
		},
		Source: dfxml.Source{
			ImageFilename: "disk.img",
			ImageSize:     4096,
		},
	}))

	obj := dfxml.FileObject{
		Filename: "jpg-fragment-1.jpg",
		FileSize: 100,
		ByteRuns: dfxml.ByteRuns{
			Runs: []dfxml.ByteRun{{Offset: 0, ImgOffset: 2000, Length: 100}},
		},
		HashDigests: []dfxml.HashDigest{{Type: dfxml.HashBLAKE3, Value: "abcd"}},
	}
	require.NoError(t, w.WriteFileObject(obj))
	require.NoError(t, w.Close())

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "<?xml"))
	require.Contains(t, out, `<dfxml xmloutputversion="1.0">`)
	require.Contains(t, out, `<hashdigest type="blake3">abcd</hashdigest>`)
	require.True(t, strings.HasSuffix(strings.TrimSpace(out), "</dfxml>"))

	report, err := dfxml.ReadReport(&buf)
	require.NoError(t, err)
	require.Equal(t, "disk.img", report.Source.ImageFilename)
	require.Equal(t, uint64(4096), report.Source.ImageSize)
	require.Len(t, report.Objects, 1)

	got := report.Objects[0]
	require.Equal(t, obj.Filename, got.Filename)
	require.Equal(t, obj.ByteRuns, got.ByteRuns)

	digest, ok := got.Digest(dfxml.HashBLAKE3)
	require.True(t, ok)
	require.Equal(t, "abcd", digest)

	_, ok = got.Digest("sha1")
	require.False(t, ok)
}
