// Command gif is an example format plugin. Build it with
//
//	go build -buildmode=plugin -o gif.so ./plugins/gif
//
// and pass the resulting file to --plugins.
package main

import "github.com/ostafen/rescue/internal/format"

var (
	gif87a = format.ExactSignature([]byte("GIF87a"))
	gif89a = format.ExactSignature([]byte("GIF89a"))

	// last image block terminator followed by the trailer
	gifTrailer = []byte{0x00, 0x3B}
)

const maxGIFSize = 16 * 1024 * 1024

// NewFormat is looked up by format.LoadPlugins.
func NewFormat() (format.Format, error) {
	return format.Format{
		Ext:         "gif",
		Description: "Graphics Interchange Format image",
		New: func(cfg format.Config) format.Detector {
			return format.NewFooterDetector(
				"gif",
				"Graphics Interchange Format image",
				[]format.Signature{gif87a, gif89a},
				gifTrailer,
				nil,
				min(cfg.MaxFooterSearch, maxGIFSize),
			)
		},
	}, nil
}

func main() {}
