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
package format

var (
	jpegMask = []byte{
		0xFF, 0xFF, 0xFF, 0xFF,
		0x00, 0x00, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF,
	}

	// JFIF and EXIF headers differ in the APPn marker and the identifier string.
	// Bytes 4 and 5 hold the segment length and are left unmatched.
	jfifHeader = MustSignature([]byte{
		0xFF, 0xD8, 0xFF, 0xE0,
		0x00, 0x00, 'J', 'F',
		'I', 'F', 0x00, 0x01,
	}, jpegMask)

	exifHeader = MustSignature([]byte{
		0xFF, 0xD8, 0xFF, 0xE1,
		0x00, 0x00, 'E', 'x',
		'i', 'f', 0x00, 0x00,
	}, jpegMask)

	jpegFooter       = []byte{0xFF, 0xD9}
	jpegContinuation = []byte{0xFF, 0xE1}
)

var (
	pngHeader = ExactSignature([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A})
	// IEND chunk type followed by its CRC, which never changes since the chunk is empty.
	pngFooter = []byte{'I', 'E', 'N', 'D', 0xAE, 0x42, 0x60, 0x82}
)

var (
	pdfHeader = MustSignature(
		[]byte{'%', 'P', 'D', 'F', '-', '1', '.', 0x00},
		[]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00},
	)
	pdfFooter = []byte("%%EOF")
)

var JPEGFormat = Format{
	Ext:         "jpg",
	Description: "JPEG image (JFIF/EXIF)",
	New: func(cfg Config) Detector {
		return NewFooterDetector(
			"jpg",
			"JPEG image (JFIF/EXIF)",
			[]Signature{jfifHeader, exifHeader},
			jpegFooter,
			jpegContinuation,
			cfg.MaxFooterSearch,
		)
	},
}

var PNGFormat = Format{
	Ext:         "png",
	Description: "Portable Network Graphics image",
	New: func(cfg Config) Detector {
		return NewFooterDetector(
			"png",
			"Portable Network Graphics image",
			[]Signature{pngHeader},
			pngFooter,
			nil,
			cfg.MaxFooterSearch,
		)
	},
}

var PDFFormat = Format{
	Ext:         "pdf",
	Description: "Portable Document Format",
	New: func(cfg Config) Detector {
		return NewFooterDetector(
			"pdf",
			"Portable Document Format",
			[]Signature{pdfHeader},
			pdfFooter,
			nil,
			cfg.MaxFooterSearch,
		)
	},
}

var TextFormat = Format{
	Ext:         "txt",
	Description: "Plain text (printable ASCII run)",
	New: func(cfg Config) Detector {
		return NewRunDetector(
			"txt",
			"Plain text (printable ASCII run)",
			PrintableASCII,
			cfg.MinRunLength,
		)
	},
}

// DefaultFormats lists the built-in formats in detection order.
var DefaultFormats = []Format{
	JPEGFormat,
	PNGFormat,
	PDFFormat,
	TextFormat,
}

func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultFormats...)
	if err != nil {
		panic(err)
	}
	return r
}
