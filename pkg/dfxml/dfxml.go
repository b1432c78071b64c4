// Package dfxml writes and reads carve reports in Digital Forensics XML.
package dfxml

import (
	"encoding/xml"
	"os"
	"os/user"
	"runtime"
	"strconv"
	"time"

	"github.com/ostafen/rescue/pkg/sysinfo"
)

const XmlOutputVersion = "1.0"

// HashBLAKE3 is the hashdigest type recorded for every fragment.
const HashBLAKE3 = "blake3"

var DefaultMetadata = Metadata{
	Xmlns:    "http://www.forensicswiki.org/wiki/Category:Digital_Forensics_XML",
	XmlnsXsi: "http://www.w3.org/2001/XMLSchema-instance",
	XmlnsDC:  "http://purl.org/dc/elements/1.1/",
	Type:     "Carve Report",
}

// DFXMLHeader is everything in a report preceding the file objects.
type DFXMLHeader struct {
	XMLName   xml.Name `xml:"dfxml"`
	XmlOutput string   `xml:"xmloutputversion,attr,omitempty"`
	Metadata  Metadata `xml:"metadata"`
	Creator   Creator  `xml:"creator"`
	Source    Source   `xml:"source"`
}

type Metadata struct {
	Xmlns    string `xml:"xmlns,attr"`
	XmlnsXsi string `xml:"xmlns:xsi,attr"`
	XmlnsDC  string `xml:"xmlns:dc,attr"`
	Type     string `xml:"dc:type"`
}

type Creator struct {
	Package              string  `xml:"package"`
	Version              string  `xml:"version"`
	ExecutionEnvironment ExecEnv `xml:"execution_environment"`
}

type ExecEnv struct {
	OS      string `xml:"os_sysname"`
	Release string `xml:"os_release"`
	Version string `xml:"os_version"`
	Host    string `xml:"host"`
	Arch    string `xml:"arch"`
	UID     int    `xml:"uid"`
	Start   string `xml:"start_time"`
}

// Source describes the scanned image.
type Source struct {
	ImageFilename string `xml:"image_filename"`
	ImageSize     uint64 `xml:"image_size"`
}

// FileObject is one recovered fragment.
type FileObject struct {
	XMLName     xml.Name     `xml:"fileobject"`
	Filename    string       `xml:"filename"`
	FileSize    uint64       `xml:"filesize"`
	ByteRuns    ByteRuns     `xml:"byte_runs"`
	HashDigests []HashDigest `xml:"hashdigest,omitempty"`
}

type ByteRuns struct {
	Runs []ByteRun `xml:"byte_run"`
}

// ByteRun is a contiguous extent of the image belonging to a file object.
type ByteRun struct {
	Offset    uint64 `xml:"offset,attr"`     // logical offset within the file object
	ImgOffset uint64 `xml:"img_offset,attr"` // physical offset within the image
	Length    uint64 `xml:"len,attr"`
}

type HashDigest struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

// Digest returns the value of the first digest of the given type.
func (o FileObject) Digest(typ string) (string, bool) {
	for _, h := range o.HashDigests {
		if h.Type == typ {
			return h.Value, true
		}
	}
	return "", false
}

// GetExecEnv describes the host running the scan.
func GetExecEnv() ExecEnv {
	sinfo, err := sysinfo.Stat()
	if err != nil {
		sinfo = &sysinfo.SysUnknown
	}

	host, err := os.Hostname()
	if err != nil {
		host = "unknown_host"
	}

	arch := sinfo.Machine
	if arch == "" {
		arch = runtime.GOARCH
	}

	uid := 0
	if u, err := user.Current(); err == nil {
		if n, err := strconv.Atoi(u.Uid); err == nil {
			uid = n
		}
	}

	return ExecEnv{
		OS:      sinfo.Name,
		Release: sinfo.Release,
		Version: sinfo.Version,
		Host:    host,
		Arch:    arch,
		UID:     uid,
		Start:   time.Now().UTC().Format(time.RFC3339),
	}
}
