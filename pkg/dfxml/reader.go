package dfxml

import (
	"encoding/xml"
	"io"
)

// Report is the part of a DFXML document needed to locate fragments again.
type Report struct {
	Source  Source
	Objects []FileObject
}

// ReadReport parses the <source> element and every <fileobject> element from r.
func ReadReport(r io.Reader) (*Report, error) {
	dec := xml.NewDecoder(r)
	report := &Report{}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "source":
			if err := dec.DecodeElement(&report.Source, &start); err != nil {
				return nil, err
			}
		case "fileobject":
			var fo FileObject
			if err := dec.DecodeElement(&fo, &start); err != nil {
				return nil, err
			}
			report.Objects = append(report.Objects, fo)
		}
	}
	return report, nil
}

// ReadFileObjects parses and returns all <fileobject> elements from r.
func ReadFileObjects(r io.Reader) ([]FileObject, error) {
	report, err := ReadReport(r)
	if err != nil {
		return nil, err
	}
	return report.Objects, nil
}
