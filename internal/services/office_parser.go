package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	docxBodyPath = "word/document.xml"
	odtBodyPath  = "content.xml"
)

var errNoTextContent = errors.New("no text content found")

// officeParser reads the XML body of zip based office documents (DOCX, ODT).
type officeParser struct{}

func (officeParser) ExtractDOCX(data []byte) (string, error) {
	return extractZippedXML(data, docxBodyPath, docxParagraph)
}

func (officeParser) ExtractODT(data []byte) (string, error) {
	return extractZippedXML(data, odtBodyPath, odtParagraph)
}

// paragraphSpec decides which XML elements hold text and which end a line.
type paragraphSpec struct {
	text  func(xml.Name) bool
	block func(xml.Name) bool
	tab   func(xml.Name) bool
}

var docxParagraph = paragraphSpec{
	text:  func(n xml.Name) bool { return n.Local == "t" },
	block: func(n xml.Name) bool { return n.Local == "p" || n.Local == "br" },
	tab:   func(n xml.Name) bool { return n.Local == "tab" },
}

var odtParagraph = paragraphSpec{
	text:  func(n xml.Name) bool { return n.Local == "p" || n.Local == "h" || n.Local == "span" },
	block: func(n xml.Name) bool { return n.Local == "p" || n.Local == "h" || n.Local == "line-break" },
	tab:   func(n xml.Name) bool { return n.Local == "tab" || n.Local == "s" },
}

func extractZippedXML(data []byte, member string, spec paragraphSpec) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == member {
			body = f
			break
		}
	}
	if body == nil {
		return "", fmt.Errorf("archive has no %s", member)
	}

	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", member, err)
	}
	defer rc.Close()

	text, err := collectXMLText(rc, spec)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errNoTextContent
	}
	return text, nil
}

func collectXMLText(r io.Reader, spec paragraphSpec) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	depth := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to decode document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if spec.text(t.Name) {
				depth++
			}
			if spec.tab(t.Name) {
				sb.WriteByte(' ')
			}
		case xml.EndElement:
			if spec.text(t.Name) && depth > 0 {
				depth--
			}
			if spec.block(t.Name) {
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if depth > 0 {
				sb.Write(t)
			}
		}
	}

	return CleanText(sb.String()), nil
}
