package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/Revicx/russian-anki/internal/errors"
)

// DocxExtractor walks the paragraph structure of a Word document.
// A .docx file is a zip archive; the paragraph text lives in w:t elements of
// word/document.xml. Tables and headers are best-effort out of scope.
type DocxExtractor struct{}

// Extract returns one fragment per non-empty paragraph.
func (DocxExtractor) Extract(_ context.Context, path string) ([]Fragment, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.NewExtraction(path, err)
	}
	defer zr.Close()

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return nil, errors.NewExtraction(path, fmt.Errorf("word/document.xml missing"))
	}

	rc, err := doc.Open()
	if err != nil {
		return nil, errors.NewExtraction(path, err)
	}
	defer rc.Close()

	paragraphs, err := docxParagraphs(rc)
	if err != nil {
		return nil, errors.NewExtraction(path, err)
	}

	fragments := make([]Fragment, 0, len(paragraphs))
	for _, p := range paragraphs {
		fragments = append(fragments, Fragment{Source: path, Text: p})
	}
	return fragments, nil
}

// docxParagraphs streams document.xml and collects the text of each w:p
// element, concatenating its w:t runs.
func docxParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var paragraphs []string
	var current strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if text := strings.TrimSpace(current.String()); text != "" {
					paragraphs = append(paragraphs, text)
				}
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	// Trailing run outside a closed paragraph (malformed but tolerated).
	if text := strings.TrimSpace(current.String()); text != "" {
		paragraphs = append(paragraphs, text)
	}

	return paragraphs, nil
}
