// Package detect classifies input files into supported kinds by extension.
package detect

import (
	"path/filepath"
	"strings"

	"github.com/Revicx/russian-anki/internal/errors"
)

// Kind is a supported input file kind.
type Kind string

const (
	KindText     Kind = "text"
	KindMarkdown Kind = "markdown"
	KindDocx     Kind = "docx"
	// KindPDFText is the initial classification of every PDF. The PDF
	// extractor decides whether to fall back to OCR, not the detector.
	KindPDFText    Kind = "pdf-text"
	KindPDFScanned Kind = "pdf-scanned"
	KindImage      Kind = "image"
)

var kindByExt = map[string]Kind{
	".txt":  KindText,
	".md":   KindMarkdown,
	".docx": KindDocx,
	".pdf":  KindPDFText,
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
}

// Classify returns the kind for a file path, or an UNSUPPORTED_FORMAT error.
// Classification is by extension only, case-insensitive; no content sniffing.
func Classify(path string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	kind, ok := kindByExt[ext]
	if !ok {
		return "", errors.NewUnsupportedFormat(path, ext)
	}
	return kind, nil
}

// Supported reports whether the path has a recognized extension.
func Supported(path string) bool {
	_, err := Classify(path)
	return err == nil
}
