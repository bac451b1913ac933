package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/Revicx/russian-anki/internal/errors"
)

// PDFTextExtractor extracts the text layer of a born-digital PDF page by page.
// When the whole document yields too little alphabetic text it returns a
// NO_TEXT_LAYER error instead of near-empty fragments, and the orchestrator
// re-dispatches the file to the OCR extractor.
type PDFTextExtractor struct {
	// MinDensity is the minimum number of alphabetic runes per page the text
	// layer must yield. Zero means any non-empty text is accepted.
	MinDensity int
}

// Extract returns one fragment per page with extractable text.
func (e PDFTextExtractor) Extract(ctx context.Context, path string) (fragments []Fragment, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			fragments = nil
			err = errors.NewExtraction(path, fmt.Errorf("pdf parse panic: %v", r))
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, errors.NewExtraction(path, err)
	}
	defer f.Close()

	total := reader.NumPage()
	letters := 0

	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not fail the document.
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		letters += countLetters(text)
		fragments = append(fragments, Fragment{Source: path, Text: text})
	}

	if !enoughText(letters, total, e.MinDensity) {
		return nil, errors.NewNoTextLayer(path)
	}

	return fragments, nil
}

// enoughText is the born-digital vs. scanned heuristic: a real text layer
// yields at least minPerPage alphabetic runes per page.
func enoughText(letters, pages, minPerPage int) bool {
	if letters == 0 {
		return false
	}
	if pages < 1 {
		pages = 1
	}
	return letters >= pages*minPerPage
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
