package extract

import (
	"context"
	"os"
	"unicode/utf8"

	"github.com/Revicx/russian-anki/internal/errors"
)

// TextExtractor reads a plain-text file as a single fragment.
type TextExtractor struct{}

// Extract reads the whole file. Content that is not valid UTF-8 is an
// ENCODING_ERROR; the orchestrator records it per-file and moves on.
func (TextExtractor) Extract(_ context.Context, path string) ([]Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewExtraction(path, err)
	}
	if !utf8.Valid(data) {
		return nil, errors.NewEncoding(path, nil)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return []Fragment{{Source: path, Text: string(data)}}, nil
}
