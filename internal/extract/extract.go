// Package extract turns input files of supported formats into raw text
// fragments for normalization.
package extract

import "context"

// Fragment is a span of raw extracted text tied to its source file.
type Fragment struct {
	Source string
	Text   string
}

// Extractor turns one input file into a sequence of text fragments.
// A failed file returns an error; the orchestrator treats most of them as
// non-fatal and continues with the rest of the batch.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]Fragment, error)
}
