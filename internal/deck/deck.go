// Package deck exports the vocabulary as a flashcard deck file in Anki's
// tab-separated text import format.
package deck

import (
	"fmt"
	"os"
	"strings"

	"github.com/Revicx/russian-anki/internal/errors"
	"github.com/Revicx/russian-anki/internal/vocab"
)

// Options controls which records end up in the deck.
type Options struct {
	// TranslatedOnly drops words without a translation; a card with an empty
	// back is useless in review.
	TranslatedOnly bool
}

// Write renders records to an Anki text-import deck at path via temp file +
// rename. Returns the number of cards written.
func Write(records []vocab.Record, path string, opts Options) (int, error) {
	var b strings.Builder
	b.WriteString("#separator:tab\n")
	b.WriteString("#html:false\n")
	b.WriteString("#columns:Front\tBack\tContext\n")

	count := 0
	for _, rec := range records {
		if opts.TranslatedOnly && rec.Translation == "" {
			continue
		}
		fmt.Fprintf(&b, "%s\t%s\t%s\n",
			sanitizeField(rec.Word),
			sanitizeField(rec.Translation),
			sanitizeField(rec.Context))
		count++
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, []byte(b.String()), 0600); err != nil {
		return 0, errors.NewStoreIO(err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return 0, errors.NewStoreIO(err)
	}
	return count, nil
}

// sanitizeField keeps one record per line; tabs and newlines inside a field
// would break the import format.
func sanitizeField(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}
