package vocab

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Combining stress marks found in learner texts. They sit over the vowel and
// must not split or reject the word carrying them.
const (
	combiningGrave = '̀'
	combiningAcute = '́'
)

// Normalizer tokenizes extracted text and filters tokens down to plausible
// Russian vocabulary words.
type Normalizer struct {
	minLen   int
	maxLen   int
	stoplist map[string]bool
}

// NewNormalizer creates a Normalizer with the given rune-length bounds and
// optional stoplist of function words to drop.
func NewNormalizer(minLen, maxLen int, stoplist []string) *Normalizer {
	stop := make(map[string]bool, len(stoplist))
	for _, w := range stoplist {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			stop[w] = true
		}
	}
	return &Normalizer{minLen: minLen, maxLen: maxLen, stoplist: stop}
}

// Words tokenizes text and returns every accepted word occurrence in source
// order. Duplicates are preserved; deduplication is the store's job.
func (n *Normalizer) Words(text string) []string {
	if text == "" {
		return nil
	}

	// NFC first so stress marks combine where a precomposed form exists,
	// then strip the remaining combining marks.
	text = stripStressMarks(norm.NFC.String(text))

	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.Is(unicode.Cyrillic, r) && r != '-'
	})

	var words []string
	for _, tok := range tokens {
		w, ok := n.normalizeToken(tok)
		if ok {
			words = append(words, w)
		}
	}
	return words
}

// normalizeToken lowercases a raw token, trims edge hyphens, and applies the
// acceptance rules: Cyrillic letters with internal hyphens only, rune length
// within bounds, not on the stoplist.
func (n *Normalizer) normalizeToken(tok string) (string, bool) {
	w := strings.Trim(strings.ToLower(tok), "-")
	if w == "" {
		return "", false
	}

	length := 0
	prevHyphen := false
	for _, r := range w {
		if r == '-' {
			if prevHyphen {
				return "", false
			}
			prevHyphen = true
		} else {
			if !unicode.Is(unicode.Cyrillic, r) {
				return "", false
			}
			prevHyphen = false
		}
		length++
	}

	if length < n.minLen || length > n.maxLen {
		return "", false
	}
	if n.stoplist[w] {
		return "", false
	}
	return w, true
}

// Unique returns words deduplicated in first-seen order.
func Unique(words []string) []string {
	seen := make(map[string]bool, len(words))
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			result = append(result, w)
		}
	}
	return result
}

func stripStressMarks(s string) string {
	if !strings.ContainsRune(s, combiningAcute) && !strings.ContainsRune(s, combiningGrave) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == combiningAcute || r == combiningGrave {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
