// Package vocab defines vocabulary records and the normalization rules that
// turn raw extracted text into plausible Russian vocabulary words.
package vocab

// Record is a stored vocabulary entry. Word is the deduplication key; it is
// always in normalized form (lowercase Cyrillic, NFC, internal hyphens only).
type Record struct {
	Word        string `json:"word"`
	Translation string `json:"translation,omitempty"`
	Context     string `json:"context,omitempty"`
	FirstSeen   int64  `json:"first_seen"`
	Source      string `json:"source,omitempty"`
}
