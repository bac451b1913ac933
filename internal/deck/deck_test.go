package deck

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Revicx/russian-anki/internal/vocab"
)

func TestWrite(t *testing.T) {
	records := []vocab.Record{
		{Word: "дом", Translation: "Haus", Context: "Это мой дом."},
		{Word: "кот", Translation: "Katze"},
	}
	path := filepath.Join(t.TempDir(), "deck.txt")

	n, err := Write(records, path, Options{})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read deck: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if lines[0] != "#separator:tab" || lines[1] != "#html:false" {
		t.Errorf("header = %q %q", lines[0], lines[1])
	}
	if len(lines) != 5 {
		t.Fatalf("lines = %d, want 5", len(lines))
	}
	if lines[3] != "дом\tHaus\tЭто мой дом." {
		t.Errorf("card line = %q", lines[3])
	}
	if lines[4] != "кот\tKatze\t" {
		t.Errorf("card line = %q", lines[4])
	}
}

func TestWrite_TranslatedOnly(t *testing.T) {
	records := []vocab.Record{
		{Word: "дом", Translation: "Haus"},
		{Word: "снег"},
	}
	path := filepath.Join(t.TempDir(), "deck.txt")

	n, err := Write(records, path, Options{TranslatedOnly: true})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "снег") {
		t.Error("untranslated word should be dropped")
	}
}

func TestWrite_SanitizesFields(t *testing.T) {
	records := []vocab.Record{
		{Word: "мир", Translation: "Welt", Context: "строка\tс табом\nи переводом"},
	}
	path := filepath.Join(t.TempDir(), "deck.txt")

	if _, err := Write(records, path, Options{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4 (field newline must not split the row)", len(lines))
	}
	if strings.Count(lines[3], "\t") != 2 {
		t.Errorf("card tabs = %d, want 2: %q", strings.Count(lines[3], "\t"), lines[3])
	}
}

func TestWrite_EmptySet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.txt")

	n, err := Write(nil, path, Options{})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("deck file should exist even when empty: %v", err)
	}
}
