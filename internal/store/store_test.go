package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Revicx/russian-anki/internal/errors"
	"github.com/Revicx/russian-anki/internal/vocab"
)

// backends lists the interchangeable store implementations; the same property
// suite runs against each.
var backends = []struct {
	name string
	file string
}{
	{BackendSQLite, "vocab.db"},
	{BackendCSV, "vocab.csv"},
}

func openStore(t *testing.T, backend, dir, file string) Store {
	t.Helper()
	s, err := Open(backend, filepath.Join(dir, file))
	if err != nil {
		t.Fatalf("Open(%s) failed: %v", backend, err)
	}
	return s
}

func record(word string) vocab.Record {
	return vocab.Record{Word: word, FirstSeen: time.Now().Unix(), Source: "test"}
}

func TestInsertIfAbsent_SecondInsertReturnsFalse(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := openStore(t, b.name, t.TempDir(), b.file)
			defer s.Close()

			inserted, err := s.InsertIfAbsent(record("привет"))
			if err != nil {
				t.Fatalf("InsertIfAbsent failed: %v", err)
			}
			if !inserted {
				t.Fatal("first insert should succeed")
			}

			inserted, err = s.InsertIfAbsent(record("привет"))
			if err != nil {
				t.Fatalf("second InsertIfAbsent failed: %v", err)
			}
			if inserted {
				t.Error("second insert of same word should return false")
			}

			count, err := s.Count()
			if err != nil {
				t.Fatalf("Count failed: %v", err)
			}
			if count != 1 {
				t.Errorf("Count = %d, want 1", count)
			}
		})
	}
}

func TestInsertIfAbsent_NeverOverwrites(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := openStore(t, b.name, t.TempDir(), b.file)
			defer s.Close()

			first := vocab.Record{Word: "мир", Context: "привет мир", FirstSeen: 100, Source: "a.txt"}
			if _, err := s.InsertIfAbsent(first); err != nil {
				t.Fatalf("insert: %v", err)
			}

			second := vocab.Record{Word: "мир", Context: "другой контекст", FirstSeen: 200, Source: "b.txt"}
			if _, err := s.InsertIfAbsent(second); err != nil {
				t.Fatalf("insert: %v", err)
			}

			got, err := s.Get("мир")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got.Context != "привет мир" || got.FirstSeen != 100 {
				t.Errorf("record was overwritten: %+v", got)
			}
		})
	}
}

func TestContains(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := openStore(t, b.name, t.TempDir(), b.file)
			defer s.Close()

			ok, err := s.Contains("снег")
			if err != nil {
				t.Fatalf("Contains failed: %v", err)
			}
			if ok {
				t.Error("Contains on empty store = true")
			}

			if _, err := s.InsertIfAbsent(record("снег")); err != nil {
				t.Fatalf("insert: %v", err)
			}

			ok, err = s.Contains("снег")
			if err != nil {
				t.Fatalf("Contains failed: %v", err)
			}
			if !ok {
				t.Error("Contains after insert = false")
			}
		})
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			dir := t.TempDir()

			s := openStore(t, b.name, dir, b.file)
			if _, err := s.InsertIfAbsent(record("книга")); err != nil {
				t.Fatalf("insert: %v", err)
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			s = openStore(t, b.name, dir, b.file)
			defer s.Close()

			ok, err := s.Contains("книга")
			if err != nil {
				t.Fatalf("Contains failed: %v", err)
			}
			if !ok {
				t.Error("word lost across reopen")
			}

			inserted, err := s.InsertIfAbsent(record("книга"))
			if err != nil {
				t.Fatalf("insert: %v", err)
			}
			if inserted {
				t.Error("reinsert after reopen should report duplicate")
			}
		})
	}
}

func TestSetTranslation(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			dir := t.TempDir()
			s := openStore(t, b.name, dir, b.file)

			if _, err := s.InsertIfAbsent(record("дом")); err != nil {
				t.Fatalf("insert: %v", err)
			}
			if err := s.SetTranslation("дом", "Haus", "Это мой дом."); err != nil {
				t.Fatalf("SetTranslation failed: %v", err)
			}

			got, err := s.Get("дом")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got.Translation != "Haus" {
				t.Errorf("Translation = %q, want Haus", got.Translation)
			}
			if got.Context != "Это мой дом." {
				t.Errorf("Context = %q, want example sentence", got.Context)
			}

			// Survives reopen.
			s.Close()
			s = openStore(t, b.name, dir, b.file)
			defer s.Close()
			got, err = s.Get("дом")
			if err != nil {
				t.Fatalf("Get after reopen failed: %v", err)
			}
			if got.Translation != "Haus" {
				t.Errorf("Translation after reopen = %q, want Haus", got.Translation)
			}
		})
	}
}

func TestSetTranslation_MissingWord(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := openStore(t, b.name, t.TempDir(), b.file)
			defer s.Close()

			err := s.SetTranslation("нет", "nein", "")
			if !errors.Is(err, errors.ErrNotFound) {
				t.Errorf("error = %v, want NOT_FOUND", err)
			}
		})
	}
}

func TestAll_SortedByWord(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := openStore(t, b.name, t.TempDir(), b.file)
			defer s.Close()

			for _, w := range []string{"яблоко", "арбуз", "молоко"} {
				if _, err := s.InsertIfAbsent(record(w)); err != nil {
					t.Fatalf("insert: %v", err)
				}
			}

			records, err := s.All()
			if err != nil {
				t.Fatalf("All failed: %v", err)
			}
			if len(records) != 3 {
				t.Fatalf("len(All) = %d, want 3", len(records))
			}
			want := []string{"арбуз", "молоко", "яблоко"}
			for i, w := range want {
				if records[i].Word != w {
					t.Errorf("All[%d].Word = %q, want %q", i, records[i].Word, w)
				}
			}
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := openStore(t, b.name, t.TempDir(), b.file)
			defer s.Close()

			_, err := s.Get("призрак")
			if !errors.Is(err, errors.ErrNotFound) {
				t.Errorf("error = %v, want NOT_FOUND", err)
			}
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("redis", "x")
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

func TestOpenCSV_CreatesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.csv")

	s, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("OpenCSV failed: %v", err)
	}
	defer s.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.HasPrefix(string(data), "word,translation,context,first_seen,source") {
		t.Errorf("file content = %q, want header first", string(data))
	}
}

func TestExportImportCSV(t *testing.T) {
	dir := t.TempDir()
	src := openStore(t, BackendSQLite, dir, "src.db")
	defer src.Close()

	for _, w := range []string{"один", "два", "три"} {
		if _, err := src.InsertIfAbsent(record(w)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if err := src.SetTranslation("два", "zwei", ""); err != nil {
		t.Fatalf("SetTranslation: %v", err)
	}

	exportPath := filepath.Join(dir, "export.csv")
	n, err := ExportCSV(src, exportPath)
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	if n != 3 {
		t.Errorf("exported = %d, want 3", n)
	}

	dst := openStore(t, BackendCSV, dir, "dst.csv")
	defer dst.Close()
	if _, err := dst.InsertIfAbsent(record("два")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	imported, skipped, err := ImportCSV(dst, exportPath)
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if imported != 2 || skipped != 1 {
		t.Errorf("imported/skipped = %d/%d, want 2/1", imported, skipped)
	}

	got, err := dst.Get("три")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Word != "три" {
		t.Errorf("Word = %q", got.Word)
	}
}

func TestImportCSV_MissingFile(t *testing.T) {
	s := openStore(t, BackendCSV, t.TempDir(), "vocab.csv")
	defer s.Close()

	_, _, err := ImportCSV(s, filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}
