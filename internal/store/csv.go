package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/Revicx/russian-anki/internal/errors"
	"github.com/Revicx/russian-anki/internal/vocab"
)

var csvHeader = []string{"word", "translation", "context", "first_seen", "source"}

// CSVStore is the flat delimited-file store backend. The full record set is
// held in memory (expected scale is a few thousand words); inserts append to
// the file and are flushed before the call returns, so a crash mid-batch
// cannot lose confirmed words.
type CSVStore struct {
	path    string
	mu      sync.Mutex
	records map[string]vocab.Record
}

// OpenCSV opens (and if needed creates) a vocabulary CSV file at path.
func OpenCSV(path string) (*CSVStore, error) {
	s := &CSVStore{path: path, records: make(map[string]vocab.Record)}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0700); err != nil {
				return nil, errors.NewStoreIO(err)
			}
		}
		if err := s.writeAll(nil); err != nil {
			return nil, err
		}
		return s, nil
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CSVStore) load() error {
	f, err := os.Open(s.path)
	if err != nil {
		return errors.NewStoreIO(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return errors.NewStoreIO(fmt.Errorf("parse %s: %w", s.path, err))
	}

	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == "word" {
			continue // header
		}
		rec, ok := rowToRecord(row)
		if !ok {
			continue
		}
		s.records[rec.Word] = rec
	}
	return nil
}

// Contains reports whether word is already recorded.
func (s *CSVStore) Contains(word string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[word]
	return ok, nil
}

// InsertIfAbsent records rec unless its word already exists. The new row is
// appended and synced to disk before the call returns.
func (s *CSVStore) InsertIfAbsent(rec vocab.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[rec.Word]; ok {
		return false, nil
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return false, errors.NewStoreIO(err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(recordToRow(rec)); err != nil {
		f.Close()
		return false, errors.NewStoreIO(err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return false, errors.NewStoreIO(err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return false, errors.NewStoreIO(err)
	}
	if err := f.Close(); err != nil {
		return false, errors.NewStoreIO(err)
	}

	s.records[rec.Word] = rec
	return true, nil
}

// Get returns the record for word.
func (s *CSVStore) Get(word string) (*vocab.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[word]
	if !ok {
		return nil, errors.NewNotFound(word)
	}
	return &rec, nil
}

// All returns every record ordered by word.
func (s *CSVStore) All() ([]vocab.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]vocab.Record, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Word < records[j].Word })
	return records, nil
}

// Count returns the number of stored records.
func (s *CSVStore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records), nil
}

// SetTranslation fills in the translation of an existing record and rewrites
// the file atomically.
func (s *CSVStore) SetTranslation(word, translation, context string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[word]
	if !ok {
		return errors.NewNotFound(word)
	}
	rec.Translation = translation
	if context != "" {
		rec.Context = context
	}

	updated := make(map[string]vocab.Record, len(s.records))
	for k, v := range s.records {
		updated[k] = v
	}
	updated[word] = rec

	records := make([]vocab.Record, 0, len(updated))
	for _, r := range updated {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Word < records[j].Word })

	if err := s.writeAll(records); err != nil {
		return err
	}
	s.records = updated
	return nil
}

// Close is a no-op for the CSV backend; every write is already flushed.
func (s *CSVStore) Close() error {
	return nil
}

// writeAll replaces the file contents via temp file + rename so a failure
// mid-write preserves the previous state.
func (s *CSVStore) writeAll(records []vocab.Record) error {
	tempPath := s.path + ".tmp"
	f, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return errors.NewStoreIO(err)
	}

	success := false
	defer func() {
		if !success {
			f.Close()
			os.Remove(tempPath)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return errors.NewStoreIO(err)
	}
	for _, rec := range records {
		if err := w.Write(recordToRow(rec)); err != nil {
			return errors.NewStoreIO(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.NewStoreIO(err)
	}
	if err := f.Sync(); err != nil {
		return errors.NewStoreIO(err)
	}
	if err := f.Close(); err != nil {
		return errors.NewStoreIO(err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		return errors.NewStoreIO(err)
	}
	success = true
	return nil
}

func recordToRow(rec vocab.Record) []string {
	return []string{
		rec.Word,
		rec.Translation,
		rec.Context,
		strconv.FormatInt(rec.FirstSeen, 10),
		rec.Source,
	}
}

func rowToRecord(row []string) (vocab.Record, bool) {
	if len(row) == 0 || row[0] == "" {
		return vocab.Record{}, false
	}
	rec := vocab.Record{Word: row[0]}
	if len(row) > 1 {
		rec.Translation = row[1]
	}
	if len(row) > 2 {
		rec.Context = row[2]
	}
	if len(row) > 3 {
		rec.FirstSeen, _ = strconv.ParseInt(row[3], 10, 64)
	}
	if len(row) > 4 {
		rec.Source = row[4]
	}
	return rec, true
}
