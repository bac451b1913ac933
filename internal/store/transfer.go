package store

import (
	"encoding/csv"
	"os"
	"time"

	"github.com/Revicx/russian-anki/internal/errors"
)

// ExportCSV writes every record of s to a CSV file at path, via temp file +
// rename. Returns the number of exported records.
func ExportCSV(s Store, path string) (int, error) {
	records, err := s.All()
	if err != nil {
		return 0, err
	}

	tempPath := path + ".tmp"
	f, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return 0, errors.NewStoreIO(err)
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
		return 0, errors.NewStoreIO(err)
	}
	for _, rec := range records {
		if err := w.Write(recordToRow(rec)); err != nil {
			return 0, errors.NewStoreIO(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, errors.NewStoreIO(err)
	}
	if err := f.Sync(); err != nil {
		return 0, errors.NewStoreIO(err)
	}
	if err := f.Close(); err != nil {
		return 0, errors.NewStoreIO(err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return 0, errors.NewStoreIO(err)
	}
	success = true

	return len(records), nil
}

// ImportCSV merges records from a CSV file into s through InsertIfAbsent, so
// existing words are never overwritten. Returns (imported, skipped).
func ImportCSV(s Store, path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, errors.NewNotFound(path)
		}
		return 0, 0, errors.NewStoreIO(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return 0, 0, errors.NewStoreIO(err)
	}

	now := time.Now().Unix()
	imported, skipped := 0, 0
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == "word" {
			continue
		}
		rec, ok := rowToRecord(row)
		if !ok {
			continue
		}
		if rec.FirstSeen == 0 {
			rec.FirstSeen = now
		}
		inserted, err := s.InsertIfAbsent(rec)
		if err != nil {
			return imported, skipped, err
		}
		if inserted {
			imported++
		} else {
			skipped++
		}
	}
	return imported, skipped, nil
}
