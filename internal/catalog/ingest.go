package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cellarhub/pkg/models"
)

// ErrIngest marks a stream-level failure of the catalog source. The previous
// catalog contents stay in place when it is returned.
var ErrIngest = errors.New("catalog ingest failed")

var sourceHeader = []string{"name", "category", "producer", "region", "country"}

// Refresh reads the CSV source at path and replaces the whole catalog with its
// rows. Malformed rows are skipped one by one; a missing file is created with
// just the header and yields an empty catalog, so a fresh deployment refreshes
// cleanly. Returns how many entries were loaded.
func (r *Repo) Refresh(ctx context.Context, path string) (int, error) {
	entries, err := readSource(path)
	if err != nil {
		return 0, err
	}
	if err := r.ReplaceAll(ctx, entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}

func readSource(path string) ([]models.CatalogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: open %s: %v", ErrIngest, path, err)
		}
		if err := writeHeaderOnlySource(path); err != nil {
			return nil, fmt.Errorf("%w: create %s: %v", ErrIngest, path, err)
		}
		return nil, nil
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := readHeader(reader)
	if err == io.EOF {
		// empty source file: a valid, empty catalog
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrIngest, err)
	}

	var entries []models.CatalogEntry
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			// one bad row doesn't spoil the batch
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read row: %v", ErrIngest, err)
		}
		if len(row) == 0 {
			continue
		}

		entries = append(entries, rowToEntry(header, row))
	}

	return entries, nil
}

// rowToEntry is deliberately permissive: the source file is operator-managed,
// so missing values default rather than reject. An unknown or absent category
// lands in the Other bucket.
func rowToEntry(header map[string]int, row []string) models.CatalogEntry {
	category, ok := models.ParseCategory(valueAt(header, row, "category"))
	if !ok {
		category = models.CategoryOther
	}

	return models.CatalogEntry{
		Name:     valueAt(header, row, "name"),
		Category: category,
		Producer: valueAt(header, row, "producer"),
		Region:   valueAt(header, row, "region"),
		Country:  valueAt(header, row, "country"),
		WineType: valueAt(header, row, "wine_type"),
		SubType:  valueAt(header, row, "sub_type"),
	}
}

func writeHeaderOnlySource(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sourceHeader); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
