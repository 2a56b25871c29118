package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"iso3166-scraper/models"
)

// WriteError describes a failed attempt to persist scrape results.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Writer persists scrape results as a JSON document
type Writer struct {
	path string
}

// NewWriter creates a writer targeting the given file path
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// WriteCountries writes the countries as a UTF-8 JSON array. Missing
// parent directories are created, and the document lands via rename of a
// temp file so a failed run never leaves a partial file at the target
// path.
func (w *Writer) WriteCountries(countries []models.Country) error {
	if countries == nil {
		countries = []models.Country{}
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteError{Path: w.path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(w.path)+".tmp-*")
	if err != nil {
		return &WriteError{Path: w.path, Err: err}
	}
	defer os.Remove(tmp.Name())

	// CreateTemp opens the file owner-only; the published document is
	// world-readable.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return &WriteError{Path: w.path, Err: err}
	}

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(countries); err != nil {
		tmp.Close()
		return &WriteError{Path: w.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Path: w.path, Err: err}
	}

	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return &WriteError{Path: w.path, Err: err}
	}
	return nil
}
