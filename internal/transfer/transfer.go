// Package transfer exports the collection to a portable JSON document and
// imports one back, replacing the collection wholesale.
package transfer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/idilsaglam/tierlist/internal/collection"
	"github.com/idilsaglam/tierlist/internal/model"
)

// BackupFileName is the default export file name.
const BackupFileName = "anime-tierlist-backup.json"

// ValidationError reports a document that cannot be imported. Its message is
// meant for the user.
type ValidationError struct {
	Source string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Source == "" {
		return "invalid import: " + e.Err.Error()
	}
	return fmt.Sprintf("invalid import %s: %v", e.Source, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Result summarizes a successful import.
type Result struct {
	Imported int
}

// Export serializes items in the same format Import accepts.
func Export(items []model.Item) ([]byte, error) {
	return model.MarshalItems(items)
}

// Import parses doc and replaces the collection with it. On any error the
// collection is left untouched.
func Import(doc []byte, repo *collection.Repository) (Result, error) {
	items, err := model.UnmarshalItems(doc)
	if err != nil {
		return Result{}, &ValidationError{Err: err}
	}
	if err := repo.ReplaceAll(items); err != nil {
		return Result{}, &ValidationError{Err: err}
	}
	return Result{Imported: len(items)}, nil
}

// ExportFile writes the export document to path.
func ExportFile(path string, items []model.Item) error {
	doc, err := Export(items)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// ImportFile reads path and imports it. An unreadable file is reported as a
// ValidationError too.
func ImportFile(path string, repo *collection.Repository) (Result, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return Result{}, &ValidationError{Source: path, Err: err}
	}
	res, err := Import(doc, repo)
	if verr, ok := err.(*ValidationError); ok {
		verr.Source = path
	}
	return res, err
}
