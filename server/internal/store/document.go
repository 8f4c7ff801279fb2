package store

import (
	"errors"
	"io/fs"
	"os"

	"github.com/google/renameio/v2"
)

// Document is the raw byte-level capability the store persists through.
type Document interface {
	// Load returns the current content. A missing document is nil, nil.
	Load() ([]byte, error)
	// Save replaces the whole document with data.
	Save(data []byte) error
}

// FileDocument is a Document stored at a filesystem path.
type FileDocument struct {
	path string
	perm os.FileMode
}

// NewFileDocument returns a FileDocument for path with 0644 permissions.
func NewFileDocument(path string) *FileDocument {
	return &FileDocument{path: path, perm: 0o644}
}

// Path returns the file path backing the document.
func (d *FileDocument) Path() string { return d.path }

func (d *FileDocument) Load() ([]byte, error) {
	data, err := os.ReadFile(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// Save atomically replaces the file with data: readers see either the old or
// the new document, never a partial write.
func (d *FileDocument) Save(data []byte) error {
	return renameio.WriteFile(d.path, data, d.perm)
}
