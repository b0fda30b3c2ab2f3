package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/rageval"
)

// FileStore writes a whole load atomically. Documents are saved to a
// temporary directory and moved into place on Commit.
type FileStore struct {
	baseDir string
	name    string
	writer  *Writer
	started bool
}

// NewFileStore creates a new FileStore.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	s := &FileStore{baseDir: baseDir, name: name}
	s.writer = NewWriter(s.tempDir())
	return s
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes doc into the temporary directory. The first save clears
// whatever an earlier, interrupted run left there.
func (s *FileStore) Save(ctx context.Context, doc *rageval.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.started {
		if err := os.RemoveAll(s.tempDir()); err != nil {
			return err
		}
		s.started = true
	}
	return s.writer.write(doc)
}

// Commit replaces the final directory with the saved documents.
func (s *FileStore) Commit() error {
	if !s.started {
		if err := os.RemoveAll(s.tempDir()); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the saved documents.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
