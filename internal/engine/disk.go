package engine

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/PunVas/db-engn/internal/storage"
)

// dataFile owns the single on-disk data file handle. Page id i lives at
// byte offset i*PageSize (spec.md §3); page id 0 is never written.
type dataFile struct {
	path string
	file *os.File
}

func openDataFile(path string) (*dataFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("engine: open data file %s: %w", path, err)
	}
	return &dataFile{path: path, file: f}, nil
}

func (d *dataFile) size() (int64, error) {
	st, err := d.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("engine: stat data file: %w", err)
	}
	return st.Size(), nil
}

func (d *dataFile) readPage(id uint64) (*storage.Page, error) {
	page := storage.NewPage(id)
	offset := int64(id) * storage.PageSize
	n, err := d.file.ReadAt(page.Data[:], offset)
	if err != nil && n == 0 {
		// A short read at a never-written offset just means an
		// all-zero page; anything else is a real I/O failure.
		if errors.Is(err, io.EOF) {
			return page, nil
		}
		return nil, fmt.Errorf("engine: read page %d: %w", id, err)
	}
	return page, nil
}

func (d *dataFile) writePage(page *storage.Page) error {
	offset := int64(page.ID) * storage.PageSize
	if _, err := d.file.WriteAt(page.Data[:], offset); err != nil {
		return fmt.Errorf("engine: write page %d: %w", page.ID, err)
	}
	if err := d.file.Sync(); err != nil {
		return fmt.Errorf("engine: fsync page %d: %w", page.ID, err)
	}
	page.IsDirty = false
	return nil
}

func (d *dataFile) close() error {
	return d.file.Close()
}
