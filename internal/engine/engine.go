// Package engine coordinates the paged data file, the write-ahead
// journal, the buffer pool, and the B+Tree index behind a CRUD API
// (spec.md §4.5).
package engine

import (
	"fmt"
	"log"

	"github.com/PunVas/db-engn/internal/bptree"
	"github.com/PunVas/db-engn/internal/bufferpool"
	"github.com/PunVas/db-engn/internal/config"
	"github.com/PunVas/db-engn/internal/journal"
	"github.com/PunVas/db-engn/internal/storage"
)

// Engine is the coordinator ("storage_engine" in spec.md's component
// table): it exclusively owns the data file handle, the journal, the
// buffer pool, and the index.
type Engine struct {
	settings config.Settings

	data    *dataFile
	journal *journal.Journal
	pool    *bufferpool.Pool
	index   *bptree.Tree

	nextPageID uint64
}

// Open opens (creating if absent) the data and journal files named in
// settings, runs crash recovery if the journal is non-empty, and rebuilds
// the in-memory index from the data file (spec.md §4.5, §4.2).
func Open(settings config.Settings) (*Engine, error) {
	data, err := openDataFile(settings.DataFile)
	if err != nil {
		return nil, err
	}

	jr, err := journal.Open(settings.JournalFile)
	if err != nil {
		data.close()
		return nil, err
	}

	size, err := data.size()
	if err != nil {
		jr.Close()
		data.close()
		return nil, err
	}

	e := &Engine{
		settings:   settings,
		data:       data,
		journal:    jr,
		pool:       bufferpool.New(settings.CacheSize),
		index:      bptree.New(),
		nextPageID: uint64(size/storage.PageSize) + 1,
	}

	if err := e.recover(); err != nil {
		jr.Close()
		data.close()
		return nil, fmt.Errorf("engine: recovery: %w", err)
	}
	if err := e.rebuildIndex(); err != nil {
		jr.Close()
		data.close()
		return nil, fmt.Errorf("engine: rebuild index: %w", err)
	}

	return e, nil
}

// Close flushes every dirty page, forces the data file, truncates the
// journal, and releases both file handles (spec.md §4.5 "Close").
func (e *Engine) Close() error {
	if err := e.FlushAll(); err != nil {
		return err
	}
	if err := e.journal.Close(); err != nil {
		return err
	}
	return e.data.close()
}

// loadPage returns the page for id, consulting the buffer pool first and
// falling back to a direct file read on a miss (spec.md §4.5 "load_page").
func (e *Engine) loadPage(id uint64) (*storage.Page, error) {
	if page, ok := e.pool.Get(id); ok {
		return page, nil
	}
	page, err := e.data.readPage(id)
	if err != nil {
		return nil, err
	}
	e.pool.Put(id, page)
	return page, nil
}

// flushPage writes page to its offset in the data file, forces the file,
// and clears the dirty flag (spec.md §4.5 "flush_page").
func (e *Engine) flushPage(page *storage.Page) error {
	return e.data.writePage(page)
}

// allocatePage returns and post-increments the page-id counter.
func (e *Engine) allocatePage() uint64 {
	id := e.nextPageID
	e.nextPageID++
	return id
}

// Insert creates a new record for key, returning false if key already
// exists (spec.md §4.5 "insert").
func (e *Engine) Insert(key, value string) (bool, error) {
	if e.index.Search(key) != 0 {
		return false, nil
	}
	if err := e.journal.Append(journal.Insert, key, value, 0); err != nil {
		return false, err
	}

	id := e.allocatePage()
	rec := storage.NewRecord(key, value, id)
	page := storage.NewPage(id)
	page.WriteRecord(rec)
	e.pool.Put(id, page)
	if err := e.flushPage(page); err != nil {
		return false, err
	}

	e.index.Insert(key, id)
	if err := e.journal.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// Get returns (true, value) if key is present and not tombstoned, else
// (false, "") (spec.md §4.5 "get").
func (e *Engine) Get(key string) (bool, string, error) {
	id := e.index.Search(key)
	if id == 0 {
		return false, "", nil
	}
	page, err := e.loadPage(id)
	if err != nil {
		return false, "", err
	}
	rec, err := page.ReadRecord()
	if err != nil {
		return false, "", fmt.Errorf("%w: %v", ErrCorruptPage, err)
	}
	if rec.Deleted {
		return false, "", nil
	}
	return true, rec.ValueString(), nil
}

// Update overwrites the value for an existing, non-deleted key (spec.md
// §4.5 "update").
func (e *Engine) Update(key, newValue string) (bool, error) {
	id := e.index.Search(key)
	if id == 0 {
		return false, nil
	}
	if err := e.journal.Append(journal.Update, key, newValue, id); err != nil {
		return false, err
	}

	page, err := e.loadPage(id)
	if err != nil {
		return false, err
	}
	rec, err := page.ReadRecord()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrCorruptPage, err)
	}
	if rec.Deleted {
		return false, nil
	}
	rec.SetValue(newValue)
	page.WriteRecord(rec)
	if err := e.flushPage(page); err != nil {
		return false, err
	}

	if err := e.journal.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// Remove tombstones an existing key, both on disk and in the index
// (spec.md §4.5 "remove").
func (e *Engine) Remove(key string) (bool, error) {
	id := e.index.Search(key)
	if id == 0 {
		return false, nil
	}
	if err := e.journal.Append(journal.Delete, key, "", id); err != nil {
		return false, err
	}

	page, err := e.loadPage(id)
	if err != nil {
		return false, err
	}
	rec, err := page.ReadRecord()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrCorruptPage, err)
	}
	rec.Deleted = true
	page.WriteRecord(rec)
	if err := e.flushPage(page); err != nil {
		return false, err
	}

	e.index.Remove(key)
	if err := e.journal.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// LinearSearch bypasses the index and buffer pool entirely, scanning
// every page in the data file directly. It exists only to demonstrate
// the index's speedup (spec.md §1, §4.5 "linear_search").
func (e *Engine) LinearSearch(key string) (bool, string, error) {
	size, err := e.data.size()
	if err != nil {
		return false, "", err
	}
	numPages := uint64(size / storage.PageSize)
	for id := uint64(1); id <= numPages; id++ {
		page, err := e.data.readPage(id)
		if err != nil {
			return false, "", err
		}
		rec, err := page.ReadRecord()
		if err != nil {
			continue
		}
		if !rec.Deleted && rec.KeyString() == key {
			return true, rec.ValueString(), nil
		}
	}
	return false, "", nil
}

// FlushAll is the checkpoint operation: flush every dirty pooled page,
// then truncate the journal (spec.md §4.5 "flush_all").
func (e *Engine) FlushAll() error {
	dirty := e.pool.DirtyPages()
	log.Printf("[Engine] checkpoint: flushing %d dirty pages", len(dirty))
	for _, page := range dirty {
		if err := e.flushPage(page); err != nil {
			return err
		}
	}
	return e.journal.Truncate()
}

// Stats reports the on-disk footprint and pool occupancy, mirroring
// original_source/database_engine.cpp's print_stats() (spec.md §6
// "stats() -> void").
func (e *Engine) Stats() error {
	size, err := e.data.size()
	if err != nil {
		return err
	}
	numPages := size / storage.PageSize
	log.Printf("=== Database Statistics ===")
	log.Printf("File size: %d bytes", size)
	log.Printf("Number of pages: %d", numPages)
	log.Printf("Page size: %d bytes", e.settings.PageSize)
	log.Printf("Cache size: %d pages (%s)", e.settings.CacheSize, e.pool)
	return nil
}
