package engine

import (
	"fmt"

	"github.com/PunVas/db-engn/internal/storage"
)

// recover discards any uncommitted tail left by a crash mid-transaction and
// truncates the journal (spec.md §4.2). The engine's own mutation order —
// journal append+fsync, page write+fsync, then COMMIT append+fsync — means
// every entry ReadCommitted returns already has its page write durably on
// disk, so there is nothing left to re-apply; recovery is purely discard-
// and-truncate (SPEC_FULL.md §6).
func (e *Engine) recover() error {
	if _, err := e.journal.ReadCommitted(); err != nil {
		return err
	}
	return e.journal.Truncate()
}

// rebuildIndex repopulates the in-memory B+Tree by scanning every page in
// the data file and inserting the key of each live (non-deleted) record
// (spec.md §4.5 "Open"). The index is never persisted; it is always
// rebuilt from the data file on startup.
func (e *Engine) rebuildIndex() error {
	size, err := e.data.size()
	if err != nil {
		return err
	}
	numPages := uint64(size / storage.PageSize)
	for id := uint64(1); id <= numPages; id++ {
		page, err := e.data.readPage(id)
		if err != nil {
			return fmt.Errorf("engine: rebuild index: %w", err)
		}
		rec, err := page.ReadRecord()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptPage, err)
		}
		if rec.Deleted {
			continue
		}
		e.index.Insert(rec.KeyString(), id)
	}
	return nil
}
