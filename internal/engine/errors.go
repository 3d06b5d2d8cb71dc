package engine

import "errors"

// Sentinel errors for the engine's error taxonomy (spec.md §7). Only
// ErrCorruptPage is ever returned, wrapped, when a page's record cannot be
// decoded. NotFound and Duplicate are reported by CRUD methods as a false
// result rather than as these values, and ErrJournalCorrupt is not
// produced: recovery stops at a corrupt journal entry without an error.
var (
	ErrNotFound       = errors.New("engine: key not found")
	ErrDuplicateKey   = errors.New("engine: key already exists")
	ErrCorruptPage    = errors.New("engine: corrupt page")
	ErrJournalCorrupt = errors.New("engine: journal corrupt")
)
