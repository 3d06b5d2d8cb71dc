// Package journal implements the write-ahead log: a single append-only
// file of fixed-size entries, forced to stable storage before Append or
// Commit returns.
package journal

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/PunVas/db-engn/internal/storage"
)

// Kind identifies the operation a journal entry describes.
type Kind byte

const (
	Insert Kind = iota + 1
	Update
	Delete
	Commit
)

func (k Kind) String() string {
	switch k {
	case Insert:
		return "INSERT"
	case Update:
		return "UPDATE"
	case Delete:
		return "DELETE"
	case Commit:
		return "COMMIT"
	default:
		return "UNKNOWN"
	}
}

// entrySize is kind(1) + key(MaxKeyLen) + value(MaxValueLen) + pageID(8) + crc32(4).
const entrySize = 1 + storage.MaxKeyLen + storage.MaxValueLen + 8 + 4

// Entry is one fixed-size record in the journal file.
type Entry struct {
	Kind   Kind
	Key    string
	Value  string
	PageID uint64
}

func (e Entry) encode() []byte {
	buf := make([]byte, entrySize)
	buf[0] = byte(e.Kind)
	copy(buf[1:1+storage.MaxKeyLen], []byte(e.Key))
	copy(buf[1+storage.MaxKeyLen:1+storage.MaxKeyLen+storage.MaxValueLen], []byte(e.Value))
	binary.LittleEndian.PutUint64(buf[1+storage.MaxKeyLen+storage.MaxValueLen:], e.PageID)
	sum := crc32.ChecksumIEEE(buf[:entrySize-4])
	binary.LittleEndian.PutUint32(buf[entrySize-4:], sum)
	return buf
}

func decodeEntry(buf []byte) (Entry, error) {
	var e Entry
	if len(buf) != entrySize {
		return e, fmt.Errorf("journal: short entry: got %d bytes, need %d", len(buf), entrySize)
	}
	wantSum := binary.LittleEndian.Uint32(buf[entrySize-4:])
	gotSum := crc32.ChecksumIEEE(buf[:entrySize-4])
	if wantSum != gotSum {
		return e, fmt.Errorf("journal: %w: checksum mismatch", ErrCorrupt)
	}
	e.Kind = Kind(buf[0])
	e.Key = cString(buf[1 : 1+storage.MaxKeyLen])
	e.Value = cString(buf[1+storage.MaxKeyLen : 1+storage.MaxKeyLen+storage.MaxValueLen])
	e.PageID = binary.LittleEndian.Uint64(buf[1+storage.MaxKeyLen+storage.MaxValueLen:])
	return e, nil
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// ErrCorrupt is returned by decodeEntry when an entry fails its checksum.
// ReadCommitted does not surface it: it ends the scan at that entry.
var ErrCorrupt = fmt.Errorf("journal entry corrupt")

// Journal is the append-only durability log bound to a single file.
type Journal struct {
	path string
	file *os.File
}

// Open opens (creating if absent) the journal file for read+write.
func Open(path string) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	return &Journal{path: path, file: f}, nil
}

// Append writes one entry to the end of the journal and forces it to
// stable storage before returning.
func (j *Journal) Append(kind Kind, key, value string, pageID uint64) error {
	e := Entry{Kind: kind, Key: key, Value: value, PageID: pageID}
	if _, err := j.file.Write(e.encode()); err != nil {
		return fmt.Errorf("journal: append: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("journal: fsync after append: %w", err)
	}
	return nil
}

// Commit appends a COMMIT entry and forces it to stable storage.
func (j *Journal) Commit() error {
	return j.Append(Commit, "", "", 0)
}

// Truncate closes, deletes, and recreates the journal file as empty.
func (j *Journal) Truncate() error {
	if err := j.file.Close(); err != nil {
		return fmt.Errorf("journal: close before truncate: %w", err)
	}
	if err := os.Remove(j.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("journal: remove: %w", err)
	}
	f, err := os.OpenFile(j.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("journal: recreate: %w", err)
	}
	j.file = f
	return nil
}

// Close closes the journal's underlying file handle.
func (j *Journal) Close() error {
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

// ReadCommitted scans the journal from the start and returns the maximal
// prefix of entries terminated by a COMMIT marker, in order, with COMMIT
// markers themselves omitted. Any trailing entries past the last COMMIT
// (an in-progress, uncommitted transaction) are discarded, per spec.
func (j *Journal) ReadCommitted() ([]Entry, error) {
	if _, err := j.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("journal: seek: %w", err)
	}
	var all []Entry
	buf := make([]byte, entrySize)
	for {
		_, err := io.ReadFull(j.file, buf)
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			// Trailing partial entry: torn write from a crash mid-append.
			break
		}
		if err != nil {
			return nil, fmt.Errorf("journal: read: %w", err)
		}
		e, derr := decodeEntry(buf)
		if derr != nil {
			// A malformed entry also terminates the scan: everything after
			// an unreadable entry is discarded, same as a torn tail.
			break
		}
		all = append(all, e)
	}

	var committed []Entry
	var pending []Entry
	for _, e := range all {
		if e.Kind == Commit {
			committed = append(committed, pending...)
			pending = nil
			continue
		}
		pending = append(pending, e)
	}
	return committed, nil
}
