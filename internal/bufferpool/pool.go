// Package bufferpool implements the bounded page-id -> page cache with an
// LRU eviction policy sitting in front of the data file.
package bufferpool

import (
	"container/list"
	"fmt"
	"log"

	"github.com/PunVas/db-engn/internal/storage"
)

// entry is the value stored at each container/list element: the cached
// page and its id. Recency is not stored here; it is the element's
// position in the list.
type entry struct {
	pageID uint64
	page   *storage.Page
}

// Pool is a fixed-capacity LRU cache of *storage.Page, keyed by page id.
// Every hit and every insert moves the entry to the front of the recency
// list; eviction always removes the element at the back of the list (the
// least recently accessed entry). Eviction never flushes a dirty page — per
// spec.md §4.3, the caller (the storage engine) is responsible for making
// sure nothing dirty is ever evicted before it has been flushed.
type Pool struct {
	capacity int
	items    map[uint64]*list.Element
	order    *list.List // front = most recently used, back = least recently used
}

// New returns an empty pool bounded to capacity pages.
func New(capacity int) *Pool {
	return &Pool{
		capacity: capacity,
		items:    make(map[uint64]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the cached page for id, bumping its recency, or (nil, false)
// on a miss.
func (p *Pool) Get(id uint64) (*storage.Page, bool) {
	el, ok := p.items[id]
	if !ok {
		return nil, false
	}
	p.order.MoveToFront(el)
	return el.Value.(*entry).page, true
}

// Put inserts page into the pool, evicting the least-recently-used entry
// first if the pool is already at capacity. If id is already cached, its
// page is replaced and its recency bumped.
func (p *Pool) Put(id uint64, page *storage.Page) {
	if el, ok := p.items[id]; ok {
		el.Value.(*entry).page = page
		p.order.MoveToFront(el)
		return
	}
	if len(p.items) >= p.capacity {
		p.evictLRU()
	}
	el := p.order.PushFront(&entry{pageID: id, page: page})
	p.items[id] = el
}

// evictLRU drops the least recently accessed page (the back of the
// recency list). It does not flush, per the pool's contract.
func (p *Pool) evictLRU() {
	back := p.order.Back()
	if back == nil {
		return
	}
	e := back.Value.(*entry)
	log.Printf("[BufferPool] EVICT pageID=%d dirty=%v", e.pageID, e.page.IsDirty)
	p.order.Remove(back)
	delete(p.items, e.pageID)
}

// DirtyPages returns every cached page whose dirty flag is set.
func (p *Pool) DirtyPages() []*storage.Page {
	var dirty []*storage.Page
	for el := p.order.Front(); el != nil; el = el.Next() {
		page := el.Value.(*entry).page
		if page.IsDirty {
			dirty = append(dirty, page)
		}
	}
	return dirty
}

// Clear drops every cached entry without flushing.
func (p *Pool) Clear() {
	p.items = make(map[uint64]*list.Element, p.capacity)
	p.order.Init()
}

// Len reports how many pages are currently cached.
func (p *Pool) Len() int {
	return len(p.items)
}

// String renders a short diagnostic summary, used by Engine.Stats.
func (p *Pool) String() string {
	return fmt.Sprintf("bufferpool: %d/%d pages cached", p.Len(), p.capacity)
}
