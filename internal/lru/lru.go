// Package lru is a size and age bounded cache with synchronous eviction
// callbacks, used to close prepared statements as they fall out.
package lru

import (
	"sync"
	"time"
)

// EvictCallback is called for every entry leaving the cache, with the lock held
type EvictCallback[K comparable, V any] func(key K, value V)

// LRU is a thread-safe least recently used cache.
//
// Entries older than the ttl are dropped lazily, on lookup or by
// RemoveExpired; there is no background goroutine.
type LRU[K comparable, V any] struct {
	mu      sync.Mutex
	size    int
	ttl     time.Duration
	list    list[K, V]
	items   map[K]*entry[K, V]
	onEvict EvictCallback[K, V]
	now     func() time.Time
}

// NewLRU returns an empty cache. A size of 0 keeps every entry, a ttl of 0
// never expires them.
func NewLRU[K comparable, V any](size int, onEvict EvictCallback[K, V], ttl time.Duration) *LRU[K, V] {
	c := &LRU[K, V]{
		size:    max(size, 0),
		ttl:     max(ttl, 0),
		items:   make(map[K]*entry[K, V]),
		onEvict: onEvict,
		now:     time.Now,
	}
	c.list.init()
	return c
}

// Add inserts or refreshes key, returning whether an older entry was evicted
func (c *LRU[K, V]) Add(key K, value V) (evicted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		ent.value = value
		ent.touched = c.now()
		c.list.moveToFront(ent)
		return false
	}

	ent := &entry[K, V]{key: key, value: value, touched: c.now()}
	c.list.pushFront(ent)
	c.items[key] = ent

	if c.size > 0 && c.list.len > c.size {
		c.removeElement(c.list.back())
		return true
	}
	return false
}

// Get returns the value of key and marks it recently used. An expired
// entry is evicted and reported missing.
func (c *LRU[K, V]) Get(key K) (value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.items[key]
	if !ok {
		return value, false
	}
	now := c.now()
	if c.expired(ent, now) {
		c.removeElement(ent)
		return value, false
	}
	ent.touched = now
	c.list.moveToFront(ent)
	return ent.value, true
}

// Peek returns the value of key without touching it
func (c *LRU[K, V]) Peek(key K) (value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok && !c.expired(ent, c.now()) {
		return ent.value, true
	}
	return value, false
}

// Contains reports whether key is cached, expired or not
func (c *LRU[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// Remove evicts key, reporting whether it was present
func (c *LRU[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ent, ok := c.items[key]; ok {
		c.removeElement(ent)
		return true
	}
	return false
}

// RemoveOldest evicts the least recently used entry
func (c *LRU[K, V]) RemoveOldest() (key K, value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ent := c.list.back(); ent != nil {
		c.removeElement(ent)
		return ent.key, ent.value, true
	}
	return
}

// RemoveExpired evicts every entry older than the ttl and returns how many went
func (c *LRU[K, V]) RemoveExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now, n := c.now(), 0
	for ent := c.list.back(); ent != nil; {
		prev := c.list.prev(ent)
		if !c.expired(ent, now) {
			// the list is ordered by use, everything in front is younger
			break
		}
		c.removeElement(ent)
		n++
		ent = prev
	}
	return n
}

// Purge evicts every entry
func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for ent := c.list.back(); ent != nil; ent = c.list.back() {
		c.removeElement(ent)
	}
}

// Keys returns the live keys from oldest to newest
func (c *LRU[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	keys := make([]K, 0, len(c.items))
	for ent := c.list.back(); ent != nil; ent = c.list.prev(ent) {
		if !c.expired(ent, now) {
			keys = append(keys, ent.key)
		}
	}
	return keys
}

// Len returns the number of cached entries, expired ones included
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.len
}

// Resize changes the size bound, evicting the oldest entries above it.
// Size 0 means unbounded.
func (c *LRU[K, V]) Resize(size int) (evicted int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.size = max(size, 0)
	if c.size == 0 {
		return 0
	}
	for c.list.len > c.size {
		c.removeElement(c.list.back())
		evicted++
	}
	return evicted
}

// Cap returns the size bound, 0 when unbounded
func (c *LRU[K, V]) Cap() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *LRU[K, V]) expired(ent *entry[K, V], now time.Time) bool {
	return c.ttl > 0 && now.Sub(ent.touched) > c.ttl
}

// removeElement has to be called with the lock held
func (c *LRU[K, V]) removeElement(ent *entry[K, V]) {
	c.list.remove(ent)
	delete(c.items, ent.key)
	if c.onEvict != nil {
		c.onEvict(ent.key, ent.value)
	}
}

type entry[K comparable, V any] struct {
	next, prev *entry[K, V]
	key        K
	value      V
	touched    time.Time
}

// list is a ring around root: root.next is the newest entry, root.prev the oldest
type list[K comparable, V any] struct {
	root entry[K, V]
	len  int
}

func (l *list[K, V]) init() {
	l.root.next = &l.root
	l.root.prev = &l.root
	l.len = 0
}

func (l *list[K, V]) back() *entry[K, V] {
	if l.len == 0 {
		return nil
	}
	return l.root.prev
}

func (l *list[K, V]) prev(e *entry[K, V]) *entry[K, V] {
	if e.prev == &l.root {
		return nil
	}
	return e.prev
}

func (l *list[K, V]) pushFront(e *entry[K, V]) {
	l.link(e, &l.root)
	l.len++
}

func (l *list[K, V]) moveToFront(e *entry[K, V]) {
	if l.root.next == e {
		return
	}
	l.unlink(e)
	l.link(e, &l.root)
}

func (l *list[K, V]) remove(e *entry[K, V]) {
	l.unlink(e)
	e.next, e.prev = nil, nil
	l.len--
}

func (l *list[K, V]) link(e, at *entry[K, V]) {
	e.prev = at
	e.next = at.next
	at.next.prev = e
	at.next = e
}

func (l *list[K, V]) unlink(e *entry[K, V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
}
