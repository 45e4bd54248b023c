// Package stmt_store caches a session's prepared statements by SQL text.
package stmt_store

import (
	"context"
	"database/sql/driver"
	"errors"
	"time"

	"gorm.io/oci/internal/lru"
)

// Stmt is a prepared native statement
type Stmt struct {
	driver.Stmt
	SQL      string
	LastUsed time.Time
	cached   bool
	pinned   bool
	evicted  bool
}

// Cached reports whether the store owns the statement
func (stmt *Stmt) Cached() bool {
	return stmt.cached
}

// Pin marks a cached statement held by an open cursor. Until Release it is
// not handed out again and eviction leaves it open.
func (stmt *Stmt) Pin() {
	if stmt.cached {
		stmt.pinned = true
	}
}

// Pinned reports a statement an open cursor holds
func (stmt *Stmt) Pinned() bool {
	return stmt.pinned
}

// Release closes an uncached statement and unpins a cached one, closing it
// when it was evicted while pinned
func (stmt *Stmt) Release() error {
	switch {
	case stmt.Stmt == nil:
		return nil
	case !stmt.cached:
		return stmt.Stmt.Close()
	case stmt.pinned:
		stmt.pinned = false
		if stmt.evicted {
			return stmt.Stmt.Close()
		}
	}
	return nil
}

// Store is not safe for concurrent preparation on one connection; callers
// serialize access the way they serialize use of the connection itself
type Store struct {
	lru       *lru.LRU[string, *Stmt]
	closeErrs []error
	// OnClose observes every statement the store closes
	OnClose func(sql string, err error)
}

// New returns a store keeping at most size statements, each for at most
// ttl since last use. Zero values mean no bound.
func New(size int, ttl time.Duration) *Store {
	s := &Store{}
	s.lru = lru.NewLRU[string, *Stmt](size, s.evicted, ttl)
	return s
}

func (s *Store) evicted(key string, stmt *Stmt) {
	if stmt == nil || stmt.Stmt == nil {
		return
	}
	if stmt.pinned {
		stmt.evicted = true
		return
	}
	err := stmt.Stmt.Close()
	if err != nil {
		s.closeErrs = append(s.closeErrs, err)
	}
	if s.OnClose != nil {
		s.OnClose(key, err)
	}
}

// Prepare returns the cached statement for query, preparing it on conn
// first when missing. With cache false, or while the cached statement is
// pinned, the statement is prepared fresh and left out of the store.
// Release what Prepare returns once done.
func (s *Store) Prepare(ctx context.Context, conn driver.Conn, query string, cache bool) (*Stmt, error) {
	s.lru.RemoveExpired()

	if cache {
		if stmt, ok := s.lru.Get(query); ok {
			if !stmt.pinned {
				stmt.LastUsed = time.Now()
				return stmt, nil
			}
			cache = false
		}
	}

	native, err := prepare(ctx, conn, query)
	if err != nil {
		return nil, err
	}

	stmt := &Stmt{Stmt: native, SQL: query, LastUsed: time.Now(), cached: cache}
	if cache {
		s.lru.Add(query, stmt)
	}
	return stmt, nil
}

func prepare(ctx context.Context, conn driver.Conn, query string) (driver.Stmt, error) {
	if preparer, ok := conn.(driver.ConnPrepareContext); ok {
		return preparer.PrepareContext(ctx, query)
	}
	return conn.Prepare(query)
}

// Get returns a cached statement without preparing
func (s *Store) Get(query string) (*Stmt, bool) {
	return s.lru.Peek(query)
}

// Keys lists the cached SQL texts from least to most recently used
func (s *Store) Keys() []string {
	return s.lru.Keys()
}

// Len is the number of cached statements
func (s *Store) Len() int {
	return s.lru.Len()
}

// Delete closes and forgets the statement for query
func (s *Store) Delete(query string) {
	s.lru.Remove(query)
}

// Close closes every cached statement, returning their close errors
func (s *Store) Close() error {
	s.closeErrs = nil
	s.lru.Purge()
	err := errors.Join(s.closeErrs...)
	s.closeErrs = nil
	return err
}
