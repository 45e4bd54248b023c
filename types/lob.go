package types

import (
	"bytes"
	"errors"
	"io"
)

// ErrLOBConsumed is returned when a LOB that was already streamed is materialized
var ErrLOBConsumed = errors.New("large object already consumed by streaming")

// LOB is a streaming handle over a large text or binary payload.
//
// Reading from the handle streams the payload from the driver without
// buffering it; Bytes materializes the whole payload once and caches it.
// A handle is single-owner like the session that produced it.
type LOB struct {
	r        io.Reader
	size     int64
	streamed bool
	loaded   bool
	data     []byte
	off      int
	err      error
}

// NewLOB wraps r, size is the payload length in bytes or -1 when unknown
func NewLOB(r io.Reader, size int64) *LOB {
	if r == nil {
		r = bytes.NewReader(nil)
	}
	return &LOB{r: r, size: size}
}

// Size returns the payload size in bytes, -1 when the driver did not report it
func (l *LOB) Size() int64 {
	if l.loaded {
		return int64(len(l.data))
	}
	return l.size
}

// Read implements io.Reader
func (l *LOB) Read(p []byte) (int, error) {
	if l.loaded {
		if l.off >= len(l.data) {
			return 0, io.EOF
		}
		n := copy(p, l.data[l.off:])
		l.off += n
		return n, nil
	}
	l.streamed = true
	return l.r.Read(p)
}

// Bytes reads the whole payload into memory
func (l *LOB) Bytes() ([]byte, error) {
	if l.loaded || l.err != nil {
		return l.data, l.err
	}
	if l.streamed {
		return nil, ErrLOBConsumed
	}
	l.data, l.err = io.ReadAll(l.r)
	l.loaded = l.err == nil
	return l.data, l.err
}

// Close releases the underlying reader when it holds native resources
func (l *LOB) Close() error {
	if c, ok := l.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
