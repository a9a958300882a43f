// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"sync"
)

// Transcript retains the most recent output of a session in a
// fixed-capacity ring. Writers never block and never fail; once the
// ring is full the oldest bytes are overwritten. The zero value is not
// usable, call NewTranscript.
//
// Transcript implements io.Writer so it can sit behind an
// io.MultiWriter alongside the session's connection.
type Transcript struct {
	mu       sync.Mutex
	data     []byte
	capacity int
	next     int
	total    uint64
}

// NewTranscript creates a transcript ring retaining up to capacity
// bytes. Capacity must be positive.
func NewTranscript(capacity int) *Transcript {
	if capacity <= 0 {
		panic("console: transcript capacity must be positive")
	}
	return &Transcript{
		data:     make([]byte, capacity),
		capacity: capacity,
	}
}

// Write appends p to the ring, overwriting the oldest bytes when the
// ring is full. It always succeeds and always reports len(p).
func (t *Transcript) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	written := len(p)
	if len(p) >= t.capacity {
		// Only the tail fits; the rest would be overwritten anyway.
		copy(t.data, p[len(p)-t.capacity:])
		t.next = 0
		t.total += uint64(written)
		return written, nil
	}
	for len(p) > 0 {
		n := copy(t.data[t.next:], p)
		t.next = (t.next + n) % t.capacity
		p = p[n:]
	}
	t.total += uint64(written)
	return written, nil
}

// Snapshot returns a copy of the retained bytes in write order, oldest
// first. The result is at most Capacity bytes long.
func (t *Transcript) Snapshot() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.total == 0 {
		return nil
	}
	if t.total <= uint64(t.capacity) {
		out := make([]byte, t.total)
		copy(out, t.data[:t.total])
		return out
	}
	// The ring has wrapped: the oldest byte lives at the write cursor.
	out := make([]byte, 0, t.capacity)
	out = append(out, t.data[t.next:]...)
	out = append(out, t.data[:t.next]...)
	return out
}

// TotalWritten reports the total number of bytes ever written,
// including bytes that have since been overwritten.
func (t *Transcript) TotalWritten() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Truncated reports whether any bytes have been overwritten, that is,
// whether Snapshot no longer covers the session from its beginning.
func (t *Transcript) Truncated() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total > uint64(t.capacity)
}

// Capacity returns the maximum number of bytes the ring retains.
func (t *Transcript) Capacity() int {
	return t.capacity
}
