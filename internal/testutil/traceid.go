package testutil

import (
	"fmt"
	"sync"
)

// FixedTraceID returns the same trace ID every time.
//
// CLI tests inject it in place of the UUIDv7 generator so JSON envelopes
// compare byte for byte.
//
// Thread-safety: FixedTraceID is stateless and safe for concurrent use.
type FixedTraceID struct {
	id string
}

// NewFixedTraceID creates a fixed generator. An empty id becomes
// "test-trace-default".
func NewFixedTraceID(id string) *FixedTraceID {
	if id == "" {
		id = "test-trace-default"
	}
	return &FixedTraceID{id: id}
}

// Generate returns the fixed ID.
func (g *FixedTraceID) Generate() string {
	return g.id
}

// SequentialTraceID returns "<prefix>-1", "<prefix>-2", ... so tests that
// issue several commands can tell the envelopes apart.
type SequentialTraceID struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialTraceID creates a generator numbering from 1.
func NewSequentialTraceID(prefix string) *SequentialTraceID {
	return &SequentialTraceID{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequentialTraceID) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Reset restarts numbering at 1.
func (g *SequentialTraceID) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
