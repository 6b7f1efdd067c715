package testutil

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StubClock returns a fixed time. Safe for concurrent use.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewStubClock creates a StubClock set to the given time.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock set to 2024-01-15 10:30:00 UTC.
func FixedClock() *StubClock {
	return NewStubClock(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// StubIDGenerator returns sequential ids 00000000-0000-4000-8000-000000000001,
// ...0002 and so on.
type StubIDGenerator struct {
	mu      sync.Mutex
	counter uint64
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() uuid.UUID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return SequentialID(g.counter)
}

// SequentialID returns the n-th id a StubIDGenerator hands out.
func SequentialID(n uint64) uuid.UUID {
	var id uuid.UUID
	id[6] = 0x40
	id[8] = 0x80
	binary.BigEndian.PutUint64(id[8:], binary.BigEndian.Uint64(id[8:])|n)
	return id
}
