package store

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator produces record ids unique within one store.
type IDGenerator interface {
	// Next returns a fresh id; taken reports ids already in use.
	Next(taken func(string) bool) string
}

type epochMillis struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// EpochMillis generates ids from the current epoch milliseconds, bumping by
// one whenever the candidate is already taken or not newer than the last id.
func EpochMillis() IDGenerator {
	return &epochMillis{now: time.Now}
}

// EpochMillisAt is EpochMillis with an injected clock.
func EpochMillisAt(now func() time.Time) IDGenerator {
	return &epochMillis{now: now}
}

func (g *epochMillis) Next(taken func(string) bool) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	candidate := g.now().UnixMilli()
	if candidate <= g.last {
		candidate = g.last + 1
	}
	for taken(strconv.FormatInt(candidate, 10)) {
		candidate++
	}
	g.last = candidate
	return strconv.FormatInt(candidate, 10)
}

type sequence struct {
	mu   sync.Mutex
	next int64
}

// Sequence generates consecutive integer ids starting at start, skipping
// ids already in use. Seeds and tests use it for readable ids.
func Sequence(start int64) IDGenerator {
	return &sequence{next: start}
}

func (g *sequence) Next(taken func(string) bool) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	for taken(strconv.FormatInt(g.next, 10)) {
		g.next++
	}
	id := strconv.FormatInt(g.next, 10)
	g.next++
	return id
}
