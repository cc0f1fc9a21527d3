// Package ttable is the transposition table used by the negamax search.
//
// Values are stored relative to the spread of the node that stored them:
// a node whose best value is v and whose own spread is s stores v - s. A
// later node with the same key and spread s' reads it back as s' + (v - s).
// Keys leave out the scores, so the same board and racks reached with a
// different running score shares the entry.
package ttable

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"

	"github.com/domino14/spreadsearch/gamestate"
)

// Entry is what the table remembers about a position.
type Entry struct {
	// Value is relative to the spread of the node that stored it.
	Value int
	// Depth is the number of plies that were searched below the node.
	Depth int
}

// Table maps canonical keys to relative values. Store overwrites
// unconditionally; the last write for a key wins.
type Table interface {
	Lookup(k gamestate.Key) (Entry, bool)
	Store(k gamestate.Key, e Entry)
	Len() int
	Reset()
	Stats() Stats
	Snapshot() map[gamestate.Key]Entry
}

// Encode turns a node's best value into the value to store, given the
// spread for the player on turn at that node.
func Encode(value, spread int) int {
	return value - spread
}

// Decode reverses Encode for a node with the given spread.
func Decode(rel, spread int) int {
	return spread + rel
}

type TableLock interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

type FakeLock struct{}

func (f FakeLock) Lock()    {}
func (f FakeLock) Unlock()  {}
func (f FakeLock) RLock()   {}
func (f FakeLock) RUnlock() {}

var _ TableLock = FakeLock{}
var _ TableLock = (*sync.RWMutex)(nil)

// Stats are cumulative since the last Reset.
type Stats struct {
	Created uint64
	Lookups uint64
	Hits    uint64
}

func (s Stats) HitRate() float64 {
	if s.Lookups == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Lookups)
}

func (s Stats) String() string {
	return fmt.Sprintf("created: %s, lookups: %s, hits: %s (%.1f%%)",
		humanize.Comma(int64(s.Created)), humanize.Comma(int64(s.Lookups)),
		humanize.Comma(int64(s.Hits)), 100*s.HitRate())
}

type counters struct {
	created atomic.Uint64
	lookups atomic.Uint64
	hits    atomic.Uint64
}

func (c *counters) stats() Stats {
	return Stats{
		Created: c.created.Load(),
		Lookups: c.lookups.Load(),
		Hits:    c.hits.Load(),
	}
}

func (c *counters) reset() {
	c.created.Store(0)
	c.lookups.Store(0)
	c.hits.Store(0)
}
