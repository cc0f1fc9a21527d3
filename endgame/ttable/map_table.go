package ttable

import (
	"maps"
	"sync"

	"github.com/domino14/spreadsearch/gamestate"
)

// MapTable is an unbounded map-backed table with no eviction. It starts in
// single-threaded mode, which skips locking.
type MapTable struct {
	TableLock
	table    map[gamestate.Key]Entry
	sizeHint int
	counters
}

func NewMapTable(sizeHint int) *MapTable {
	t := &MapTable{sizeHint: sizeHint}
	t.SetSingleThreadedMode()
	t.table = make(map[gamestate.Key]Entry, sizeHint)
	return t
}

func (t *MapTable) SetSingleThreadedMode() {
	t.TableLock = &FakeLock{}
}

func (t *MapTable) SetMultiThreadedMode() {
	t.TableLock = new(sync.RWMutex)
}

func (t *MapTable) Lookup(k gamestate.Key) (Entry, bool) {
	t.RLock()
	defer t.RUnlock()
	t.lookups.Add(1)
	e, ok := t.table[k]
	if ok {
		t.hits.Add(1)
	}
	return e, ok
}

func (t *MapTable) Store(k gamestate.Key, e Entry) {
	t.Lock()
	defer t.Unlock()
	// just overwrite whatever is there.
	t.table[k] = e
	t.created.Add(1)
}

func (t *MapTable) Len() int {
	t.RLock()
	defer t.RUnlock()
	return len(t.table)
}

func (t *MapTable) Reset() {
	t.Lock()
	defer t.Unlock()
	t.table = make(map[gamestate.Key]Entry, t.sizeHint)
	t.counters.reset()
}

func (t *MapTable) Stats() Stats {
	return t.counters.stats()
}

func (t *MapTable) Snapshot() map[gamestate.Key]Entry {
	t.RLock()
	defer t.RUnlock()
	return maps.Clone(t.table)
}
