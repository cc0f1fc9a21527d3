package ttable

import (
	"math/bits"
	"sync"

	"github.com/cespare/xxhash"

	"github.com/domino14/spreadsearch/gamestate"
)

// ShardedTable can be shared by searches running on different goroutines.
// Each shard has its own lock. Last writer wins; a reader racing a writer on
// the same key may see either value.
type ShardedTable struct {
	shards []shard
	mask   uint64
	counters
}

type shard struct {
	sync.RWMutex
	table map[gamestate.Key]Entry
}

// NewShardedTable rounds numShards up to a power of two. sizeHint is the
// expected total number of entries.
func NewShardedTable(numShards, sizeHint int) *ShardedTable {
	if numShards < 1 {
		numShards = 1
	}
	n := 1 << bits.Len(uint(numShards-1))
	t := &ShardedTable{
		shards: make([]shard, n),
		mask:   uint64(n - 1),
	}
	for i := range t.shards {
		t.shards[i].table = make(map[gamestate.Key]Entry, sizeHint/n)
	}
	return t
}

func (t *ShardedTable) NumShards() int {
	return len(t.shards)
}

func shardHash(k gamestate.Key) uint64 {
	d := xxhash.New()
	d.Write([]byte(k.Board))
	d.Write([]byte{0, byte(k.OnTurn)})
	d.Write([]byte(k.Rack0))
	d.Write([]byte{0})
	d.Write([]byte(k.Rack1))
	return d.Sum64()
}

func (t *ShardedTable) shardFor(k gamestate.Key) *shard {
	return &t.shards[shardHash(k)&t.mask]
}

func (t *ShardedTable) Lookup(k gamestate.Key) (Entry, bool) {
	s := t.shardFor(k)
	s.RLock()
	e, ok := s.table[k]
	s.RUnlock()
	t.lookups.Add(1)
	if ok {
		t.hits.Add(1)
	}
	return e, ok
}

func (t *ShardedTable) Store(k gamestate.Key, e Entry) {
	s := t.shardFor(k)
	s.Lock()
	s.table[k] = e
	s.Unlock()
	t.created.Add(1)
}

func (t *ShardedTable) Len() int {
	n := 0
	for i := range t.shards {
		t.shards[i].RLock()
		n += len(t.shards[i].table)
		t.shards[i].RUnlock()
	}
	return n
}

func (t *ShardedTable) Reset() {
	for i := range t.shards {
		t.shards[i].Lock()
		clear(t.shards[i].table)
		t.shards[i].Unlock()
	}
	t.counters.reset()
}

func (t *ShardedTable) Stats() Stats {
	return t.counters.stats()
}

func (t *ShardedTable) Snapshot() map[gamestate.Key]Entry {
	out := make(map[gamestate.Key]Entry)
	for i := range t.shards {
		t.shards[i].RLock()
		for k, v := range t.shards[i].table {
			out[k] = v
		}
		t.shards[i].RUnlock()
	}
	return out
}
