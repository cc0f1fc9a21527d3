package ttable

import (
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/spreadsearch/gamestate"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func key(board string, onturn gamestate.Player) gamestate.Key {
	return gamestate.Key{Board: board, Rack0: "E", Rack1: "E", OnTurn: onturn}
}

func TestEncodeDecode(t *testing.T) {
	cases := []struct {
		value, spread, rel int
	}{
		{24, 17, 7},
		{-24, -21, -3},
		{20, 15, 5},
		{0, 0, 0},
		{-5, 12, -17},
	}
	for _, c := range cases {
		assert.Equal(t, c.rel, Encode(c.value, c.spread))
		assert.Equal(t, c.value, Decode(Encode(c.value, c.spread), c.spread))
	}
	// The same relative value read at a different spread shifts by the
	// difference in spreads.
	assert.Equal(t, 20, Decode(Encode(24, 19), 15))
}

func testTable(t *testing.T, tt Table) {
	is := is.New(t)
	k1 := key("RADAR/ T T /     ", 0)
	k2 := key("RADAR/ T T /     ", 1)

	_, ok := tt.Lookup(k1)
	is.True(!ok)

	tt.Store(k1, Entry{Value: 5, Depth: 1})
	e, ok := tt.Lookup(k1)
	is.True(ok)
	is.Equal(e, Entry{Value: 5, Depth: 1})

	_, ok = tt.Lookup(k2)
	is.True(!ok)

	tt.Store(k1, Entry{Value: 9, Depth: 3})
	e, _ = tt.Lookup(k1)
	is.Equal(e.Value, 9)
	is.Equal(tt.Len(), 1)

	is.Equal(tt.Stats(), Stats{Created: 2, Lookups: 4, Hits: 2})
	is.Equal(tt.Snapshot(), map[gamestate.Key]Entry{k1: {Value: 9, Depth: 3}})

	tt.Reset()
	is.Equal(tt.Len(), 0)
	is.Equal(tt.Stats(), Stats{})
}

func TestMapTable(t *testing.T) {
	testTable(t, NewMapTable(16))
}

func TestMapTableMultiThreaded(t *testing.T) {
	tt := NewMapTable(0)
	tt.SetMultiThreadedMode()
	testTable(t, tt)
}

func TestShardedTable(t *testing.T) {
	is := is.New(t)
	tt := NewShardedTable(5, 64)
	is.Equal(tt.NumShards(), 8)
	testTable(t, tt)
	is.Equal(NewShardedTable(0, 0).NumShards(), 1)
}

func TestShardedTableConcurrent(t *testing.T) {
	is := is.New(t)
	tt := NewShardedTable(16, 1<<12)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				k := key(fmt.Sprintf("b%d", i), gamestate.Player(g%2))
				tt.Store(k, Entry{Value: i, Depth: 1})
				tt.Lookup(k)
			}
		}(g)
	}
	wg.Wait()
	is.Equal(tt.Len(), 1000)
	is.Equal(tt.Stats().Created, uint64(4000))
	is.Equal(tt.Stats().Hits, uint64(4000))

	e, ok := tt.Lookup(key("b499", 1))
	is.True(ok)
	is.Equal(e.Value, 499)
}

func TestSizeHint(t *testing.T) {
	is := is.New(t)
	is.Equal(SizeHint(0), minSizeHint)
	is.True(SizeHint(1) <= maxSizeHint)
}

func TestStatsString(t *testing.T) {
	s := Stats{Created: 12345, Lookups: 2000, Hits: 500}
	assert.Equal(t, "created: 12,345, lookups: 2,000, hits: 500 (25.0%)", s.String())
	assert.Equal(t, 0.0, Stats{}.HitRate())
}
