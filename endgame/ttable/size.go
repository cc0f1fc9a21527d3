package ttable

import (
	"unsafe"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/spreadsearch/gamestate"
)

const (
	minSizeHint = 1 << 10
	maxSizeHint = 1 << 24
	// rough per-entry cost: the key and entry themselves, plus the string
	// bytes and map overhead.
	approxEntrySize = int(unsafe.Sizeof(gamestate.Key{})+unsafe.Sizeof(Entry{})) + 64
)

// SizeHint estimates how many entries fit in fractionOfMemory of the total
// system memory. The result is meant for preallocating maps; the tables
// never evict.
func SizeHint(fractionOfMemory float64) int {
	totalMem := memory.TotalMemory()
	desired := fractionOfMemory * float64(totalMem) / float64(approxEntrySize)
	hint := int(desired)
	if hint < minSizeHint {
		hint = minSizeHint
	}
	if hint > maxSizeHint {
		hint = maxSizeHint
	}
	log.Debug().
		Float64("desired-num-elems", desired).
		Int("size-hint", hint).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("transposition-table-size")
	return hint
}
