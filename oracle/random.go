package oracle

import (
	"encoding/binary"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash"
	"lukechampine.com/frand"

	"github.com/domino14/spreadsearch/gamestate"
)

const randomBoardPrefix = "#"

// Random is a synthetic oracle for property tests. Each ply the player on
// turn puts one of their letters on a shared pile; the pile is kept sorted,
// so different move orders transpose into the same key. The points for a
// move depend only on the key and the letter played, which keeps cached
// relative values sound.
type Random struct {
	seed    uint64
	maxGain int
}

// NewRandom deals two racks of rackSize letters drawn from alphabet and
// returns the starting position with the oracle that expands it.
func NewRandom(seed uint64, alphabet string, rackSize, maxGain int) (*gamestate.State, *Random) {
	var seedBytes [32]byte
	binary.LittleEndian.PutUint64(seedBytes[:], seed)
	rng := frand.NewCustom(seedBytes[:], 1024, 12)

	letters := []rune(alphabet)
	var racks [2]string
	for p := range racks {
		rack := make([]rune, rackSize)
		for i := range rack {
			rack[i] = letters[rng.Intn(len(letters))]
		}
		slices.Sort(rack)
		racks[p] = string(rack)
	}
	root := gamestate.MustNew(randomBoardPrefix, racks, [2]int{0, 0}, gamestate.Player0)
	return root, NewRandomOracle(seed, maxGain)
}

// NewRandomOracle returns the oracle alone, for callers that build their own
// starting position. Boards must start with "#".
func NewRandomOracle(seed uint64, maxGain int) *Random {
	return &Random{seed: seed, maxGain: maxGain}
}

func (r *Random) gain(k gamestate.Key, letter rune) int {
	h := xxhash.Sum64String(strconv.FormatUint(r.seed, 16) + "|" + k.String() + "|" + string(letter))
	return int(h % uint64(r.maxGain+1))
}

func (r *Random) ChildrenOf(s *gamestate.State) []*gamestate.State {
	onturn := s.PlayerOnTurn()
	rack := []rune(s.RackFor(onturn))
	if len(rack) == 0 {
		return nil
	}
	key := s.CanonicalKey()
	pile := []rune(strings.TrimPrefix(s.Board(), randomBoardPrefix))

	var children []*gamestate.State
	for i, letter := range rack {
		if i > 0 && rack[i-1] == letter {
			continue
		}
		newPile := append(slices.Clone(pile), letter)
		slices.Sort(newPile)
		newRack := slices.Delete(slices.Clone(rack), i, i+1)

		var racks [2]string
		racks[onturn] = string(newRack)
		racks[gamestate.Other(onturn)] = s.RackFor(gamestate.Other(onturn))
		scores := [2]int{s.PointsFor(0), s.PointsFor(1)}
		scores[onturn] += r.gain(key, letter)

		children = append(children, gamestate.MustNew(randomBoardPrefix+string(newPile),
			racks, scores, gamestate.Other(onturn)))
	}
	return children
}
