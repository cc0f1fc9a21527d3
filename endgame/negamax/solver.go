package negamax

import (
	"context"
	"errors"
	"fmt"
	"time"

	perrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/domino14/spreadsearch/endgame/ttable"
	"github.com/domino14/spreadsearch/gamestate"
	"github.com/domino14/spreadsearch/oracle"
)

// thanks Wikipedia:
/*
function negamax(node, depth, color) is
    if depth = 0 or node is a terminal node then
        return color × the heuristic value of node
    value := −∞
    for each child of node do
        value := max(value, −negamax(child, depth − 1, −color))
    return value
**/

// HugeNumber is larger in magnitude than any spread the search accepts.
// -HugeNumber is the starting value at every internal node.
const HugeNumber = 1 << 30

var (
	ErrNegativeDepth    = errors.New("depth must not be negative")
	ErrSpreadOutOfRange = errors.New("spread is out of the searchable range")
	ErrNoOracle         = errors.New("solver needs an oracle")
)

type Solver struct {
	oracle oracle.Oracle
	ttable ttable.Table
	tracer Tracer

	// pruneOnHit returns the cached estimate for a node instead of searching
	// it, when the entry was searched to the same depth. Off by default: a
	// hit is then only reported to the tracer.
	pruneOnHit bool

	principalVariation PVLine
	nodes              uint64
}

// Init initializes the solver. If t is nil a fresh single-threaded MapTable
// is used.
func (s *Solver) Init(o oracle.Oracle, t ttable.Table) error {
	if o == nil {
		return ErrNoOracle
	}
	s.oracle = o
	if t == nil {
		t = ttable.NewMapTable(0)
	}
	s.ttable = t
	s.pruneOnHit = false
	s.tracer = nil
	return nil
}

func (s *Solver) SetPruneOnHit(p bool) {
	s.pruneOnHit = p
}

func (s *Solver) SetTracer(t Tracer) {
	s.tracer = t
}

func (s *Solver) TranspositionTable() ttable.Table {
	return s.ttable
}

// Nodes is the number of nodes visited by the last search.
func (s *Solver) Nodes() uint64 {
	return s.nodes
}

func (s *Solver) PrincipalVariation() PVLine {
	return s.principalVariation
}

func (s *Solver) trace(ev TraceEvent) {
	if s.tracer != nil {
		s.tracer.Trace(ev)
	}
}

// Negamax returns the best spread that the player on turn at root can reach
// within depth plies. The table is read and written at every internal node
// and is left populated for the caller.
func (s *Solver) Negamax(ctx context.Context, root *gamestate.State, depth int) (int, error) {
	if depth < 0 {
		return 0, perrors.Wrapf(ErrNegativeDepth, "got %d", depth)
	}
	s.nodes = 0
	pv := PVLine{}
	v, err := s.negamax(ctx, nil, root, depth, 0, &pv)
	if err != nil {
		return 0, err
	}
	pv.Value = v
	s.principalVariation = pv
	return v, nil
}

func (s *Solver) negamax(ctx context.Context, parent, node *gamestate.State, depth, ply int,
	pv *PVLine) (int, error) {

	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	if err := node.Validate(); err != nil {
		return 0, perrors.Wrapf(err, "ply %d", ply)
	}
	if c, ok := s.oracle.(oracle.Checker); ok {
		if err := c.Check(node); err != nil {
			return 0, perrors.Wrapf(fmt.Errorf("%w: %w", gamestate.ErrMalformedState, err),
				"ply %d", ply)
		}
	}
	s.nodes++

	ourSpread := node.SpreadFor(node.PlayerOnTurn())
	if ourSpread <= -HugeNumber || ourSpread >= HugeNumber {
		return 0, perrors.Wrapf(ErrSpreadOutOfRange, "%v", node)
	}
	ev := TraceEvent{Ply: ply, Depth: depth, Parent: parent, Node: node}

	var children []*gamestate.State
	if depth > 0 {
		children = s.oracle.ChildrenOf(node)
	}
	if len(children) == 0 {
		ev.Event, ev.Value = EventLeaf, ourSpread
		s.trace(ev)
		return ourSpread, nil
	}

	ev.Key = node.CanonicalKey()
	if entry, ok := s.ttable.Lookup(ev.Key); ok {
		// add spread back in; we subtract it when storing.
		ev.Event, ev.Cached, ev.Value = EventHit, entry.Value, ttable.Decode(entry.Value, ourSpread)
		s.trace(ev)
		if s.pruneOnHit && entry.Depth == depth {
			// Only an entry searched to exactly this depth stands in for the
			// subtree, so a shared table gives the same answer whatever else
			// was searched with it. The PV stops here.
			ev.Event = EventPrune
			s.trace(ev)
			return ev.Value, nil
		}
	} else {
		ev.Event = EventMiss
		s.trace(ev)
	}

	bestValue := -HugeNumber
	childPV := PVLine{}
	for _, child := range children {
		value, err := s.negamax(ctx, node, child, depth-1, ply+1, &childPV)
		if err != nil {
			return 0, err
		}
		// strictly greater, so ties keep the first child the oracle gave us.
		if -value > bestValue {
			bestValue = -value
			pv.Update(child, childPV, bestValue)
		}
		childPV.Clear()
	}

	// Store the value without our spread to make it spread-independent.
	rel := ttable.Encode(bestValue, ourSpread)
	s.ttable.Store(ev.Key, ttable.Entry{Value: rel, Depth: depth})
	ev.Event, ev.Cached, ev.Value = EventStore, rel, bestValue
	s.trace(ev)

	return bestValue, nil
}

// Solve searches root to the given number of plies and returns the value
// along with the best line found.
func (s *Solver) Solve(ctx context.Context, root *gamestate.State, plies int) (int, PVLine, error) {
	log.Debug().Int("plies", plies).Bool("prune-on-hit", s.pruneOnHit).
		Str("root", root.String()).Msg("negamax-solve-config")
	tstart := time.Now()

	v, err := s.Negamax(ctx, root, plies)
	if err != nil {
		return 0, PVLine{}, err
	}
	stats := s.ttable.Stats()
	log.Info().
		Int("value", v).
		Uint64("nodes", s.nodes).
		Int("ttable-entries", s.ttable.Len()).
		Uint64("ttable-created", stats.Created).
		Uint64("ttable-lookups", stats.Lookups).
		Uint64("ttable-hits", stats.Hits).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Str("pv", s.principalVariation.NLBString()).
		Msg("solve-returning")
	return v, s.principalVariation, nil
}

// Negamax searches root with a default solver: no pruning on table hits and
// no tracing. The caller owns table and may reuse it across searches.
func Negamax(ctx context.Context, root *gamestate.State, depth int, o oracle.Oracle,
	table ttable.Table) (int, error) {

	s := &Solver{}
	if err := s.Init(o, table); err != nil {
		return 0, err
	}
	return s.Negamax(ctx, root, depth)
}
