// Package oracle defines the move expansion capability used by the search,
// along with a few implementations that do not depend on real game rules.
package oracle

import "github.com/domino14/spreadsearch/gamestate"

// Oracle produces the positions reachable from s in one ply. The result must
// be finite and deterministic for equal inputs; an empty result marks a
// terminal position. The search never creates states on its own.
type Oracle interface {
	ChildrenOf(s *gamestate.State) []*gamestate.State
}

// Func adapts a plain function to an Oracle.
type Func func(s *gamestate.State) []*gamestate.State

func (f Func) ChildrenOf(s *gamestate.State) []*gamestate.State {
	return f(s)
}

// Checker is implemented by oracles that can tell when they were handed a
// position they cannot expand. The search calls Check before ChildrenOf.
type Checker interface {
	Check(s *gamestate.State) error
}
