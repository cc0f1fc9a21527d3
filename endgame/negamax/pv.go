package negamax

import (
	"fmt"

	"github.com/domino14/spreadsearch/gamestate"
)

// Credit: MIT-licensed https://github.com/algerbrex/blunder/blob/main/engine/search.go
type PVLine struct {
	States []*gamestate.State
	Value  int
}

// Clear the principal variation line.
func (pvLine *PVLine) Clear() {
	pvLine.States = nil
}

// Update the principal variation line with a new best child,
// and a new line of best play after the best child.
func (pvLine *PVLine) Update(s *gamestate.State, newPVLine PVLine, value int) {
	pvLine.Clear()
	pvLine.States = append(pvLine.States, s)
	pvLine.States = append(pvLine.States, newPVLine.States...)
	pvLine.Value = value
}

// Get the first position of the principal variation line, or nil if the
// root was a leaf.
func (pvLine *PVLine) GetPVState() *gamestate.State {
	if len(pvLine.States) == 0 {
		return nil
	}
	return pvLine.States[0]
}

// Convert the principal variation line to a string.
func (pvLine PVLine) String() string {
	var s string
	s = fmt.Sprintf("PV; val %d\n", pvLine.Value)
	for i := 0; i < len(pvLine.States); i++ {
		s += fmt.Sprintf("%d: %s\n", i+1, pvLine.States[i])
	}
	return s
}

func (pvLine PVLine) NLBString() string {
	// no line breaks
	var s string
	s = fmt.Sprintf("PV; val %d; ", pvLine.Value)
	for i := 0; i < len(pvLine.States); i++ {
		s += fmt.Sprintf("%d: %s; ", i+1, pvLine.States[i])
	}
	return s
}
