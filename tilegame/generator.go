package tilegame

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/spreadsearch/gamestate"
)

// Generator expands tile game positions for the search.
type Generator struct {
	// OutBonusMultiplier scales the opponent's rack value that a player
	// receives for playing out.
	OutBonusMultiplier int
}

func NewGenerator() *Generator {
	return &Generator{OutBonusMultiplier: 2}
}

// GameOver is true once either player has no tiles left.
func GameOver(s *gamestate.State) bool {
	return s.RackFor(0) == "" || s.RackFor(1) == ""
}

// Check fails for boards that are not a rectangular grid.
func (g *Generator) Check(s *gamestate.State) error {
	_, err := newGrid(s.Board())
	return err
}

func (g *Generator) ChildrenOf(s *gamestate.State) []*gamestate.State {
	if GameOver(s) {
		return nil
	}
	plays, err := Placements(s)
	if err != nil {
		// Check rejects these boards before the search gets here.
		log.Error().Err(err).Str("board", s.Board()).Msg("cannot-generate-placements")
		panic(err)
	}
	children := make([]*gamestate.State, 0, len(plays))
	for _, p := range plays {
		children = append(children, g.apply(s, p))
	}
	return children
}

func (g *Generator) apply(s *gamestate.State, p Placement) *gamestate.State {
	onturn := s.PlayerOnTurn()
	opp := gamestate.Other(onturn)
	// newGrid already succeeded for this board in Placements.
	grid, _ := newGrid(s.Board())

	var racks [2]string
	racks[onturn] = strings.Replace(s.RackFor(onturn), string(p.Tile), "", 1)
	racks[opp] = s.RackFor(opp)

	scores := [2]int{s.PointsFor(0), s.PointsFor(1)}
	scores[onturn] += p.Score
	if racks[onturn] == "" {
		scores[onturn] += g.OutBonusMultiplier * RackValue(racks[opp])
	}
	return gamestate.MustNew(grid.with(p.Row, p.Col, p.Tile), racks, scores, opp)
}
