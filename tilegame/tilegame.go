// Package tilegame is a small crossword-style tile game that can expand
// positions for the search. Each ply the player on turn places a single tile
// next to tiles already on the board.
package tilegame

import (
	"errors"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/spreadsearch/gamestate"
)

const (
	EmptySquare = ' '
	RowSep      = "/"
)

var ErrRaggedBoard = errors.New("board rows must all be the same length")

// LetterValues are the usual English tile values. Anything not listed,
// including the blank, scores zero.
var LetterValues = map[rune]int{
	'A': 1, 'B': 3, 'C': 3, 'D': 2, 'E': 1, 'F': 4, 'G': 2, 'H': 4, 'I': 1,
	'J': 8, 'K': 5, 'L': 1, 'M': 3, 'N': 1, 'O': 1, 'P': 3, 'Q': 10, 'R': 1,
	'S': 1, 'T': 1, 'U': 1, 'V': 4, 'W': 4, 'X': 8, 'Y': 4, 'Z': 10,
}

func letterValue(r rune) int {
	return LetterValues[r]
}

// RackValue is the sum of the tile values on a rack.
func RackValue(rack string) int {
	return lo.SumBy([]rune(rack), letterValue)
}

func sortRack(rack string) string {
	rs := []rune(rack)
	slices.Sort(rs)
	return string(rs)
}

// Parse builds a position. Racks are sorted so that equal racks always
// produce equal keys.
func Parse(board, rack0, rack1 string, score0, score1 int, onturn gamestate.Player) (*gamestate.State, error) {
	if _, err := newGrid(board); err != nil {
		return nil, err
	}
	return gamestate.New(board, [2]string{sortRack(rack0), sortRack(rack1)},
		[2]int{score0, score1}, onturn)
}

type grid struct {
	rows [][]rune
	cols int
}

func newGrid(board string) (*grid, error) {
	lines := strings.Split(board, RowSep)
	g := &grid{rows: make([][]rune, len(lines))}
	for i, l := range lines {
		g.rows[i] = []rune(l)
		if i == 0 {
			g.cols = len(g.rows[i])
		} else if len(g.rows[i]) != g.cols {
			return nil, ErrRaggedBoard
		}
	}
	return g, nil
}

func (g *grid) at(row, col int) rune {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= g.cols {
		return EmptySquare
	}
	return g.rows[row][col]
}

func (g *grid) empty() bool {
	for _, r := range g.rows {
		for _, c := range r {
			if c != EmptySquare {
				return false
			}
		}
	}
	return true
}

func (g *grid) neighbors(row, col int) []rune {
	return lo.Filter([]rune{
		g.at(row-1, col), g.at(row+1, col), g.at(row, col-1), g.at(row, col+1),
	}, func(r rune, _ int) bool { return r != EmptySquare })
}

func (g *grid) with(row, col int, tile rune) string {
	out := make([]string, len(g.rows))
	for i, r := range g.rows {
		if i == row {
			cp := slices.Clone(r)
			cp[col] = tile
			out[i] = string(cp)
		} else {
			out[i] = string(r)
		}
	}
	return strings.Join(out, RowSep)
}

// Placement is one legal move.
type Placement struct {
	Row, Col int
	Tile     rune
	Score    int
}

// Placements lists the legal moves for the player on turn at s: cells in
// row-major order, tiles in ascending order, one entry per distinct tile.
func Placements(s *gamestate.State) ([]Placement, error) {
	g, err := newGrid(s.Board())
	if err != nil {
		return nil, err
	}
	tiles := lo.Uniq([]rune(s.RackFor(s.PlayerOnTurn())))
	slices.Sort(tiles)
	anywhere := g.empty()

	var plays []Placement
	for row := range g.rows {
		for col := 0; col < g.cols; col++ {
			if g.at(row, col) != EmptySquare {
				continue
			}
			nbrs := g.neighbors(row, col)
			if len(nbrs) == 0 && !anywhere {
				continue
			}
			crossScore := lo.SumBy(nbrs, letterValue)
			for _, t := range tiles {
				plays = append(plays, Placement{
					Row: row, Col: col, Tile: t,
					Score: letterValue(t) + crossScore,
				})
			}
		}
	}
	return plays, nil
}
