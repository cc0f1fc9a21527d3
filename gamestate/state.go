// Package gamestate holds an immutable snapshot of a two-player scoring game
// at one ply, along with its canonical transposition key.
package gamestate

import (
	"errors"
	"fmt"

	perrors "github.com/pkg/errors"
)

// Player is the index of a side; player 0 is the reference side for spreads.
type Player int

const (
	Player0 Player = 0
	Player1 Player = 1
)

var (
	ErrInvalidPlayer  = errors.New("player must be 0 or 1")
	ErrNegativeScore  = errors.New("scores must be non-negative")
	ErrEmptyBoard     = errors.New("board must not be empty")
	ErrMalformedState = errors.New("malformed state")
)

// Other returns the opponent of p.
func Other(p Player) Player {
	return 1 - p
}

func (p Player) Valid() bool {
	return p == Player0 || p == Player1
}

// State is a position. It is never mutated after construction; the oracle
// produces new States for every ply.
type State struct {
	board  string
	racks  [2]string
	scores [2]int
	onturn Player
}

// New creates a State and checks its invariants.
func New(board string, racks [2]string, scores [2]int, onturn Player) (*State, error) {
	s := &State{board: board, racks: racks, scores: scores, onturn: onturn}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// MustNew is like New but panics on an invalid state. Meant for fixtures.
func MustNew(board string, racks [2]string, scores [2]int, onturn Player) *State {
	s, err := New(board, racks, scores, onturn)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate re-checks the invariants of a state, usually one that came from
// an oracle. Any failure wraps ErrMalformedState as well as the specific cause.
func (s *State) Validate() error {
	if s == nil {
		return perrors.Wrap(ErrMalformedState, "nil state")
	}
	var cause error
	switch {
	case !s.onturn.Valid():
		cause = ErrInvalidPlayer
	case s.scores[0] < 0 || s.scores[1] < 0:
		cause = ErrNegativeScore
	case s.board == "":
		cause = ErrEmptyBoard
	}
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%w: %w (%v)", ErrMalformedState, cause, s)
}

func (s *State) Board() string {
	return s.board
}

func (s *State) RackFor(p Player) string {
	return s.racks[p]
}

func (s *State) PointsFor(p Player) int {
	return s.scores[p]
}

func (s *State) PlayerOnTurn() Player {
	return s.onturn
}

// SpreadFor returns p's score minus the opponent's score.
func (s *State) SpreadFor(p Player) int {
	spread := s.scores[0] - s.scores[1]
	if p == Player1 {
		spread = -spread
	}
	return spread
}

// CanonicalKey returns the transposition key for this state. Scores are not
// part of it.
func (s *State) CanonicalKey() Key {
	return Key{
		Board:  s.board,
		Rack0:  s.racks[0],
		Rack1:  s.racks[1],
		OnTurn: s.onturn,
	}
}

func (s *State) String() string {
	return fmt.Sprintf("<State board=%q racks=%s-%s scores=%d-%d onturn=%d>",
		s.board, s.racks[0], s.racks[1], s.scores[0], s.scores[1], s.onturn)
}

// Key identifies positions that are assumed to be strategically equivalent
// modulo their absolute spread. It is comparable and can be used as a map key.
type Key struct {
	Board  string
	Rack0  string
	Rack1  string
	OnTurn Player
}

func (k Key) String() string {
	return fmt.Sprintf("%q %s/%s p%d", k.Board, k.Rack0, k.Rack1, k.OnTurn)
}
