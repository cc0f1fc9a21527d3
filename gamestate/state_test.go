package gamestate

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestSpreadAntisymmetry(t *testing.T) {
	is := is.New(t)
	states := []*State{
		MustNew("RADAR/     /     ", [2]string{"ET", "ET"}, [2]int{35, 18}, Player0),
		MustNew("RADAR/ T   /     ", [2]string{"E", "ET"}, [2]int{39, 18}, Player1),
		MustNew("X", [2]string{"", ""}, [2]int{0, 0}, Player0),
		MustNew("X", [2]string{"", ""}, [2]int{3, 400}, Player1),
	}
	for _, s := range states {
		is.Equal(s.SpreadFor(Player0), -s.SpreadFor(Player1))
		is.Equal(s.SpreadFor(Player0), s.PointsFor(Player0)-s.PointsFor(Player1))
	}
}

func TestSpreadFor(t *testing.T) {
	is := is.New(t)
	s := MustNew("RADAR/     /     ", [2]string{"ET", "ET"}, [2]int{35, 18}, Player0)
	is.Equal(s.SpreadFor(Player0), 17)
	is.Equal(s.SpreadFor(Player1), -17)
	is.Equal(s.SpreadFor(s.PlayerOnTurn()), 17)
}

func TestCanonicalKeyExcludesScores(t *testing.T) {
	is := is.New(t)
	a := MustNew("RADAR/ T T /     ", [2]string{"E", "E"}, [2]int{39, 20}, Player0)
	b := MustNew("RADAR/ T T /     ", [2]string{"E", "E"}, [2]int{37, 22}, Player0)
	c := MustNew("RADAR/ T T /     ", [2]string{"E", "E"}, [2]int{37, 22}, Player1)

	is.Equal(a.CanonicalKey(), b.CanonicalKey())
	is.True(a.CanonicalKey() != c.CanonicalKey())

	m := map[Key]int{a.CanonicalKey(): 1}
	_, ok := m[b.CanonicalKey()]
	is.True(ok)
}

func TestNewRejectsInvalid(t *testing.T) {
	is := is.New(t)

	_, err := New("X", [2]string{}, [2]int{0, 0}, Player(2))
	is.True(errors.Is(err, ErrInvalidPlayer))
	is.True(errors.Is(err, ErrMalformedState))

	_, err = New("X", [2]string{}, [2]int{-1, 0}, Player0)
	is.True(errors.Is(err, ErrNegativeScore))

	_, err = New("", [2]string{}, [2]int{0, 0}, Player0)
	is.True(errors.Is(err, ErrEmptyBoard))

	var nilState *State
	is.True(errors.Is(nilState.Validate(), ErrMalformedState))
}

func TestOther(t *testing.T) {
	is := is.New(t)
	is.Equal(Other(Player0), Player1)
	is.Equal(Other(Player1), Player0)
}
