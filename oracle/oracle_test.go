package oracle

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/spreadsearch/gamestate"
)

const toyYAML = `
board: "RADAR/     /     "
racks: [ET, ET]
scores: [35, 18]
onturn: 0
children:
  - board: "RADAR/ T   /     "
    racks: [E, ET]
    scores: [39, 18]
    onturn: 1
    children:
      - board: "RADAR/ T T /     "
        racks: [E, E]
        scores: [39, 20]
        onturn: 0
  - board: "RADAR/   T /     "
    racks: [E, ET]
    scores: [37, 18]
    onturn: 1
`

func TestLoadTree(t *testing.T) {
	is := is.New(t)
	root, tree, err := LoadTree(strings.NewReader(toyYAML))
	is.NoErr(err)
	is.Equal(tree.Size(), 4)
	is.Equal(root.PointsFor(0), 35)
	is.Equal(root.PlayerOnTurn(), gamestate.Player0)

	children := tree.ChildrenOf(root)
	is.Equal(len(children), 2)
	is.Equal(children[0].Board(), "RADAR/ T   /     ")
	is.Equal(children[1].Board(), "RADAR/   T /     ")
	is.Equal(len(tree.ChildrenOf(children[0])), 1)
	is.Equal(len(tree.ChildrenOf(children[1])), 0)
}

func TestLoadTreeBadNode(t *testing.T) {
	is := is.New(t)
	_, _, err := LoadTree(strings.NewReader(`
board: "X"
racks: [A]
scores: [0, 0]
onturn: 0
`))
	is.True(errors.Is(err, ErrBadTreeNode))

	_, _, err = LoadTree(strings.NewReader(`
board: "X"
racks: [A, B]
scores: [0, 0]
onturn: 0
children:
  - board: "X"
    racks: [A, B]
    scores: [0, -3]
    onturn: 1
`))
	is.True(errors.Is(err, gamestate.ErrNegativeScore))
}

func TestToyTree(t *testing.T) {
	is := is.New(t)
	root, tree := Toy()
	is.Equal(tree.Size(), 7)
	children := tree.ChildrenOf(root)
	is.Equal(len(children), 2)

	leftReply := tree.ChildrenOf(children[0])[0]
	rightReply := tree.ChildrenOf(children[1])[0]
	is.Equal(leftReply.CanonicalKey(), rightReply.CanonicalKey())
	is.True(leftReply.SpreadFor(0) != rightReply.SpreadFor(0))
}

func TestRandomIsDeterministic(t *testing.T) {
	is := is.New(t)
	r1, o1 := NewRandom(42, "abcd", 3, 10)
	r2, o2 := NewRandom(42, "abcd", 3, 10)
	is.Equal(r1.CanonicalKey(), r2.CanonicalKey())

	c1 := o1.ChildrenOf(r1)
	c2 := o2.ChildrenOf(r2)
	is.Equal(len(c1), len(c2))
	for i := range c1 {
		is.Equal(c1[i].CanonicalKey(), c2[i].CanonicalKey())
		is.Equal(c1[i].PointsFor(0), c2[i].PointsFor(0))
		is.Equal(c1[i].PlayerOnTurn(), gamestate.Player1)
	}
}

func TestRandomTransposes(t *testing.T) {
	is := is.New(t)
	o := &Random{seed: 7, maxGain: 20}
	root := gamestate.MustNew("#", [2]string{"ab", "c"}, [2]int{0, 0}, 0)

	// a, c, b and b, c, a reach the same pile and the same empty racks.
	var ends []*gamestate.State
	for _, first := range o.ChildrenOf(root) {
		for _, second := range o.ChildrenOf(first) {
			ends = append(ends, o.ChildrenOf(second)...)
		}
	}
	is.Equal(len(ends), 2)
	is.Equal(ends[0].CanonicalKey(), ends[1].CanonicalKey())
	is.Equal(ends[0].Board(), "#abc")
}

func TestRandomSkipsDuplicateLetters(t *testing.T) {
	is := is.New(t)
	o := &Random{seed: 1, maxGain: 5}
	root := gamestate.MustNew("#", [2]string{"aab", "c"}, [2]int{0, 0}, 0)
	children := o.ChildrenOf(root)
	is.Equal(len(children), 2)
	is.Equal(children[0].RackFor(0), "ab")
	is.Equal(children[1].RackFor(0), "aa")

	is.Equal(len(o.ChildrenOf(gamestate.MustNew("#", [2]string{"", "c"}, [2]int{0, 0}, 0))), 0)
}
