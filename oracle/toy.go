package oracle

import "github.com/domino14/spreadsearch/gamestate"

// Toy returns a small hand-built endgame: player 0 holds ET, player 1 holds
// ET, and the only open question is where the first T goes. Both lines
// transpose into the same board and racks two plies later, with different
// scores.
func Toy() (*gamestate.State, *TreeOracle) {
	t := NewTreeOracle()
	root := gamestate.MustNew("RADAR/     /     ", [2]string{"ET", "ET"}, [2]int{35, 18}, 0)

	left := gamestate.MustNew("RADAR/ T   /     ", [2]string{"E", "ET"}, [2]int{39, 18}, 1)
	right := gamestate.MustNew("RADAR/   T /     ", [2]string{"E", "ET"}, [2]int{37, 18}, 1)
	t.AddChildren(root, left, right)

	leftReply := gamestate.MustNew("RADAR/ T T /     ", [2]string{"E", "E"}, [2]int{39, 20}, 0)
	t.AddChildren(left, leftReply)
	t.AddChildren(leftReply,
		gamestate.MustNew("RADAR/ T T / E   ", [2]string{"", "E"}, [2]int{44, 20}, 1))

	rightReply := gamestate.MustNew("RADAR/ T T /     ", [2]string{"E", "E"}, [2]int{37, 22}, 0)
	t.AddChildren(right, rightReply)
	t.AddChildren(rightReply,
		gamestate.MustNew("RADAR/ T T / E   ", [2]string{"", "E"}, [2]int{42, 22}, 1))

	return root, t
}
