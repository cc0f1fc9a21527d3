package oracle

import (
	"errors"
	"io"
	"os"

	perrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/domino14/spreadsearch/gamestate"
)

var ErrBadTreeNode = errors.New("bad tree node")

// TreeOracle serves children from a tree that was built ahead of time.
// Children are looked up by state pointer, so the same State value placed
// twice in the tree is expanded the same way both times.
type TreeOracle struct {
	children map[*gamestate.State][]*gamestate.State
	seen     map[*gamestate.State]struct{}
}

func NewTreeOracle() *TreeOracle {
	return &TreeOracle{
		children: make(map[*gamestate.State][]*gamestate.State),
		seen:     make(map[*gamestate.State]struct{}),
	}
}

// AddChildren appends children to parent, in order.
func (t *TreeOracle) AddChildren(parent *gamestate.State, children ...*gamestate.State) {
	t.seen[parent] = struct{}{}
	for _, c := range children {
		t.seen[c] = struct{}{}
	}
	t.children[parent] = append(t.children[parent], children...)
}

func (t *TreeOracle) ChildrenOf(s *gamestate.State) []*gamestate.State {
	return t.children[s]
}

// Size is the number of distinct states added to the tree.
func (t *TreeOracle) Size() int {
	return len(t.seen)
}

// Node is the YAML representation of a tree.
type Node struct {
	Board    string   `yaml:"board"`
	Racks    []string `yaml:"racks"`
	Scores   []int    `yaml:"scores"`
	OnTurn   int      `yaml:"onturn"`
	Children []*Node  `yaml:"children,omitempty"`
}

func (n *Node) state() (*gamestate.State, error) {
	if len(n.Racks) != 2 {
		return nil, perrors.Wrapf(ErrBadTreeNode, "need 2 racks, got %d", len(n.Racks))
	}
	if len(n.Scores) != 2 {
		return nil, perrors.Wrapf(ErrBadTreeNode, "need 2 scores, got %d", len(n.Scores))
	}
	return gamestate.New(n.Board, [2]string{n.Racks[0], n.Racks[1]},
		[2]int{n.Scores[0], n.Scores[1]}, gamestate.Player(n.OnTurn))
}

// NewTree converts a Node tree into a root state and the oracle that expands it.
func NewTree(root *Node) (*gamestate.State, *TreeOracle, error) {
	t := NewTreeOracle()
	s, err := t.build(root, 0)
	if err != nil {
		return nil, nil, err
	}
	return s, t, nil
}

func (t *TreeOracle) build(n *Node, ply int) (*gamestate.State, error) {
	if n == nil {
		return nil, perrors.Wrapf(ErrBadTreeNode, "nil node at ply %d", ply)
	}
	s, err := n.state()
	if err != nil {
		return nil, perrors.Wrapf(err, "ply %d", ply)
	}
	children := make([]*gamestate.State, 0, len(n.Children))
	for _, c := range n.Children {
		cs, err := t.build(c, ply+1)
		if err != nil {
			return nil, err
		}
		children = append(children, cs)
	}
	t.AddChildren(s, children...)
	return s, nil
}

// LoadTree parses a YAML tree.
func LoadTree(r io.Reader) (*gamestate.State, *TreeOracle, error) {
	var root Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return nil, nil, perrors.Wrap(err, "decoding tree")
	}
	return NewTree(&root)
}

func LoadTreeFile(path string) (*gamestate.State, *TreeOracle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	root, t, err := LoadTree(f)
	if err != nil {
		return nil, nil, perrors.Wrapf(err, "loading %s", path)
	}
	log.Debug().Str("path", path).Int("states", t.Size()).Msg("loaded-tree")
	return root, t, nil
}
