package negamax

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/domino14/spreadsearch/gamestate"
)

// Attempt to visualize the negamax graph with dot

type DotTracer struct {
	root         *gamestate.State
	declarations []string
	directives   []string
	edges        map[[2]*gamestate.State]bool
}

func NewDotTracer() *DotTracer {
	return &DotTracer{edges: make(map[[2]*gamestate.State]bool)}
}

func dotLabel(s *gamestate.State) string {
	label := fmt.Sprintf("%s\\n%s - %s\\n%d - %d",
		s.Board(), s.RackFor(0), s.RackFor(1), s.PointsFor(0), s.PointsFor(1))
	return strings.ReplaceAll(label, `"`, `\"`)
}

func (d *DotTracer) Trace(ev TraceEvent) {
	n := ev.Node
	if ev.Parent == nil {
		d.root = n
	} else if e := [2]*gamestate.State{ev.Parent, n}; !d.edges[e] {
		d.edges[e] = true
		d.directives = append(d.directives, fmt.Sprintf("n_%p -> n_%p;", ev.Parent, n))
	}
	switch ev.Event {
	case EventLeaf:
		d.declarations = append(d.declarations, fmt.Sprintf("n_%p [label=\"%s\\nLeaf: %d\"];",
			n, dotLabel(n), ev.Value))
	case EventPrune:
		d.declarations = append(d.declarations, fmt.Sprintf("n_%p [label=\"%s\\nPruned: %d\" style=dashed];",
			n, dotLabel(n), ev.Value))
	case EventStore:
		d.declarations = append(d.declarations, fmt.Sprintf("n_%p [label=\"%s\\nNodeVal: %d\\nStored: %d\"];",
			n, dotLabel(n), ev.Value, ev.Cached))
	}
}

func (d *DotTracer) String() string {
	var out strings.Builder
	out.WriteString("digraph {\n")
	if d.root != nil {
		fmt.Fprintf(&out, " n_%p [shape=box];\n", d.root)
	}
	for _, decl := range d.declarations {
		fmt.Fprintf(&out, " %v\n", decl)
	}
	out.WriteString("\n")
	for _, dir := range d.directives {
		fmt.Fprintf(&out, " %v\n", dir)
	}
	out.WriteString("}\n")
	return out.String()
}

func (d *DotTracer) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}

func (d *DotTracer) Save(outFile string) error {
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if _, err := d.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
