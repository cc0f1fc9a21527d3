package negamax

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/spreadsearch/gamestate"
)

type Event int

const (
	// EventLeaf: the node was evaluated directly. Value is its spread.
	EventLeaf Event = iota
	// EventMiss: nothing cached for an internal node.
	EventMiss
	// EventHit: an entry was found. Cached is the stored relative value and
	// Value is the estimate it decodes to at this node.
	EventHit
	// EventPrune: the hit was used in place of searching the node.
	EventPrune
	// EventStore: the node was searched. Value is its negamax value and
	// Cached is what went into the table.
	EventStore
)

func (e Event) String() string {
	switch e {
	case EventLeaf:
		return "leaf"
	case EventMiss:
		return "miss"
	case EventHit:
		return "hit"
	case EventPrune:
		return "prune"
	case EventStore:
		return "store"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

type TraceEvent struct {
	Event Event
	// Ply is the distance from the root; Depth is the remaining budget.
	Ply    int
	Depth  int
	Parent *gamestate.State
	Node   *gamestate.State
	// Key is the zero Key for leaves, which never touch the table.
	Key    gamestate.Key
	Value  int
	Cached int
}

// Tracer observes the search as it runs. The solver is silent when no
// tracer is set.
type Tracer interface {
	Trace(ev TraceEvent)
}

type TraceFunc func(ev TraceEvent)

func (f TraceFunc) Trace(ev TraceEvent) {
	f(ev)
}

type MultiTracer []Tracer

func (m MultiTracer) Trace(ev TraceEvent) {
	for _, t := range m {
		t.Trace(ev)
	}
}

// LogTracer writes every event to the global zerolog logger.
type LogTracer struct {
	Level zerolog.Level
}

func (l LogTracer) Trace(ev TraceEvent) {
	e := log.WithLevel(l.Level).
		Int("ply", ev.Ply).
		Int("depth", ev.Depth).
		Int("value", ev.Value)
	switch ev.Event {
	case EventLeaf:
		e.Str("node", ev.Node.String()).Msg("evaluation-returned")
	case EventMiss:
		e.Str("key", ev.Key.String()).Msg("tt-miss")
	case EventHit:
		e.Str("key", ev.Key.String()).Int("cached", ev.Cached).Msg("tt-hit")
	case EventPrune:
		e.Str("key", ev.Key.String()).Int("cached", ev.Cached).Msg("tt-prune")
	case EventStore:
		e.Str("node", ev.Node.String()).Int("stored", ev.Cached).Msg("tt-store")
	}
}

// StreamTracer writes an indented, YAML-like log of the search to W.
type StreamTracer struct {
	W io.Writer
}

func (st StreamTracer) Trace(ev TraceEvent) {
	indent := strings.Repeat("  ", ev.Ply)
	fmt.Fprintf(st.W, "%s- %s: %v\n", indent, ev.Event, ev.Node)
	switch ev.Event {
	case EventLeaf:
		fmt.Fprintf(st.W, "%s  value: %d\n", indent, ev.Value)
	case EventHit, EventPrune:
		fmt.Fprintf(st.W, "%s  cached: %d\n", indent, ev.Cached)
		fmt.Fprintf(st.W, "%s  estimate: %d\n", indent, ev.Value)
	case EventStore:
		fmt.Fprintf(st.W, "%s  value: %d\n", indent, ev.Value)
		fmt.Fprintf(st.W, "%s  stored: %d\n", indent, ev.Cached)
	}
}
