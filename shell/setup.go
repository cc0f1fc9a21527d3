package shell

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/domino14/spreadsearch/config"
	"github.com/domino14/spreadsearch/endgame/negamax"
	"github.com/domino14/spreadsearch/endgame/ttable"
)

// NewTable builds the transposition table the config asks for. Sharded
// tables are always safe to share; map tables are put in multi-threaded
// mode when shared is true.
func NewTable(cfg *config.Config, shared bool) ttable.Table {
	hint := ttable.SizeHint(cfg.GetFloat64(config.ConfigTableMemoryFraction))
	if cfg.GetString(config.ConfigTable) == config.TableSharded {
		return ttable.NewShardedTable(cfg.GetInt(config.ConfigTableShards), hint)
	}
	t := ttable.NewMapTable(hint)
	if shared {
		t.SetMultiThreadedMode()
	}
	return t
}

// traceSink is a tracer plus whatever has to happen once the search is over.
type traceSink struct {
	tracer negamax.Tracer
	finish func() error
}

func noFinish() error { return nil }

// newTraceSink sets up tracing for one search. Stream traces go to path if
// it is set, otherwise to w; dot traces always go to a file.
func newTraceSink(mode, path string, w io.Writer) (*traceSink, error) {
	if err := config.CheckTraceMode(mode); err != nil {
		return nil, err
	}
	switch mode {
	case config.TraceLog:
		return &traceSink{tracer: negamax.LogTracer{Level: zerolog.InfoLevel}, finish: noFinish}, nil
	case config.TraceStream:
		if path == "" {
			return &traceSink{tracer: negamax.StreamTracer{W: w}, finish: noFinish}, nil
		}
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		return &traceSink{tracer: negamax.StreamTracer{W: f}, finish: f.Close}, nil
	case config.TraceDot:
		if path == "" {
			path = "/tmp/spreadsearch.dot"
		}
		d := negamax.NewDotTracer()
		return &traceSink{tracer: d, finish: func() error { return d.Save(path) }}, nil
	}
	return &traceSink{finish: noFinish}, nil
}
