package shell

import (
	"context"
	"io"
	"os"

	perrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/domino14/spreadsearch/config"
	"github.com/domino14/spreadsearch/endgame/negamax"
	"github.com/domino14/spreadsearch/endgame/ttable"
	"github.com/domino14/spreadsearch/gamestate"
	"github.com/domino14/spreadsearch/tilegame"
)

// Position is one tile game position to solve in batch mode.
type Position struct {
	Name   string   `yaml:"name"`
	Board  string   `yaml:"board"`
	Racks  []string `yaml:"racks"`
	Scores []int    `yaml:"scores"`
	OnTurn int      `yaml:"onturn"`
	// Depth overrides the configured depth when set.
	Depth *int `yaml:"depth,omitempty"`
}

type PositionFile struct {
	Positions []Position `yaml:"positions"`
}

func (p Position) state() (*gamestate.State, error) {
	if len(p.Racks) != 2 || len(p.Scores) != 2 {
		return nil, perrors.Errorf("position %q needs two racks and two scores", p.Name)
	}
	return tilegame.Parse(p.Board, p.Racks[0], p.Racks[1], p.Scores[0], p.Scores[1],
		gamestate.Player(p.OnTurn))
}

type Result struct {
	Name         string   `yaml:"name"`
	Depth        int      `yaml:"depth"`
	Value        int      `yaml:"value"`
	PV           []string `yaml:"pv"`
	Nodes        uint64   `yaml:"nodes"`
	TableEntries int      `yaml:"table-entries"`
}

func LoadPositions(r io.Reader) ([]Position, error) {
	var pf PositionFile
	if err := yaml.NewDecoder(r).Decode(&pf); err != nil {
		return nil, perrors.Wrap(err, "decoding positions")
	}
	return pf.Positions, nil
}

func LoadPositionsFile(path string) ([]Position, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadPositions(f)
}

// SolveBatch solves every position, up to the configured number of workers
// at a time. Each search is single-threaded; all of them share one table.
// Results come back in input order.
func SolveBatch(ctx context.Context, cfg *config.Config, positions []Position) ([]Result, error) {
	states := make([]*gamestate.State, len(positions))
	for i, p := range positions {
		s, err := p.state()
		if err != nil {
			return nil, perrors.Wrapf(err, "position %d (%s)", i, p.Name)
		}
		states[i] = s
	}

	table := NewTable(cfg, true)
	gen := tilegame.NewGenerator()
	results := make([]Result, len(positions))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.GetInt(config.ConfigWorkers)))
	for i := range positions {
		i := i
		g.Go(func() error {
			depth := cfg.GetInt(config.ConfigDepth)
			if positions[i].Depth != nil {
				depth = *positions[i].Depth
			}
			s := &negamax.Solver{}
			if err := s.Init(gen, table); err != nil {
				return err
			}
			s.SetPruneOnHit(cfg.GetBool(config.ConfigPruneOnHit))
			v, pv, err := s.Solve(ctx, states[i], depth)
			if err != nil {
				return perrors.Wrapf(err, "solving %s", positions[i].Name)
			}
			results[i] = Result{
				Name:  positions[i].Name,
				Depth: depth,
				Value: v,
				PV: lo.Map(pv.States, func(st *gamestate.State, _ int) string {
					return st.String()
				}),
				Nodes: s.Nodes(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	n := table.Len()
	for i := range results {
		results[i].TableEntries = n
	}
	logTableStats(table)
	return results, nil
}

func logTableStats(t ttable.Table) {
	log.Info().Int("entries", t.Len()).Str("stats", t.Stats().String()).Msg("transposition-table")
}

func WriteResults(w io.Writer, results []Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string][]Result{"results": results}); err != nil {
		return err
	}
	return enc.Close()
}
