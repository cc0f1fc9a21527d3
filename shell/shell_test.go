package shell

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"gopkg.in/yaml.v3"

	"github.com/domino14/spreadsearch/config"
	"github.com/domino14/spreadsearch/endgame/negamax"
	"github.com/domino14/spreadsearch/tilegame"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"solve 4 -trace stream",
			&shellcmd{"solve", []string{"4"}, map[string]string{"trace": "stream"}},
			nil},
		{"tt reset",
			&shellcmd{"tt", []string{"reset"}, map[string]string{}},
			nil},
		{`position "AB/  " ET ER 10 -3 0`,
			&shellcmd{"position",
				[]string{"AB/  ", "ET", "ER", "10", "-3", "0"},
				map[string]string{}},
			nil,
		},
		{"solve 4 -prune",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigTableMemoryFraction, 0.0)
	cfg.Set(config.ConfigWorkers, 2)
	return cfg
}

func TestShellToySolve(t *testing.T) {
	is := is.New(t)
	var out bytes.Buffer
	sc := newController(testConfig(), &out)
	ctx := context.Background()

	_, err := sc.handle(ctx, "solve")
	is.Equal(err, errNoPosition)

	resp, err := sc.handle(ctx, "toy")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "scores=35-18"))

	resp, err = sc.handle(ctx, "children")
	is.NoErr(err)
	is.Equal(len(strings.Split(resp.message, "\n")), 2)
	is.True(strings.Contains(resp.message, "(spread change +4)"))

	resp, err = sc.handle(ctx, "solve 3")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "Best value for player 0: 24 (7 nodes)"))

	resp, err = sc.handle(ctx, "pv")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "PV; val 24"))

	resp, err = sc.handle(ctx, "tt")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "entries: 4\n"))

	// The table is kept between solves, so the root is a hit the second time.
	resp, err = sc.handle(ctx, "solve 3 -prune on")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "Best value for player 0: 24 (1 nodes)"))
	is.Equal(sc.config.GetBool(config.ConfigPruneOnHit), false)

	// -prune only applied to the last solve.
	resp, err = sc.handle(ctx, "solve 3")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "Best value for player 0: 24 (7 nodes)"))

	_, err = sc.handle(ctx, "solve 3 -prune maybe")
	is.True(err != nil)

	_, err = sc.handle(ctx, "tt reset")
	is.NoErr(err)
	is.Equal(sc.table.Len(), 0)
}

func TestShellStreamTrace(t *testing.T) {
	is := is.New(t)
	var out bytes.Buffer
	sc := newController(testConfig(), &out)
	ctx := context.Background()

	_, err := sc.handle(ctx, "toy")
	is.NoErr(err)
	_, err = sc.handle(ctx, "solve 3 -trace stream")
	is.NoErr(err)
	is.Equal(strings.Count(out.String(), "- store:"), 5)
	is.Equal(strings.Count(out.String(), "- hit:"), 1)

	is.Equal(sc.config.GetString(config.ConfigTrace), config.TraceNone)

	// the next solve without -trace is silent again.
	traced := out.Len()
	_, err = sc.handle(ctx, "solve 3")
	is.NoErr(err)
	is.Equal(out.Len(), traced)

	_, err = sc.handle(ctx, "solve 3 -trace loud")
	is.Equal(err, config.ErrBadTraceMode)

	_, err = sc.handle(ctx, "set trace stream")
	is.NoErr(err)
	_, err = sc.handle(ctx, "solve 3")
	is.NoErr(err)
	is.True(out.Len() > traced)
}

func TestShellDotTrace(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "toy.dot")
	cfg := testConfig()
	cfg.Set(config.ConfigTrace, config.TraceDot)
	cfg.Set(config.ConfigTraceFile, path)
	sc := newController(cfg, &bytes.Buffer{})
	ctx := context.Background()

	_, err := sc.handle(ctx, "toy")
	is.NoErr(err)
	_, err = sc.handle(ctx, "solve 3")
	is.NoErr(err)
	dat, err := os.ReadFile(path)
	is.NoErr(err)
	is.True(strings.HasPrefix(string(dat), "digraph"))
	is.Equal(strings.Count(string(dat), "->"), 6)
}

func TestShellPositionAndSet(t *testing.T) {
	is := is.New(t)
	sc := newController(testConfig(), &bytes.Buffer{})
	ctx := context.Background()

	_, err := sc.handle(ctx, `position " A " B C 0 0 0`)
	is.NoErr(err)
	resp, err := sc.handle(ctx, "children")
	is.NoErr(err)
	// B can go either side of the A.
	is.Equal(len(strings.Split(resp.message, "\n")), 2)

	_, err = sc.handle(ctx, "set depth 2")
	is.NoErr(err)
	is.Equal(sc.config.GetInt(config.ConfigDepth), 2)
	_, err = sc.handle(ctx, "set depth -1")
	is.Equal(err, config.ErrBadDepth)
	is.Equal(sc.config.GetInt(config.ConfigDepth), 2)
	_, err = sc.handle(ctx, "set colour blue")
	is.True(err != nil)

	_, err = sc.handle(ctx, "position AB ET")
	is.True(err != nil)
	_, err = sc.handle(ctx, "frobnicate")
	is.True(err != nil)
}

func TestShellLoadTree(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "tree.yaml")
	tree := `
board: x
racks: [A, B]
scores: [10, 0]
onturn: 0
children:
  - board: y
    racks: ["", B]
    scores: [12, 0]
    onturn: 1
  - board: z
    racks: ["", B]
    scores: [15, 0]
    onturn: 1
`
	is.NoErr(os.WriteFile(path, []byte(tree), 0o644))
	sc := newController(testConfig(), &bytes.Buffer{})
	ctx := context.Background()

	_, err := sc.handle(ctx, "load "+path)
	is.NoErr(err)
	resp, err := sc.handle(ctx, "solve 1")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "Best value for player 0: 15 "))

	_, err = sc.handle(ctx, "load /no/such/tree.yaml")
	is.True(err != nil)
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	is.True(strings.Contains(usage(nil), "solve [plies]"))
	is.True(strings.Contains(usage([]string{"solve"}), "-prune on"))
	is.Equal(usage([]string{"nothing"}), "There is no help text for the topic nothing")
}

const batchPositions = `
positions:
  - name: one-tile-each
    board: "A  "
    racks: [B, C]
    scores: [0, 0]
    onturn: 0
  - name: two-tiles
    board: "   / E /   "
    racks: [ST, AR]
    scores: [12, 20]
    onturn: 1
    depth: 3
  - name: two-tiles-again
    board: "   / E /   "
    racks: [TS, RA]
    scores: [30, 38]
    onturn: 1
    depth: 3
`

func TestSolveBatch(t *testing.T) {
	is := is.New(t)
	positions, err := LoadPositions(strings.NewReader(batchPositions))
	is.NoErr(err)
	is.Equal(len(positions), 3)

	for _, kind := range []string{config.TableMap, config.TableSharded} {
		cfg := testConfig()
		cfg.Set(config.ConfigTable, kind)
		results, err := SolveBatch(context.Background(), cfg, positions)
		is.NoErr(err)
		is.Equal(len(results), 3)

		gen := tilegame.NewGenerator()
		for i, p := range positions {
			st, err := p.state()
			is.NoErr(err)
			depth := cfg.GetInt(config.ConfigDepth)
			if p.Depth != nil {
				depth = *p.Depth
			}
			expected, err := negamax.Negamax(context.Background(), st, depth, gen, nil)
			is.NoErr(err)
			is.Equal(results[i].Name, p.Name)
			is.Equal(results[i].Depth, depth)
			is.Equal(results[i].Value, expected)
			is.True(results[i].Nodes > 0)
			is.True(len(results[i].PV) > 0)
		}
		// Same racks, same board: the last two positions differ only in
		// absolute score, so their values are equal.
		is.Equal(results[1].Value, results[2].Value)
	}
}

func TestSolveBatchPruningIndependentOfBatch(t *testing.T) {
	is := is.New(t)
	three := 3
	one := 1
	parent := Position{Name: "parent", Board: "   / E /   ", Racks: []string{"ST", "AR"},
		Scores: []int{12, 20}, OnTurn: 1, Depth: &three}
	// the parent's first move: A above the E.
	child := Position{Name: "child", Board: " A / E /   ", Racks: []string{"ST", "R"},
		Scores: []int{12, 22}, OnTurn: 0, Depth: &one}

	cfg := testConfig()
	cfg.Set(config.ConfigPruneOnHit, true)
	cfg.Set(config.ConfigWorkers, 1)

	alone, err := SolveBatch(context.Background(), cfg, []Position{child})
	is.NoErr(err)
	both, err := SolveBatch(context.Background(), cfg, []Position{parent, child})
	is.NoErr(err)
	is.Equal(both[1].Value, alone[0].Value)

	st, err := child.state()
	is.NoErr(err)
	expected, err := negamax.Negamax(context.Background(), st, 1, tilegame.NewGenerator(), nil)
	is.NoErr(err)
	is.Equal(alone[0].Value, expected)
}

func TestSolveBatchBadPosition(t *testing.T) {
	is := is.New(t)
	_, err := SolveBatch(context.Background(), testConfig(), []Position{
		{Name: "short", Board: "A", Racks: []string{"B"}, Scores: []int{0, 0}},
	})
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "short"))
}

func TestWriteResults(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	is.NoErr(WriteResults(&buf, []Result{{Name: "p", Depth: 2, Value: -3, PV: []string{"a"}, Nodes: 5, TableEntries: 4}}))

	var back map[string][]Result
	is.NoErr(yaml.Unmarshal(buf.Bytes(), &back))
	is.Equal(back["results"][0].Value, -3)
	is.True(strings.Contains(buf.String(), "table-entries: 4"))
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	c := NewShellCompleter(newController(testConfig(), &bytes.Buffer{}))
	complete := func(line string) []string {
		matches, _ := c.Do([]rune(line), len(line))
		out := make([]string, len(matches))
		for i, m := range matches {
			out[i] = string(m)
		}
		return out
	}

	is.Equal(complete("so"), []string{"lve"})
	is.Equal(complete("tt "), []string{"reset", "dump"})
	is.Equal(complete("solve 4 -tr"), []string{"ace"})
	is.Equal(complete("solve 4 -trace s"), []string{"tream"})
	is.Equal(complete("solve -prune "), []string{"on", "off"})
	is.Equal(complete("set prune-on-hit "), []string{"true", "false"})
	is.Equal(len(complete("set depth ")), 0)
}
