package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/spreadsearch/config"
	"github.com/domino14/spreadsearch/endgame/negamax"
	"github.com/domino14/spreadsearch/endgame/ttable"
	"github.com/domino14/spreadsearch/gamestate"
	"github.com/domino14/spreadsearch/oracle"
	"github.com/domino14/spreadsearch/tilegame"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoPosition        = errors.New("no position loaded; use toy, load or position first")
)

type Response struct {
	message string
}

func Msg(message string) *Response {
	return &Response{message: message}
}

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

// extractFields splits a line into a command, its positional arguments and
// its -key value options. Quoting follows shell rules.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") && len(fields[i]) > 1 {
			if _, err := strconv.Atoi(fields[i]); err == nil {
				// a negative number, not an option.
				args = append(args, fields[i])
				continue
			}
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[i][1:]] = fields[i+1]
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config

	root   *gamestate.State
	oracle oracle.Oracle
	solver *negamax.Solver
	table  ttable.Table
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func NewShellController(cfg *config.Config) *ShellController {
	sc := newController(cfg, os.Stderr)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mspreadsearch>\033[0m ",
		HistoryFile:     "/tmp/spreadsearch-readline.tmp",
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	return sc
}

func newController(cfg *config.Config, out io.Writer) *ShellController {
	return &ShellController{
		out:    out,
		config: cfg,
		table:  NewTable(cfg, false),
	}
}

// LoadTree makes the tree in path the current position.
func (sc *ShellController) LoadTree(path string) error {
	root, tree, err := oracle.LoadTreeFile(path)
	if err != nil {
		return err
	}
	sc.setPosition(root, tree)
	return nil
}

func (sc *ShellController) setPosition(root *gamestate.State, o oracle.Oracle) {
	sc.root = root
	sc.oracle = o
	sc.solver = &negamax.Solver{}
	// Init only fails without an oracle.
	sc.solver.Init(o, sc.table)
}

func (sc *ShellController) toy() (*Response, error) {
	root, tree := oracle.Toy()
	sc.setPosition(root, tree)
	return sc.show()
}

func (sc *ShellController) load(args []string) (*Response, error) {
	if len(args) != 1 {
		return nil, errors.New("load <path/to/tree.yaml>")
	}
	if err := sc.LoadTree(args[0]); err != nil {
		return nil, err
	}
	return sc.show()
}

func (sc *ShellController) position(args []string) (*Response, error) {
	if len(args) != 6 {
		return nil, errors.New(`position "<board>" <rack0> <rack1> <score0> <score1> <onturn>`)
	}
	nums := make([]int, 3)
	for i, a := range args[3:] {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, err
		}
		nums[i] = n
	}
	root, err := tilegame.Parse(args[0], args[1], args[2], nums[0], nums[1], gamestate.Player(nums[2]))
	if err != nil {
		return nil, err
	}
	sc.setPosition(root, tilegame.NewGenerator())
	return sc.show()
}

func (sc *ShellController) show() (*Response, error) {
	if sc.root == nil {
		return nil, errNoPosition
	}
	return Msg(sc.root.String()), nil
}

func (sc *ShellController) children() (*Response, error) {
	if sc.root == nil {
		return nil, errNoPosition
	}
	var out strings.Builder
	onturn := sc.root.PlayerOnTurn()
	for i, c := range sc.oracle.ChildrenOf(sc.root) {
		fmt.Fprintf(&out, "%3d: %v (spread change %+d)\n", i+1, c,
			c.SpreadFor(onturn)-sc.root.SpreadFor(onturn))
	}
	if out.Len() == 0 {
		return Msg("no children; this position is terminal"), nil
	}
	return Msg(strings.TrimRight(out.String(), "\n")), nil
}

func (sc *ShellController) solve(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if sc.root == nil {
		return nil, errNoPosition
	}
	plies := sc.config.GetInt(config.ConfigDepth)
	if len(cmd.args) > 0 {
		var err error
		plies, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	// options apply to this solve only; set changes the defaults.
	prune := sc.config.GetBool(config.ConfigPruneOnHit)
	if v, ok := cmd.options["prune"]; ok {
		switch v {
		case "on":
			prune = true
		case "off":
			prune = false
		default:
			var err error
			if prune, err = strconv.ParseBool(v); err != nil {
				return nil, fmt.Errorf("-prune takes on or off, not %q", v)
			}
		}
	}
	mode := sc.config.GetString(config.ConfigTrace)
	if v, ok := cmd.options["trace"]; ok {
		mode = v
	}
	sink, err := newTraceSink(mode, sc.config.GetString(config.ConfigTraceFile), sc.out)
	if err != nil {
		return nil, err
	}
	sc.solver.SetTracer(sink.tracer)
	sc.solver.SetPruneOnHit(prune)

	v, pv, err := sc.solver.Solve(ctx, sc.root, plies)
	if ferr := sink.finish(); ferr != nil {
		log.Err(ferr).Msg("finishing-trace")
	}
	if err != nil {
		return nil, err
	}
	return Msg(fmt.Sprintf("Best value for player %d: %d (%d nodes)\n%s",
		sc.root.PlayerOnTurn(), v, sc.solver.Nodes(), pv.String())), nil
}

func (sc *ShellController) ttCommand(args []string) (*Response, error) {
	if len(args) > 0 && args[0] == "reset" {
		sc.table.Reset()
		return Msg("transposition table cleared"), nil
	}
	if len(args) > 0 && args[0] == "dump" {
		var out strings.Builder
		for k, e := range sc.table.Snapshot() {
			fmt.Fprintf(&out, "%v => %d (depth %d)\n", k, e.Value, e.Depth)
		}
		return Msg(strings.TrimRight(out.String(), "\n")), nil
	}
	return Msg(fmt.Sprintf("entries: %d\n%s", sc.table.Len(), sc.table.Stats())), nil
}

func (sc *ShellController) set(args []string) (*Response, error) {
	if len(args) == 0 {
		return Msg(sc.settings()), nil
	}
	if len(args) != 2 {
		return nil, errors.New("set <option> <value>")
	}
	key, val := args[0], args[1]
	var err error
	switch key {
	case config.ConfigDepth, config.ConfigTableShards, config.ConfigWorkers:
		var n int
		if n, err = strconv.Atoi(val); err == nil {
			err = sc.setOption(key, n)
		}
	case config.ConfigPruneOnHit, config.ConfigDebug:
		var b bool
		if b, err = strconv.ParseBool(val); err == nil {
			err = sc.setOption(key, b)
		}
		if err == nil && key == config.ConfigDebug {
			if b {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		}
	case config.ConfigTrace, config.ConfigTraceFile:
		err = sc.setOption(key, val)
	default:
		err = fmt.Errorf("no such option: %s", key)
	}
	if err != nil {
		return nil, err
	}
	return Msg(sc.settings()), nil
}

// setOption sets a config value, putting the old one back if the result
// does not validate.
func (sc *ShellController) setOption(key string, val any) error {
	old := sc.config.Get(key)
	sc.config.Set(key, val)
	if err := sc.config.Validate(); err != nil {
		sc.config.Set(key, old)
		return err
	}
	return nil
}

func (sc *ShellController) settings() string {
	keys := []string{config.ConfigDepth, config.ConfigPruneOnHit, config.ConfigTrace,
		config.ConfigTraceFile, config.ConfigTable}
	var out strings.Builder
	out.WriteString("Settings:\n")
	for _, k := range keys {
		fmt.Fprintf(&out, "  %s: %v\n", k, sc.config.Get(k))
	}
	return strings.TrimRight(out.String(), "\n")
}

func (sc *ShellController) handle(ctx context.Context, line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "toy":
		return sc.toy()
	case "load":
		return sc.load(cmd.args)
	case "position", "pos":
		return sc.position(cmd.args)
	case "show", "s":
		return sc.show()
	case "children", "ch":
		return sc.children()
	case "solve", "negamax", "endgame":
		return sc.solve(ctx, cmd)
	case "pv":
		if sc.solver == nil {
			return nil, errNoPosition
		}
		return Msg(sc.solver.PrincipalVariation().String()), nil
	case "tt":
		return sc.ttCommand(cmd.args)
	case "set":
		return sc.set(cmd.args)
	case "help", "h":
		return Msg(usage(cmd.args)), nil
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

func (sc *ShellController) Loop(ctx context.Context, sig chan os.Signal) {

	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			sig <- syscall.SIGINT
			break
		}
		resp, err := sc.handle(ctx, line)
		if err != nil {
			sc.showError(err)
		} else if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
