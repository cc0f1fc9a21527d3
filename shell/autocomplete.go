package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/spreadsearch/config"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // e.g. "-prune", "-trace"
	Args    []string // values for non-option arguments
}

var commandMetadata = map[string]CommandMetadata{
	"solve": {
		Options: []string{"-prune", "-trace"},
	},
	"tt": {
		Args: []string{"reset", "dump"},
	},
	"set": {
		Args: []string{
			config.ConfigDepth, config.ConfigPruneOnHit, config.ConfigTrace,
			config.ConfigTraceFile, config.ConfigTableShards, config.ConfigWorkers,
			config.ConfigDebug,
		},
	},
	"help": {
		Args: []string{"solve", "set", "tt"},
	},
}

var commandNames = []string{
	"help", "toy", "load", "position", "show", "children", "solve", "pv",
	"tt", "set", "exit",
}

var onOffValues = []string{"on", "off"}
var boolValues = []string{"true", "false"}
var traceValues = []string{config.TraceNone, config.TraceLog, config.TraceStream, config.TraceDot}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// probably an open quote; fall back to simple space splitting
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case lastCompleteField == "-prune":
			completions = onOffValues
		case lastCompleteField == "-trace",
			cmdName == "set" && lastCompleteField == config.ConfigTrace:
			completions = traceValues
		case cmdName == "set" && (lastCompleteField == config.ConfigPruneOnHit ||
			lastCompleteField == config.ConfigDebug):
			completions = boolValues
		}

		// index of the word being completed
		argIndex := len(fields)
		if !endsWithSpace {
			argIndex--
		}
		if metadata, exists := commandMetadata[cmdName]; exists && completions == nil {
			if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
				completions = metadata.Options
			} else if argIndex == 1 {
				completions = metadata.Args
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// Return only the part that needs to be added
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
