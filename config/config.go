package config

import (
	"errors"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug               = "debug"
	ConfigDepth               = "depth"
	ConfigPruneOnHit          = "prune-on-hit"
	ConfigTrace               = "trace"
	ConfigTraceFile           = "trace-file"
	ConfigTable               = "table"
	ConfigTableShards         = "table-shards"
	ConfigTableMemoryFraction = "table-memory-fraction"
	ConfigWorkers             = "workers"
	ConfigPositions           = "positions"
	ConfigTree                = "tree"
	ConfigCPUProfile          = "cpu-profile"
)

const (
	TraceNone   = "none"
	TraceLog    = "log"
	TraceStream = "stream"
	TraceDot    = "dot"

	TableMap     = "map"
	TableSharded = "sharded"
)

var (
	ErrBadTraceMode = errors.New("trace must be one of none, log, stream, dot")
	ErrBadTableKind = errors.New("table must be map or sharded")
	ErrBadDepth     = errors.New("depth must not be negative")
)

type Config struct {
	viper.Viper
}

// DefaultConfig has every default set and nothing read from the
// environment, files or flags.
func DefaultConfig() *Config {
	c := &Config{Viper: *viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigDepth, 4)
	c.SetDefault(ConfigPruneOnHit, false)
	c.SetDefault(ConfigTrace, TraceNone)
	c.SetDefault(ConfigTraceFile, "")
	c.SetDefault(ConfigTable, TableMap)
	c.SetDefault(ConfigTableShards, 64)
	c.SetDefault(ConfigTableMemoryFraction, 0.05)
	c.SetDefault(ConfigWorkers, runtime.NumCPU())
	c.SetDefault(ConfigPositions, "")
	c.SetDefault(ConfigTree, "")
	c.SetDefault(ConfigCPUProfile, "")
}

// Load reads, lowest precedence first: defaults, spreadsearch.yaml in the
// working directory, SPREADSEARCH_* environment variables, and args.
func (c *Config) Load(args []string) error {
	c.Viper = *viper.New()
	c.setDefaults()

	fs := pflag.NewFlagSet("spreadsearch", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigDepth, 4, "plies to search")
	fs.Bool(ConfigPruneOnHit, false, "return cached estimates on transposition table hits")
	fs.String(ConfigTrace, TraceNone, "search trace: none, log, stream, dot")
	fs.String(ConfigTraceFile, "", "file to write stream or dot traces to")
	fs.String(ConfigTable, TableMap, "transposition table: map or sharded")
	fs.Int(ConfigTableShards, 64, "number of shards for the sharded table")
	fs.Float64(ConfigTableMemoryFraction, 0.05, "fraction of system memory to preallocate the table for")
	fs.Int(ConfigWorkers, runtime.NumCPU(), "concurrent searches in batch mode")
	fs.String(ConfigPositions, "", "YAML file of positions to solve in batch mode")
	fs.String(ConfigTree, "", "YAML game tree to load at startup")
	fs.String(ConfigCPUProfile, "", "write a CPU profile here")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix("spreadsearch")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	c.SetConfigName("spreadsearch")
	c.SetConfigType("yaml")
	c.AddConfigPath(".")
	if err := c.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return c.Validate()
}

// CheckTraceMode fails for anything but the known trace modes.
func CheckTraceMode(mode string) error {
	switch mode {
	case TraceNone, TraceLog, TraceStream, TraceDot:
		return nil
	}
	return ErrBadTraceMode
}

func (c *Config) Validate() error {
	if err := CheckTraceMode(c.GetString(ConfigTrace)); err != nil {
		return err
	}
	switch c.GetString(ConfigTable) {
	case TableMap, TableSharded:
	default:
		return ErrBadTableKind
	}
	if c.GetInt(ConfigDepth) < 0 {
		return ErrBadDepth
	}
	return nil
}

// SanitizedSettings returns the settings for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
