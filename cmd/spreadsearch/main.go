package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/spreadsearch/config"
	"github.com/domino14/spreadsearch/shell"
)

var (
	GitVersion string
)

func setupLogging(debug bool) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")
}

// runBatch solves every position in the positions file and prints the
// results as YAML on stdout.
func runBatch(ctx context.Context, cfg *config.Config) error {
	positions, err := shell.LoadPositionsFile(cfg.GetString(config.ConfigPositions))
	if err != nil {
		return err
	}
	results, err := shell.SolveBatch(ctx, cfg, positions)
	if err != nil {
		return err
	}
	return shell.WriteResults(os.Stdout, results)
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(2)
	}
	setupLogging(cfg.GetBool(config.ConfigDebug))
	log.Info().Str("version", GitVersion).Msgf("Loaded config: %v", cfg.SanitizedSettings())

	if cfg.GetString(config.ConfigCPUProfile) != "" {
		f, err := os.Create(cfg.GetString(config.ConfigCPUProfile))
		if err != nil {
			panic("could not create CPU profile: " + err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic("could not start CPU profile: " + err.Error())
		}
		defer pprof.StopCPUProfile()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.GetString(config.ConfigPositions) != "" {
		bctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		err := runBatch(bctx, cfg)
		stop()
		if err != nil {
			log.Err(err).Msg("batch-failed")
			pprof.StopCPUProfile()
			os.Exit(1)
		}
		return
	}

	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		// We received an interrupt signal, shut down.
		log.Info().Msg("got quit signal...")
		cancel()
		close(idleConnsClosed)
	}()

	sc := shell.NewShellController(cfg)
	if tree := cfg.GetString(config.ConfigTree); tree != "" {
		if err := sc.LoadTree(tree); err != nil {
			log.Err(err).Str("tree", tree).Msg("could-not-load-tree")
		}
	}
	go sc.Loop(ctx, sig)

	log.Info().Msg("started loop")

	<-idleConnsClosed
	log.Info().Msg("shutting down")
}
