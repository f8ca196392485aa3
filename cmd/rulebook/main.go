package main

import (
	"context"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"

	"github.com/daystram/rulebook/board"
	"github.com/daystram/rulebook/uci"
)

const (
	exitOK = iota
	exitErr
)

var (
	profile  = flag.Bool("profile", false, "serve pprof endpoint")
	logLevel = flag.String("loglevel", "info", "log level: debug, info, warn, error")

	movegenRun  = flag.Bool("movegen", false, "run movegen mode")
	movegenDraw = flag.Bool("movegen.draw", false, "draw applied moves in movegen mode")

	stepRun   = flag.Bool("step", false, "run step mode")
	stepCount = flag.Int("step.count", 500, "maximum plies in step mode")
	stepSeed  = flag.Uint64("step.seed", 1, "move picker seed in step mode")

	searchRun   = flag.Bool("search", false, "run search mode")
	searchDepth = flag.Int("search.depth", 3, "engine depth in search mode")

	perftDepth    = flag.Int("perft", 0, "run perft to the given depth")
	perftParallel = flag.Bool("perft.parallel", true, "split perft root moves across goroutines")
)

func main() {
	flag.Parse()

	logger := newLogger(*logLevel)
	if *profile {
		runProfiler(logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := realMain(ctx, flag.Args(), logger)
	stop()
	if err != nil {
		logger.Error().Err(err).Msg("exiting")
		os.Exit(exitErr)
	}
	os.Exit(exitOK)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

func runProfiler(logger zerolog.Logger) {
	go func() {
		addr := "localhost:6060"
		logger.Info().Str("url", "http://"+addr+"/debug/pprof").Msg("starting pprof endpoint")
		_ = http.ListenAndServe(addr, nil)
	}()
}

func realMain(ctx context.Context, args []string, logger zerolog.Logger) error {
	fen := board.DefaultStartingPositionFEN
	if len(args) > 0 {
		fen = strings.Join(args, " ")
	}
	switch {
	case *movegenRun:
		return movegen(os.Stdout, fen, *movegenDraw, logger)
	case *stepRun:
		return step(os.Stdout, fen, *stepCount, *stepSeed, logger)
	case *searchRun:
		return search(ctx, os.Stdout, fen, *stepCount, uint8(*searchDepth), *stepSeed, logger)
	case *perftDepth > 0:
		return perft(os.Stdout, *perftDepth, fen, *perftParallel)
	}

	return uci.NewInterface(os.Stdin, os.Stdout, logger).Run(ctx)
}
