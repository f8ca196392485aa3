package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	"github.com/daystram/rulebook/bench"
	"github.com/daystram/rulebook/board"
	"github.com/daystram/rulebook/engine"
	"github.com/daystram/rulebook/position"
)

var (
	EngineName   = "Rulebook"
	EngineAuthor = "Danny August Ramaputra"

	defaultOptions = options{
		debug:         false,
		depth:         engine.DefaultDepth,
		hashTableSize: engine.DefaultHashTableSize,
		parallelPerft: true,
	}
)

type options struct {
	debug         bool
	depth         uint8
	hashTableSize uint64
	parallelPerft bool
}

// Interface reads one command per line and writes replies line by line. Searches run
// in the background; every other command is handled before the next line is read.
type Interface struct {
	in      io.Reader
	out     io.Writer
	outMu   sync.Mutex
	logger  zerolog.Logger
	options options

	board  *board.Board
	engine *engine.Engine

	engineRunning atomic.Bool
	engineCancel  context.CancelFunc
	engineWG      sync.WaitGroup
}

func NewInterface(in io.Reader, out io.Writer, logger zerolog.Logger) *Interface {
	return &Interface{
		in:      in,
		out:     out,
		logger:  logger,
		options: defaultOptions,
	}
}

// Run serves commands until quit or the end of input. A running search is stopped
// before returning.
func (i *Interface) Run(ctx context.Context) error {
	i.reset(ctx)
	defer i.commandStop(ctx)

	scanner := bufio.NewScanner(i.in)
	for scanner.Scan() {
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "uci":
			i.commandUCI(ctx)
		case "ucinewgame":
			i.reset(ctx)
		case "isready":
			i.commandReady(ctx)
		case "setoption":
			i.commandSetOption(ctx, args[1:])
		case "position":
			i.commandPosition(ctx, args[1:])
		case "d":
			i.commandDraw(ctx)
		case "go":
			i.commandGo(ctx, args[1:])
		case "stop":
			i.commandStop(ctx)
		case "legal":
			i.commandLegal(ctx, args[1:])
		case "where":
			i.commandWhere(ctx, args[1:])
		case "check":
			i.commandCheck(ctx)
		case "quit":
			return nil
		default:
			i.logger.Warn().Str("command", args[0]).Msg("unknown command")
		}
	}
	return scanner.Err()
}

func (i *Interface) commandUCI(_ context.Context) {
	i.println(fmt.Sprintf("id name %s", EngineName))
	i.println(fmt.Sprintf("id author %s", EngineAuthor))
	i.println(fmt.Sprintf("option name Debug type check default %v", defaultOptions.debug))
	i.println(fmt.Sprintf("option name Depth type spin default %d min 1 max %d", defaultOptions.depth, engine.MaxDepth))
	i.println(fmt.Sprintf("option name Hash type spin default %d min 0 max 16777216", defaultOptions.hashTableSize))
	i.println(fmt.Sprintf("option name ParallelPerft type check default %v", defaultOptions.parallelPerft))
	i.println("uciok")
}

func (i *Interface) commandReady(_ context.Context) {
	if i.board != nil && i.engine != nil {
		i.println("readyok")
	}
}

func (i *Interface) commandSetOption(_ context.Context, args []string) {
	if len(args) < 4 || args[0] != "name" || args[2] != "value" {
		i.logger.Warn().Strs("args", args).Msg("malformed setoption")
		return
	}
	switch name, valueStr := strings.ToLower(args[1]), args[3]; name {
	case "debug":
		value, err := strconv.ParseBool(valueStr)
		if err != nil {
			return
		}
		i.options.debug = value
	case "depth":
		value, err := strconv.ParseUint(valueStr, 10, 8)
		if err != nil || value < 1 || value > uint64(engine.MaxDepth) {
			return
		}
		i.options.depth = uint8(value)
	case "hash":
		value, err := strconv.ParseUint(valueStr, 10, 64)
		if err != nil || value > 1<<24 {
			return
		}
		i.options.hashTableSize = value
		if !i.busy("setoption") {
			i.engine = i.newEngine()
		}
	case "parallelperft":
		value, err := strconv.ParseBool(valueStr)
		if err != nil {
			return
		}
		i.options.parallelPerft = value
	}
}

// commandPosition replaces the board only when the whole line is valid.
func (i *Interface) commandPosition(_ context.Context, args []string) {
	if i.busy("position") || len(args) == 0 {
		return
	}

	var fen string
	var moves []string
	switch args[0] {
	case "fen":
		rest := args[1:]
		for j, arg := range rest {
			if arg == "moves" {
				moves = rest[j+1:]
				rest = rest[:j]
				break
			}
		}
		fen = strings.Join(rest, " ")
	case "startpos":
		fen = board.DefaultStartingPositionFEN
		if len(args) > 2 && args[1] == "moves" {
			moves = args[2:]
		}
	default:
		return
	}

	b, err := board.NewBoard(
		board.WithFEN(fen),
		board.WithLogger(i.logger),
	)
	if err != nil {
		i.logger.Warn().Err(err).Str("fen", fen).Msg("rejected position")
		return
	}
	for _, uci := range moves {
		from, to, promote, err := b.ParseUCI(uci)
		if err == nil {
			_, err = b.Move(from, to, board.WithPromotion(promote))
		}
		if err != nil {
			i.logger.Warn().Err(err).Str("move", uci).Msg("rejected position")
			return
		}
	}
	i.board = b
}

func (i *Interface) commandDraw(_ context.Context) {
	if i.busy("d") {
		return
	}
	i.println(Draw(i.board, nil))
	i.println(fmt.Sprintf("fen: %s", i.board.FEN()))
	i.println(i.board.DebugString())
}

func (i *Interface) commandGo(ctx context.Context, args []string) {
	if i.busy("go") {
		return
	}

	cfg := engine.ClockConfig{Depth: i.options.depth}
	for j := 0; j < len(args); j++ {
		switch args[j] {
		case "perft":
			if j+1 >= len(args) {
				return
			}
			depth, err := strconv.Atoi(args[j+1])
			if err != nil || depth < 0 {
				return
			}
			i.perft(depth)
			return
		case "infinite":
			cfg.Infinite = true
			continue
		}
		if j+1 >= len(args) {
			break
		}
		value, err := strconv.ParseInt(args[j+1], 10, 64)
		if err != nil {
			continue
		}
		ms := time.Duration(value) * time.Millisecond
		switch args[j] {
		case "depth":
			cfg.Depth = clampDepth(value)
		case "movetime":
			cfg.Movetime = ms
		case "wtime":
			cfg.WhiteTime = ms
		case "btime":
			cfg.BlackTime = ms
		case "winc":
			cfg.WhiteIncrement = ms
		case "binc":
			cfg.BlackIncrement = ms
		default:
			continue
		}
		j++
	}
	if cfg.Movetime != 0 || cfg.WhiteTime != 0 || cfg.BlackTime != 0 || cfg.Infinite {
		// the explicit limit wins over the configured default depth
		if !slices.Contains(args, "depth") {
			cfg.Depth = 0
		}
	}

	e, b, debug := i.engine, i.board, i.options.debug
	engineCtx, engineCancel := context.WithCancel(ctx)
	i.engineCancel = engineCancel
	i.engineRunning.Store(true)
	i.engineWG.Add(1)
	go func() {
		defer i.engineWG.Done()
		defer i.engineRunning.Store(false)
		defer engineCancel()

		bestMove, err := e.Search(engineCtx, b, &engine.SearchConfig{
			ClockConfig: cfg,
			Debug:       debug,
		})
		if err != nil {
			if !errors.Is(err, engine.ErrNoMove) {
				i.logger.Error().Err(err).Msg("search failed")
			}
			i.println("bestmove (none)")
			return
		}
		i.println(fmt.Sprintf("bestmove %s", bestMove.UCI()))
	}()
}

// clampDepth bounds a requested search depth to 1..engine.MaxDepth.
func clampDepth(v int64) uint8 {
	switch {
	case v < 1:
		return 1
	case v > int64(engine.MaxDepth):
		return engine.MaxDepth
	}
	return uint8(v)
}

func (i *Interface) perft(depth int) {
	out := make(chan string, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for s := range out {
			i.println(s)
		}
	}()

	_, err := bench.Perft(depth, i.board.FEN(), i.options.parallelPerft, true, out)
	close(out)
	<-done
	if err != nil {
		i.logger.Error().Err(err).Msg("perft failed")
	}
}

func (i *Interface) commandStop(_ context.Context) {
	if i.engineCancel != nil {
		i.engineCancel()
		i.engineCancel = nil
	}
	if i.engine != nil {
		i.engine.Stop()
	}
	i.engineWG.Wait()
}

// busy reports a running search; the board must not be touched until it ends.
func (i *Interface) busy(cmd string) bool {
	if !i.engineRunning.Load() {
		return false
	}
	i.logger.Warn().Str("command", cmd).Msg("search running, command ignored")
	return true
}

// commandLegal lists the safe destinations of the piece on a square.
func (i *Interface) commandLegal(_ context.Context, args []string) {
	if i.busy("legal") || len(args) != 1 {
		return
	}
	pos, err := position.NewPosFromNotation(args[0])
	if err != nil {
		i.println(fmt.Sprintf("info string %v", err))
		return
	}
	dsts, err := i.board.SafeDestinations(pos)
	if err != nil {
		i.println(fmt.Sprintf("info string %v", err))
		return
	}
	notations := make([]string, 0, len(dsts))
	for _, dst := range dsts {
		notations = append(notations, dst.Notation())
	}
	i.println(fmt.Sprintf("legal %s: %s", pos.Notation(), strings.Join(notations, " ")))
	if i.options.debug {
		i.println(Draw(i.board, dsts))
	}
}

// commandWhere reports where every piece that started on a square stands now.
func (i *Interface) commandWhere(_ context.Context, args []string) {
	if i.busy("where") || len(args) != 1 {
		return
	}
	origin, err := position.NewPosFromNotation(args[0])
	if err != nil {
		i.println(fmt.Sprintf("info string %v", err))
		return
	}
	var found bool
	for _, s := range board.Sides {
		for _, id := range i.board.Roster(s) {
			if id.Origin != origin {
				continue
			}
			found = true
			if pos, ok := i.board.Position(id); ok {
				i.println(fmt.Sprintf("where %s: %s", id, pos.Notation()))
			} else {
				i.println(fmt.Sprintf("where %s: captured", id))
			}
		}
	}
	if !found {
		i.println(fmt.Sprintf("info string %v: %s", board.ErrUnknownPiece, origin.Notation()))
	}
}

func (i *Interface) commandCheck(_ context.Context) {
	if i.busy("check") {
		return
	}
	for _, s := range board.Sides {
		line := fmt.Sprintf("check %s: %v", s, i.board.IsInCheck(s))
		if checker, ok := i.board.Checker(s); ok {
			line += fmt.Sprintf(" by %s", checker.Notation())
		}
		i.println(line)
	}
	i.println(fmt.Sprintf("state %s", i.board.State()))
}

func (i *Interface) reset(ctx context.Context) {
	i.commandStop(ctx)
	i.commandPosition(ctx, []string{"startpos"})
	i.engine = i.newEngine()
}

func (i *Interface) newEngine() *engine.Engine {
	return engine.NewEngine(&engine.EngineConfig{
		HashTableSize: i.options.hashTableSize,
		Logger:        i.logger,
		Info:          i.println,
	})
}

func (i *Interface) println(line string) {
	i.outMu.Lock()
	defer i.outMu.Unlock()
	_, _ = fmt.Fprintln(i.out, line)
}

