package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/constraints"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/daystram/rulebook/board"
)

const (
	ScoreInfinite int32 = math.MaxInt16

	maxQuiescenceDepth uint8 = 4

	scoreCheckmate = ScoreInfinite - 1
)

var ErrNoMove = errors.New("cannot resolve best move")

type PVLine struct {
	mvs []board.Move
}

func (pvl *PVLine) GetPV() board.Move {
	if len(pvl.mvs) == 0 {
		return board.Move{}
	}
	return pvl.mvs[0]
}

func (pvl *PVLine) Set(mv board.Move, nextPVL PVLine) {
	if pvl == nil {
		return
	}
	pvl.mvs = append([]board.Move{mv}, nextPVL.mvs...)
}

func (pvl *PVLine) Clear() {
	pvl.mvs = pvl.mvs[:0] // memory not released for GC
}

func (pvl *PVLine) Len() int {
	return len(pvl.mvs)
}

func (pvl *PVLine) StringUCI() string {
	if pvl == nil {
		return ""
	}
	builder := strings.Builder{}
	for i, mv := range pvl.mvs {
		_, _ = builder.WriteString(mv.UCI())
		if i < len(pvl.mvs)-1 {
			_, _ = builder.WriteRune(' ')
		}
	}
	return builder.String()
}

func (pvl *PVLine) String(b *board.Board) string {
	return DumpHistory(b, pvl.mvs)
}

// DumpHistory renders moves in numbered algebraic notation, replaying them on a clone.
func DumpHistory(b *board.Board, mvs []board.Move) string {
	if b == nil || len(mvs) < 1 {
		return ""
	}
	builder := strings.Builder{}
	bb := b.Clone()
	fullMoveClock := bb.FullMoveClock()
	if mvs[0].IsTurn == board.SideBlack {
		_, _ = builder.WriteString(fmt.Sprintf("%d... ", fullMoveClock))
	}
	for i, mv := range mvs {
		if _, _, err := bb.Apply(mv.From, mv.To, mv.IsPromote); err != nil {
			break
		}
		if mv.IsTurn == board.SideWhite {
			_, _ = builder.WriteString(fmt.Sprintf("%d. %s", fullMoveClock, mv))
		} else {
			_, _ = builder.WriteString(mv.String())
			fullMoveClock++
		}
		if !mv.IsCheck && bb.IsUnderAttack(mv.IsTurn.Opposite()) {
			_, _ = builder.WriteRune('+')
		}
		if i < len(mvs)-1 {
			_, _ = builder.WriteRune(' ')
		}
	}
	return builder.String()
}

type EngineConfig struct {
	HashTableSize uint64
	Logger        zerolog.Logger
	// Info receives one UCI info line per finished iteration.
	Info func(line string)
}

type SearchConfig struct {
	ClockConfig ClockConfig
	Debug       bool
}

// Engine is an automated player. It searches with Apply on the caller's board and
// always leaves the board as it found it. One search at a time.
type Engine struct {
	tt           *TranspositionTable
	killers      [MaxDepth + 1][2]candidate
	boardHistory [MaxDepth + 1]uint64
	clock        *Clock

	currentTurn board.Side
	nodes       uint32
	elapsedTime time.Duration
	logger      zerolog.Logger
	info        func(string)
}

func NewEngine(cfg *EngineConfig) *Engine {
	info := cfg.Info
	if info == nil {
		info = func(string) {}
	}
	return &Engine{
		tt:     NewTranspositionTable(cfg.HashTableSize),
		clock:  NewClock(),
		logger: cfg.Logger,
		info:   info,
	}
}

// Reset forgets everything learned from previous games.
func (e *Engine) Reset() {
	e.tt.Clear()
	e.killers = [MaxDepth + 1][2]candidate{}
}

// Stop ends a running search early; the best move found so far is kept.
func (e *Engine) Stop() {
	e.clock.Stop()
}

func (e *Engine) Search(ctx context.Context, b *board.Board, cfg *SearchConfig) (board.Move, error) {
	mv, err := e.search(ctx, b, cfg)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return board.Move{}, err
	}
	if mv.Piece.IsZero() {
		return board.Move{}, ErrNoMove
	}
	return mv, nil
}

// Play searches and commits the choice with RoboMove, refreshing check flags after.
func (e *Engine) Play(ctx context.Context, b *board.Board, cfg *SearchConfig) (*board.Move, error) {
	best, err := e.Search(ctx, b, cfg)
	if err != nil {
		return nil, err
	}
	mv, err := b.RoboMove(best.From, best.To, best.IsPromote)
	if err != nil {
		return nil, err
	}
	b.RefreshCheck()
	mv.IsCheck = b.IsInCheck(mv.IsTurn.Opposite())
	e.logger.Info().
		Str("side", mv.IsTurn.String()).
		Str("move", mv.UCI()).
		Str("state", b.State().String()).
		Msg("engine played")
	return mv, nil
}

func (e *Engine) search(ctx context.Context, b *board.Board, cfg *SearchConfig) (board.Move, error) {
	var bestMove board.Move
	var bestScore int32
	var pvl PVLine
	e.currentTurn = b.Turn()
	e.nodes = 0
	e.elapsedTime = 0
	e.tt.ResetStats()

	e.clock.Start(ctx, b.Turn(), b.FullMoveClock(), &cfg.ClockConfig)
	defer e.clock.Stop()

	for d := uint8(1); !e.clock.DoneByDepth(d); d++ {
		startTime := time.Now()
		candidateScore := e.negamax(b, &pvl, d, 0, -ScoreInfinite, ScoreInfinite)
		e.elapsedTime += time.Since(startTime)

		// a cut-short iteration is only trusted when nothing better exists yet
		if e.clock.DoneByMovetime() && !bestMove.Piece.IsZero() {
			break
		}
		if pvl.Len() == 0 {
			break
		}
		bestMove = pvl.GetPV()
		bestScore = candidateScore

		nps := float64(e.nodes) / ((e.elapsedTime + 1).Seconds())
		if cfg.Debug {
			hits, misses, writes := e.tt.Stats()
			e.logger.Debug().
				Str("stats", message.NewPrinter(language.English).
					Sprintf("depth:%d [%s] nodes:%d (%.0fn/s) tt:%d/%d/%d t:%s",
						d, formatScoreDebug(bestScore, pvl), e.nodes, nps, hits, misses, writes, e.elapsedTime)).
				Str("pv", pvl.String(b)).
				Msg("search iteration")
		}
		e.info(fmt.Sprintf("info depth %d score %s time %d nodes %d nps %.0f pv %s",
			d, formatScoreUCI(bestScore, pvl), e.elapsedTime.Milliseconds(), e.nodes, nps, pvl.StringUCI()))

		if abs(bestScore) == scoreCheckmate || e.clock.DoneByMovetime() {
			break
		}
		pvl.Clear()
	}
	return bestMove, ctx.Err()
}

// For a given board, regardless turn, we always want to maximize alpha.
func (e *Engine) negamax(b *board.Board, pvl *PVLine, depth, dist uint8, alpha, beta int32) int32 {
	e.nodes++

	// check if movetime exceeded
	if e.clock.DoneByMovetime() && dist > 0 {
		return 0
	}

	// check if leaf reached
	if depth == 0 || dist >= MaxDepth {
		return e.quiescence(b, pvl, 0, alpha, beta)
	}

	// check if repeated
	if e.isBoardRepeated(b, dist) {
		return 0
	}

	isRoot := dist == 0
	ttType, ttMove, ttScore, ttDepth, ok := e.tt.Get(b)
	if !isRoot && ok && ttDepth >= depth {
		switch ttType {
		case EntryTypeExact:
			return ttScore
		case EntryTypeLowerBound:
			if ttScore <= alpha {
				return alpha
			}
		case EntryTypeUpperBound:
			if ttScore >= beta {
				return beta
			}
		}
	}

	mvs := generate(b)
	e.scoreMoves(b, ttMove, dist, mvs)

	var moveCount int
	var bestMove candidate
	var childPVL PVLine
	bestScore := -ScoreInfinite
	ttType = EntryTypeLowerBound
	for i := 0; i < len(mvs); i++ {
		sortMoves(mvs, i)
		cand := mvs[i]

		mv, unApply, err := b.Apply(cand.From, cand.To, cand.Promote)
		if err != nil {
			continue
		}
		moveCount++
		e.boardHistory[dist] = b.Hash()
		score := -e.negamax(b, &childPVL, depth-1, dist+1, -beta, -alpha)
		unApply()

		if score > bestScore {
			bestMove = cand
			bestScore = score
		}
		if score >= beta {
			if cand.victim == board.KindUnknown && !cand.equals(e.killers[dist][0]) {
				e.killers[dist][1] = e.killers[dist][0]
				e.killers[dist][0] = cand
			}
			ttType = EntryTypeUpperBound
			break // fail-hard cutoff
		}
		if score > alpha || (isRoot && pvl.Len() == 0) {
			if score > alpha {
				alpha = score
				ttType = EntryTypeExact
			}
			pvl.Set(*mv, childPVL)
		}

		if e.clock.DoneByMovetime() {
			break
		}
		childPVL.Clear()
	}

	// no moves were explored, game has terminated
	if moveCount == 0 {
		if b.IsUnderAttack(b.Turn()) {
			return -scoreCheckmate
		}
		return 0
	}

	e.tt.Set(b, ttType, bestMove, bestScore, depth)
	return bestScore
}

func (e *Engine) quiescence(b *board.Board, pvl *PVLine, qDepth uint8, alpha, beta int32) int32 {
	e.nodes++

	if e.clock.DoneByMovetime() {
		return 0
	}

	eval := e.evaluate(b)
	if qDepth >= maxQuiescenceDepth {
		return eval
	}
	if eval >= beta {
		return beta
	}
	if alpha < eval {
		alpha = eval
	}

	mvs := generate(b)
	e.scoreMoves(b, candidate{}, 0, mvs)

	var childPVL PVLine
	bestScore := eval
	for i := 0; i < len(mvs); i++ {
		sortMoves(mvs, i)
		cand := mvs[i]
		if cand.victim == board.KindUnknown {
			continue
		}

		mv, unApply, err := b.Apply(cand.From, cand.To, cand.Promote)
		if err != nil {
			continue
		}
		score := -e.quiescence(b, &childPVL, qDepth+1, -beta, -alpha)
		unApply()

		if score > bestScore {
			bestScore = score
		}
		if score >= beta {
			break // fail-hard cutoff
		}
		if score > alpha {
			alpha = score
			pvl.Set(*mv, childPVL)
		}

		if e.clock.DoneByMovetime() {
			break
		}
		childPVL.Clear()
	}

	return bestScore
}

func (e *Engine) isBoardRepeated(b *board.Board, dist uint8) bool {
	count := 0
	for ply := uint8(0); ply < dist; ply++ {
		if e.boardHistory[ply] == b.Hash() {
			if count++; count >= 2 {
				return true
			}
		}
	}
	return false
}

func max[T constraints.Ordered](x1, x2 T) T {
	if x1 > x2 {
		return x1
	}
	return x2
}

func min[T constraints.Ordered](x1, x2 T) T {
	if x1 < x2 {
		return x1
	}
	return x2
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return x * -1
	}
	return x
}

func formatScoreDebug(s int32, pvl PVLine) string {
	if s == ScoreInfinite {
		return "+inf"
	}
	if s == -ScoreInfinite {
		return "-inf"
	}
	if s == scoreCheckmate {
		return fmt.Sprintf("#+%d", pvl.Len()/2+1)
	}
	if s == -scoreCheckmate {
		return fmt.Sprintf("#-%d", pvl.Len()/2)
	}
	if s > 0 {
		return fmt.Sprintf("+%.2f", float64(s)/100)
	}
	if s < 0 {
		return fmt.Sprintf("%.2f", float64(s)/100)
	}
	return "0"
}

func formatScoreUCI(s int32, pvl PVLine) string {
	if s == scoreCheckmate {
		return fmt.Sprintf("mate %d", pvl.Len()/2+1)
	}
	if s == -scoreCheckmate {
		return fmt.Sprintf("mate -%d", pvl.Len()/2)
	}
	return fmt.Sprintf("cp %d", s)
}
