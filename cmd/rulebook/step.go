package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/daystram/rulebook/board"
	"github.com/daystram/rulebook/position"
	"github.com/daystram/rulebook/uci"
)

// step plays random safe moves through the player path until the game ends or steps
// plies have been played.
func step(w io.Writer, fen string, steps int, seed uint64, logger zerolog.Logger) error {
	logger.Info().Int("steps", steps).Uint64("seed", seed).Msg("step")
	var (
		timesSafeMoves []time.Duration
		timesMove      []time.Duration
		timesState     []time.Duration
	)
	b, err := board.NewBoard(
		board.WithFEN(fen),
		board.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	r := board.NewPseudoRand()
	r.Seed(seed)

	st := b.State()
	for ply := 0; ply < steps && st.IsRunning(); ply++ {
		t1 := time.Now()
		reqs := b.SafeMoves(b.Turn())
		timesSafeMoves = append(timesSafeMoves, time.Since(t1))
		if len(reqs) == 0 {
			// stalemate, not tracked as a state
			break
		}
		req := reqs[r.Intn(len(reqs))]

		t1 = time.Now()
		mv, err := b.Move(req.From, req.To, board.WithPromotion(req.Promote))
		timesMove = append(timesMove, time.Since(t1))
		if err != nil {
			return fmt.Errorf("safe move rejected: %s: %w", req, err)
		}

		t1 = time.Now()
		st = b.State()
		timesState = append(timesState, time.Since(t1))

		fmt.Fprintf(w, "\n===== [#%d] %s: %s\n", ply/2+1, mv.IsTurn, mv)
		fmt.Fprintln(w, uci.Draw(b, []position.Pos{mv.From, mv.To}))
		fmt.Fprintln(w, b.FEN())
		fmt.Fprintln(w, b.DebugString())
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, b.State())
	fmt.Fprintln(w, "moves:", average(timesSafeMoves))
	fmt.Fprintln(w, "apply:", average(timesMove))
	fmt.Fprintln(w, "state:", average(timesState))
	return nil
}

func average(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	var s time.Duration
	for _, d := range ds {
		s += d
	}
	return s / time.Duration(len(ds))
}
