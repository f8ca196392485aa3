package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/daystram/rulebook/board"
	"github.com/daystram/rulebook/engine"
	"github.com/daystram/rulebook/position"
	"github.com/daystram/rulebook/uci"
)

// search pits the engine, playing the side to move, against a random mover.
func search(ctx context.Context, w io.Writer, fen string, steps int, depth uint8, seed uint64, logger zerolog.Logger) error {
	b, err := board.NewBoard(
		board.WithFEN(fen),
		board.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	e := engine.NewEngine(&engine.EngineConfig{
		Logger: logger,
		Info:   func(line string) { logger.Debug().Msg(line) },
	})
	r := board.NewPseudoRand()
	r.Seed(seed)
	fmt.Fprintln(w, uci.Draw(b, nil))
	fmt.Fprintln(w, b.FEN())

	start := b.Clone()
	playingSide := b.Turn()
	var history []board.Move
	for ply := 0; ply < steps && b.State().IsRunning() && ctx.Err() == nil; ply++ {
		var mv *board.Move
		if b.Turn() == playingSide {
			mv, err = e.Play(ctx, b, &engine.SearchConfig{
				ClockConfig: engine.ClockConfig{Depth: depth},
			})
		} else {
			reqs := b.SafeMoves(b.Turn())
			if len(reqs) == 0 {
				break
			}
			req := reqs[r.Intn(len(reqs))]
			mv, err = b.Move(req.From, req.To, board.WithPromotion(req.Promote))
		}
		if err != nil {
			if errors.Is(err, engine.ErrNoMove) {
				break
			}
			return err
		}
		history = append(history, *mv)

		fmt.Fprintf(w, "\n>>> %s: %s\n", mv.IsTurn, mv)
		fmt.Fprintln(w, b.FEN())
		fmt.Fprintln(w, uci.Draw(b, []position.Pos{mv.From, mv.To}))
	}
	logger.Info().Str("state", b.State().String()).Msg("game ended")
	fmt.Fprintln(w, b.FEN())
	fmt.Fprintln(w, engine.DumpHistory(start, history))
	return nil
}
