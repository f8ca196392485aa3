package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/daystram/rulebook/board"
	"github.com/daystram/rulebook/position"
	"github.com/daystram/rulebook/uci"
)

func movegen(w io.Writer, fen string, draw bool, logger zerolog.Logger) error {
	logger.Info().Str("fen", fen).Msg("movegen")
	b, err := board.NewBoard(
		board.WithFEN(fen),
		board.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "to move:", b.Turn())
	fmt.Fprintln(w, b.Dump())
	fmt.Fprintln(w, uci.Draw(b, nil))
	fmt.Fprintln(w, b.State())
	dumpMoves(w, b)

	if draw {
		for _, req := range b.SafeMoves(b.Turn()) {
			mv, unApply, err := b.Apply(req.From, req.To, req.Promote)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, mv)
			fmt.Fprintln(w, uci.Draw(b, []position.Pos{mv.From, mv.To}))
			fmt.Fprintln(w, b.FEN())
			unApply()
		}
	}
	return nil
}

func dumpMoves(w io.Writer, b *board.Board) {
	reqs := b.SafeMoves(b.Turn())
	for i, req := range reqs {
		p, _ := b.PieceAt(req.From)
		fmt.Fprintf(w, "option %*d: [%s] %s %s => %s\n",
			len(strconv.Itoa(len(reqs))), i+1, req, p.ID, req.From, req.To)
	}
}
