package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/daystram/rulebook/board"
)

func TestMovegen(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	if err := movegen(&out, board.DefaultStartingPositionFEN, true, zerolog.Nop()); err != nil {
		t.Fatal("unexpected error:", err)
	}
	got := out.String()
	if n := strings.Count(got, "option "); n != 20 {
		t.Errorf("unexpected option count: got=%d want=%d", n, 20)
	}
	if !strings.Contains(got, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1") {
		t.Error("missing FEN after e2e4")
	}
}

func TestStep(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	if err := step(&out, board.DefaultStartingPositionFEN, 40, 7, zerolog.Nop()); err != nil {
		t.Fatal("unexpected error:", err)
	}
	if !strings.Contains(out.String(), "===== [#1] White: ") {
		t.Errorf("missing first move: %q", out.String())
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	err := search(context.Background(), &out, "6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1", 4, 2, 1, zerolog.Nop())
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if !strings.Contains(out.String(), "1. Ra8+") {
		t.Errorf("missing mating move: %q", out.String())
	}
}

func TestPerft(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	if err := perft(&out, 1, board.DefaultStartingPositionFEN, false); err != nil {
		t.Fatal("unexpected error:", err)
	}
	got := out.String()
	if n := strings.Count(got, ": 1\n"); n != 20 {
		t.Errorf("unexpected root lines: got=%d want=%d", n, 20)
	}
	if !strings.Contains(got, "d=1 nodes=20") {
		t.Errorf("missing summary: %q", got)
	}
}
