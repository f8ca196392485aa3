package uci

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/daystram/rulebook/board"
	"github.com/daystram/rulebook/engine"
	"github.com/daystram/rulebook/position"
)

func run(t *testing.T, script string) string {
	t.Helper()
	var out bytes.Buffer
	i := NewInterface(strings.NewReader(script), &out, zerolog.Nop())
	if err := i.Run(context.Background()); err != nil {
		t.Fatal("unexpected error:", err)
	}
	return out.String()
}

func TestRun(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		script   string
		want     []string
		wantNone []string
	}{
		{
			name:   "handshake",
			script: "uci\nisready\nquit\n",
			want:   []string{"id name Rulebook", "option name Depth type spin default 2 min 1 max 64", "uciok", "readyok"},
		},
		{
			name:   "legal destinations",
			script: "position startpos\nlegal e2\nlegal e4\nlegal z9\n",
			want:   []string{"legal e2: e3 e4", "info string no piece on source square", "info string invalid notation"},
		},
		{
			name:   "position with moves",
			script: "position startpos moves e2e4 e7e5 g1f3\nwhere e2\nwhere g1\nd\n",
			want: []string{
				"where White Pawn e2: e4",
				"where White Knight g1: f3",
				"fen: rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2",
			},
		},
		{
			name:   "castling in move list",
			script: "position fen r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1 moves e1g1 e8c8\nwhere h1\nwhere e8\nd\n",
			want: []string{
				"where White Rook h1: f1",
				"where Black King e8: c8",
				"fen: 2kr3r/8/8/8/8/8/8/R4RK1 w - - 2 2",
			},
		},
		{
			name:   "rejected move keeps previous position",
			script: "position startpos moves e2e4\nposition startpos moves e2e5\nd\n",
			want:   []string{"fen: rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"},
		},
		{
			name:   "captured piece",
			script: "position fen 4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1 moves e4d5\nwhere d5\nwhere e4\nwhere a1\n",
			want:   []string{"where Black Pawn d5: captured", "where White Pawn e4: d5", "info string unknown piece: a1"},
		},
		{
			name:     "check state",
			script:   "position fen 4k3/8/8/8/8/8/8/4R1K1 b - - 0 1\ncheck\n",
			want:     []string{"check White: false", "check Black: true by e1", "state StateCheckBlack"},
			wantNone: []string{"check White: true"},
		},
		{
			name:   "perft",
			script: "position startpos\ngo perft 2\n",
			want:   []string{"e2e4: 20", "d=2 nodes=400"},
		},
		{
			name:   "search reports best move",
			script: "position startpos\ngo depth 1\nstop\n",
			want:   []string{"info depth 1 ", "bestmove "},
		},
		{
			name:   "search without moves",
			script: "position fen R5k1/5ppp/8/8/8/8/8/4K3 b - - 0 1\ngo depth 2\nstop\n",
			want:   []string{"bestmove (none)"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := run(t, tt.script)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("missing output: want=%q got=%q", want, got)
				}
			}
			for _, none := range tt.wantNone {
				if strings.Contains(got, none) {
					t.Errorf("unexpected output: %q", none)
				}
			}
		})
	}
}

func TestCommandGo(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	ctx := context.Background()
	i := NewInterface(strings.NewReader(""), &out, zerolog.Nop())
	i.reset(ctx)
	i.commandPosition(ctx, strings.Fields("fen 6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1"))
	i.commandGo(ctx, []string{"depth", "3"})
	i.engineWG.Wait()

	if !strings.Contains(out.String(), "bestmove a1a8\n") {
		t.Errorf("unexpected output: %q", out.String())
	}
	if i.engineRunning.Load() {
		t.Error("engine still marked running")
	}
	if got, want := i.board.FEN(), "6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1"; got != want {
		t.Errorf("board changed by search: got=%s want=%s", got, want)
	}
}

func TestClampDepth(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		value int64
		want  uint8
	}{
		{name: "in range", value: 5, want: 5},
		{name: "zero", value: 0, want: 1},
		{name: "negative", value: -1, want: 1},
		{name: "above max", value: 300, want: engine.MaxDepth},
		{name: "wraps a byte", value: 256, want: engine.MaxDepth},
		{name: "max", value: int64(engine.MaxDepth), want: engine.MaxDepth},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := clampDepth(tt.value); got != tt.want {
				t.Errorf("unexpected depth: got=%d want=%d", got, tt.want)
			}
		})
	}
}

func TestSetOption(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	i := NewInterface(strings.NewReader(""), &bytes.Buffer{}, zerolog.Nop())
	i.reset(ctx)

	i.commandSetOption(ctx, strings.Fields("name Depth value 5"))
	i.commandSetOption(ctx, strings.Fields("name Debug value true"))
	i.commandSetOption(ctx, strings.Fields("name Depth value 0"))
	i.commandSetOption(ctx, strings.Fields("name Hash"))

	if i.options.depth != 5 {
		t.Errorf("unexpected depth: got=%d want=%d", i.options.depth, 5)
	}
	if !i.options.debug {
		t.Error("expected debug enabled")
	}
}

func TestDraw(t *testing.T) {
	t.Parallel()
	b, err := board.NewBoard(board.WithFEN(board.DefaultStartingPositionFEN))
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	got := Draw(b, []position.Pos{position.E3, position.E4})
	for _, want := range []string{"♔", "♚", " 8 ", " a "} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in board drawing", want)
		}
	}
	if lines := strings.Count(got, "\n"); lines != 8 {
		t.Errorf("unexpected line count: got=%d want=%d", lines, 8)
	}
}
