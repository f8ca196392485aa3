package board

import (
	"errors"
	"testing"

	"github.com/daystram/rulebook/position"
)

func TestTrace(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		fen  string
		pos  position.Pos
		want []position.Pos
	}{
		{
			name: "pawn at start",
			fen:  DefaultStartingPositionFEN,
			pos:  position.E2,
			want: []position.Pos{position.E3, position.E4},
		},
		{
			name: "black pawn at start",
			fen:  DefaultStartingPositionFEN,
			pos:  position.D7,
			want: []position.Pos{position.D6, position.D5},
		},
		{
			name: "pawn moved",
			fen:  "4k3/8/8/8/8/4P3/8/4K3 w - - 0 1",
			pos:  position.E3,
			want: []position.Pos{position.E4},
		},
		{
			name: "pawn blocked",
			fen:  "4k3/8/8/8/8/4n3/4P3/4K3 w - - 0 1",
			pos:  position.E2,
			want: nil,
		},
		{
			name: "pawn double step blocked",
			fen:  "4k3/8/8/8/4n3/8/4P3/4K3 w - - 0 1",
			pos:  position.E2,
			want: []position.Pos{position.E3},
		},
		{
			name: "pawn captures diagonally only",
			fen:  "4k3/8/8/3p1P2/4P3/8/8/4K3 w - - 0 1",
			pos:  position.E4,
			want: []position.Pos{position.E5, position.D5},
		},
		{
			name: "knight in corner",
			fen:  "4k3/8/8/8/8/8/2P5/N3K3 w - - 0 1",
			pos:  position.A1,
			want: []position.Pos{position.B3},
		},
		{
			name: "rook stops on block",
			fen:  "4k3/8/8/8/1p1R2P1/8/8/4K3 w - - 0 1",
			pos:  position.D4,
			want: []position.Pos{
				position.D5, position.D6, position.D7, position.D8,
				position.E4, position.F4,
				position.D3, position.D2, position.D1,
				position.C4, position.B4,
			},
		},
		{
			name: "bishop stops on block",
			fen:  "4k3/8/5p2/8/3B4/2P5/8/4K3 w - - 0 1",
			pos:  position.D4,
			want: []position.Pos{
				position.E5, position.F6,
				position.C5, position.B6, position.A7,
				position.E3, position.F2, position.G1,
			},
		},
		{
			name: "king avoids attacked and adjacent squares",
			fen:  "8/8/8/3k4/8/3K4/8/8 w - - 0 1",
			pos:  position.D3,
			want: []position.Pos{position.C3, position.E3, position.C2, position.D2, position.E2},
		},
		{
			name: "king cannot capture defended piece",
			fen:  "4k3/8/8/8/8/3r4/3q4/4K3 w - - 0 1",
			pos:  position.E1,
			want: []position.Pos{position.F1},
		},
		{
			name: "king with castling",
			fen:  "4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1",
			pos:  position.E1,
			want: []position.Pos{
				position.D1, position.D2, position.E2, position.F2, position.F1,
				position.H1, position.A1,
			},
		},
		{
			name: "empty square",
			fen:  DefaultStartingPositionFEN,
			pos:  position.E4,
			want: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := mustBoard(t, tt.fen)
			if got := b.Trace(tt.pos); !sameSquares(got, tt.want) {
				t.Errorf("unexpected trace: got=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestLegalDestinationsErrors(t *testing.T) {
	t.Parallel()

	b := mustBoard(t, DefaultStartingPositionFEN)
	if _, err := b.LegalDestinations(position.Pos(70)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("unexpected error: got=%v want=%v", err, ErrOutOfBounds)
	}
	if _, err := b.LegalDestinations(position.E4); !errors.Is(err, ErrEmptySource) {
		t.Errorf("unexpected error: got=%v want=%v", err, ErrEmptySource)
	}
	got, err := b.LegalDestinations(position.G1)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if want := []position.Pos{position.F3, position.H3}; !sameSquares(got, want) {
		t.Errorf("unexpected destinations: got=%v want=%v", got, want)
	}
}

func TestSafeDestinations(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		fen  string
		pos  position.Pos
		want []position.Pos
	}{
		{
			name: "pinned bishop",
			fen:  "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1",
			pos:  position.E2,
			want: []position.Pos{},
		},
		{
			name: "pinned rook slides along pin",
			fen:  "4k3/4r3/8/8/8/8/4R3/4K3 w - - 0 1",
			pos:  position.E2,
			want: []position.Pos{position.E3, position.E4, position.E5, position.E6, position.E7},
		},
		{
			name: "only blocks resolve check",
			fen:  "4k3/8/8/8/8/2N5/8/r3K3 w - - 0 1",
			pos:  position.C3,
			want: []position.Pos{position.B1, position.D1},
		},
		{
			name: "capture resolves check",
			fen:  "4k3/8/8/8/8/1N6/8/r3K3 w - - 0 1",
			pos:  position.B3,
			want: []position.Pos{position.A1, position.C1},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := mustBoard(t, tt.fen)
			before := b.FEN()
			got, err := b.SafeDestinations(tt.pos)
			if err != nil {
				t.Fatal("unexpected error:", err)
			}
			if !sameSquares(got, tt.want) {
				t.Errorf("unexpected destinations: got=%v want=%v", got, tt.want)
			}
			if after := b.FEN(); after != before {
				t.Errorf("board changed: got=%s want=%s", after, before)
			}
		})
	}
}
