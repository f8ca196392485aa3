package engine

import (
	"testing"

	"github.com/daystram/rulebook/board"
	"github.com/daystram/rulebook/position"
)

func TestTranspositionTable(t *testing.T) {
	t.Parallel()
	tt := NewTranspositionTable(1000)
	if tt.size != 512 {
		t.Fatalf("unexpected size: got=%d want=%d", tt.size, 512)
	}

	b := mustBoard(t, board.DefaultStartingPositionFEN)
	other := mustBoard(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	mv := candidate{Request: board.Request{From: position.E2, To: position.E4}}

	if _, _, _, _, ok := tt.Get(b); ok {
		t.Error("unexpected hit on empty table")
	}

	tt.Set(b, EntryTypeExact, mv, 42, 3)
	typ, got, score, depth, ok := tt.Get(b)
	if !ok {
		t.Fatal("expected hit")
	}
	if typ != EntryTypeExact || !got.equals(mv) || score != 42 || depth != 3 {
		t.Errorf("unexpected entry: typ=%d mv=%s score=%d depth=%d", typ, got.Request, score, depth)
	}

	// shallower result for the same position does not replace a deeper one
	tt.Set(b, EntryTypeLowerBound, candidate{}, 7, 1)
	if _, _, score, _, _ := tt.Get(b); score != 42 {
		t.Errorf("unexpected overwrite: got=%d want=%d", score, 42)
	}

	if _, _, _, _, ok := tt.Get(other); ok && other.Hash() != b.Hash() {
		t.Error("unexpected hit for different position")
	}

	hits, misses, writes := tt.Stats()
	if hits != 2 || writes != 1 || misses < 1 {
		t.Errorf("unexpected stats: hits=%d misses=%d writes=%d", hits, misses, writes)
	}

	tt.Clear()
	if _, _, _, _, ok := tt.Get(b); ok {
		t.Error("unexpected hit after clear")
	}
}
