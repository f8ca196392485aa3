package board

import (
	"fmt"

	"github.com/daystram/rulebook/position"
)

// delta is the minimal record needed to undo one piece shift.
type delta struct {
	id       PieceID
	from, to position.Pos
	captured PieceID
	promoted PieceID
	history  bool
}

// frame groups the deltas applied since it was pushed, with the meta it must restore.
type frame struct {
	deltas []delta

	check         [2 + 1]bool
	checker       [2 + 1]position.Pos
	turn          Side
	halfMoveClock uint16
	fullMoveClock uint16
}

func (f frame) clone() frame {
	ff := f
	ff.deltas = make([]delta, len(f.deltas))
	copy(ff.deltas, f.deltas)
	return ff
}

// Snapshot opens an undo frame. Every later change is recorded until Restore pops it.
func (b *Board) Snapshot() {
	b.frames = append(b.frames, frame{
		check:         b.check,
		checker:       b.checker,
		turn:          b.turn,
		halfMoveClock: b.halfMoveClock,
		fullMoveClock: b.fullMoveClock,
	})
}

// Restore pops the most recent frame and reverts everything recorded in it.
func (b *Board) Restore() error {
	if len(b.frames) == 0 {
		return ErrNoSnapshot
	}
	f := b.frames[len(b.frames)-1]
	b.frames = b.frames[:len(b.frames)-1]
	for i := len(f.deltas) - 1; i >= 0; i-- {
		b.revert(f.deltas[i])
	}
	b.check = f.check
	b.checker = f.checker
	b.turn = f.turn
	b.halfMoveClock = f.halfMoveClock
	b.fullMoveClock = f.fullMoveClock
	return nil
}

// commit pops the most recent frame keeping its changes; an enclosing frame inherits
// the deltas so it can still revert them.
func (b *Board) commit() {
	if len(b.frames) == 0 {
		return
	}
	f := b.frames[len(b.frames)-1]
	b.frames = b.frames[:len(b.frames)-1]
	if n := len(b.frames); n > 0 {
		b.frames[n-1].deltas = append(b.frames[n-1].deltas, f.deltas...)
	}
}

// Depth is the number of open frames.
func (b *Board) Depth() int {
	return len(b.frames)
}

func (b *Board) record(d delta) {
	if n := len(b.frames); n > 0 {
		b.frames[n-1].deltas = append(b.frames[n-1].deltas, d)
	}
}

func (b *Board) revert(d delta) {
	if !d.promoted.IsZero() {
		roster := b.rosters[d.promoted.Side]
		if n := len(roster); n == 0 || roster[n-1] != d.promoted {
			panic(fmt.Sprintf("undo out of order: roster tail is not %s", d.promoted))
		}
		b.rosters[d.promoted.Side] = roster[:len(roster)-1]
		delete(b.pieces, d.promoted)
		delete(b.registry, d.promoted)
		if d.promoted.Serial == b.serial {
			b.serial--
		}
	}

	p := b.pieces[d.id]
	if d.history {
		p.history = p.history[:len(p.history)-1]
	}
	b.registry[d.id] = d.from
	b.cells[d.from] = d.id

	b.cells[d.to] = d.captured
	if !d.captured.IsZero() {
		b.registry[d.captured] = d.to
	}
}

// speculate applies a move without touching history or check state, runs fn on the
// resulting position, then rolls the move back.
func (b *Board) speculate(from, to position.Pos, fn func()) {
	b.Snapshot()
	b.play(from, to, KindQueen, true)
	fn()
	_ = b.Restore()
}
