package board

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/daystram/rulebook/position"
)

// reach classifies a candidate destination.
type reach uint8

const (
	// reachBlocked is off-board or a friendly piece: stop, exclude.
	reachBlocked reach = iota
	// reachCapture is an enemy piece: include, stop.
	reachCapture
	// reachOpen is an empty square: include, continue.
	reachOpen
)

func (b *Board) classify(s Side, to position.Pos, ok bool) reach {
	if !ok {
		return reachBlocked
	}
	occupant := b.cells[to]
	switch {
	case occupant.IsZero():
		return reachOpen
	case occupant.Side == s:
		return reachBlocked
	default:
		return reachCapture
	}
}

// Trace returns the squares the piece on pos can reach under its movement rules.
// Only King steps are filtered for safety; confirmed castling appears as the Rook's
// square. Invalid or empty squares yield nil.
func (b *Board) Trace(pos position.Pos) []position.Pos {
	if !pos.Valid() {
		return nil
	}
	id := b.cells[pos]
	if id.IsZero() {
		return nil
	}
	switch id.Kind {
	case KindPawn:
		return b.tracePawn(pos, b.pieces[id])
	case KindRook:
		return b.traceRays(pos, id.Side, offsetsLateral)
	case KindBishop:
		return b.traceRays(pos, id.Side, offsetsDiagonal)
	case KindQueen:
		return b.traceRays(pos, id.Side, offsetsRoyal)
	case KindKnight:
		return b.traceSteps(pos, id.Side, offsetsKnight)
	case KindKing:
		return b.traceKing(pos, b.pieces[id])
	default:
		return nil
	}
}

// LegalDestinations is Trace with input validation.
func (b *Board) LegalDestinations(pos position.Pos) ([]position.Pos, error) {
	if !pos.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrOutOfBounds, pos)
	}
	if b.cells[pos].IsZero() {
		return nil, fmt.Errorf("%w: %s", ErrEmptySource, pos)
	}
	return b.Trace(pos), nil
}

// SafeDestinations filters the trace down to destinations that do not leave the
// mover's King under attack, by simulating each one.
func (b *Board) SafeDestinations(pos position.Pos) ([]position.Pos, error) {
	dsts, err := b.LegalDestinations(pos)
	if err != nil {
		return nil, err
	}
	s := b.cells[pos].Side
	safe := make([]position.Pos, 0, len(dsts))
	for _, to := range dsts {
		exposed := false
		b.speculate(pos, to, func() {
			exposed = b.IsUnderAttack(s)
		})
		if !exposed {
			safe = append(safe, to)
		}
	}
	return safe, nil
}

func (b *Board) traceRays(pos position.Pos, s Side, dirs []offset) []position.Pos {
	var dsts []position.Pos
	for _, d := range dirs {
		to := pos
		for {
			var ok bool
			to, ok = to.Offset(d.dRow, d.dCol)
			r := b.classify(s, to, ok)
			if r == reachBlocked {
				break
			}
			dsts = append(dsts, to)
			if r == reachCapture {
				break
			}
		}
	}
	return dsts
}

func (b *Board) traceSteps(pos position.Pos, s Side, dirs []offset) []position.Pos {
	var dsts []position.Pos
	for _, d := range dirs {
		to, ok := pos.Offset(d.dRow, d.dCol)
		if b.classify(s, to, ok) != reachBlocked {
			dsts = append(dsts, to)
		}
	}
	return dsts
}

func (b *Board) tracePawn(pos position.Pos, p *Piece) []position.Pos {
	var dsts []position.Pos
	fwd := p.Side.Forward()

	step, ok := pos.Offset(fwd, 0)
	stepOpen := b.classify(p.Side, step, ok) == reachOpen
	if stepOpen {
		dsts = append(dsts, step)
	}
	for _, dCol := range []int{-1, 1} {
		to, ok := pos.Offset(fwd, dCol)
		if b.classify(p.Side, to, ok) == reachCapture {
			dsts = append(dsts, to)
		}
	}
	if stepOpen && p.IsAtStart() {
		to, ok := pos.Offset(2*fwd, 0)
		if b.classify(p.Side, to, ok) == reachOpen {
			dsts = append(dsts, to)
		}
	}
	return dsts
}

func (b *Board) traceKing(pos position.Pos, p *Piece) []position.Pos {
	var dsts []position.Pos
	for _, to := range b.traceSteps(pos, p.Side, offsetsRoyal) {
		if b.kingSafeAt(pos, to) {
			dsts = append(dsts, to)
		}
	}
	for _, rook := range b.castleCandidates(pos, p) {
		if b.castleSafe(pos, rook) {
			dsts = append(dsts, rook)
		}
	}
	return dsts
}

// castleCandidates returns the squares of unmoved friendly Rooks on the King's rank
// with exactly the required number of empty squares in between.
func (b *Board) castleCandidates(pos position.Pos, king *Piece) []position.Pos {
	if !king.IsAtStart() || b.check[king.Side] || b.IsUnderAttack(king.Side) {
		return nil
	}
	var rooks []position.Pos
	for _, id := range b.rosters[king.Side] {
		if id.Kind != KindRook {
			continue
		}
		rookPos, ok := b.Position(id)
		if !ok || rookPos.Row() != pos.Row() || !b.pieces[id].IsAtStart() {
			continue
		}
		lo, hi := pos.Col(), rookPos.Col()
		if lo > hi {
			lo, hi = hi, lo
		}
		empty := 0
		for col := lo + 1; col < hi; col++ {
			between, _ := position.NewPos(pos.Row(), col)
			if b.cells[between].IsZero() {
				empty++
			}
		}
		if empty == hi-lo-1 && empty == castleGap(pos, rookPos) {
			rooks = append(rooks, rookPos)
		}
	}
	return rooks
}

// castleSafe confirms that neither square the King crosses or lands on is attacked.
func (b *Board) castleSafe(pos, rook position.Pos) bool {
	kingTo, crossed, ok := castleHops(pos, rook)
	return ok && b.kingSafeAt(pos, crossed) && b.kingSafeAt(pos, kingTo)
}

// kingSafeAt speculatively steps the King from pos to to and checks every opposing
// piece: captured ones and a King more than one square away are harmless, the rest
// must not reach to.
func (b *Board) kingSafeAt(pos, to position.Pos) bool {
	s := b.cells[pos].Side
	opp := s.Opposite()
	safe := true
	b.speculate(pos, to, func() {
		for _, id := range b.rosters[opp] {
			at, ok := b.Position(id)
			if !ok {
				continue
			}
			if id.Kind == KindKing {
				if position.Distance(at, to) <= 1 {
					safe = false
					return
				}
				continue
			}
			if slices.Contains(b.Trace(at), to) {
				safe = false
				return
			}
		}
	})
	return safe
}

// Request is a move as a caller asks for it; castling targets the Rook's square.
type Request struct {
	From, To position.Pos
	Promote  Kind
}

func (r Request) String() string {
	return r.From.Notation() + r.To.Notation() + r.Promote.SymbolAlgebra(SideBlack)
}

// SafeMoves lists every safe move of s in roster order. A pawn reaching the last rank
// yields one request per promotion choice.
func (b *Board) SafeMoves(s Side) []Request {
	var reqs []Request
	for _, id := range b.rosters[s] {
		from, ok := b.Position(id)
		if !ok {
			continue
		}
		dsts, _ := b.SafeDestinations(from)
		for _, to := range dsts {
			if id.Kind == KindPawn && (to.Y() == position.Rank1 || to.Y() == position.Rank8) {
				for _, k := range PawnPromoteCandidates {
					reqs = append(reqs, Request{From: from, To: to, Promote: k})
				}
				continue
			}
			reqs = append(reqs, Request{From: from, To: to})
		}
	}
	return reqs
}
