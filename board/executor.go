package board

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/daystram/rulebook/position"
)

type moveConfig struct {
	promote Kind
	safety  bool
}

type MoveOption func(*moveConfig)

// WithPromotion selects the piece a pawn becomes on the last rank. Anything other
// than Queen, Rook, Bishop or Knight falls back to Queen.
func WithPromotion(k Kind) MoveOption {
	return func(cfg *moveConfig) {
		cfg.promote = k
	}
}

// WithSafetyCheck makes the move verify that it does not leave the mover's King
// under attack, rolling it back otherwise, even when no side is in check.
func WithSafetyCheck() MoveOption {
	return func(cfg *moveConfig) {
		cfg.safety = true
	}
}

// Move applies a player move. The destination must be in the piece's trace; moving
// the King onto its own Rook requests castling. While either side is in check (or
// with WithSafetyCheck) the move is simulated and rolled back if it leaves the
// mover's King attacked, in which case ErrSelfCheckExposure is returned and the
// board is unchanged.
func (b *Board) Move(from, to position.Pos, opts ...MoveOption) (*Move, error) {
	cfg := &moveConfig{promote: KindQueen}
	for _, f := range opts {
		f(cfg)
	}

	p, err := b.mover(from, to)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(b.Trace(from), to) {
		return nil, fmt.Errorf("%w: %s %s to %s", ErrIllegalDestination, p.ID, from, to)
	}

	tracked := cfg.safety || b.check[SideWhite] || b.check[SideBlack]
	if tracked {
		b.Snapshot()
	}

	mv := b.play(from, to, cfg.promote, false)
	b.updateCheck(mv)

	if tracked {
		if b.IsUnderAttack(mv.IsTurn) {
			_ = b.Restore()
			b.logger.Debug().
				Str("side", mv.IsTurn.String()).
				Str("move", mv.UCI()).
				Msg("move leaves king under attack, rolled back")
			return nil, fmt.Errorf("%w: %s", ErrSelfCheckExposure, mv.UCI())
		}
		b.commit()
		b.check[mv.IsTurn] = false
		b.checker[mv.IsTurn] = position.Invalid
	}
	b.logCheck(mv)
	return mv, nil
}

// RoboMove applies a move the caller has already validated: same castling and
// promotion semantics as Move, without destination checks, check bookkeeping or
// rollback.
func (b *Board) RoboMove(from, to position.Pos, promote Kind) (*Move, error) {
	if err := b.roboMover(from, to); err != nil {
		return nil, err
	}
	return b.play(from, to, promote, false), nil
}

// Apply is RoboMove inside an undo frame. unApply must be called before any frame
// opened after this one is closed.
func (b *Board) Apply(from, to position.Pos, promote Kind) (*Move, func(), error) {
	if err := b.roboMover(from, to); err != nil {
		return nil, func() {}, err
	}
	b.Snapshot()
	depth := len(b.frames)
	mv := b.play(from, to, promote, false)
	return mv, func() {
		if len(b.frames) != depth {
			panic(fmt.Sprintf("unApply out of order: depth=%d want=%d", len(b.frames), depth))
		}
		_ = b.Restore()
	}, nil
}

func (b *Board) mover(from, to position.Pos) (*Piece, error) {
	if !from.Valid() || !to.Valid() {
		return nil, fmt.Errorf("%w: from=%d to=%d", ErrOutOfBounds, from, to)
	}
	p, ok := b.PieceAt(from)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEmptySource, from)
	}
	return p, nil
}

// roboMover is mover plus the castling preconditions play relies on: both hops on
// the board and the King not in check.
func (b *Board) roboMover(from, to position.Pos) error {
	p, err := b.mover(from, to)
	if err != nil {
		return err
	}
	target := b.cells[to]
	if p.Kind != KindKing || target.IsZero() || target.Side != p.Side || target.Kind != KindRook {
		return nil
	}
	if _, _, ok := castleHops(from, to); !ok {
		return fmt.Errorf("%w: %s castles off the board from %s", ErrIllegalDestination, p.ID, from)
	}
	if b.check[p.Side] {
		return fmt.Errorf("%w: %s castles out of check", ErrIllegalDestination, p.ID)
	}
	return nil
}

func (b *Board) promotion(k Kind) Kind {
	if slices.Contains(PawnPromoteCandidates, k) {
		return k
	}
	b.logger.Debug().Str("choice", k.String()).Msg("invalid promotion choice, using Queen")
	return KindQueen
}

// play mutates the board for one move, castling included. Speculative moves leave
// piece history untouched and never log.
func (b *Board) play(from, to position.Pos, promote Kind, speculative bool) *Move {
	id := b.cells[from]
	target := b.cells[to]
	mv := &Move{
		From:   from,
		To:     to,
		Kind:   id.Kind,
		Piece:  id,
		IsTurn: id.Side,
	}

	if id.Kind == KindKing && target.Side == id.Side && target.Kind == KindRook {
		kingTo, rookTo, _ := castleHops(from, to)
		b.shift(id, from, kingTo, speculative)
		b.shift(target, to, rookTo, speculative)
		mv.IsCastle = castleDirection(id.Side, from, to)
	} else {
		captured := b.shift(id, from, to, speculative)
		mv.IsCapture = !captured.IsZero()
		mv.Captured = captured
		if id.Kind == KindPawn && (to.Row() == int(position.Rank1) || to.Row() == int(position.Rank8)) {
			if !speculative {
				promote = b.promotion(promote)
			}
			mv.IsPromote = promote
			mv.Promoted = b.promote(id, to, promote)
		}
	}

	if mv.Kind == KindPawn || mv.IsCapture {
		b.halfMoveClock = 0
	} else {
		b.halfMoveClock++
	}
	if mv.IsTurn == SideBlack {
		b.fullMoveClock++
	}
	b.turn = mv.IsTurn.Opposite()
	return mv
}

// shift moves one piece, marking any occupant of the destination captured.
func (b *Board) shift(id PieceID, from, to position.Pos, speculative bool) PieceID {
	captured := b.cells[to]
	d := delta{id: id, from: from, to: to, captured: captured}
	if !captured.IsZero() {
		b.registry[captured] = Captured
	}
	b.registry[id] = to
	if !speculative {
		p := b.pieces[id]
		p.history = append(p.history, to)
		d.history = true
	}
	b.cells[to] = id
	b.cells[from] = PieceID{}
	b.record(d)
	return captured
}

// promote replaces the pawn standing on pos with a freshly minted piece.
func (b *Board) promote(pawn PieceID, pos position.Pos, k Kind) PieceID {
	id := PieceID{Side: pawn.Side, Kind: k, Origin: pos, Serial: b.nextSerial()}
	b.pieces[id] = newPiece(id)
	b.registry[id] = pos
	b.registry[pawn] = Captured
	b.cells[pos] = id
	b.rosters[id.Side] = append(b.rosters[id.Side], id)

	// the shift delta was just recorded; attach the promotion to it
	if n := len(b.frames); n > 0 {
		deltas := b.frames[n-1].deltas
		deltas[len(deltas)-1].promoted = id
	}
	return id
}

// updateCheck raises the opponent's check flag when the move attacks their King,
// preferring the moved piece as the recorded checker.
func (b *Board) updateCheck(mv *Move) {
	opp := mv.IsTurn.Opposite()
	attackers := b.attackers(opp, 0)
	b.check[opp] = len(attackers) != 0
	b.checker[opp] = position.Invalid
	if !b.check[opp] {
		return
	}
	b.checker[opp] = attackers[0]
	landed := mv.To
	if mv.IsCastle != CastleDirectionUnknown {
		_, landed, _ = castleHops(mv.From, mv.To)
	}
	if slices.Contains(attackers, landed) {
		b.checker[opp] = landed
	}
	mv.IsCheck = true
}

// logCheck reports a kept move that gives check.
func (b *Board) logCheck(mv *Move) {
	if !mv.IsCheck {
		return
	}
	opp := mv.IsTurn.Opposite()
	log := b.logger.Info().
		Str("side", opp.String()).
		Str("checker", b.checker[opp].String()).
		Str("move", mv.UCI())
	if b.IsCheckmate(opp) {
		log.Msg("checkmate")
		return
	}
	log.Msg("check")
}
