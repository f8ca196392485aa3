package board

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"

	"github.com/daystram/rulebook/position"
)

// Board is one game session: grid, position registry, rosters, check flags and the
// undo frames used for speculative moves. It is not safe for concurrent use.
type Board struct {
	// grid data
	cells    [TotalCells]PieceID
	pieces   map[PieceID]*Piece
	registry map[PieceID]position.Pos
	rosters  [2 + 1][]PieceID
	kings    [2 + 1]PieceID

	// check state
	check   [2 + 1]bool
	checker [2 + 1]position.Pos

	// meta
	frames        []frame
	serial        uint16
	turn          Side
	halfMoveClock uint16
	fullMoveClock uint16

	logger zerolog.Logger
}

type boardConfig struct {
	fen    string
	logger zerolog.Logger
}

type BoardOption func(*boardConfig)

func WithFEN(fen string) BoardOption {
	return func(cfg *boardConfig) {
		cfg.fen = fen
	}
}

func WithLogger(logger zerolog.Logger) BoardOption {
	return func(cfg *boardConfig) {
		cfg.logger = logger
	}
}

func NewBoard(opts ...BoardOption) (*Board, error) {
	cfg := &boardConfig{
		fen:    DefaultStartingPositionFEN,
		logger: zerolog.Nop(),
	}
	for _, f := range opts {
		f(cfg)
	}

	b := newBoard(cfg.logger)
	if err := UnmarshalFEN(cfg.fen, b); err != nil {
		return nil, err
	}
	b.RefreshCheck()
	return b, nil
}

func newBoard(logger zerolog.Logger) *Board {
	return &Board{
		pieces:   make(map[PieceID]*Piece, 32),
		registry: make(map[PieceID]position.Pos, 32),
		checker:  [2 + 1]position.Pos{position.Invalid, position.Invalid, position.Invalid},
		turn:     SideWhite,
		logger:   logger,
	}
}

// place puts a new piece on an empty square and enrolls it in its side's roster.
func (b *Board) place(id PieceID) *Piece {
	p := newPiece(id)
	b.pieces[id] = p
	b.registry[id] = id.Origin
	b.cells[id.Origin] = id
	b.rosters[id.Side] = append(b.rosters[id.Side], id)
	if id.Kind == KindKing {
		b.kings[id.Side] = id
	}
	return p
}

func (b *Board) nextSerial() uint16 {
	b.serial++
	return b.serial
}

func (b *Board) Turn() Side {
	return b.turn
}

func (b *Board) HalfMoveClock() uint16 {
	return b.halfMoveClock
}

func (b *Board) FullMoveClock() uint16 {
	return b.fullMoveClock
}

// PieceAt returns the piece occupying pos.
func (b *Board) PieceAt(pos position.Pos) (*Piece, bool) {
	if !pos.Valid() {
		return nil, false
	}
	id := b.cells[pos]
	if id.IsZero() {
		return nil, false
	}
	return b.pieces[id], true
}

// Piece returns any piece ever created on this board, captured ones included.
func (b *Board) Piece(id PieceID) (*Piece, bool) {
	p, ok := b.pieces[id]
	return p, ok
}

// Position returns the current square of a piece; false when captured or unknown.
func (b *Board) Position(id PieceID) (position.Pos, bool) {
	pos, ok := b.registry[id]
	if !ok || pos == Captured {
		return Captured, false
	}
	return pos, true
}

// IsCaptured reports whether a known piece has been removed from play.
func (b *Board) IsCaptured(id PieceID) bool {
	pos, ok := b.registry[id]
	return ok && pos == Captured
}

// Roster returns the side's piece IDs in enrolment order, captured ones included.
func (b *Board) Roster(s Side) []PieceID {
	r := make([]PieceID, len(b.rosters[s]))
	copy(r, b.rosters[s])
	return r
}

func (b *Board) King(s Side) PieceID {
	return b.kings[s]
}

func (b *Board) kingPos(s Side) position.Pos {
	pos, ok := b.Position(b.kings[s])
	if !ok {
		return position.Invalid
	}
	return pos
}

func (b *Board) IsInCheck(s Side) bool {
	return b.check[s]
}

// Checker returns the square of the piece that last gave check to s.
func (b *Board) Checker(s Side) (position.Pos, bool) {
	if !b.check[s] {
		return position.Invalid, false
	}
	return b.checker[s], true
}

// RefreshCheck recomputes both check flags from the position, for callers that moved
// pieces without bookkeeping.
func (b *Board) RefreshCheck() {
	for _, s := range Sides {
		attackers := b.attackers(s, 1)
		b.check[s] = len(attackers) != 0
		b.checker[s] = position.Invalid
		if b.check[s] {
			b.checker[s] = attackers[0]
		}
	}
}

func (b *Board) State() State {
	for _, s := range Sides {
		if b.IsCheckmate(s) {
			return stateCheckmate(s)
		}
	}
	for _, s := range Sides {
		if b.check[s] {
			return stateCheck(s)
		}
	}
	return StateRunning
}

// Hash is a Zobrist hash of placement and side to move.
func (b *Board) Hash() uint64 {
	var h uint64
	for pos, id := range b.cells {
		if id.IsZero() {
			continue
		}
		h ^= zobristConstantPiece[id.Side][id.Kind][pos]
	}
	if b.turn == SideWhite {
		h ^= zobristConstantSideWhite
	}
	return h
}

func (b *Board) Clone() *Board {
	pieces := make(map[PieceID]*Piece, len(b.pieces))
	for id, p := range b.pieces {
		pieces[id] = p.clone()
	}
	var rosters [2 + 1][]PieceID
	for _, s := range Sides {
		rosters[s] = b.Roster(s)
	}
	frames := make([]frame, len(b.frames))
	for i, f := range b.frames {
		frames[i] = f.clone()
	}
	return &Board{
		cells:         b.cells,
		pieces:        pieces,
		registry:      maps.Clone(b.registry),
		rosters:       rosters,
		kings:         b.kings,
		check:         b.check,
		checker:       b.checker,
		frames:        frames,
		serial:        b.serial,
		turn:          b.turn,
		halfMoveClock: b.halfMoveClock,
		fullMoveClock: b.fullMoveClock,
		logger:        b.logger,
	}
}

func (b *Board) Dump() string {
	builder := strings.Builder{}
	for y := Height - 1; y >= 0; y-- {
		_, _ = builder.WriteString("   +---+---+---+---+---+---+---+---+\n")
		_, _ = builder.WriteString(fmt.Sprintf(" %d |", y+1))
		for x := position.Pos(0); x < Width; x++ {
			id := b.cells[y*Width+x]
			sym := id.Kind.SymbolFEN(id.Side)
			if id.IsZero() {
				sym = " "
			}
			_, _ = builder.WriteString(fmt.Sprintf(" %s |", sym))
		}
		_, _ = builder.WriteString("\n")
	}
	_, _ = builder.WriteString("   +---+---+---+---+---+---+---+---+\n   ")
	for x := position.Pos(0); x < Width; x++ {
		_, _ = builder.WriteString(fmt.Sprintf("  %s ", x.NotationComponentX()))
	}
	return builder.String()
}

func (b *Board) DebugString() string {
	return fmt.Sprintf("turn: %s\nhalf: %4d\nfull: %4d\nstat: %s\nhash: %016x", b.turn, b.halfMoveClock, b.fullMoveClock, b.State(), b.Hash())
}
