package board

import (
	"fmt"

	"github.com/daystram/rulebook/position"
)

// Captured is the registry value of a piece that is no longer on the board.
const Captured = position.Invalid

// PieceID identifies a piece for its whole lifetime. Starting pieces have Serial 0;
// promoted pieces take the board's next serial, so IDs never collide.
type PieceID struct {
	Side   Side
	Kind   Kind
	Origin position.Pos
	Serial uint16
}

func (id PieceID) IsZero() bool {
	return id == PieceID{}
}

func (id PieceID) String() string {
	if id.IsZero() {
		return ""
	}
	if id.Serial == 0 {
		return fmt.Sprintf("%s %s %s", id.Side, id.Kind, id.Origin)
	}
	return fmt.Sprintf("%s %s %s#%d", id.Side, id.Kind, id.Origin, id.Serial)
}

type Piece struct {
	ID   PieceID
	Side Side
	Kind Kind

	// every square occupied, index 0 being the starting square
	history []position.Pos
}

func newPiece(id PieceID) *Piece {
	return &Piece{
		ID:      id,
		Side:    id.Side,
		Kind:    id.Kind,
		history: []position.Pos{id.Origin},
	}
}

// IsAtStart reports whether the piece has never moved.
func (p *Piece) IsAtStart() bool {
	return len(p.history) == 1
}

// History returns a copy of the squares the piece has occupied.
func (p *Piece) History() []position.Pos {
	h := make([]position.Pos, len(p.history))
	copy(h, p.history)
	return h
}

func (p *Piece) clone() *Piece {
	pp := *p
	pp.history = p.History()
	return &pp
}
