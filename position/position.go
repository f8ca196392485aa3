package position

import (
	"errors"
	"fmt"
)

const (
	// MaxComponentScalar is the maximum component scalar the position system supports.
	MaxComponentScalar Pos = 8

	// Invalid marks a position that does not exist on the board.
	Invalid Pos = -1
)

var (
	// ErrInvalidNotation represents an invalid notation error.
	ErrInvalidNotation = errors.New("invalid notation")

	// ErrOutOfBounds represents a coordinate outside the 8x8 grid.
	ErrOutOfBounds = errors.New("out of bounds")
)

// Pos is a little-endian rank-file square index: Y() is the row (rank), X() is the column (file).
type Pos int8

func NewPos(row, col int) (Pos, error) {
	if !InBounds(row, col) {
		return Invalid, fmt.Errorf("%w: row=%d col=%d", ErrOutOfBounds, row, col)
	}
	return Pos(row)*MaxComponentScalar + Pos(col), nil
}

func NewPosFromNotation(n string) (Pos, error) {
	x, y, err := notationToXY(n)
	if err != nil {
		return 0, err
	}
	return MaxComponentScalar*y + x, nil
}

// MustPos is NewPosFromNotation for constant notations known to be valid.
func MustPos(n string) Pos {
	p, err := NewPosFromNotation(n)
	if err != nil {
		panic(err)
	}
	return p
}

func InBounds(row, col int) bool {
	return row >= 0 && row < int(MaxComponentScalar) && col >= 0 && col < int(MaxComponentScalar)
}

func (p Pos) Valid() bool {
	return p >= 0 && p < MaxComponentScalar*MaxComponentScalar
}

// Offset returns the square dRow ranks and dCol files away, or false when it falls off the board.
func (p Pos) Offset(dRow, dCol int) (Pos, bool) {
	if !p.Valid() {
		return Invalid, false
	}
	row, col := p.Row()+dRow, p.Col()+dCol
	if !InBounds(row, col) {
		return Invalid, false
	}
	return Pos(row)*MaxComponentScalar + Pos(col), true
}

func (p Pos) Row() int {
	return int(p.Y())
}

func (p Pos) Col() int {
	return int(p.X())
}

func (p Pos) String() string {
	return p.Notation()
}

func (p Pos) Notation() string {
	if !p.Valid() {
		return ""
	}
	return string(rune('a'+p.X())) + string(rune('1'+p.Y()))
}

func (p Pos) X() Pos {
	return p % MaxComponentScalar
}

func (p Pos) Y() Pos {
	return p / MaxComponentScalar
}

// Distance is the king-step (Chebyshev) distance between two squares.
func Distance(a, b Pos) int {
	dr, dc := a.Row()-b.Row(), a.Col()-b.Col()
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	if dr > dc {
		return dr
	}
	return dc
}

func notationToXY(n string) (Pos, Pos, error) {
	if len(n) != 2 {
		return 0, 0, ErrInvalidNotation
	}
	pX, err := notationToX(n[0])
	if err != nil {
		return 0, 0, err
	}
	pY, err := notationToY(n[1])
	if err != nil {
		return 0, 0, err
	}
	return pX, pY, nil
}

func notationToX(x byte) (Pos, error) {
	pX := Pos(x) - 'a'
	if pX < 0 || MaxComponentScalar <= pX {
		return 0, ErrInvalidNotation
	}
	return pX, nil
}

func notationToY(y byte) (Pos, error) {
	pY := Pos(y) - '0' - 1
	if pY < 0 || MaxComponentScalar <= pY {
		return 0, ErrInvalidNotation
	}
	return pY, nil
}

func (p Pos) NotationComponentX() string {
	if p < 0 || MaxComponentScalar <= p {
		return ""
	}
	return string(rune('a' + p))
}

func (p Pos) NotationComponentY() string {
	if p < 0 || MaxComponentScalar <= p {
		return ""
	}
	return string(rune('0' + p + 1))
}
