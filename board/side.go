package board

import "github.com/daystram/rulebook/position"

type Side uint8

const (
	SideUnknown Side = iota
	SideWhite
	SideBlack
)

// Sides lists the playing sides in roster order.
var Sides = [2]Side{SideWhite, SideBlack}

func (s Side) String() string {
	switch s {
	case SideWhite:
		return "White"
	case SideBlack:
		return "Black"
	default:
		return ""
	}
}

func (s Side) Opposite() Side {
	switch s {
	case SideWhite:
		return SideBlack
	case SideBlack:
		return SideWhite
	default:
		return SideUnknown
	}
}

// Forward is the row delta a pawn of this side advances by.
func (s Side) Forward() int {
	if s == SideBlack {
		return -1
	}
	return 1
}

// HomeRow is the back rank of the side.
func (s Side) HomeRow() int {
	if s == SideBlack {
		return int(position.Rank8)
	}
	return int(position.Rank1)
}

// PawnRow is the rank the side's pawns start on.
func (s Side) PawnRow() int {
	return s.HomeRow() + s.Forward()
}
