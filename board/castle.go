package board

import "github.com/daystram/rulebook/position"

type CastleDirection uint8

const (
	CastleDirectionUnknown CastleDirection = iota
	CastleDirectionWhiteRight
	CastleDirectionWhiteLeft
	CastleDirectionBlackRight
	CastleDirectionBlackLeft
)

func (d CastleDirection) String() string {
	switch d {
	case CastleDirectionWhiteRight:
		return "White 0-0"
	case CastleDirectionWhiteLeft:
		return "White 0-0-0"
	case CastleDirectionBlackRight:
		return "Black 0-0"
	case CastleDirectionBlackLeft:
		return "Black 0-0-0"
	default:
		return ""
	}
}

func (d CastleDirection) IsWhite() bool {
	return d == CastleDirectionWhiteRight || d == CastleDirectionWhiteLeft
}

func (d CastleDirection) IsRight() bool {
	return d == CastleDirectionWhiteRight || d == CastleDirectionBlackRight
}

func castleDirection(s Side, kingFrom, rookFrom position.Pos) CastleDirection {
	right := rookFrom.Col() > kingFrom.Col()
	switch {
	case s == SideWhite && right:
		return CastleDirectionWhiteRight
	case s == SideWhite:
		return CastleDirectionWhiteLeft
	case right:
		return CastleDirectionBlackRight
	default:
		return CastleDirectionBlackLeft
	}
}

// castleHops returns where king and rook land: the king travels two files toward
// the rook, the rook lands on the square the king crossed. ok is false when either
// landing square is off the board.
func castleHops(kingFrom, rookFrom position.Pos) (kingTo, rookTo position.Pos, ok bool) {
	dir := 1
	if rookFrom.Col() < kingFrom.Col() {
		dir = -1
	}
	kingTo, kingOK := kingFrom.Offset(0, 2*dir)
	rookTo, rookOK := kingFrom.Offset(0, dir)
	return kingTo, rookTo, kingOK && rookOK
}

// castleGap is the number of empty squares required between king and rook.
func castleGap(kingFrom, rookFrom position.Pos) int {
	if rookFrom.Col() > kingFrom.Col() {
		return 2
	}
	return 3
}
