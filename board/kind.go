package board

import "strings"

type Kind uint8

const (
	KindUnknown Kind = iota
	KindPawn
	KindBishop
	KindKnight
	KindRook
	KindQueen
	KindKing
)

// PawnPromoteCandidates represents the candidates for pawn promotion.
var PawnPromoteCandidates = []Kind{KindBishop, KindKnight, KindRook, KindQueen}

func (k Kind) String() string {
	return k.Name()
}

func (k Kind) Name() string {
	switch k {
	case KindPawn:
		return "Pawn"
	case KindBishop:
		return "Bishop"
	case KindKnight:
		return "Knight"
	case KindRook:
		return "Rook"
	case KindQueen:
		return "Queen"
	case KindKing:
		return "King"
	default:
		return ""
	}
}

// IsSlider reports whether the kind moves along rays.
func (k Kind) IsSlider() bool {
	return k == KindBishop || k == KindRook || k == KindQueen
}

// ParseKind accepts a FEN letter in either case or a full piece name.
func ParseKind(s string) Kind {
	switch strings.ToLower(s) {
	case "p", "pawn":
		return KindPawn
	case "b", "bishop":
		return KindBishop
	case "n", "knight":
		return KindKnight
	case "r", "rook":
		return KindRook
	case "q", "queen":
		return KindQueen
	case "k", "king":
		return KindKing
	default:
		return KindUnknown
	}
}

func (k Kind) SymbolAlgebra(s Side) string {
	if k == KindPawn {
		return ""
	}
	return k.SymbolFEN(s)
}

func (k Kind) SymbolFEN(s Side) string {
	var sym rune
	switch k {
	case KindPawn:
		sym = 'P'
	case KindBishop:
		sym = 'B'
	case KindKnight:
		sym = 'N'
	case KindRook:
		sym = 'R'
	case KindQueen:
		sym = 'Q'
	case KindKing:
		sym = 'K'
	default:
		return ""
	}
	if s == SideBlack {
		sym |= 0x20 // lowercase is +32 uppercase
	}
	return string(sym)
}

func (k Kind) SymbolUnicode(s Side, invert bool) string {
	if invert {
		s = s.Opposite()
	}
	switch s {
	case SideWhite:
		switch k {
		case KindPawn:
			return "♙"
		case KindBishop:
			return "♗"
		case KindKnight:
			return "♘"
		case KindRook:
			return "♖"
		case KindQueen:
			return "♕"
		case KindKing:
			return "♔"
		default:
			return ""
		}
	case SideBlack:
		switch k {
		case KindPawn:
			return "♟"
		case KindBishop:
			return "♝"
		case KindKnight:
			return "♞"
		case KindRook:
			return "♜"
		case KindQueen:
			return "♛"
		case KindKing:
			return "♚"
		default:
			return ""
		}
	default:
		return ""
	}
}

func kindFromFEN(r rune) (Side, Kind) {
	switch r {
	case 'P':
		return SideWhite, KindPawn
	case 'B':
		return SideWhite, KindBishop
	case 'N':
		return SideWhite, KindKnight
	case 'R':
		return SideWhite, KindRook
	case 'Q':
		return SideWhite, KindQueen
	case 'K':
		return SideWhite, KindKing
	case 'p':
		return SideBlack, KindPawn
	case 'b':
		return SideBlack, KindBishop
	case 'n':
		return SideBlack, KindKnight
	case 'r':
		return SideBlack, KindRook
	case 'q':
		return SideBlack, KindQueen
	case 'k':
		return SideBlack, KindKing
	default:
		return SideUnknown, KindUnknown
	}
}
