package board

import "github.com/daystram/rulebook/position"

// Move records an applied move. For castling, To is the rook square the request named.
type Move struct {
	From, To position.Pos
	Kind     Kind
	Piece    PieceID

	IsTurn    Side
	IsCapture bool
	Captured  PieceID
	IsCheck   bool
	IsCastle  CastleDirection
	IsPromote Kind
	Promoted  PieceID
}

func (m Move) String() string {
	return m.Algebra()
}

func (m Move) Algebra() string {
	if m.IsCastle != CastleDirectionUnknown {
		nt := "0-0-0"
		if m.IsCastle.IsRight() {
			nt = "0-0"
		}
		if m.IsCheck {
			nt += "+"
		}
		return nt
	}
	nt := m.Kind.SymbolAlgebra(SideWhite) // SideWhite because it returns capital symbols
	if m.IsCapture {
		if m.Kind == KindPawn {
			nt += m.From.X().NotationComponentX()
		} else {
			nt += m.From.Notation()
		}
		nt += "x"
	}
	nt += m.To.Notation()
	if m.IsPromote != KindUnknown {
		nt += m.IsPromote.SymbolAlgebra(SideWhite)
	}
	if m.IsCheck {
		nt += "+"
	}
	return nt
}

// UCI renders the move in long algebraic form; castling is written as the king's two-file hop.
func (m Move) UCI() string {
	to := m.To
	if m.IsCastle != CastleDirectionUnknown {
		to, _, _ = castleHops(m.From, m.To)
	}
	return m.From.Notation() + to.Notation() + m.IsPromote.SymbolAlgebra(SideBlack)
}
