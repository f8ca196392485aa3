package board

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/daystram/rulebook/position"
)

// UnmarshalFEN populates an empty board. Piece history is seeded so that moved pieces
// are recognisable: pawns off their starting rank and Kings or Rooks without the
// matching castling right count as moved. The en passant field is validated and
// otherwise ignored.
func UnmarshalFEN(fen string, b *Board) error {
	if b == nil {
		return fmt.Errorf("invalid board")
	}
	segments := strings.Split(fen, " ")
	if len(segments) != 6 {
		return fmt.Errorf("%w: incorrect number of segments", ErrInvalidFEN)
	}

	rows := strings.Split(segments[0], "/")
	if len(rows) != int(Height) {
		return fmt.Errorf("%w: invalid board configuration", ErrInvalidFEN)
	}
	var kings [2 + 1]int
	for y := position.Pos(0); y < Height; y++ {
		row := rows[Height-y-1]
		x := position.Pos(0)
		for _, cell := range row {
			if x >= Width {
				return fmt.Errorf("%w: too many cells", ErrInvalidFEN)
			}
			if unicode.IsDigit(cell) {
				skip := position.Pos(cell - '0')
				if skip == 0 || x+skip > Width {
					return fmt.Errorf("%w: skip out of bounds", ErrInvalidFEN)
				}
				x += skip
				continue
			}
			s, k := kindFromFEN(cell)
			if k == KindUnknown {
				return fmt.Errorf("%w: unknown symbol '%s'", ErrInvalidFEN, string(cell))
			}
			if k == KindKing {
				kings[s]++
			}
			b.place(PieceID{Side: s, Kind: k, Origin: y*Width + x})
			x++
		}
		if x != Width {
			return fmt.Errorf("%w: missing cells", ErrInvalidFEN)
		}
	}
	if kings[SideWhite] != 1 || kings[SideBlack] != 1 {
		return fmt.Errorf("%w: each side needs exactly one king", ErrInvalidFEN)
	}

	switch segments[1] {
	case "w":
		b.turn = SideWhite
	case "b":
		b.turn = SideBlack
	default:
		return fmt.Errorf("%w: invalid turn", ErrInvalidFEN)
	}

	if len(segments[2]) > 4 {
		return fmt.Errorf("%w: invalid castling rights", ErrInvalidFEN)
	}
	var rights [2 + 1]struct{ right, left bool }
crLoop:
	for i, e := range segments[2] {
		switch e {
		case 'K':
			rights[SideWhite].right = true
		case 'k':
			rights[SideBlack].right = true
		case 'Q':
			rights[SideWhite].left = true
		case 'q':
			rights[SideBlack].left = true
		default:
			if i == 0 && e == '-' && len(segments[2]) == 1 {
				break crLoop
			}
			return fmt.Errorf("%w: invalid castling rights", ErrInvalidFEN)
		}
	}

	if segments[3] != "-" {
		pos, err := position.NewPosFromNotation(segments[3])
		if err != nil || (pos.Row() != int(position.Rank3) && pos.Row() != int(position.Rank6)) {
			return fmt.Errorf("%w: invalid enpassant position", ErrInvalidFEN)
		}
	}

	halfMoveClock, err := strconv.ParseUint(segments[4], 10, 16)
	if err != nil {
		return fmt.Errorf("%w: invalid half move clock", ErrInvalidFEN)
	}
	b.halfMoveClock = uint16(halfMoveClock)

	fullMoveClock, err := strconv.ParseUint(segments[5], 10, 16)
	if err != nil {
		return fmt.Errorf("%w: invalid full move clock", ErrInvalidFEN)
	}
	b.fullMoveClock = uint16(fullMoveClock)

	for _, s := range Sides {
		for _, id := range b.rosters[s] {
			seedHistory(b.pieces[id], rights[s].right, rights[s].left)
		}
	}
	return nil
}

func seedHistory(p *Piece, right, left bool) {
	pos := p.history[0]
	home := p.Side.HomeRow()
	switch p.Kind {
	case KindPawn:
		if pos.Row() != p.Side.PawnRow() {
			start, _ := position.NewPos(p.Side.PawnRow(), pos.Col())
			p.history = []position.Pos{start, pos}
		}
	case KindKing:
		if pos.Row() != home || pos.X() != position.FileE || (!right && !left) {
			p.history = append(p.history, pos)
		}
	case KindRook:
		unmoved := pos.Row() == home &&
			((pos.X() == position.FileH && right) || (pos.X() == position.FileA && left))
		if !unmoved {
			p.history = append(p.history, pos)
		}
	}
}

func MarshalFEN(b *Board) (string, error) {
	builder := strings.Builder{}
	for y := Height - 1; y >= 0; y-- {
		skip := 0
		for x := position.Pos(0); x < Width; x++ {
			id := b.cells[y*Width+x]
			if id.IsZero() {
				skip++
				continue
			}
			if skip != 0 {
				_, _ = builder.WriteString(strconv.Itoa(skip))
				skip = 0
			}
			_, _ = builder.WriteString(id.Kind.SymbolFEN(id.Side))
		}
		if skip != 0 {
			_, _ = builder.WriteString(strconv.Itoa(skip))
		}
		if y > 0 {
			_, _ = builder.WriteRune('/')
		}
	}

	if b.turn == SideBlack {
		_, _ = builder.WriteString(" b ")
	} else {
		_, _ = builder.WriteString(" w ")
	}

	rights := ""
	for _, s := range Sides {
		right, left := b.castleRights(s)
		if right {
			rights += KindKing.SymbolFEN(s)
		}
		if left {
			rights += KindQueen.SymbolFEN(s)
		}
	}
	if rights == "" {
		rights = "-"
	}
	_, _ = builder.WriteString(rights)

	_, _ = builder.WriteString(fmt.Sprintf(" - %d %d", b.halfMoveClock, b.fullMoveClock))
	return builder.String(), nil
}

// castleRights derives FEN castling rights from piece history.
func (b *Board) castleRights(s Side) (right, left bool) {
	king, ok := b.pieces[b.kings[s]]
	if !ok || !king.IsAtStart() {
		return false, false
	}
	kingPos, ok := b.Position(king.ID)
	if !ok || kingPos.Row() != s.HomeRow() || kingPos.X() != position.FileE {
		return false, false
	}
	for _, id := range b.rosters[s] {
		if id.Kind != KindRook || !b.pieces[id].IsAtStart() {
			continue
		}
		pos, ok := b.Position(id)
		if !ok || pos.Row() != s.HomeRow() {
			continue
		}
		switch pos.X() {
		case position.FileH:
			right = true
		case position.FileA:
			left = true
		}
	}
	return right, left
}

func (b *Board) FEN() string {
	fen, _ := MarshalFEN(b)
	return fen
}
