package board

import (
	"fmt"

	"github.com/daystram/rulebook/position"
)

// ParseUCI decodes a long algebraic move such as e2e4 or a7a8q. A King hopping two
// files onto an empty square is read as castling and mapped to the Rook's square.
func (b *Board) ParseUCI(s string) (from, to position.Pos, promote Kind, err error) {
	if len(s) != 4 && len(s) != 5 {
		return position.Invalid, position.Invalid, KindUnknown, fmt.Errorf("%w: %s", position.ErrInvalidNotation, s)
	}
	from, err = position.NewPosFromNotation(s[0:2])
	if err != nil {
		return position.Invalid, position.Invalid, KindUnknown, err
	}
	to, err = position.NewPosFromNotation(s[2:4])
	if err != nil {
		return position.Invalid, position.Invalid, KindUnknown, err
	}
	promote = KindQueen
	if len(s) == 5 {
		promote = ParseKind(s[4:5])
	}

	id := b.cells[from]
	if id.Kind == KindKing && from.Row() == to.Row() && abs(to.Col()-from.Col()) == 2 && b.cells[to].IsZero() {
		col := int(position.FileH)
		if to.Col() < from.Col() {
			col = int(position.FileA)
		}
		rook, _ := position.NewPos(from.Row(), col)
		if r := b.cells[rook]; r.Side == id.Side && r.Kind == KindRook {
			to = rook
		}
	}
	return from, to, promote, nil
}
