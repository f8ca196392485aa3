package board

import (
	"golang.org/x/exp/slices"

	"github.com/daystram/rulebook/position"
)

// attackers returns the squares of opposing non-King pieces whose trace contains the
// King of s, in roster order. limit 0 means all of them.
func (b *Board) attackers(s Side, limit int) []position.Pos {
	king := b.kingPos(s)
	if king == position.Invalid {
		return nil
	}
	var found []position.Pos
	for _, id := range b.rosters[s.Opposite()] {
		if id.Kind == KindKing {
			continue
		}
		at, ok := b.Position(id)
		if !ok {
			continue
		}
		if slices.Contains(b.Trace(at), king) {
			found = append(found, at)
			if limit > 0 && len(found) >= limit {
				break
			}
		}
	}
	return found
}

// IsUnderAttack reports whether any opposing non-King piece can reach the King of s.
func (b *Board) IsUnderAttack(s Side) bool {
	return len(b.attackers(s, 1)) != 0
}

// IsMate reports whether the King of s, attacked from the attacker square, can neither
// move, capture the attacker, nor interpose on the attack line. An empty or friendly
// attacker square is never mate.
func (b *Board) IsMate(s Side, attacker position.Pos) bool {
	king := b.kingPos(s)
	if king == position.Invalid || !attacker.Valid() {
		return false
	}
	if id := b.cells[attacker]; id.IsZero() || id.Side == s {
		return false
	}
	if len(b.Trace(king)) != 0 {
		return false
	}
	if b.canReach(s, attacker, true) {
		return false
	}
	id := b.cells[attacker]
	if id.Kind == KindKnight || !id.Kind.IsSlider() {
		return true
	}
	for _, sq := range between(attacker, king) {
		if b.canReach(s, sq, false) {
			return false
		}
	}
	return true
}

// IsCheckmate is IsMate against the recorded checker. With more than one attacker
// only a King move can help.
func (b *Board) IsCheckmate(s Side) bool {
	if !b.check[s] {
		return false
	}
	if len(b.attackers(s, 2)) > 1 {
		return len(b.Trace(b.kingPos(s))) == 0
	}
	return b.IsMate(s, b.checker[s])
}

// canReach reports whether any live piece of s has sq in its trace.
func (b *Board) canReach(s Side, sq position.Pos, withKing bool) bool {
	for _, id := range b.rosters[s] {
		if id.Kind == KindKing && !withKing {
			continue
		}
		at, ok := b.Position(id)
		if !ok {
			continue
		}
		if slices.Contains(b.Trace(at), sq) {
			return true
		}
	}
	return false
}

// between returns the squares strictly between two squares sharing a rank, file or
// diagonal, nearest to from first.
func between(from, to position.Pos) []position.Pos {
	dRow, dCol := sign(to.Row()-from.Row()), sign(to.Col()-from.Col())
	if dRow != 0 && dCol != 0 && abs(to.Row()-from.Row()) != abs(to.Col()-from.Col()) {
		return nil
	}
	var sqs []position.Pos
	for sq, ok := from.Offset(dRow, dCol); ok && sq != to; sq, ok = sq.Offset(dRow, dCol) {
		sqs = append(sqs, sq)
	}
	return sqs
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
