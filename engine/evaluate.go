package engine

import (
	"github.com/daystram/rulebook/board"
	"github.com/daystram/rulebook/position"
)

var (
	// PST table taken from https://www.chessprogramming.org/Simplified_Evaluation_Function
	// laid out from White's view, rank 8 first
	scorePiecePosition = [6 + 1][64]int32{
		board.KindPawn: {
			0, 0, 0, 0, 0, 0, 0, 0,
			50, 50, 50, 50, 50, 50, 50, 50,
			10, 10, 20, 30, 30, 20, 10, 10,
			5, 5, 10, 25, 25, 10, 5, 5,
			0, 0, 0, 20, 20, 0, 0, 0,
			5, -5, -10, 0, 0, -10, -5, 5,
			5, 10, 10, -20, -20, 10, 10, 5,
			0, 0, 0, 0, 0, 0, 0, 0,
		},
		board.KindKnight: {
			-50, -40, -30, -30, -30, -30, -40, -50,
			-40, -20, 0, 0, 0, 0, -20, -40,
			-30, 0, 10, 15, 15, 10, 0, -30,
			-30, 5, 15, 20, 20, 15, 5, -30,
			-30, 0, 15, 20, 20, 15, 0, -30,
			-30, 5, 10, 15, 15, 10, 5, -30,
			-40, -20, 0, 5, 5, 0, -20, -40,
			-50, -40, -30, -30, -30, -30, -40, -50,
		},
		board.KindBishop: {
			-20, -10, -10, -10, -10, -10, -10, -20,
			-10, 0, 0, 0, 0, 0, 0, -10,
			-10, 0, 5, 10, 10, 5, 0, -10,
			-10, 5, 5, 10, 10, 5, 5, -10,
			-10, 0, 10, 10, 10, 10, 0, -10,
			-10, 10, 10, 10, 10, 10, 10, -10,
			-10, 5, 0, 0, 0, 0, 5, -10,
			-20, -10, -10, -10, -10, -10, -10, -20,
		},
		board.KindRook: {
			0, 0, 0, 0, 0, 0, 0, 0,
			5, 10, 10, 10, 10, 10, 10, 5,
			-5, 0, 0, 0, 0, 0, 0, -5,
			-5, 0, 0, 0, 0, 0, 0, -5,
			-5, 0, 0, 0, 0, 0, 0, -5,
			-5, 0, 0, 0, 0, 0, 0, -5,
			-5, 0, 0, 0, 0, 0, 0, -5,
			0, 0, 0, 5, 5, 0, 0, 0,
		},
		board.KindQueen: {
			-20, -10, -10, -5, -5, -10, -10, -20,
			-10, 0, 0, 0, 0, 0, 0, -10,
			-10, 0, 5, 5, 5, 5, 0, -10,
			-5, 0, 5, 5, 5, 5, 0, -5,
			0, 0, 5, 5, 5, 5, 0, -5,
			-10, 5, 5, 5, 5, 5, 0, -10,
			-10, 0, 5, 0, 0, 0, 0, -10,
			-20, -10, -10, -5, -5, -10, -10, -20,
		},
		board.KindKing: {
			-30, -40, -40, -50, -50, -40, -40, -30,
			-30, -40, -40, -50, -50, -40, -40, -30,
			-30, -40, -40, -50, -50, -40, -40, -30,
			-30, -40, -40, -50, -50, -40, -40, -30,
			-20, -30, -30, -40, -40, -30, -30, -20,
			-10, -20, -20, -20, -20, -20, -20, -10,
			20, 20, 0, 0, 0, 0, 20, 20,
			20, 30, 10, 0, 0, 10, 30, 20,
		},
	}
	scoreTempoBonus int32 = 30

	scorePieceValue = [6 + 1]int32{
		board.KindPawn:   100,
		board.KindKnight: 320,
		board.KindBishop: 330,
		board.KindRook:   500,
		board.KindQueen:  900,
	}

	offsetPV     uint8 = 255
	offsetMVVLVA uint8 = offsetPV - 64
	// indexed [attacker][victim]
	scoreMVVLVA = [6 + 1][6 + 1]uint8{
		board.KindPawn:   {board.KindPawn: 15, board.KindBishop: 35, board.KindKnight: 25, board.KindRook: 45, board.KindQueen: 55},
		board.KindBishop: {board.KindPawn: 13, board.KindBishop: 33, board.KindKnight: 23, board.KindRook: 43, board.KindQueen: 53},
		board.KindKnight: {board.KindPawn: 14, board.KindBishop: 34, board.KindKnight: 24, board.KindRook: 44, board.KindQueen: 54},
		board.KindRook:   {board.KindPawn: 12, board.KindBishop: 32, board.KindKnight: 22, board.KindRook: 42, board.KindQueen: 52},
		board.KindQueen:  {board.KindPawn: 11, board.KindBishop: 31, board.KindKnight: 21, board.KindRook: 41, board.KindQueen: 51},
		board.KindKing:   {board.KindPawn: 10, board.KindBishop: 30, board.KindKnight: 20, board.KindRook: 40, board.KindQueen: 50},
	}
	scoreKiller    uint8 = 10
	scorePromotion uint8 = 60
)

// candidate is a move the engine may play, with its ordering score.
type candidate struct {
	board.Request
	victim board.Kind
	score  uint8
}

func (c candidate) equals(o candidate) bool {
	return c.Request == o.Request
}

func generate(b *board.Board) []candidate {
	s := b.Turn()
	reqs := b.SafeMoves(s)
	mvs := make([]candidate, 0, len(reqs))
	for _, req := range reqs {
		var victim board.Kind
		if p, ok := b.PieceAt(req.To); ok && p.Side != s {
			victim = p.Kind
		}
		mvs = append(mvs, candidate{Request: req, victim: victim})
	}
	return mvs
}

func (e *Engine) scoreMoves(b *board.Board, pv candidate, dist uint8, mvs []candidate) {
	for i, mv := range mvs {
		var score uint8
		switch {
		case mv.equals(pv):
			score = offsetPV
		case mv.victim != board.KindUnknown:
			p, _ := b.PieceAt(mv.From)
			score = offsetMVVLVA + scoreMVVLVA[p.Kind][mv.victim]
		default:
			for j, killer := range e.killers[dist] {
				if mv.equals(killer) {
					score = offsetMVVLVA - uint8(j+1)*scoreKiller
					break
				}
			}
		}
		if mv.Promote == board.KindQueen {
			score = max(score, offsetMVVLVA-scorePromotion)
		}
		mvs[i].score = score
	}
}

// sortMoves brings the best remaining move to index.
func sortMoves(mvs []candidate, index int) {
	bestIndex, bestScore := index, uint8(0)
	for i := index; i < len(mvs); i++ {
		if mvs[i].score > bestScore {
			bestIndex = i
			bestScore = mvs[i].score
		}
	}
	mvs[index], mvs[bestIndex] = mvs[bestIndex], mvs[index]
}

// Evaluate scores the board from the side to move's point of view: material plus
// piece-square bonuses.
func Evaluate(b *board.Board) int32 {
	ourTurn := b.Turn()
	var score int32
	for _, s := range board.Sides {
		var sideScore int32
		for _, id := range b.Roster(s) {
			pos, ok := b.Position(id)
			if !ok {
				continue
			}
			sideScore += scorePieceValue[id.Kind] + scorePiecePosition[id.Kind][pstIndex(s, pos)]
		}
		if s == ourTurn {
			score += sideScore
		} else {
			score -= sideScore
		}
	}
	return score
}

func (e *Engine) evaluate(b *board.Board) int32 {
	score := Evaluate(b)
	// tempo bonus for the searching side
	if b.Turn() == e.currentTurn {
		score += scoreTempoBonus
	}
	return score
}

// pstIndex maps a square onto the table layout; Black reads it mirrored.
func pstIndex(s board.Side, pos position.Pos) int {
	if s == board.SideBlack {
		return pos.Row()*int(position.MaxComponentScalar) + pos.Col()
	}
	return (int(position.Rank8)-pos.Row())*int(position.MaxComponentScalar) + pos.Col()
}
