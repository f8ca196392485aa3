package board

import "github.com/daystram/rulebook/position"

const (
	Width      = position.MaxComponentScalar
	Height     = position.MaxComponentScalar
	TotalCells = Width * Height

	DefaultStartingPositionFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

	zobristSeed = 0x9E3779B97F4A7C15
)

// offset is a (row, col) step.
type offset struct {
	dRow, dCol int
}

var (
	offsetsLateral  = []offset{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	offsetsDiagonal = []offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	offsetsRoyal    = append(append([]offset{}, offsetsLateral...), offsetsDiagonal...)
	offsetsKnight   = []offset{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}

	zobristConstantPiece     [2 + 1][6 + 1][TotalCells]uint64
	zobristConstantSideWhite uint64
)

func init() {
	initZobrist()
}

func initZobrist() {
	r := NewPseudoRand()
	r.Seed(zobristSeed)
	for _, s := range Sides {
		for _, k := range []Kind{KindPawn, KindBishop, KindKnight, KindRook, KindQueen, KindKing} {
			for pos := position.Pos(0); pos < TotalCells; pos++ {
				zobristConstantPiece[s][k][pos] = r.Uint64()
			}
		}
	}
	zobristConstantSideWhite = r.Uint64()
}
