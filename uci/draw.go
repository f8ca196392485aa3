package uci

import (
	"strings"

	"github.com/fatih/color"
	"golang.org/x/exp/slices"

	"github.com/daystram/rulebook/board"
	"github.com/daystram/rulebook/position"
)

var (
	colorCellLight     = color.New(color.FgBlack, color.BgHiWhite)
	colorCellDark      = color.New(color.FgBlack, color.BgGreen)
	colorCellHighlight = color.New(color.FgBlack, color.BgHiYellow)
	colorCellCheck     = color.New(color.FgHiWhite, color.BgRed)
	colorLabel         = color.New(color.Bold)
)

// Draw renders the board with Unicode pieces, rank 8 on top. Highlighted squares and
// a King in check are coloured.
func Draw(b *board.Board, highlight []position.Pos) string {
	var checked []position.Pos
	for _, s := range board.Sides {
		if !b.IsInCheck(s) {
			continue
		}
		if pos, ok := b.Position(b.King(s)); ok {
			checked = append(checked, pos)
		}
	}

	builder := strings.Builder{}
	for y := int(board.Height) - 1; y >= 0; y-- {
		_, _ = builder.WriteString(colorLabel.Sprintf(" %d ", y+1))
		for x := 0; x < int(board.Width); x++ {
			pos, _ := position.NewPos(y, x)
			sym := " "
			if p, ok := b.PieceAt(pos); ok {
				sym = p.Kind.SymbolUnicode(p.Side, false)
			}

			c := colorCellDark
			switch {
			case slices.Contains(checked, pos):
				c = colorCellCheck
			case slices.Contains(highlight, pos):
				c = colorCellHighlight
			case (x+y)%2 == 1:
				c = colorCellLight
			}
			_, _ = builder.WriteString(c.Sprintf(" %s ", sym))
		}
		_, _ = builder.WriteString("\n")
	}
	_, _ = builder.WriteString("   ")
	for x := position.Pos(0); x < board.Width; x++ {
		_, _ = builder.WriteString(colorLabel.Sprintf(" %s ", x.NotationComponentX()))
	}
	return builder.String()
}
