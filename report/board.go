package report

import (
	"strings"

	"github.com/logrusorgru/aurora"

	ttt "github.com/sw965/oxlearn/game/sequential/tictactoe"
)

// Board draws b with row and column numbers. X is green and O is blue. Cells of
// a completed line are red.
func Board(b ttt.Board) string {
	line, won := ttt.WinningLine(b)
	onLine := func(m ttt.Move) bool {
		if !won {
			return false
		}
		for _, l := range line {
			if l == m {
				return true
			}
		}
		return false
	}

	var sb strings.Builder
	sb.WriteString("   0   1   2\n")
	for row := range ttt.Rows {
		sb.WriteString(string(rune('0' + row)))
		sb.WriteString(" ")
		for col := range ttt.Cols {
			m := ttt.Move{Row: row, Col: col}
			c := b[row][col]
			mark := " " + c.Mark() + " "
			switch {
			case onLine(m):
				sb.WriteString(aurora.Red(mark).Bold().String())
			case c == ttt.P1:
				sb.WriteString(aurora.Green(mark).String())
			case c == ttt.P2:
				sb.WriteString(aurora.Blue(mark).String())
			default:
				sb.WriteString(mark)
			}
			if col < ttt.Cols-1 {
				sb.WriteString(aurora.White("|").String())
			}
		}
		sb.WriteString("\n")
		if row < ttt.Rows-1 {
			sb.WriteString("  -----------\n")
		}
	}
	return sb.String()
}
