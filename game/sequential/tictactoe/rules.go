package tictactoe

// Result is the status of a board.
type Result int

const (
	InProgress Result = iota
	PlayerOneWin
	PlayerTwoWin
	Tie
)

func (r Result) String() string {
	switch r {
	case PlayerOneWin:
		return "player one win"
	case PlayerTwoWin:
		return "player two win"
	case Tie:
		return "tie"
	}
	return "in progress"
}

func (r Result) IsEnd() bool {
	return r != InProgress
}

// Winner returns the winning symbol, or Empty for a tie or an unfinished game.
func (r Result) Winner() Cell {
	switch r {
	case PlayerOneWin:
		return P1
	case PlayerTwoWin:
		return P2
	}
	return Empty
}

// 勝敗が決まるライン(縦、横、斜め）
var lines = [8][3]Move{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

func lineSum(b Board, line [3]Move) int {
	sum := 0
	for _, m := range line {
		sum += int(b[m.Row][m.Col])
	}
	return sum
}

// Evaluate classifies b. Every line is checked for both symbols before a full
// board is called a tie, so a last move that completes a line is a win.
//
// Evaluateは盤面を判定します。盤面が埋まっていても、ラインが揃っていれば勝利が優先されます。
func Evaluate(b Board) Result {
	p1, p2 := false, false
	for _, line := range lines {
		switch lineSum(b, line) {
		case 3 * int(P1):
			p1 = true
		case 3 * int(P2):
			p2 = true
		}
	}

	switch {
	case p1:
		return PlayerOneWin
	case p2:
		return PlayerTwoWin
	case b.IsFull():
		return Tie
	}
	return InProgress
}

// WinningLine returns the cells of the first completed line, if any.
func WinningLine(b Board) ([3]Move, bool) {
	for _, line := range lines {
		if s := lineSum(b, line); s == 3*int(P1) || s == 3*int(P2) {
			return line, true
		}
	}
	return [3]Move{}, false
}
