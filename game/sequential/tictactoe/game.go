package tictactoe

// Game is a board plus its recorded result. Once a terminal result has been
// recorded, Evaluate returns it without looking at the board again.
type Game struct {
	Board  Board
	Result Result
}

func NewGame() *Game {
	return &Game{}
}

func (g *Game) Evaluate() Result {
	if g.Result.IsEnd() {
		return g.Result
	}
	g.Result = Evaluate(g.Board)
	return g.Result
}

// Play places c at m. A failed move leaves the game unchanged.
func (g *Game) Play(m Move, c Cell) error {
	if g.Result.IsEnd() {
		return ErrGameOver
	}

	next, err := g.Board.Put(m, c)
	if err != nil {
		return err
	}
	g.Board = next
	return nil
}

func (g *Game) LegalMoves() []Move {
	return LegalMoves(g.Board)
}

func (g *Game) Reset() {
	g.Board = Board{}
	g.Result = InProgress
}
