package tictactoe

import (
	"github.com/sw965/oxlearn/game/sequential"
)

// State holds the current board situation and the active player.
//
// Stateは、現在の盤面状況と手番のプレイヤーを保持します。
type State struct {
	Board Board
	Turn  Cell
}

// NewInitState creates a new initial game state. P1 moves first.
//
// NewInitStateは、ゲームの初期状態を作成します。先手はP1です。
func NewInitState() State {
	return State{Turn: P1}
}

// MoveFunc applies a move for the player to move and passes the turn.
//
// MoveFuncは、手番のプレイヤーの行動を適用し、次の状態を返します。
func MoveFunc(state State, move Move) (State, error) {
	board, err := state.Board.Put(move, state.Turn)
	if err != nil {
		return state, err
	}
	return State{Board: board, Turn: state.Turn.Opposite()}, nil
}

// RankByAgentFunc ranks P1 and P2 once the game has ended and returns an empty
// map while it is in progress.
//
// RankByAgentFuncは、ゲーム終了時に順位を返します。進行中の場合は空のマップを返します。
func RankByAgentFunc(state State) (sequential.RankByAgent[Cell], error) {
	switch r := Evaluate(state.Board); r {
	case PlayerOneWin, PlayerTwoWin:
		winner := r.Winner()
		return sequential.RankByAgent[Cell]{winner: 1, winner.Opposite(): 2}, nil
	case Tie:
		return sequential.RankByAgent[Cell]{P1: 1, P2: 1}, nil
	}
	return sequential.RankByAgent[Cell]{}, nil
}

// NewLogic creates a new Logic instance for the Tic-Tac-Toe game.
//
// NewLogicは、三目並べゲームのための新しいLogicインスタンスを作成します。
func NewLogic() sequential.Logic[State, Move, Cell] {
	return sequential.Logic[State, Move, Cell]{
		LegalMovesFunc: func(s State) []Move {
			return LegalMoves(s.Board)
		},
		MoveFunc: MoveFunc,
		EqualFunc: func(s1, s2 State) bool {
			return s1 == s2
		},
		CurrentAgentFunc: func(s State) Cell {
			return s.Turn
		},
	}
}

func NewEngine() sequential.Engine[State, Move, Cell] {
	engine := sequential.Engine[State, Move, Cell]{
		Logic:           NewLogic(),
		RankByAgentFunc: RankByAgentFunc,
		Agents:          []Cell{P1, P2},
	}
	engine.SetStandardResultScoreByAgentFunc()
	return engine
}
