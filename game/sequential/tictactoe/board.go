// Package tictactoe implements the 3x3 board, its fingerprint and the win/tie rules.
//
// Package tictactoe は3x3の盤面、そのフィンガープリント、勝敗判定を実装します。
package tictactoe

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidMove  = errors.New("invalid move")
	ErrOutOfBounds  = fmt.Errorf("%w: out of bounds", ErrInvalidMove)
	ErrCellOccupied = fmt.Errorf("%w: cell occupied", ErrInvalidMove)
	ErrInvalidCell  = fmt.Errorf("%w: cell must be P1 or P2", ErrInvalidMove)
	ErrGameOver     = fmt.Errorf("%w: game is over", ErrInvalidMove)
)

// Cell is the content of one square. The values double as line-sum weights.
type Cell int8

const (
	Empty Cell = 0
	P1    Cell = 1
	P2    Cell = -1
)

// Opposite returns the other player's symbol. Empty stays Empty.
//
// Oppositeは相手の記号を返します。Emptyの場合はEmptyのままです。
func (c Cell) Opposite() Cell {
	return -c
}

func (c Cell) Mark() string {
	switch c {
	case P1:
		return "X"
	case P2:
		return "O"
	}
	return " "
}

const (
	Rows = 3
	Cols = 3
)

// Move addresses one square.
type Move struct {
	Row int
	Col int
}

func (m Move) InBounds() bool {
	return m.Row >= 0 && m.Row < Rows && m.Col >= 0 && m.Col < Cols
}

// Board represents the 3x3 Tic-Tac-Toe grid. It is a value: copying a Board
// copies every cell, so a copy never aliases the original.
//
// Boardは3x3の三目並べの盤面を表します。値型なので、コピーは元の盤面と共有しません。
type Board [Rows][Cols]Cell

// IsFull checks if all cells on the board are occupied.
//
// IsFullは、盤面の全てのセルが埋まっているかを確認します。
func (b Board) IsFull() bool {
	for _, row := range b {
		for _, c := range row {
			if c == Empty {
				return false
			}
		}
	}
	return true
}

// Put returns a copy of b with c placed at m. b itself is left untouched,
// including when an error is returned.
//
// Putはmにcを置いた盤面のコピーを返します。b自体は変更されません。
func (b Board) Put(m Move, c Cell) (Board, error) {
	if c != P1 && c != P2 {
		return b, fmt.Errorf("%w: got %d", ErrInvalidCell, c)
	}

	if !m.InBounds() {
		return b, fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, m.Row, m.Col)
	}

	if b[m.Row][m.Col] != Empty {
		return b, fmt.Errorf("%w: (%d, %d)", ErrCellOccupied, m.Row, m.Col)
	}

	b[m.Row][m.Col] = c
	return b, nil
}

// LegalMoves returns every empty cell in row-major order.
//
// LegalMovesは、空いている全てのセルを行優先の順で返します。
func LegalMoves(b Board) []Move {
	moves := make([]Move, 0, Rows*Cols)
	for i, row := range b {
		for j, c := range row {
			if c == Empty {
				moves = append(moves, Move{Row: i, Col: j})
			}
		}
	}
	return moves
}

func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("-", 10))
	sb.WriteByte('\n')
	for _, row := range b {
		for _, c := range row {
			fmt.Fprintf(&sb, "|%2d", c)
		}
		sb.WriteString("|\n")
	}
	return sb.String()
}
