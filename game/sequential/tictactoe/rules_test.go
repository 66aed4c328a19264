package tictactoe_test

import (
	"testing"

	ttt "github.com/sw965/oxlearn/game/sequential/tictactoe"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		board ttt.Board
		want  ttt.Result
	}{
		{
			name: "勝利_横ライン_上段_P1",
			board: ttt.Board{
				{ttt.P1, ttt.P1, ttt.P1},
				{ttt.P2, ttt.P2, ttt.Empty},
				{ttt.Empty, ttt.Empty, ttt.Empty},
			},
			want: ttt.PlayerOneWin,
		},
		{
			name: "勝利_横ライン_中段_P2",
			board: ttt.Board{
				{ttt.P1, ttt.P1, ttt.Empty},
				{ttt.P2, ttt.P2, ttt.P2},
				{ttt.P1, ttt.Empty, ttt.Empty},
			},
			want: ttt.PlayerTwoWin,
		},
		{
			name: "勝利_横ライン_下段_P1",
			board: ttt.Board{
				{ttt.P2, ttt.P2, ttt.Empty},
				{ttt.Empty, ttt.Empty, ttt.Empty},
				{ttt.P1, ttt.P1, ttt.P1},
			},
			want: ttt.PlayerOneWin,
		},
		{
			name: "勝利_縦ライン_左列_P2",
			board: ttt.Board{
				{ttt.P2, ttt.P1, ttt.Empty},
				{ttt.P2, ttt.P1, ttt.Empty},
				{ttt.P2, ttt.Empty, ttt.P1},
			},
			want: ttt.PlayerTwoWin,
		},
		{
			name: "勝利_縦ライン_中列_P1",
			board: ttt.Board{
				{ttt.P2, ttt.P1, ttt.Empty},
				{ttt.P2, ttt.P1, ttt.Empty},
				{ttt.Empty, ttt.P1, ttt.Empty},
			},
			want: ttt.PlayerOneWin,
		},
		{
			name: "勝利_縦ライン_右列_P2",
			board: ttt.Board{
				{ttt.P1, ttt.Empty, ttt.P2},
				{ttt.P1, ttt.Empty, ttt.P2},
				{ttt.Empty, ttt.P1, ttt.P2},
			},
			want: ttt.PlayerTwoWin,
		},
		{
			name: "勝利_斜め_左上から右下_P1",
			board: ttt.Board{
				{ttt.P1, ttt.P2, ttt.Empty},
				{ttt.P2, ttt.P1, ttt.Empty},
				{ttt.Empty, ttt.P2, ttt.P1},
			},
			want: ttt.PlayerOneWin,
		},
		{
			name: "勝利_斜め_右上から左下_P2",
			board: ttt.Board{
				{ttt.P1, ttt.P1, ttt.P2},
				{ttt.P1, ttt.P2, ttt.Empty},
				{ttt.P2, ttt.Empty, ttt.Empty},
			},
			want: ttt.PlayerTwoWin,
		},
		{
			name: "引き分け",
			// 全部埋まったが揃ってない
			board: ttt.Board{
				{ttt.P1, ttt.P2, ttt.P1},
				{ttt.P2, ttt.P1, ttt.P2},
				{ttt.P2, ttt.P1, ttt.P2},
			},
			want: ttt.Tie,
		},
		{
			name: "進行中",
			board: ttt.Board{
				{ttt.P1, ttt.P2, ttt.Empty},
				{ttt.Empty, ttt.Empty, ttt.Empty},
				{ttt.Empty, ttt.Empty, ttt.Empty},
			},
			want: ttt.InProgress,
		},
		{
			name:  "進行中_空盤面",
			board: ttt.Board{},
			want:  ttt.InProgress,
		},
		{
			name: "最終手で勝利",
			// IsFull() が true でも、勝利判定が優先されるべき
			board: ttt.Board{
				{ttt.P1, ttt.P2, ttt.P1},
				{ttt.P2, ttt.P1, ttt.P2},
				{ttt.P1, ttt.P2, ttt.P1},
			},
			want: ttt.PlayerOneWin,
		},
		{
			name: "盤面が埋まる前の上段P1",
			board: ttt.Board{
				{ttt.P1, ttt.P1, ttt.P1},
				{ttt.Empty, ttt.Empty, ttt.Empty},
				{ttt.Empty, ttt.Empty, ttt.Empty},
			},
			want: ttt.PlayerOneWin,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ttt.Evaluate(tc.board)
			if got != tc.want {
				t.Errorf("want: %v, got: %v", tc.want, got)
			}
			if again := ttt.Evaluate(tc.board); again != got {
				t.Errorf("second call: %v, first: %v", again, got)
			}
		})
	}
}

func TestEvaluateTopRowP1AnyRest(t *testing.T) {
	// 上段が[1,1,1]なら、他のセルに関わらずP1の勝利
	rest := []ttt.Cell{ttt.Empty, ttt.P1, ttt.P2}
	for _, a := range rest {
		for _, b := range rest {
			for _, c := range rest {
				board := ttt.Board{
					{ttt.P1, ttt.P1, ttt.P1},
					{a, b, c},
					{c, a, b},
				}
				if got := ttt.Evaluate(board); got != ttt.PlayerOneWin {
					t.Errorf("%v: got %v", board, got)
				}
			}
		}
	}
}

func TestResultWinner(t *testing.T) {
	tests := []struct {
		result ttt.Result
		want   ttt.Cell
		isEnd  bool
	}{
		{ttt.InProgress, ttt.Empty, false},
		{ttt.PlayerOneWin, ttt.P1, true},
		{ttt.PlayerTwoWin, ttt.P2, true},
		{ttt.Tie, ttt.Empty, true},
	}
	for _, tc := range tests {
		t.Run(tc.result.String(), func(t *testing.T) {
			if got := tc.result.Winner(); got != tc.want {
				t.Errorf("Winner() = %d, want %d", got, tc.want)
			}
			if got := tc.result.IsEnd(); got != tc.isEnd {
				t.Errorf("IsEnd() = %t, want %t", got, tc.isEnd)
			}
		})
	}
}

func TestWinningLine(t *testing.T) {
	board := ttt.Board{
		{ttt.P1, ttt.P2, ttt.Empty},
		{ttt.P2, ttt.P1, ttt.Empty},
		{ttt.Empty, ttt.P2, ttt.P1},
	}
	line, ok := ttt.WinningLine(board)
	if !ok {
		t.Fatal("no winning line found")
	}
	want := [3]ttt.Move{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 2, Col: 2}}
	if line != want {
		t.Errorf("want: %v, got: %v", want, line)
	}

	if _, ok := ttt.WinningLine(ttt.Board{}); ok {
		t.Error("empty board has a winning line")
	}
}
