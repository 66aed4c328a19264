package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	ttt "github.com/sw965/oxlearn/game/sequential/tictactoe"
	"github.com/sw965/oxlearn/report"
	"github.com/sw965/oxlearn/train"
)

func record(results ...ttt.Result) *report.Recorder {
	r := &report.Recorder{}
	for _, res := range results {
		r.Add(res)
	}
	return r
}

func TestWindows(t *testing.T) {
	r := record(
		ttt.PlayerOneWin, ttt.PlayerOneWin, ttt.PlayerTwoWin, ttt.Tie,
		ttt.Tie, ttt.Tie, ttt.Tie, ttt.PlayerTwoWin,
		ttt.PlayerOneWin, ttt.PlayerTwoWin,
	)
	require.Equal(t, 10, r.Len())

	ws := r.Windows(4)
	require.Equal(t, []report.Window{
		{Start: 0, Size: 4, P1: 0.5, P2: 0.25, Tie: 0.25},
		{Start: 4, Size: 4, P1: 0, P2: 0.25, Tie: 0.75},
		{Start: 8, Size: 2, P1: 0.5, P2: 0.5, Tie: 0},
	}, ws)

	require.Nil(t, r.Windows(0))
	require.Empty(t, (&report.Recorder{}).Windows(10))
}

func TestSummarize(t *testing.T) {
	s := report.Summarize([]report.Window{
		{Size: 10, P1: 0.2, P2: 0.6, Tie: 0.2},
		{Size: 10, P1: 0.4, P2: 0.4, Tie: 0.2},
	})
	require.Equal(t, 20, s.Episodes)
	require.Equal(t, 2, s.Windows)
	require.InDelta(t, 0.3, s.P1.Mean, 1e-12)
	require.InDelta(t, 0.5, s.P2.Mean, 1e-12)
	require.InDelta(t, 0.1414213562, s.P2.StdDev, 1e-9)
	require.Zero(t, s.Tie.StdDev)

	one := report.Summarize([]report.Window{{Size: 3, P1: 1}})
	require.Equal(t, 1.0, one.P1.Mean)
	require.Zero(t, one.P1.StdDev)

	require.Equal(t, report.Summary{}, report.Summarize(nil))
}

func TestObserveAsHook(t *testing.T) {
	r := &report.Recorder{}
	var hook train.Hook = r.Observe
	require.NoError(t, hook(train.Stats{Rounds: 1}, ttt.Tie))
	require.Equal(t, 1, r.Len())
}

func TestRenderChart(t *testing.T) {
	var buf bytes.Buffer
	ws := record(ttt.PlayerOneWin, ttt.Tie, ttt.PlayerTwoWin).Windows(2)
	require.NoError(t, report.RenderChart(&buf, "self-play", ws))

	html := buf.String()
	require.Contains(t, html, "<html")
	require.Contains(t, html, "self-play")
	require.Contains(t, html, "player two")
}

func TestBoard(t *testing.T) {
	var b ttt.Board
	b[0] = [3]ttt.Cell{ttt.P1, ttt.P1, ttt.P1}
	b[1][1] = ttt.P2

	out := report.Board(b)
	require.Equal(t, 3, strings.Count(out, "X"))
	require.Equal(t, 1, strings.Count(out, "O"))
	require.True(t, strings.HasPrefix(out, "   0   1   2\n"))
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := report.NewProgress(&buf, 200)

	// 2エピソード毎に描画する
	require.NoError(t, p.Observe(train.Stats{Rounds: 1}, ttt.Tie))
	require.Zero(t, buf.Len())

	require.NoError(t, p.Observe(train.Stats{Rounds: 2, P1Wins: 1, Ties: 1}, ttt.Tie))
	require.True(t, strings.HasPrefix(buf.String(), "\r"))
	require.Contains(t, buf.String(), "2/200")

	require.NoError(t, p.Done())
	require.True(t, strings.HasSuffix(buf.String(), "\n"))
}
