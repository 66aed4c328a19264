package arena_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sw965/oxlearn/arena"
	ttt "github.com/sw965/oxlearn/game/sequential/tictactoe"
	"github.com/sw965/oxlearn/td"
	"github.com/sw965/oxlearn/train"
)

func newAgent(t *testing.T, symbol ttt.Cell, exploration float64) *td.Agent {
	t.Helper()
	a, err := td.NewAgent("agent", symbol, td.Params{LearningRate: 0.2, DecayGamma: 0.9, ExplorationRate: exploration}, nil)
	require.NoError(t, err)
	return a
}

func TestLearnerActorPolicy(t *testing.T) {
	a := newAgent(t, ttt.P1, 0)
	s := ttt.NewInitState()
	legal := ttt.LegalMoves(s.Board)

	policy, err := arena.NewLearnerActor(a).PolicyFunc(s, legal)
	require.NoError(t, err)
	require.NoError(t, policy.ValidateForLegalMoves(legal, true))

	// 空のテーブルでは最後の手が選ばれる
	require.Equal(t, float32(1), policy[ttt.Move{Row: 2, Col: 2}])
}

func TestEvaluate(t *testing.T) {
	for _, symbol := range []ttt.Cell{ttt.P1, ttt.P2} {
		learner := newAgent(t, symbol, 0)
		rng := rand.New(rand.NewPCG(1, 2))

		report, err := arena.Evaluate(learner, 200, 4, rng, nil)
		require.NoError(t, err)
		require.Equal(t, 200, report.Games)
		require.Equal(t, 200, report.LearnerWins+report.RandomWins+report.Ties)
		require.InDelta(t, float64(report.LearnerWins)+0.5*float64(report.Ties), float64(report.Score), 1e-3)
		require.Empty(t, learner.Values, "evaluation must not learn")
	}
}

func TestEvaluateTrained(t *testing.T) {
	p1 := newAgent(t, ttt.P1, 0.5)
	p2 := newAgent(t, ttt.P2, 0.3)
	tr, err := train.NewTrainer(p1, p2, rand.New(rand.NewPCG(3, 4)), nil)
	require.NoError(t, err)
	_, err = tr.Run(context.Background(), 3000, nil)
	require.NoError(t, err)

	p1.ExplorationRate = 0
	report, err := arena.Evaluate(p1, 500, 2, rand.New(rand.NewPCG(5, 6)), nil)
	require.NoError(t, err)
	require.Greater(t, report.WinRate(), 0.5)
}

func TestEvaluateInvalid(t *testing.T) {
	learner := newAgent(t, ttt.P1, 0)
	_, err := arena.Evaluate(learner, 10, 0, rand.New(rand.NewPCG(1, 1)), nil)
	require.ErrorIs(t, err, arena.ErrInvalidWorkers)

	report, err := arena.Evaluate(learner, 0, 1, rand.New(rand.NewPCG(1, 1)), nil)
	require.NoError(t, err)
	require.Zero(t, report.Games)
}
