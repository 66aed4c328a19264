// Package train runs self-play episodes between two td agents.
package train

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	ttt "github.com/sw965/oxlearn/game/sequential/tictactoe"
	"github.com/sw965/oxlearn/td"
)

var (
	ErrNotTerminal    = errors.New("train: result is not terminal")
	ErrSymbolMismatch = errors.New("train: agent symbol does not match its seat")
)

const (
	WinReward   = 1.0
	LossReward  = 0.0
	P1TieReward = 0.1
	P2TieReward = 0.5

	maxEpisodeLen = ttt.Rows * ttt.Cols
)

// Rewards returns the terminal rewards of player one and player two.
func Rewards(r ttt.Result) (p1, p2 float64, err error) {
	switch r {
	case ttt.PlayerOneWin:
		return WinReward, LossReward, nil
	case ttt.PlayerTwoWin:
		return LossReward, WinReward, nil
	case ttt.Tie:
		return P1TieReward, P2TieReward, nil
	}
	return 0, 0, fmt.Errorf("%w: %v", ErrNotTerminal, r)
}

type Stats struct {
	Rounds int `json:"rounds"`
	P1Wins int `json:"p1_wins"`
	P2Wins int `json:"p2_wins"`
	Ties   int `json:"ties"`
}

func (s *Stats) add(r ttt.Result) {
	s.Rounds++
	switch r {
	case ttt.PlayerOneWin:
		s.P1Wins++
	case ttt.PlayerTwoWin:
		s.P2Wins++
	case ttt.Tie:
		s.Ties++
	}
}

// Hook is called after every completed episode with the stats so far and the
// episode's result. Returning an error stops Run.
type Hook func(Stats, ttt.Result) error

type Trainer struct {
	P1  *td.Agent
	P2  *td.Agent
	Rng *rand.Rand
	Log *zap.Logger

	stats Stats
}

func NewTrainer(p1, p2 *td.Agent, rng *rand.Rand, log *zap.Logger) (*Trainer, error) {
	if p1.Symbol != ttt.P1 {
		return nil, fmt.Errorf("%w: %s plays %d", ErrSymbolMismatch, p1.Name, p1.Symbol)
	}
	if p2.Symbol != ttt.P2 {
		return nil, fmt.Errorf("%w: %s plays %d", ErrSymbolMismatch, p2.Name, p2.Symbol)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Trainer{P1: p1, P2: p2, Rng: rng, Log: log}, nil
}

func (tr *Trainer) Stats() Stats {
	return tr.stats
}

// Episode plays one game from an empty board, credits both agents and resets
// their episode state.
func (tr *Trainer) Episode() (ttt.Result, error) {
	g := ttt.NewGame()
	mover, other := tr.P1, tr.P2

	for range maxEpisodeLen {
		legal := g.LegalMoves()
		move, err := td.ChooseAction(mover, g.Board, legal, tr.Rng)
		if err != nil {
			return ttt.InProgress, err
		}

		if err := g.Play(move, mover.Symbol); err != nil {
			return ttt.InProgress, err
		}
		mover.RecordVisit(g.Board.Fingerprint())

		if r := g.Evaluate(); r.IsEnd() {
			if err := tr.finish(r); err != nil {
				return r, err
			}
			return r, nil
		}
		mover, other = other, mover
	}

	// 9手で必ず終局する
	return ttt.InProgress, fmt.Errorf("%w: board full without result", ErrNotTerminal)
}

func (tr *Trainer) finish(r ttt.Result) error {
	p1Reward, p2Reward, err := Rewards(r)
	if err != nil {
		return err
	}

	tr.P1.Propagate(p1Reward)
	tr.P2.Propagate(p2Reward)

	switch r.Winner() {
	case ttt.P1:
		tr.P1.Wins++
		tr.P1.Winner = true
	case ttt.P2:
		tr.P2.Wins++
		tr.P2.Winner = true
	}

	tr.P1.ResetEpisode()
	tr.P2.ResetEpisode()
	tr.stats.add(r)
	return nil
}

// Run plays episodes until rounds episodes have been completed in total.
// ctx is only looked at between episodes; when it is done Run returns the
// stats so far together with ctx.Err().
func (tr *Trainer) Run(ctx context.Context, rounds int, hook Hook) (Stats, error) {
	start := time.Now()
	tr.Log.Info("training", zap.Int("rounds", rounds), zap.Int("done", tr.stats.Rounds))

	for tr.stats.Rounds < rounds {
		if err := ctx.Err(); err != nil {
			tr.Log.Info("training interrupted",
				zap.Int("rounds", tr.stats.Rounds),
				zap.Duration("in", time.Since(start)),
			)
			return tr.stats, err
		}

		r, err := tr.Episode()
		if err != nil {
			tr.Log.Error("", zap.Error(err))
			return tr.stats, err
		}

		if hook != nil {
			if err := hook(tr.stats, r); err != nil {
				return tr.stats, err
			}
		}
	}

	elapsed := time.Since(start)
	tr.Log.Info("training done",
		zap.Int("rounds", tr.stats.Rounds),
		zap.Int("p1_wins", tr.P1.Wins),
		zap.Int("p2_wins", tr.P2.Wins),
		zap.Int("ties", tr.stats.Ties),
		zap.Duration("in", elapsed),
	)
	if tr.stats.Rounds > 0 {
		tr.Log.Debug("per round", zap.Duration("avg", elapsed/time.Duration(tr.stats.Rounds)))
	}
	return tr.stats, nil
}
