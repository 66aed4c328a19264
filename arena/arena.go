// Package arena measures a trained agent against a uniform random opponent.
package arena

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/sw965/oxlearn/game/sequential"
	ttt "github.com/sw965/oxlearn/game/sequential/tictactoe"
	"github.com/sw965/oxlearn/td"
)

var ErrInvalidWorkers = errors.New("arena: workers must be at least 1")

type Actor = sequential.Actor[ttt.State, ttt.Move, ttt.Cell]

// NewLearnerActor plays a's greedy move. Its policy puts all weight on that
// move, so MaxSelectFunc never has to break a tie.
func NewLearnerActor(a *td.Agent) Actor {
	return Actor{
		Name: sequential.ActorName(a.Name),
		PolicyFunc: func(s ttt.State, legal []ttt.Move) (sequential.Policy[ttt.Move], error) {
			best, err := td.Greedy(a, s.Board, legal)
			if err != nil {
				return nil, err
			}

			policy := make(sequential.Policy[ttt.Move], len(legal))
			for _, m := range legal {
				policy[m] = 0
			}
			policy[best] = 1
			return policy, nil
		},
		SelectFunc: sequential.MaxSelectFunc[ttt.Move, ttt.Cell],
	}
}

type Report struct {
	Games       int     `json:"games"`
	LearnerWins int     `json:"learner_wins"`
	RandomWins  int     `json:"random_wins"`
	Ties        int     `json:"ties"`
	Score       float32 `json:"score"`
}

// WinRate is the share of games the learner won.
func (r Report) WinRate() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.LearnerWins) / float64(r.Games)
}

// Evaluate plays games games between learner, seated on its own symbol, and a
// random actor. Games are spread over workers goroutines.
func Evaluate(learner *td.Agent, games, workers int, rng *rand.Rand, log *zap.Logger) (Report, error) {
	if workers < 1 {
		return Report{}, fmt.Errorf("%w: got %d", ErrInvalidWorkers, workers)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if games <= 0 {
		return Report{}, nil
	}

	engine := ttt.NewEngine()
	actor, err := engine.Seat(map[ttt.Cell]Actor{
		learner.Symbol:            NewLearnerActor(learner),
		learner.Symbol.Opposite(): sequential.NewRandomActor[ttt.State, ttt.Move, ttt.Cell]("random"),
	})
	if err != nil {
		return Report{}, err
	}

	inits := make([]ttt.State, games)
	for i := range inits {
		inits[i] = ttt.NewInitState()
	}

	rngs := make([]*rand.Rand, workers)
	for i := range rngs {
		rngs[i] = rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))
	}

	start := time.Now()
	finals, err := engine.Playouts(inits, actor, rngs)
	if err != nil {
		return Report{}, err
	}

	totals, err := engine.ScoreTotals(finals)
	if err != nil {
		return Report{}, err
	}

	report := Report{Games: games, Score: totals[learner.Symbol]}
	for _, final := range finals {
		switch r := ttt.Evaluate(final.Board); {
		case r == ttt.Tie:
			report.Ties++
		case r.Winner() == learner.Symbol:
			report.LearnerWins++
		default:
			report.RandomWins++
		}
	}

	log.Info("evaluation",
		zap.String("agent", learner.Name),
		zap.Int("games", games),
		zap.Int("wins", report.LearnerWins),
		zap.Int("losses", report.RandomWins),
		zap.Int("ties", report.Ties),
		zap.Duration("in", time.Since(start)),
	)
	return report, nil
}
