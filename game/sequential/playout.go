package sequential

import (
	"fmt"
	"math/rand/v2"

	"github.com/sw965/omw/parallel"
)

// Playouts plays every state in inits to the end with actor, spreading games
// over len(rngs) workers. Each worker owns one rng.
func (e Engine[S, M, A]) Playouts(inits []S, actor Actor[S, M, A], rngs []*rand.Rand) ([]S, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	if err := actor.Validate(); err != nil {
		return nil, err
	}

	n := len(inits)
	p := len(rngs)
	finals := make([]S, n)

	err := parallel.For(n, p, func(workerId, idx int) error {
		rng := rngs[workerId]
		state := inits[idx]
		for {
			isEnd, err := e.IsEnd(state)
			if err != nil {
				return err
			}

			if isEnd {
				break
			}

			legalMoves := e.Logic.LegalMovesFunc(state)
			if len(legalMoves) == 0 {
				return fmt.Errorf("%w: game is not ended", ErrEmptyLegalMoves)
			}

			policy, err := actor.PolicyFunc(state, legalMoves)
			if err != nil {
				return err
			}

			// 一手毎にlegalMovesのユニーク性をチェックするのは、計算コストの観点から見送る
			if err := policy.ValidateForLegalMoves(legalMoves, false); err != nil {
				return err
			}

			agent := e.Logic.CurrentAgentFunc(state)
			move, err := actor.SelectFunc(policy, agent, rng)
			if err != nil {
				return err
			}

			state, err = e.Logic.MoveFunc(state, move)
			if err != nil {
				return err
			}
		}
		finals[idx] = state
		return nil
	})
	return finals, err
}

// ScoreTotals sums EvaluateResultScoreByAgent over finals.
func (e Engine[S, M, A]) ScoreTotals(finals []S) (ResultScoreByAgent[A], error) {
	totals := ResultScoreByAgent[A]{}
	for _, final := range finals {
		scores, err := e.EvaluateResultScoreByAgent(final)
		if err != nil {
			return nil, err
		}
		for agent, score := range scores {
			totals[agent] += score
		}
	}
	return totals, nil
}
