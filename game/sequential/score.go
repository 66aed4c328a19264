package sequential

import (
	"fmt"
	"sort"
)

// RankByAgent maps each agent to its final placing (1 = best, equal values = shared placing).
// An empty or nil map means the game has not ended.
//
// ゲームが終了していない場合は、空あるいはnilにする
type RankByAgent[A comparable] map[A]int

func NewRankByAgent[A comparable](agentsPerRank [][]A) (RankByAgent[A], error) {
	ranks := RankByAgent[A]{}
	rank := 1
	for _, agents := range agentsPerRank {
		if len(agents) == 0 {
			return nil, fmt.Errorf("%w: rank=%d", ErrEmptyRank, rank)
		}

		for _, agent := range agents {
			if _, ok := ranks[agent]; ok {
				return nil, fmt.Errorf("%w: %v", ErrDuplicateAgent, agent)
			}
			ranks[agent] = rank
		}
		rank += len(agents)
	}
	return ranks, nil
}

func (r RankByAgent[A]) Validate() error {
	if len(r) == 0 {
		return nil
	}

	ranks := make([]int, 0, len(r))
	for _, rank := range r {
		if rank < 1 {
			return fmt.Errorf("%w: got %d", ErrInvalidRankValue, rank)
		}
		ranks = append(ranks, rank)
	}
	sort.Ints(ranks)

	if ranks[0] != 1 {
		return fmt.Errorf("%w: got %d", ErrMinRankNotOne, ranks[0])
	}

	// 同順の数だけ次の順位が飛ぶ
	for i := 1; i < len(ranks); i++ {
		if ranks[i] != ranks[i-1] && ranks[i] != i+1 {
			return fmt.Errorf("%w: expected %d, got %d", ErrRankNotContiguous, i+1, ranks[i])
		}
	}
	return nil
}

type RankByAgentFunc[S any, A comparable] func(S) (RankByAgent[A], error)
type ResultScoreByAgent[A comparable] map[A]float32
type ResultScoreByAgentFunc[A comparable] func(RankByAgent[A]) (ResultScoreByAgent[A], error)

// StandardResultScore spreads scores linearly from 1.0 (first) to 0.0 (last).
// Agents sharing a rank share the average of the places they cover, so a
// two-player draw scores 0.5 each.
func StandardResultScore[A comparable](ranks RankByAgent[A]) (ResultScoreByAgent[A], error) {
	if err := ranks.Validate(); err != nil {
		return nil, err
	}

	n := len(ranks)
	scores := ResultScoreByAgent[A]{}

	if n == 1 {
		for agent := range ranks {
			scores[agent] = 1.0
		}
		return scores, nil
	}

	counts := map[int]int{}
	for _, rank := range ranks {
		counts[rank]++
	}

	den := float32(n - 1)
	for agent, r := range ranks {
		k := counts[r]
		scores[agent] = 1.0 - float32(2*r+k-3)/(2.0*den)
	}
	return scores, nil
}

func (e *Engine[S, M, A]) SetStandardResultScoreByAgentFunc() {
	e.ResultScoreByAgentFunc = StandardResultScore[A]
}

func (e Engine[S, M, A]) EvaluateResultScoreByAgent(state S) (ResultScoreByAgent[A], error) {
	rankByAgent, err := e.RankByAgentFunc(state)
	if err != nil {
		return nil, err
	}
	return e.ResultScoreByAgentFunc(rankByAgent)
}
