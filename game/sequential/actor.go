package sequential

import (
	"fmt"
	"maps"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/sw965/omw/mathx/randx"
)

type Policy[M comparable] map[M]float32

// ValidateForLegalMoves checks that p is a usable distribution over exactly legalMoves.
// Uniqueness of legalMoves is only checked when checkUnique is true, since the
// check costs a pass per move.
func (p Policy[M]) ValidateForLegalMoves(legalMoves []M, checkUnique bool) error {
	if len(legalMoves) == 0 {
		return ErrEmptyLegalMoves
	}

	if checkUnique {
		seen := make(map[M]struct{}, len(legalMoves))
		for _, m := range legalMoves {
			if _, ok := seen[m]; ok {
				return fmt.Errorf("%w: move=%v", ErrNotUniqueLegalMoves, m)
			}
			seen[m] = struct{}{}
		}
	}

	if len(p) != len(legalMoves) {
		return fmt.Errorf("%w: policy=%d legalMoves=%d", ErrPolicySizeMismatch, len(p), len(legalMoves))
	}

	var sum float32
	for i, m := range legalMoves {
		v, ok := p[m]
		if !ok {
			return fmt.Errorf("%w: idx=%d move=%v", ErrPolicyMissingLegalMove, i, m)
		}

		f64 := float64(v)
		if v < 0 || math.IsNaN(f64) || math.IsInf(f64, 0) {
			return fmt.Errorf("%w: idx=%d move=%v value=%v", ErrPolicyBadValue, i, m, v)
		}
		sum += v
	}

	if sum == 0 {
		return ErrPolicyZeroSum
	}
	return nil
}

type PolicyFunc[S any, M comparable] func(S, []M) (Policy[M], error)

func UniformPolicyFunc[S any, M comparable](state S, legalMoves []M) (Policy[M], error) {
	n := len(legalMoves)
	if n == 0 {
		return nil, ErrEmptyLegalMoves
	}

	p := 1.0 / float32(n)
	policy := Policy[M]{}
	for _, a := range legalMoves {
		policy[a] = p
	}
	return policy, nil
}

type SelectFunc[M, A comparable] func(Policy[M], A, *rand.Rand) (M, error)

// MaxSelectFunc picks one of the highest-valued moves uniformly at random.
func MaxSelectFunc[M, A comparable](policy Policy[M], agent A, rng *rand.Rand) (M, error) {
	if len(policy) == 0 {
		var zero M
		return zero, ErrEmptyLegalMoves
	}

	keys := slices.Collect(maps.Keys(policy))
	max := policy[keys[0]]
	moves := []M{keys[0]}

	for _, k := range keys[1:] {
		v := policy[k]
		switch {
		case v > max:
			max = v
			moves = []M{k}
		case v == max:
			moves = append(moves, k)
		}
	}
	return randx.Choice(moves, rng)
}

func WeightedRandomSelectFunc[M, A comparable](policy Policy[M], agent A, rng *rand.Rand) (M, error) {
	n := len(policy)
	moves := make([]M, 0, n)
	ws := make([]float32, 0, n)
	for m, p := range policy {
		moves = append(moves, m)
		ws = append(ws, p)
	}

	idx, err := randx.IntByWeights(ws, rng)
	if err != nil {
		var zero M
		return zero, err
	}
	return moves[idx], nil
}

type ActorName string

type Actor[S any, M, A comparable] struct {
	Name       ActorName
	PolicyFunc PolicyFunc[S, M]
	SelectFunc SelectFunc[M, A]
}

func NewRandomActor[S any, M, A comparable](name ActorName) Actor[S, M, A] {
	return Actor[S, M, A]{
		Name:       name,
		PolicyFunc: UniformPolicyFunc[S, M],
		SelectFunc: WeightedRandomSelectFunc[M, A],
	}
}

func (a Actor[S, M, A]) Validate() error {
	if a.PolicyFunc == nil {
		return fmt.Errorf("%w: PolicyFunc", ErrNilActorFunc)
	}
	if a.SelectFunc == nil {
		return fmt.Errorf("%w: SelectFunc", ErrNilActorFunc)
	}
	return nil
}

// Seat combines one actor per agent into a single actor that dispatches on
// whose turn it is. Every agent of the engine must have a seat.
func (e Engine[S, M, A]) Seat(actorByAgent map[A]Actor[S, M, A]) (Actor[S, M, A], error) {
	for _, agent := range e.Agents {
		actor, ok := actorByAgent[agent]
		if !ok {
			return Actor[S, M, A]{}, fmt.Errorf("%w: %v", ErrSeatNotFilled, agent)
		}
		if err := actor.Validate(); err != nil {
			return Actor[S, M, A]{}, err
		}
	}

	policyFunc := func(state S, legalMoves []M) (Policy[M], error) {
		agent := e.Logic.CurrentAgentFunc(state)
		return actorByAgent[agent].PolicyFunc(state, legalMoves)
	}

	selectFunc := func(p Policy[M], agent A, rng *rand.Rand) (M, error) {
		return actorByAgent[agent].SelectFunc(p, agent, rng)
	}

	return Actor[S, M, A]{
		Name:       "seated",
		PolicyFunc: policyFunc,
		SelectFunc: selectFunc,
	}, nil
}
