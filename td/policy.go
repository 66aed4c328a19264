package td

import (
	"errors"
	"math/rand/v2"

	"github.com/sw965/omw/mathx/randx"

	ttt "github.com/sw965/oxlearn/game/sequential/tictactoe"
)

var ErrNoLegalMoves = errors.New("td: no legal moves")

// minValue sits below anything a value table can hold, since rewards are in [0, 1].
const minValue = -999.0

// ChooseAction explores with probability a.ExplorationRate and otherwise plays
// Greedy. rng is not consulted when the exploration rate is 0.
func ChooseAction(a *Agent, b ttt.Board, legal []ttt.Move, rng *rand.Rand) (ttt.Move, error) {
	if len(legal) == 0 {
		return ttt.Move{}, ErrNoLegalMoves
	}

	if a.ExplorationRate > 0 && rng.Float64() < a.ExplorationRate {
		return randx.Choice(legal, rng)
	}
	return Greedy(a, b, legal)
}

// Greedy returns the legal move whose after-state a values most. Ties go to
// the last such move in the order of legal. b is not modified.
func Greedy(a *Agent, b ttt.Board, legal []ttt.Move) (ttt.Move, error) {
	if len(legal) == 0 {
		return ttt.Move{}, ErrNoLegalMoves
	}

	best := legal[0]
	max := minValue
	for _, m := range legal {
		next, err := b.Put(m, a.Symbol)
		if err != nil {
			return ttt.Move{}, err
		}

		if v := a.Lookup(next.Fingerprint()); v >= max {
			max = v
			best = m
		}
	}
	return best, nil
}
