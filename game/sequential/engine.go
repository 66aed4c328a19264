package sequential

import (
	"fmt"
)

type LegalMovesFunc[S any, M comparable] func(S) []M
type MoveFunc[S any, M comparable] func(S, M) (S, error)
type EqualFunc[S any] func(S, S) bool
type CurrentAgentFunc[S any, A comparable] func(S) A

// Logic bundles the rules a playout needs: which moves are legal, how a move
// transforms a state, and whose turn it is.
type Logic[S any, M, A comparable] struct {
	LegalMovesFunc   LegalMovesFunc[S, M]
	MoveFunc         MoveFunc[S, M]
	EqualFunc        EqualFunc[S]
	CurrentAgentFunc CurrentAgentFunc[S, A]
}

func (l Logic[S, M, A]) Validate() error {
	if l.LegalMovesFunc == nil {
		return fmt.Errorf("%w: LegalMovesFunc", ErrNilLogicFunc)
	}
	if l.MoveFunc == nil {
		return fmt.Errorf("%w: MoveFunc", ErrNilLogicFunc)
	}
	if l.EqualFunc == nil {
		return fmt.Errorf("%w: EqualFunc", ErrNilLogicFunc)
	}
	if l.CurrentAgentFunc == nil {
		return fmt.Errorf("%w: CurrentAgentFunc", ErrNilLogicFunc)
	}
	return nil
}

type Engine[S any, M, A comparable] struct {
	Logic                  Logic[S, M, A]
	RankByAgentFunc        RankByAgentFunc[S, A]
	ResultScoreByAgentFunc ResultScoreByAgentFunc[A]
	Agents                 []A
}

func (e Engine[S, M, A]) Validate() error {
	if err := e.Logic.Validate(); err != nil {
		return err
	}

	if e.RankByAgentFunc == nil {
		return fmt.Errorf("%w: RankByAgentFunc", ErrNilEngineFunc)
	}

	if e.ResultScoreByAgentFunc == nil {
		return fmt.Errorf("%w: ResultScoreByAgentFunc", ErrNilEngineFunc)
	}

	if len(e.Agents) == 0 {
		return ErrNoAgents
	}
	return nil
}

// IsEnd reports whether RankByAgentFunc assigns any rank to state.
func (e Engine[S, M, A]) IsEnd(state S) (bool, error) {
	rankByAgent, err := e.RankByAgentFunc(state)
	return len(rankByAgent) != 0, err
}
