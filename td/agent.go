package td

import (
	"errors"
	"fmt"
	"maps"

	ttt "github.com/sw965/oxlearn/game/sequential/tictactoe"
)

var (
	ErrInvalidParams = errors.New("td: invalid params")
	ErrInvalidSymbol = errors.New("td: symbol must be P1 or P2")
)

type Params struct {
	LearningRate    float64
	DecayGamma      float64
	ExplorationRate float64
}

func (p Params) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"LearningRate", p.LearningRate},
		{"DecayGamma", p.DecayGamma},
		{"ExplorationRate", p.ExplorationRate},
	} {
		// NaNも弾く
		if !(f.v >= 0 && f.v <= 1) {
			return fmt.Errorf("%w: %s=%v not in [0, 1]", ErrInvalidParams, f.name, f.v)
		}
	}
	return nil
}

// ValueTable maps after-state fingerprints to learned values. Missing entries read as 0.
type ValueTable map[ttt.Fingerprint]float64

func (t ValueTable) Clone() ValueTable {
	if t == nil {
		return ValueTable{}
	}
	return maps.Clone(t)
}

type Agent struct {
	Name   string
	Symbol ttt.Cell
	Params

	Values ValueTable
	// States are the fingerprints produced by this agent's moves in the current episode.
	States []ttt.Fingerprint
	Wins   int
	Winner bool
}

// NewAgent builds an agent around values, which may come from a previous run.
// A nil table starts empty.
func NewAgent(name string, symbol ttt.Cell, params Params, values ValueTable) (*Agent, error) {
	if symbol != ttt.P1 && symbol != ttt.P2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSymbol, symbol)
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	if values == nil {
		values = ValueTable{}
	}

	return &Agent{
		Name:   name,
		Symbol: symbol,
		Params: params,
		Values: values,
		States: make([]ttt.Fingerprint, 0, (ttt.Rows*ttt.Cols+1)/2),
	}, nil
}

func (a *Agent) Lookup(f ttt.Fingerprint) float64 {
	return a.Values[f]
}

func (a *Agent) RecordVisit(f ttt.Fingerprint) {
	a.States = append(a.States, f)
}

// ResetEpisode forgets the current episode. Values and Wins are kept.
func (a *Agent) ResetEpisode() {
	a.States = a.States[:0]
	a.Winner = false
}

// Propagate credits reward to every state of the episode, most recent first.
// Each state receives the same flat reward; there is no per-step discount.
func (a *Agent) Propagate(reward float64) {
	for i := len(a.States) - 1; i >= 0; i-- {
		s := a.States[i]
		a.Values[s] = UpdateValue(a.Values[s], reward, a.LearningRate, a.DecayGamma)
	}
}
