// Package brain persists value tables. A table is stored as a flat mapping
// from fingerprint string to value, one artifact per agent.
package brain

import (
	"context"
	"math"
	"sort"
	"strconv"

	ttt "github.com/sw965/oxlearn/game/sequential/tictactoe"
	"github.com/sw965/oxlearn/td"
)

type Store interface {
	Load(ctx context.Context, name string) (td.ValueTable, error)
	Save(ctx context.Context, name string, table td.ValueTable) error
}

const (
	PlayerOne = "player_one"
	PlayerTwo = "player_two"
)

func Encode(table td.ValueTable) map[string]float64 {
	out := make(map[string]float64, len(table))
	for f, v := range table {
		out[f.String()] = v
	}
	return out
}

// Decode rebuilds a table from persisted entries. Entries whose key is not a
// fingerprint or whose value is not a finite number are left out and their
// keys are returned in sorted order.
func Decode(raw map[string]any) (td.ValueTable, []string) {
	table := make(td.ValueTable, len(raw))
	var rejected []string
	for k, rv := range raw {
		f, err := ttt.ParseFingerprint(k)
		if err != nil {
			rejected = append(rejected, k)
			continue
		}

		v, ok := number(rv)
		if !ok {
			rejected = append(rejected, k)
			continue
		}
		table[f] = v
	}
	sort.Strings(rejected)
	return table, rejected
}

func number(rv any) (float64, bool) {
	var v float64
	switch x := rv.(type) {
	case float64:
		v = x
	case int:
		v = float64(x)
	case string:
		var err error
		if v, err = strconv.ParseFloat(x, 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
