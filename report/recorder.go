// Package report turns training results into numbers, charts and terminal output.
package report

import (
	"sync"

	"gonum.org/v1/gonum/stat"

	ttt "github.com/sw965/oxlearn/game/sequential/tictactoe"
	"github.com/sw965/oxlearn/train"
)

// Recorder keeps the result of every episode in order. It is safe for
// concurrent use so that the inspection server can read while training runs.
type Recorder struct {
	mu      sync.RWMutex
	results []ttt.Result
}

func (r *Recorder) Add(res ttt.Result) {
	r.mu.Lock()
	r.results = append(r.results, res)
	r.mu.Unlock()
}

// Observe has the shape of train.Hook.
func (r *Recorder) Observe(_ train.Stats, res ttt.Result) error {
	r.Add(res)
	return nil
}

func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.results)
}

// Window holds outcome rates over consecutive episodes [Start, Start+Size).
type Window struct {
	Start int     `json:"start"`
	Size  int     `json:"size"`
	P1    float64 `json:"p1"`
	P2    float64 `json:"p2"`
	Tie   float64 `json:"tie"`
}

// Windows splits the recorded episodes into windows of size episodes. A
// trailing partial window is included. size < 1 yields nil.
func (r *Recorder) Windows(size int) []Window {
	if size < 1 {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ws := make([]Window, 0, (len(r.results)+size-1)/size)
	for start := 0; start < len(r.results); start += size {
		chunk := r.results[start:min(start+size, len(r.results))]
		w := Window{Start: start, Size: len(chunk)}
		for _, res := range chunk {
			switch res {
			case ttt.PlayerOneWin:
				w.P1++
			case ttt.PlayerTwoWin:
				w.P2++
			case ttt.Tie:
				w.Tie++
			}
		}
		n := float64(len(chunk))
		w.P1 /= n
		w.P2 /= n
		w.Tie /= n
		ws = append(ws, w)
	}
	return ws
}

type Rate struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

type Summary struct {
	Episodes int  `json:"episodes"`
	Windows  int  `json:"windows"`
	P1       Rate `json:"p1"`
	P2       Rate `json:"p2"`
	Tie      Rate `json:"tie"`
}

func rate(xs []float64) Rate {
	if len(xs) == 0 {
		return Rate{}
	}
	r := Rate{Mean: stat.Mean(xs, nil)}
	// 標本分散なので2つ以上必要
	if len(xs) > 1 {
		r.StdDev = stat.StdDev(xs, nil)
	}
	return r
}

// Summarize reports mean and spread of the per-window rates.
func Summarize(ws []Window) Summary {
	p1 := make([]float64, len(ws))
	p2 := make([]float64, len(ws))
	tie := make([]float64, len(ws))
	s := Summary{Windows: len(ws)}
	for i, w := range ws {
		p1[i], p2[i], tie[i] = w.P1, w.P2, w.Tie
		s.Episodes += w.Size
	}
	s.P1 = rate(p1)
	s.P2 = rate(p2)
	s.Tie = rate(tie)
	return s
}
