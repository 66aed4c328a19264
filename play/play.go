// Package play lets a person play O against a trained X agent in a terminal.
package play

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	ttt "github.com/sw965/oxlearn/game/sequential/tictactoe"
	"github.com/sw965/oxlearn/report"
	"github.com/sw965/oxlearn/td"
)

var (
	ErrInputClosed = errors.New("play: input closed")
	ErrBadInput    = errors.New("play: expected \"row col\"")
)

type Tally struct {
	AgentWins int
	HumanWins int
	Ties      int
}

type Human struct {
	In  *bufio.Scanner
	Out io.Writer
}

func NewHuman(in io.Reader, out io.Writer) *Human {
	return &Human{In: bufio.NewScanner(in), Out: out}
}

// ParseMove reads "row col" with both in [0, 2].
func ParseMove(line string) (ttt.Move, error) {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(fields) != 2 {
		return ttt.Move{}, fmt.Errorf("%w: got %q", ErrBadInput, line)
	}

	var xs [2]int
	for i, f := range fields {
		x, err := strconv.Atoi(f)
		if err != nil {
			return ttt.Move{}, fmt.Errorf("%w: got %q", ErrBadInput, line)
		}
		xs[i] = x
	}

	m := ttt.Move{Row: xs[0], Col: xs[1]}
	if !m.InBounds() {
		return ttt.Move{}, fmt.Errorf("%w: %d %d", ttt.ErrOutOfBounds, m.Row, m.Col)
	}
	return m, nil
}

// Ask prompts until the person enters a legal move on g.
func (h *Human) Ask(g *ttt.Game) (ttt.Move, error) {
	for {
		fmt.Fprint(h.Out, "your move (row col): ")
		if !h.In.Scan() {
			if err := h.In.Err(); err != nil {
				return ttt.Move{}, err
			}
			return ttt.Move{}, ErrInputClosed
		}

		m, err := ParseMove(h.In.Text())
		if err != nil {
			fmt.Fprintln(h.Out, err)
			continue
		}
		if g.Board[m.Row][m.Col] != ttt.Empty {
			fmt.Fprintf(h.Out, "%d %d is taken\n", m.Row, m.Col)
			continue
		}
		return m, nil
	}
}

func (h *Human) announce(r ttt.Result, agent ttt.Cell, tally *Tally) {
	switch {
	case r == ttt.Tie:
		tally.Ties++
		fmt.Fprintln(h.Out, "Tie.")
		return
	case r.Winner() == agent:
		tally.AgentWins++
	default:
		tally.HumanWins++
	}
	if r == ttt.PlayerOneWin {
		fmt.Fprintln(h.Out, "Player 1 won!")
	} else {
		fmt.Fprintln(h.Out, "Player 2 won!")
	}
}

// Play runs rounds games with agent moving first. The agent always plays its
// greedy move and neither its values nor its win count change.
func (h *Human) Play(ctx context.Context, agent *td.Agent, rounds int, log *zap.Logger) (Tally, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var tally Tally
	for round := 0; round < rounds; round++ {
		if err := ctx.Err(); err != nil {
			return tally, err
		}

		g := ttt.NewGame()
		for mover := agent.Symbol; !g.Result.IsEnd(); mover = mover.Opposite() {
			var (
				m   ttt.Move
				err error
			)
			if mover == agent.Symbol {
				m, err = td.Greedy(agent, g.Board, g.LegalMoves())
			} else {
				m, err = h.Ask(g)
			}
			if err != nil {
				return tally, err
			}

			if err := g.Play(m, mover); err != nil {
				return tally, err
			}
			fmt.Fprint(h.Out, report.Board(g.Board))
			g.Evaluate()
		}

		h.announce(g.Result, agent.Symbol, &tally)
		log.Debug("human game", zap.Int("round", round+1), zap.Stringer("result", g.Result))
	}
	return tally, nil
}
