package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	ttt "github.com/sw965/oxlearn/game/sequential/tictactoe"
	"github.com/sw965/oxlearn/train"
)

var statStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#138a0fff", Dark: "#1ddd37ff"}).Render

// Progress redraws a single status line on out.
type Progress struct {
	out   io.Writer
	total int
	every int
	bar   progress.Model
}

// NewProgress draws at most about 100 times over total episodes.
func NewProgress(out io.Writer, total int) *Progress {
	return &Progress{
		out:   out,
		total: total,
		every: max(total/100, 1),
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (p *Progress) Line(s train.Stats) string {
	pct := 1.0
	if p.total > 0 {
		pct = min(float64(s.Rounds)/float64(p.total), 1)
	}
	stats := fmt.Sprintf("%d/%d  X %d  O %d  tie %d", s.Rounds, p.total, s.P1Wins, s.P2Wins, s.Ties)
	return p.bar.ViewAs(pct) + "  " + statStyle(stats)
}

// Observe has the shape of train.Hook.
func (p *Progress) Observe(s train.Stats, _ ttt.Result) error {
	if s.Rounds%p.every != 0 && s.Rounds != p.total {
		return nil
	}
	_, err := fmt.Fprint(p.out, "\r"+p.Line(s))
	return err
}

func (p *Progress) Done() error {
	_, err := fmt.Fprintln(p.out)
	return err
}
