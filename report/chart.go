package report

import (
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderChart writes an HTML page with one line per outcome rate.
func RenderChart(w io.Writer, title string, ws []Window) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "outcome rate per window",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	steps := make([]string, len(ws))
	p1 := make([]opts.LineData, len(ws))
	p2 := make([]opts.LineData, len(ws))
	tie := make([]opts.LineData, len(ws))
	for i, win := range ws {
		steps[i] = strconv.Itoa(win.Start + win.Size)
		p1[i] = opts.LineData{Value: win.P1}
		p2[i] = opts.LineData{Value: win.P2}
		tie[i] = opts.LineData{Value: win.Tie}
	}

	line.SetXAxis(steps).
		AddSeries("player one", p1).
		AddSeries("player two", p2).
		AddSeries("tie", tie)

	page := components.NewPage()
	page.AddCharts(line)
	return page.Render(w)
}
