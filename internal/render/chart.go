// Package render produces the visual and tabular artifacts of a run:
// epidemic-curve PNGs, CSV exports and lattice spread videos.
package render

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/outbreaklab/epidemic-core/pkg/models"
)

const (
	chartWidth  = 1024
	chartHeight = 576
)

// State colors shared by charts and animation frames.
var (
	colorSusceptible = drawing.Color{R: 65, G: 105, B: 225, A: 255}
	colorInfected    = drawing.Color{R: 220, G: 20, B: 60, A: 255}
	colorRecovered   = drawing.Color{R: 34, G: 139, B: 34, A: 255}
)

// CurvePNG renders one experiment's mean S/I/R trajectories as a PNG.
func CurvePNG(w io.Writer, title string, mean *models.MeanTimeSeries) error {
	if mean == nil || len(mean.Steps) == 0 {
		return fmt.Errorf("nothing to chart: empty series")
	}

	steps := stepAxis(len(mean.Steps))
	susceptible := make([]float64, len(mean.Steps))
	infected := make([]float64, len(mean.Steps))
	recovered := make([]float64, len(mean.Steps))
	for i, c := range mean.Steps {
		susceptible[i] = c.Susceptible
		infected[i] = c.Infected
		recovered[i] = c.Recovered
	}

	graph := newGraph(title, []chart.Series{
		chart.ContinuousSeries{
			Name:    "Susceptible",
			XValues: steps,
			YValues: susceptible,
			Style:   chart.Style{StrokeColor: colorSusceptible, StrokeWidth: 2.0},
		},
		chart.ContinuousSeries{
			Name:    "Infected",
			XValues: steps,
			YValues: infected,
			Style:   chart.Style{StrokeColor: colorInfected, StrokeWidth: 2.0},
		},
		chart.ContinuousSeries{
			Name:    "Recovered",
			XValues: steps,
			YValues: recovered,
			Style:   chart.Style{StrokeColor: colorRecovered, StrokeWidth: 2.0},
		},
	})
	return graph.Render(chart.PNG, w)
}

// ComparisonPNG renders the mean infected curve of every result on one
// chart, one line per experiment.
func ComparisonPNG(w io.Writer, title string, results []models.ExperimentResult) error {
	if len(results) == 0 {
		return fmt.Errorf("nothing to chart: no results")
	}

	series := make([]chart.Series, 0, len(results))
	for i, res := range results {
		if res.Mean == nil || len(res.Mean.Steps) == 0 {
			return fmt.Errorf("nothing to chart: experiment %s has an empty series", res.Name)
		}
		infected := make([]float64, len(res.Mean.Steps))
		for step, c := range res.Mean.Steps {
			infected[step] = c.Infected
		}
		series = append(series, chart.ContinuousSeries{
			Name:    res.Name,
			XValues: stepAxis(len(res.Mean.Steps)),
			YValues: infected,
			Style:   chart.Style{StrokeColor: chart.GetDefaultColor(i), StrokeWidth: 2.0},
		})
	}

	graph := newGraph(title, series)
	return graph.Render(chart.PNG, w)
}

// VillagePNG renders per-village mean infected curves for a
// metapopulation result.
func VillagePNG(w io.Writer, title string, mean *models.MeanTimeSeries) error {
	if mean == nil || len(mean.Partitions) == 0 {
		return fmt.Errorf("nothing to chart: series has no village partitions")
	}

	villages := len(mean.Partitions[0])
	steps := stepAxis(len(mean.Partitions))

	series := make([]chart.Series, 0, villages)
	for v := 0; v < villages; v++ {
		infected := make([]float64, len(mean.Partitions))
		for step := range mean.Partitions {
			infected[step] = mean.Partitions[step][v].Infected
		}
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("village %d", v),
			XValues: steps,
			YValues: infected,
			Style:   chart.Style{StrokeColor: chart.GetDefaultColor(v), StrokeWidth: 2.0},
		})
	}

	graph := newGraph(title, series)
	return graph.Render(chart.PNG, w)
}

func newGraph(title string, series []chart.Series) chart.Chart {
	graph := chart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			Name:  "step",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "agents",
			Style: chart.Style{FontSize: 10.0},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph
}

func stepAxis(n int) []float64 {
	steps := make([]float64, n)
	for i := range steps {
		steps[i] = float64(i)
	}
	return steps
}
