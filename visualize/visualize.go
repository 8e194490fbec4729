// Package visualize renders training curves and ROC curves as PNG charts.
package visualize

import (
	"io"
	"math"

	"github.com/wcharczuk/go-chart"

	"github.com/neurlang/textclf/evaluate"
)

// Curves draws the series as lines against the epoch.
func Curves(w io.Writer, title, yName string, series []evaluate.Series) error {
	var lines []chart.Series
	xmax, ymin, ymax := 1.0, math.Inf(1), math.Inf(-1)
	for i, s := range series {
		if len(s.X) == 0 {
			continue
		}
		lines = append(lines, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: s.X,
			YValues: s.Y,
			Style: chart.Style{
				Show:        true,
				StrokeColor: chart.GetAlternateColor(i),
			},
		})
		xmax = math.Max(xmax, s.X[len(s.X)-1])
		for _, y := range s.Y {
			ymin, ymax = math.Min(ymin, y), math.Max(ymax, y)
		}
	}
	if len(lines) == 0 {
		lines = append(lines, chart.ContinuousSeries{
			Name:    "no data",
			XValues: []float64{0, 1},
			YValues: []float64{0, 0},
			Style:   chart.Style{Show: true, StrokeColor: chart.ColorLightGray},
		})
		ymin, ymax = 0, 1
	}
	if ymax-ymin < 1e-9 {
		ymin, ymax = ymin-0.5, ymax+0.5
	}
	return render(w, chart.Chart{
		Title:      title,
		TitleStyle: chart.StyleShow(),
		XAxis: chart.XAxis{
			Name:      "epoch",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
			Range:     &chart.ContinuousRange{Min: 0, Max: xmax},
		},
		YAxis: chart.YAxis{
			Name:      yName,
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
			Range:     &chart.ContinuousRange{Min: ymin, Max: ymax},
		},
		Series: lines,
	})
}

// ROC draws the curve with the chance diagonal.
func ROC(w io.Writer, roc evaluate.ROC) error {
	lines := []chart.Series{
		chart.ContinuousSeries{
			Name:    "chance",
			XValues: []float64{0, 1},
			YValues: []float64{0, 1},
			Style:   chart.Style{Show: true, StrokeColor: chart.ColorLightGray, StrokeDashArray: []float64{5, 5}},
		},
	}
	if s := evaluate.ROCSeries(roc); len(s.X) > 0 {
		lines = append(lines, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: s.X,
			YValues: s.Y,
			Style:   chart.Style{Show: true, StrokeColor: chart.ColorBlue},
		})
	}
	return render(w, chart.Chart{
		Title:      "ROC",
		TitleStyle: chart.StyleShow(),
		XAxis: chart.XAxis{
			Name:      "false positive rate",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
			Range:     &chart.ContinuousRange{Min: 0, Max: 1},
		},
		YAxis: chart.YAxis{
			Name:      "true positive rate",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
			Range:     &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: lines,
	})
}

func render(w io.Writer, graph chart.Chart) error {
	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}
	return graph.Render(chart.PNG, w)
}
