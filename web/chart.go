package web

import (
	"bytes"
	"fmt"
	"time"

	"fitlog/workout"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	chartLineColor = drawing.Color{R: 75, G: 0, B: 130, A: 255}
	chartGoalColor = drawing.Color{R: 34, G: 139, B: 34, A: 255}
)

// renderProgressPNG plots one activity's values over time, oldest day first.
// A goal above zero adds a dashed horizontal target line and a legend.
func renderProgressPNG(activity string, entries []workout.Entry, goal float64) ([]byte, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no workouts to chart for %s", activity)
	}
	sorted := workout.SortByDate(entries)

	times := make([]time.Time, 0, len(sorted))
	values := make([]float64, 0, len(sorted))
	for _, entry := range sorted {
		times = append(times, entry.Date)
		values = append(values, entry.Value)
	}
	if times[len(times)-1].Equal(times[0]) {
		// All points on one day (or a single point) give a zero-width X
		// range, which cannot be rendered.
		times = append(times, times[0].Add(24*time.Hour))
		values = append(values, values[len(values)-1])
	}

	minY, maxY := values[0], values[0]
	for _, value := range values[1:] {
		if value < minY {
			minY = value
		}
		if value > maxY {
			maxY = value
		}
	}
	if goal > 0 {
		if goal < minY {
			minY = goal
		}
		if goal > maxY {
			maxY = goal
		}
	}
	pad := (maxY - minY) * 0.05
	if pad == 0 {
		pad = 1
	}
	rangeMin := minY - pad
	if rangeMin < 0 {
		rangeMin = 0
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name:    activity,
			XValues: times,
			YValues: values,
			Style: chart.Style{
				StrokeColor: chartLineColor,
				StrokeWidth: 2,
				DotColor:    chartLineColor,
				DotWidth:    4,
			},
		},
	}
	if goal > 0 {
		goalValues := make([]float64, len(times))
		for i := range goalValues {
			goalValues[i] = goal
		}
		series = append(series, chart.TimeSeries{
			Name:    "Goal: " + formatValue(goal),
			XValues: times,
			YValues: goalValues,
			Style: chart.Style{
				StrokeColor:     chartGoalColor,
				StrokeWidth:     2,
				StrokeDashArray: []float64{6, 4},
			},
		})
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s Performance Over Time", activity),
		Width:      900,
		Height:     420,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
		},
		YAxis: chart.YAxis{
			Name:  cases.Title(language.English).String(sorted[0].Unit),
			Range: &chart.ContinuousRange{Min: rangeMin, Max: maxY + pad},
		},
		Series: series,
	}
	if goal > 0 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart for %s: %w", activity, err)
	}
	return buf.Bytes(), nil
}
