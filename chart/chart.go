// Package chart renders a monitor log as a PNG time chart: memory on
// the primary axis, CPU on the secondary axis, with detected peaks
// drawn as dot markers.
package chart

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/soakops/soakmon/analysis"
	"github.com/soakops/soakmon/model"
)

// peakStyle renders points only, no connecting line.
func peakStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    5,
		DotColor:    col,
	}
}

// Render draws the series and its analysis results as a PNG into w.
// An empty series cannot be charted and is an error.
func Render(series *model.SampleSeries, report analysis.RunReport, title string, w io.Writer) error {
	if series == nil || series.Empty() {
		return fmt.Errorf("no samples to chart")
	}

	n := series.Len()
	times := make([]time.Time, n)
	cpu := make([]float64, n)
	memory := make([]float64, n)
	for i, s := range series.Samples {
		times[i] = s.Timestamp
		cpu[i] = s.CPUPercent
		memory[i] = s.MemoryMB
	}

	graphSeries := []chart.Series{
		chart.TimeSeries{
			Name:    "Memory (MB)",
			XValues: times,
			YValues: memory,
			Style:   chart.Style{StrokeColor: chart.ColorBlue},
		},
		chart.TimeSeries{
			Name:    "CPU (%)",
			XValues: times,
			YValues: cpu,
			YAxis:   chart.YAxisSecondary,
			Style:   chart.Style{StrokeColor: chart.ColorGreen},
		},
	}
	if s := peakSeries("CPU Peaks", report.Peaks.CPU, func(p model.PeakEvent) float64 { return p.Sample.CPUPercent }); s != nil {
		s.YAxis = chart.YAxisSecondary
		s.Style = peakStyle(chart.ColorRed)
		graphSeries = append(graphSeries, *s)
	}
	if s := peakSeries("Memory Peaks", report.Peaks.Memory, func(p model.PeakEvent) float64 { return p.Sample.MemoryMB }); s != nil {
		s.Style = peakStyle(chart.ColorOrange)
		graphSeries = append(graphSeries, *s)
	}

	graph := chart.Chart{
		Title:      title,
		Width:      1280,
		Height:     720,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Time"},
		YAxis:      chart.YAxis{Name: "Memory (MB)"},
		YAxisSecondary: chart.YAxis{
			Name:  "CPU (%)",
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Series: graphSeries,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// RenderFile writes the chart PNG to path.
func RenderFile(series *model.SampleSeries, report analysis.RunReport, title, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file %s: %w", path, err)
	}
	defer f.Close()
	if err := Render(series, report, title, f); err != nil {
		return err
	}
	return f.Close()
}

func peakSeries(name string, peaks []model.PeakEvent, value func(model.PeakEvent) float64) *chart.TimeSeries {
	if len(peaks) == 0 {
		return nil
	}
	xs := make([]time.Time, len(peaks))
	ys := make([]float64, len(peaks))
	for i, p := range peaks {
		xs[i] = p.Sample.Timestamp
		ys[i] = value(p)
	}
	return &chart.TimeSeries{Name: name, XValues: xs, YValues: ys}
}
