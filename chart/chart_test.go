package chart

import (
	"bytes"
	"testing"
	"time"

	"github.com/soakops/soakmon/analysis"
	"github.com/soakops/soakmon/model"
)

func testSeries() *model.SampleSeries {
	start := time.Date(2023, 10, 25, 10, 0, 0, 0, time.UTC)
	samples := []model.Sample{
		{Timestamp: start, CPUPercent: 5.5, MemoryMB: 2048.0},
		{Timestamp: start.Add(time.Second), CPUPercent: 12.3, MemoryMB: 2000.5},
		{Timestamp: start.Add(2 * time.Second), CPUPercent: 8.0, MemoryMB: 1950.25},
		{Timestamp: start.Add(3 * time.Second), CPUPercent: 95.0, MemoryMB: 1800.0},
		{Timestamp: start.Add(4 * time.Second), CPUPercent: 6.0, MemoryMB: 2100.0},
	}
	return &model.SampleSeries{Samples: samples}
}

func TestRenderProducesPNG(t *testing.T) {
	series := testSeries()
	report := analysis.AnalyzeSeries(series, model.DefaultThresholds())

	var buf bytes.Buffer
	if err := Render(series, report, "test run", &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	pngMagic := []byte{0x89, 'P', 'N', 'G'}
	if buf.Len() < len(pngMagic) || !bytes.Equal(buf.Bytes()[:len(pngMagic)], pngMagic) {
		t.Errorf("output does not start with PNG signature")
	}
}

func TestRenderWithPeakMarkers(t *testing.T) {
	series := testSeries()
	th := model.Thresholds{CPUPeakPercentage: 90, RAMPeakPercentage: 5}
	report := analysis.AnalyzeSeries(series, th)
	if len(report.Peaks.CPU) == 0 || len(report.Peaks.Memory) == 0 {
		t.Fatalf("fixture should produce both peak kinds, got cpu=%d mem=%d",
			len(report.Peaks.CPU), len(report.Peaks.Memory))
	}

	var buf bytes.Buffer
	if err := Render(series, report, "test run", &buf); err != nil {
		t.Fatalf("Render with peaks: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("empty chart output")
	}
}

func TestRenderRejectsEmptySeries(t *testing.T) {
	empty := &model.SampleSeries{}
	report := analysis.AnalyzeSeries(empty, model.DefaultThresholds())
	var buf bytes.Buffer
	if err := Render(empty, report, "empty", &buf); err == nil {
		t.Error("Render of empty series should fail")
	}
	if err := Render(nil, report, "nil", &buf); err == nil {
		t.Error("Render of nil series should fail")
	}
}
