package analysis

import (
	"fmt"
	"strings"

	"github.com/soakops/soakmon/model"
)

// RunReport is the composed result of analyzing one log.
type RunReport struct {
	Stats      model.SummaryStats
	Peaks      model.PeakReport
	Trend      model.TrendResult
	Thresholds model.Thresholds
}

// AnalyzeSeries runs the full analysis pipeline over a parsed series.
// Thresholds must already be validated ([0,100]) by the caller.
func AnalyzeSeries(series *model.SampleSeries, th model.Thresholds) RunReport {
	stats := Summarize(series)
	return RunReport{
		Stats:      stats,
		Peaks:      DetectPeaks(series, stats, th),
		Trend:      EstimateTrend(series),
		Thresholds: th,
	}
}

// Render produces the single-run summary report. Pure formatting — every
// number comes from the already-computed report fields.
func (r RunReport) Render() string {
	var sb strings.Builder

	hours := r.Stats.Duration.Hours()
	days := hours / 24

	sb.WriteString("\n=== Summary Report ===\n")
	sb.WriteString(fmt.Sprintf("Duration: %.2f hours = %.2f days\n", hours, days))
	if r.Stats.HasData() {
		sb.WriteString(fmt.Sprintf("Time Period: %s ~ %s\n",
			r.Stats.Start.Format(model.TimeLayout),
			r.Stats.End.Format(model.TimeLayout)))
	}
	sb.WriteString(fmt.Sprintf("CPU Stats: Avg=%.2f%% | Min=%.2f%% | Max=%.2f%%\n",
		r.Stats.CPUAvg, r.Stats.CPUMin, r.Stats.CPUMax))
	sb.WriteString(fmt.Sprintf("Memory Stats: Avg=%.2f MB | Min=%.2f MB | Max=%.2f MB\n",
		r.Stats.MemAvg, r.Stats.MemMin, r.Stats.MemMax))
	if r.Trend.Defined {
		sb.WriteString(fmt.Sprintf("Memory Trend: slope=%.2f MB/hour, R^2=%.4f\n",
			r.Trend.SlopePerHour, r.Trend.RSquared))
	} else {
		sb.WriteString("Memory Trend: insufficient data\n")
	}

	sb.WriteString(fmt.Sprintf("\n### Peaks Report (CPU > %.0f%%, RAM < %.0f%% deviation)\n",
		r.Thresholds.CPUPeakPercentage, r.Thresholds.RAMPeakPercentage))

	sb.WriteString(fmt.Sprintf("\n#### CPU Peaks (> %.2f%%)\n", r.Peaks.CPUThreshold))
	if len(r.Peaks.CPU) == 0 {
		sb.WriteString("No cpu peaks detected.\n")
	} else {
		writePeakTable(&sb, r.Peaks.CPU)
	}

	sb.WriteString(fmt.Sprintf("\n#### Memory Peaks (< %.2f MB)\n", r.Peaks.MemThreshold))
	if len(r.Peaks.Memory) == 0 {
		sb.WriteString("No memory peaks detected.\n")
	} else {
		writePeakTable(&sb, r.Peaks.Memory)
	}

	sb.WriteString("======================\n")
	return sb.String()
}

func writePeakTable(sb *strings.Builder, peaks []model.PeakEvent) {
	sb.WriteString("| Timestamp | CPU (%) | Memory (MB) |\n")
	sb.WriteString("| :--- | :--- | :--- |\n")
	for _, p := range peaks {
		sb.WriteString(fmt.Sprintf("| %s | %.2f%% | %.2f |\n",
			p.Sample.Timestamp.Format(model.TimeLayout),
			p.Sample.CPUPercent, p.Sample.MemoryMB))
	}
}
