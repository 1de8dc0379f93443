package analysis

import "github.com/soakops/soakmon/model"

// DetectPeaks classifies samples against the two threshold rules in one
// ordered pass. The rules are asymmetric by design:
//
//	CPU peak:    cpu > cpuAvg * (1 + cpuPct/100)   — usage spiked above average
//	memory peak: mem < memAvg * (1 - ramPct/100)   — available memory dropped
//
// Both thresholds scale the series average, not an absolute value. A sample
// may land in both buckets. With no data the report is empty, not an error.
func DetectPeaks(series *model.SampleSeries, stats model.SummaryStats, th model.Thresholds) model.PeakReport {
	if series == nil || !stats.HasData() {
		return model.PeakReport{}
	}

	report := model.PeakReport{
		CPUThreshold: stats.CPUAvg * (1 + th.CPUPeakPercentage/100),
		MemThreshold: stats.MemAvg * (1 - th.RAMPeakPercentage/100),
	}
	for _, s := range series.Samples {
		if s.CPUPercent > report.CPUThreshold {
			report.CPU = append(report.CPU, model.PeakEvent{Sample: s, Kind: model.PeakCPU})
		}
		if s.MemoryMB < report.MemThreshold {
			report.Memory = append(report.Memory, model.PeakEvent{Sample: s, Kind: model.PeakMemory})
		}
	}
	return report
}
