package analysis

import "github.com/soakops/soakmon/model"

// Summarize computes descriptive statistics over a series in file order.
// Duration is last minus first sample timestamp; the series is trusted to
// be non-decreasing but is never re-sorted. An empty series returns the
// explicit no-data state (Count 0), a single sample a zero duration with
// min = max = avg.
func Summarize(series *model.SampleSeries) model.SummaryStats {
	if series == nil || series.Empty() {
		return model.SummaryStats{}
	}

	first := series.Samples[0]
	last := series.Samples[len(series.Samples)-1]
	stats := model.SummaryStats{
		Count:    series.Len(),
		Start:    first.Timestamp,
		End:      last.Timestamp,
		Duration: last.Timestamp.Sub(first.Timestamp),
		CPUMin:   first.CPUPercent,
		CPUMax:   first.CPUPercent,
		MemMin:   first.MemoryMB,
		MemMax:   first.MemoryMB,
	}

	var cpuSum, memSum float64
	for _, s := range series.Samples {
		cpuSum += s.CPUPercent
		memSum += s.MemoryMB
		if s.CPUPercent < stats.CPUMin {
			stats.CPUMin = s.CPUPercent
		}
		if s.CPUPercent > stats.CPUMax {
			stats.CPUMax = s.CPUPercent
		}
		if s.MemoryMB < stats.MemMin {
			stats.MemMin = s.MemoryMB
		}
		if s.MemoryMB > stats.MemMax {
			stats.MemMax = s.MemoryMB
		}
	}
	stats.CPUAvg = cpuSum / float64(stats.Count)
	stats.MemAvg = memSum / float64(stats.Count)
	return stats
}
