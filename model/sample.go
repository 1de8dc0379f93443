package model

import "time"

// TimeLayout is the timestamp format used in monitor CSV logs.
const TimeLayout = "2006-01-02 15:04:05"

// Sample is one recorded measurement: CPU usage in percent and available
// system memory in MB at a point in time. Immutable once parsed.
type Sample struct {
	Timestamp  time.Time `json:"timestamp"`
	CPUPercent float64   `json:"cpu_percent"`
	MemoryMB   float64   `json:"memory_mb"`
}

// SampleSeries is an ordered sequence of samples in file order. Skipped
// counts the data rows that failed to parse and never became samples.
type SampleSeries struct {
	Samples []Sample `json:"samples"`
	Skipped int      `json:"skipped"`
}

// Len returns the number of valid samples.
func (s *SampleSeries) Len() int { return len(s.Samples) }

// Empty reports whether the series holds no valid samples.
func (s *SampleSeries) Empty() bool { return len(s.Samples) == 0 }

// SummaryStats holds descriptive statistics over one series.
// Count==0 means "no data": the remaining fields are zero values and must
// not be read as measurements.
type SummaryStats struct {
	Count    int           `json:"count"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Duration time.Duration `json:"duration"`

	CPUMin float64 `json:"cpu_min"`
	CPUMax float64 `json:"cpu_max"`
	CPUAvg float64 `json:"cpu_avg"`

	MemMin float64 `json:"mem_min"`
	MemMax float64 `json:"mem_max"`
	MemAvg float64 `json:"mem_avg"`
}

// HasData reports whether the stats were computed from at least one sample.
func (s SummaryStats) HasData() bool { return s.Count > 0 }

// PeakKind tags which threshold rule flagged a sample.
type PeakKind int

const (
	PeakCPU PeakKind = iota
	PeakMemory
)

func (k PeakKind) String() string {
	if k == PeakCPU {
		return "cpu"
	}
	return "memory"
}

// PeakEvent is one sample flagged by a threshold rule.
type PeakEvent struct {
	Sample Sample   `json:"sample"`
	Kind   PeakKind `json:"kind"`
}

// PeakReport holds peak events per rule, in sample order, together with the
// absolute thresholds that were applied (derived from the series averages).
type PeakReport struct {
	CPU    []PeakEvent `json:"cpu"`
	Memory []PeakEvent `json:"memory"`

	CPUThreshold float64 `json:"cpu_threshold"`
	MemThreshold float64 `json:"mem_threshold"`
}

// TrendResult is the fitted linear trend of memory over elapsed hours.
// Defined is false when the regression is undefined (fewer than two samples
// or zero time variance); slope and R² are then meaningless and callers
// must render "insufficient data" instead.
type TrendResult struct {
	SlopePerHour float64 `json:"slope_per_hour"`
	RSquared     float64 `json:"r_squared"`
	Defined      bool    `json:"defined"`
}

// Thresholds is the validated peak detection configuration. Both values are
// percentages in [0,100]; validation happens in the config layer before a
// Thresholds value reaches the analysis engine.
type Thresholds struct {
	CPUPeakPercentage float64 `json:"cpu_peak_percentage"`
	RAMPeakPercentage float64 `json:"ram_peak_percentage"`
}

// DefaultThresholds mirrors the collection tool defaults: CPU peaks are
// samples more than 90% above the average, memory peaks more than 50% below.
func DefaultThresholds() Thresholds {
	return Thresholds{CPUPeakPercentage: 90.0, RAMPeakPercentage: 50.0}
}

// RunIdentity tags which machine produced a log. Resolved once per file.
type RunIdentity struct {
	MachineID string `json:"machine_id"`
}
