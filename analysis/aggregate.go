package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/soakops/soakmon/model"
	"github.com/soakops/soakmon/util"
)

// AggregateRow is the analysis of one input file in a multi-file run.
// Err is set when the file could not be loaded; the other fields are then
// zero and the row renders dash-filled.
type AggregateRow struct {
	MachineID string
	Source    string
	Report    RunReport
	Err       error
}

// FlagFunc computes the flags column for a batch of rows, one string per
// row in order. The comparison rule is deliberately pluggable; see
// DefaultFlags for the shipped heuristic.
type FlagFunc func(rows []AggregateRow) []string

// Aggregate analyzes every path independently with a shared threshold
// config. One row per path, in input order; a load failure is captured in
// that row's Err and never aborts the remaining paths. resolveID maps a
// path to its machine id (override, filename token, or hardware fallback).
func Aggregate(paths []string, th model.Thresholds, resolveID func(path string) string) []AggregateRow {
	rows := make([]AggregateRow, 0, len(paths))
	for _, path := range paths {
		row := AggregateRow{Source: path, MachineID: resolveID(path)}
		series, err := LoadFile(path)
		if err != nil {
			row.Err = err
		} else {
			row.Report = AnalyzeSeries(series, th)
		}
		rows = append(rows, row)
	}
	return rows
}

// RenderAggregate produces the comparative markdown table. flagFn may be
// nil, in which case DefaultFlags is used.
func RenderAggregate(rows []AggregateRow, flagFn FlagFunc) string {
	if flagFn == nil {
		flagFn = DefaultFlags
	}
	flags := flagFn(rows)

	var sb strings.Builder
	sb.WriteString("\n=== Aggregated Summary Report ===\n")
	sb.WriteString("| machine_id | start_time | duration(days and hours) | cpu_avg_% | cpu_peak_count | mem_avg | mem_peak_count | mem_slope | mem_r_square | flags |\n")
	sb.WriteString("| :--- | :--- | :--- | ---: | ---: | ---: | ---: | ---: | ---: | :--- |\n")
	for i, row := range rows {
		if row.Err != nil {
			sb.WriteString(fmt.Sprintf("| %s | - | - | - | - | - | - | - | - | %s |\n",
				row.MachineID, flags[i]))
			continue
		}
		slope, r2 := "-", "-"
		if row.Report.Trend.Defined {
			slope = fmt.Sprintf("%.2f", row.Report.Trend.SlopePerHour)
			r2 = fmt.Sprintf("%.4f", row.Report.Trend.RSquared)
		}
		start := "-"
		if row.Report.Stats.HasData() {
			start = row.Report.Stats.Start.Format(model.TimeLayout)
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %.2f | %d | %.2f | %d | %s | %s | %s |\n",
			row.MachineID,
			start,
			util.FormatDaysHours(row.Report.Stats.Duration),
			row.Report.Stats.CPUAvg,
			len(row.Report.Peaks.CPU),
			row.Report.Stats.MemAvg,
			len(row.Report.Peaks.Memory),
			slope, r2, flags[i]))
	}
	sb.WriteString("\n")
	return sb.String()
}

// DefaultFlags marks peak presence per run (CPU_PEAKS / MEM_PEAKS) and
// cross-run outliers by z-score: a run whose peak count or memory slope
// sits 2+ standard deviations from the batch mean gets an *_OUTLIER flag.
// Outlier comparison needs at least three loadable rows so a two-run batch
// never flags itself. Failed rows always render LOAD_ERROR.
func DefaultFlags(rows []AggregateRow) []string {
	cpuOut := outliers(rows, func(r AggregateRow) (float64, bool) {
		return float64(len(r.Report.Peaks.CPU)), r.Err == nil
	})
	memOut := outliers(rows, func(r AggregateRow) (float64, bool) {
		return float64(len(r.Report.Peaks.Memory)), r.Err == nil
	})
	trendOut := outliers(rows, func(r AggregateRow) (float64, bool) {
		return r.Report.Trend.SlopePerHour, r.Err == nil && r.Report.Trend.Defined
	})

	flags := make([]string, len(rows))
	for i, row := range rows {
		if row.Err != nil {
			flags[i] = "LOAD_ERROR"
			continue
		}
		var parts []string
		if len(row.Report.Peaks.CPU) > 0 {
			parts = append(parts, "CPU_PEAKS")
		}
		if len(row.Report.Peaks.Memory) > 0 {
			parts = append(parts, "MEM_PEAKS")
		}
		if cpuOut[i] {
			parts = append(parts, "CPU_PEAK_OUTLIER")
		}
		if memOut[i] {
			parts = append(parts, "MEM_PEAK_OUTLIER")
		}
		if trendOut[i] {
			parts = append(parts, "TREND_OUTLIER")
		}
		flags[i] = strings.Join(parts, ",")
	}
	return flags
}

// outliers flags values 2+ population standard deviations from the mean of
// the eligible rows. Fewer than three eligible values flags nothing.
func outliers(rows []AggregateRow, value func(AggregateRow) (float64, bool)) []bool {
	out := make([]bool, len(rows))

	var vals []float64
	for _, r := range rows {
		if v, ok := value(r); ok {
			vals = append(vals, v)
		}
	}
	if len(vals) < 3 {
		return out
	}

	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))
	var ss float64
	for _, v := range vals {
		ss += (v - mean) * (v - mean)
	}
	stddev := math.Sqrt(ss / float64(len(vals)))
	if stddev == 0 {
		return out
	}

	for i, r := range rows {
		v, ok := value(r)
		if ok && math.Abs(v-mean)/stddev >= 2 {
			out[i] = true
		}
	}
	return out
}
