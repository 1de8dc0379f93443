package analysis

import "github.com/soakops/soakmon/model"

// EstimateTrend fits ordinary least squares of memory (MB) against elapsed
// hours since the first sample. The slope is MB/hour; R² is the standard
// coefficient of determination. The fit is undefined (Defined=false) for
// fewer than two samples or zero time variance, so the division below never
// sees a zero denominator.
func EstimateTrend(series *model.SampleSeries) model.TrendResult {
	if series == nil || series.Len() < 2 {
		return model.TrendResult{}
	}

	n := float64(series.Len())
	t0 := series.Samples[0].Timestamp

	var sumX, sumY, sumXY, sumX2 float64
	for _, s := range series.Samples {
		x := s.Timestamp.Sub(t0).Hours()
		y := s.MemoryMB
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		// All samples share one timestamp.
		return model.TrendResult{}
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for _, s := range series.Samples {
		x := s.Timestamp.Sub(t0).Hours()
		resid := s.MemoryMB - (slope*x + intercept)
		ssRes += resid * resid
		dev := s.MemoryMB - meanY
		ssTot += dev * dev
	}

	r2 := 1.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}
	if r2 < 0 {
		r2 = 0
	} else if r2 > 1 {
		r2 = 1
	}
	return model.TrendResult{SlopePerHour: slope, RSquared: r2, Defined: true}
}
