package dohbench

import (
	"sort"

	"github.com/montanaflynn/stats"
)

// Sample is the outcome of a single (provider, domain, round) query attempt.
// Duration is the elapsed time in milliseconds and is only valid when Err is nil.
type Sample struct {
	Domain   string
	Duration float64
	Err      error
}

// ResultAggregator accumulates samples of a single benchmarked provider. It is
// exclusively owned and mutated by the sequential task running the benchmark of
// that provider and is effectively frozen once the provider's benchmark finishes.
type ResultAggregator struct {
	ProviderName  string
	Successes     []float64
	FailedDomains []string
	TotalQueries  int64

	timeoutCeiling float64
}

// NewResultAggregator creates an empty aggregator for the given provider.
// The timeoutCeiling (in milliseconds) is reported for all latency statistics
// when there are no successful samples.
func NewResultAggregator(providerName string, timeoutCeiling float64) *ResultAggregator {
	return &ResultAggregator{ProviderName: providerName, timeoutCeiling: timeoutCeiling}
}

// Record appends a sample, counting it as one attempt. A failed sample records
// the queried domain, a domain may therefore appear multiple times in
// FailedDomains when it fails in multiple rounds.
func (a *ResultAggregator) Record(s Sample) {
	a.TotalQueries++
	if s.Err != nil {
		a.FailedDomains = append(a.FailedDomains, s.Domain)
		return
	}
	a.Successes = append(a.Successes, s.Duration)
}

// SuccessRate returns the percentage of successful queries, 0 when no query
// was attempted.
func (a *ResultAggregator) SuccessRate() float64 {
	if a.TotalQueries == 0 {
		return 0
	}
	return float64(len(a.Successes)) / float64(a.TotalQueries) * 100
}

// Median returns the lower middle element of the sorted successful timings,
// even-length samples are not interpolated.
func (a *ResultAggregator) Median() float64 {
	if len(a.Successes) == 0 {
		return a.timeoutCeiling
	}
	sorted := make([]float64, len(a.Successes))
	copy(sorted, a.Successes)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

// Avg returns the mean of the successful timings.
func (a *ResultAggregator) Avg() float64 {
	v, err := stats.Mean(a.Successes)
	if err != nil {
		return a.timeoutCeiling
	}
	return v
}

// Min returns the fastest successful timing.
func (a *ResultAggregator) Min() float64 {
	v, err := stats.Min(a.Successes)
	if err != nil {
		return a.timeoutCeiling
	}
	return v
}

// Max returns the slowest successful timing.
func (a *ResultAggregator) Max() float64 {
	v, err := stats.Max(a.Successes)
	if err != nil {
		return a.timeoutCeiling
	}
	return v
}
