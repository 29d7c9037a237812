package reporter

import (
	"encoding/json"
)

type jsonReporter struct{}

type providerResult struct {
	Provider      string   `json:"provider"`
	MedianMs      float64  `json:"medianMs"`
	AvgMs         float64  `json:"avgMs"`
	MinMs         float64  `json:"minMs"`
	MaxMs         float64  `json:"maxMs"`
	SuccessRate   float64  `json:"successRate"`
	TotalQueries  int64    `json:"totalQueries"`
	FailedDomains []string `json:"failedDomains,omitempty"`
}

type jsonResult struct {
	Providers                []providerResult `json:"providers"`
	Winner                   string           `json:"winner,omitempty"`
	BenchmarkDurationSeconds float64          `json:"benchmarkDurationSeconds"`
}

func (s *jsonReporter) print(params reportParameters) error {
	result := jsonResult{
		BenchmarkDurationSeconds: roundDuration(params.benchmarkDuration).Seconds(),
	}

	for _, agg := range params.ranked {
		result.Providers = append(result.Providers, providerResult{
			Provider:      agg.ProviderName,
			MedianMs:      roundMillis(agg.Median()),
			AvgMs:         roundMillis(agg.Avg()),
			MinMs:         roundMillis(agg.Min()),
			MaxMs:         roundMillis(agg.Max()),
			SuccessRate:   roundMillis(agg.SuccessRate()),
			TotalQueries:  agg.TotalQueries,
			FailedDomains: agg.FailedDomains,
		})
	}

	if winner, ok := Winner(params.ranked); ok {
		result.Winner = winner.ProviderName
	}

	return json.NewEncoder(params.outputWriter).Encode(result)
}
