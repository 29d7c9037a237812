package reporter

import (
	"sort"

	"github.com/tantalor93/dohrace/pkg/dohbench"
)

// Rank orders aggregates ascending by median latency. The sort is stable, ties
// keep the input (provider) order. The input slice is not modified.
func Rank(aggregates []*dohbench.ResultAggregator) []*dohbench.ResultAggregator {
	ranked := make([]*dohbench.ResultAggregator, len(aggregates))
	copy(ranked, aggregates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Median() < ranked[j].Median()
	})
	return ranked
}

// Winner returns the aggregate with the lowest median latency, false when
// there are no aggregates.
func Winner(ranked []*dohbench.ResultAggregator) (*dohbench.ResultAggregator, bool) {
	if len(ranked) == 0 {
		return nil, false
	}
	return ranked[0], true
}
