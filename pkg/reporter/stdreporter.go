package reporter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/olekukonko/tablewriter"
	"github.com/tantalor93/dohrace/pkg/dohbench"
	"github.com/tantalor93/dohrace/pkg/printutils"
)

type standardReporter struct{}

func (s *standardReporter) print(params reportParameters) error {
	w := params.outputWriter

	printutils.NeutralFprintf(w, "\nResults sorted by median latency:\n")

	lines := make([][]string, 0, len(params.ranked))
	for _, agg := range params.ranked {
		lines = append(lines, []string{
			agg.ProviderName,
			fmt.Sprintf("%.2f", agg.Median()),
			fmt.Sprintf("%.2f", agg.Avg()),
			fmt.Sprintf("%.2f", agg.Min()),
			fmt.Sprintf("%.2f", agg.Max()),
			fmt.Sprintf("%.1f%%", agg.SuccessRate()),
		})
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Provider", "Median (ms)", "Avg (ms)", "Min (ms)", "Max (ms)", "Success"})
	table.SetBorder(false)
	table.AppendBulk(lines)
	table.Render()

	for _, agg := range params.ranked {
		if len(agg.FailedDomains) == 0 {
			continue
		}
		printutils.ErrFprintf(w, "\n%s failed queries (%d of %d):\n", agg.ProviderName, len(agg.FailedDomains), agg.TotalQueries)
		for _, domain := range agg.FailedDomains {
			printutils.ErrFprintf(w, "\t%s\n", domain)
		}
	}

	printutils.NeutralFprintf(w, "\nTime taken for tests:\t%s\n",
		printutils.HighlightSprint(roundDuration(params.benchmarkDuration)))

	if params.benchmark.HistDisplay {
		printDistribution(w, params.benchmark, params.ranked)
	}

	if winner, ok := Winner(params.ranked); ok {
		printutils.SuccessFprintf(w, "\nFastest DNS provider: %s (median %.2f ms, %.1f%% success rate)\n",
			winner.ProviderName, winner.Median(), winner.SuccessRate())
	}
	return nil
}

// printDistribution renders the latency distribution of all successful queries
// across all providers.
func printDistribution(w io.Writer, b *dohbench.Benchmark, ranked []*dohbench.ResultAggregator) {
	hist := hdrhistogram.New(b.HistMin.Nanoseconds(), b.HistMax.Nanoseconds(), b.HistPre)
	var datapoints int64
	for _, agg := range ranked {
		for _, ms := range agg.Successes {
			_ = hist.RecordValue(int64(ms * float64(time.Millisecond)))
			datapoints++
		}
	}
	if datapoints < 2 {
		return
	}

	printutils.NeutralFprintf(w, "\nLatency distribution, %s datapoints\n", printutils.HighlightSprint(datapoints))
	printBars(w, hist.Distribution())
}

func printBars(w io.Writer, bars []hdrhistogram.Bar) {
	counts := make([]int64, 0, len(bars))
	lines := make([][]string, 0, len(bars))
	added := false
	var max int64

	for _, b := range bars {
		if b.Count == 0 && !added {
			// trim the start
			continue
		}
		if b.Count > max {
			max = b.Count
		}

		added = true

		line := make([]string, 3)
		lines = append(lines, line)
		counts = append(counts, b.Count)

		line[0] = roundDuration(time.Duration(b.To/2 + b.From/2)).String()
		line[2] = strconv.FormatInt(b.Count, 10)
	}

	for i, l := range lines {
		l[1] = makeBar(counts[i], max)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Latency", "", "Count"})
	table.SetBorder(false)
	table.AppendBulk(lines)
	table.Render()
}

func makeBar(c int64, max int64) string {
	if c == 0 {
		return ""
	}
	t := int((43 * float64(c) / float64(max)) + 0.5)
	return strings.Repeat(printutils.HighlightSprint("▄"), t)
}
