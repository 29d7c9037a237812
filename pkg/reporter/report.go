package reporter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tantalor93/dohrace/pkg/dohbench"
)

type reportParameters struct {
	benchmark         *dohbench.Benchmark
	outputWriter      io.Writer
	ranked            []*dohbench.ResultAggregator
	benchmarkDuration time.Duration
}

type reportPrinter interface {
	print(params reportParameters) error
}

// PrintReport ranks the benchmark aggregates, prints the formatted result and
// exports graphs if configured. If there is a fatal error while printing the
// report, an error is returned.
func PrintReport(b *dohbench.Benchmark, aggregates []*dohbench.ResultAggregator, benchDuration time.Duration) error {
	ranked := Rank(aggregates)

	if len(b.PlotDir) != 0 {
		if err := directoryExists(b.PlotDir); err != nil {
			return fmt.Errorf("unable to plot results: %w", err)
		}

		now := time.Now().Format(time.RFC3339)
		dir := fmt.Sprintf("%s/graphs-%s", b.PlotDir, now)
		if err := os.Mkdir(dir, os.ModePerm); err != nil {
			return fmt.Errorf("unable to plot results: %w", err)
		}
		plotMedianLatency(fileName(b, dir, "median-barchart"), ranked)
		plotBoxPlotLatency(fileName(b, dir, "latency-boxplot"), ranked)
		plotHistogramLatency(fileName(b, dir, "latency-histogram"), ranked)
	}

	if b.Silent {
		return nil
	}
	params := reportParameters{
		benchmark:         b,
		outputWriter:      b.Writer,
		ranked:            ranked,
		benchmarkDuration: benchDuration,
	}
	return printer(b).print(params)
}

func directoryExists(plotDir string) error {
	stat, err := os.Stat(plotDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("'%s' path does not point to an existing directory", plotDir)
		}
		return err
	} else if !stat.IsDir() {
		return fmt.Errorf("'%s' is not a path to a directory", plotDir)
	}
	return nil
}

func printer(b *dohbench.Benchmark) reportPrinter {
	switch {
	case b.JSON:
		return &jsonReporter{}
	default:
		return &standardReporter{}
	}
}

func fileName(b *dohbench.Benchmark, dir, name string) string {
	return dir + "/" + name + "." + b.PlotFormat
}
