package reporter

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/tantalor93/dohrace/pkg/dohbench"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func plotMedianLatency(file string, ranked []*dohbench.ResultAggregator) {
	if len(ranked) == 0 {
		// nothing to plot
		return
	}
	var values plotter.Values
	var names []string
	for _, agg := range ranked {
		values = append(values, agg.Median())
		names = append(names, agg.ProviderName)
	}

	p := plot.New()
	p.Title.Text = "Median latency per provider"
	p.Y.Label.Text = "Latency (ms)"
	p.Y.Tick.Marker = hplot.Ticks{N: 5, Format: "%.0f"}
	p.NominalX(names...)

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		panic(err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = color.RGBA{R: 122, G: 195, B: 106, A: 255}
	p.Add(bars)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, file); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to save plot.", err)
	}
}

func plotBoxPlotLatency(file string, ranked []*dohbench.ResultAggregator) {
	var names []string
	loc := 0.0
	p := plot.New()
	p.Title.Text = "Latencies distribution per provider"
	p.Y.Label.Text = "Latencies (ms)"
	p.Y.Tick.Marker = hplot.Ticks{N: 3, Format: "%.0f"}

	for _, agg := range ranked {
		if len(agg.Successes) == 0 {
			continue
		}
		boxplot, err := plotter.NewBoxPlot(vg.Length(40), loc, plotter.Values(agg.Successes))
		if err != nil {
			panic(err)
		}
		boxplot.FillColor = color.RGBA{R: 127, G: 188, B: 165, A: 255}
		p.Add(boxplot)
		names = append(names, agg.ProviderName)
		loc++
	}
	if len(names) == 0 {
		// nothing to plot
		return
	}
	p.NominalX(names...)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, file); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to save plot.", err)
	}
}

func plotHistogramLatency(file string, ranked []*dohbench.ResultAggregator) {
	var values plotter.Values
	for _, agg := range ranked {
		values = append(values, agg.Successes...)
	}
	if len(values) == 0 {
		// nothing to plot
		return
	}

	p := plot.New()
	p.Title.Text = "Latencies distribution"

	hist, err := plotter.NewHist(values, numBins(values))
	if err != nil {
		panic(err)
	}
	p.X.Label.Text = "Latencies (ms)"
	p.X.Tick.Marker = hplot.Ticks{N: 5, Format: "%.0f"}
	p.Y.Label.Text = "Number of requests"
	p.Y.Tick.Marker = hplot.Ticks{N: 5, Format: "%.0f"}
	hist.FillColor = color.RGBA{R: 175, G: 238, B: 238, A: 255}
	p.Add(hist)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, file); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to save plot.", err)
	}
}

// numBins calculates number of bins for histogram.
func numBins(values plotter.Values) int {
	n := float64(len(values))

	// small dataset
	if n < 100 {
		sqrt := math.Sqrt(n)
		return int(math.Min(15, sqrt))
	}

	// medium dataset - use Rice's rule
	if n < 1000 {
		rice := 2 * math.Cbrt(n)
		return int(math.Min(30, rice))
	}

	// large dataset - use Doane's rule
	skewness := stat.Skew(values, nil)
	sigmaG := math.Sqrt(6 * (n - 2) / ((n + 1) * (n + 3)))
	doane := 1 + math.Log2(n) + math.Log2(1+math.Abs(skewness)/sigmaG)
	return int(math.Min(50, doane))
}
