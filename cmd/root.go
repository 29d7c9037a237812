package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/miekg/dns"
	"github.com/schollz/progressbar/v3"
	"github.com/tantalor93/dohrace/pkg/dohbench"
	"github.com/tantalor93/dohrace/pkg/printutils"
	"github.com/tantalor93/dohrace/pkg/reporter"
)

var (
	// Version is set during release of project during build process.
	Version = "development"

	author = "Ondrej Benkovsky <obenky@gmail.com>"
)

var (
	pApp = kingpin.New("dohrace", "A DNS-over-HTTPS resolver benchmark.").Author(author)

	benchmark dohbench.Benchmark

	providerSpecs []string
)

func init() {
	pApp.Flag("provider", "DoH provider to benchmark, in the format name=endpoint[,format] where format is one of 'google-json', 'dns-json' (default) or 'wire'. "+
		"Repeatable flag. When no provider is specified, a built-in set of public DoH resolvers is benchmarked.").
		Short('p').PlaceHolder("Google=https://dns.google/resolve,google-json").StringsVar(&providerSpecs)

	pApp.Flag("rounds", "How many times the domain list is resolved through each provider.").
		Short('n').Default("3").IntVar(&benchmark.Rounds)

	pApp.Flag("type", "Query type.").
		Short('t').Default(dohbench.DefaultQueryType).EnumVar(&benchmark.QueryType, getSupportedDNSTypes()...)

	pApp.Flag("timeout", "Timeout of a single DoH query. The timeout is also reported as the latency of providers without a single successful query, so they sort last.").
		Default("3s").DurationVar(&benchmark.Timeout)

	pApp.Flag("cooldown", "Pause between queries, twice the pause is inserted between rounds. The pacing avoids rate limiting by the providers and stabilizes the measurement.").
		Default("100ms").DurationVar(&benchmark.Cooldown)

	pApp.Flag("rate-limit", "Apply a global queries / second rate limit on top of the cooldown pacing.").
		Short('l').Default("0").IntVar(&benchmark.Rate)

	pApp.Flag("min", "Minimum value for timing histogram.").
		Default((time.Microsecond * 400).String()).DurationVar(&benchmark.HistMin)

	pApp.Flag("max", "Maximum value for timing histogram. Defaults to the query timeout.").
		DurationVar(&benchmark.HistMax)

	pApp.Flag("precision", "Significant figure for histogram precision.").
		Default("1").PlaceHolder("[1-5]").IntVar(&benchmark.HistPre)

	pApp.Flag("distribution", "Display distribution histogram of timings to stdout. Enabled by default.").
		Default("true").BoolVar(&benchmark.HistDisplay)

	pApp.Flag("json", "Report benchmark results as JSON.").BoolVar(&benchmark.JSON)

	pApp.Flag("silent", "Disable stdout.").Default("false").BoolVar(&benchmark.Silent)

	pApp.Flag("color", "ANSI Color output. Enabled by default.").
		Default("true").BoolVar(&benchmark.Color)

	pApp.Flag("plot", "Plot benchmark results and export them to the directory.").
		Default("").PlaceHolder("/path/to/folder").StringVar(&benchmark.PlotDir)

	pApp.Flag("plotf", "Format of graphs. Supported formats: svg, png and tif.").
		Default(dohbench.DefaultPlotFormat).EnumVar(&benchmark.PlotFormat, "svg", "png", "tif")

	pApp.Flag("doh-protocol", "HTTP protocol to use for DoH requests. Supported values: 1.1, 2 and 3.").
		Default(dohbench.HTTP1Proto).EnumVar(&benchmark.DohProtocol, dohbench.HTTP1Proto, dohbench.HTTP2Proto, dohbench.HTTP3Proto)

	pApp.Flag("insecure", "Disables server TLS certificate validation.").
		Default("false").BoolVar(&benchmark.Insecure)

	pApp.Flag("request-log", "Controls whether the requests are logged.").
		Default("false").BoolVar(&benchmark.RequestLogEnabled)

	pApp.Flag("request-log-path", "Path to the file where the requests will be logged.").
		Default(dohbench.DefaultRequestLogPath).StringVar(&benchmark.RequestLogPath)

	pApp.Arg("domains", "Domains to resolve through each provider. A domain can also be a local file referenced using @<file-path> or a resource accessible using HTTP, "+
		"in both cases the file lists one domain per line. When no domain is specified, a built-in list is used.").StringsVar(&benchmark.Domains)
}

// Execute starts main logic of command.
func Execute() {
	pApp.Version(Version)
	kingpin.MustParse(pApp.Parse(os.Args[1:]))

	if len(providerSpecs) == 0 {
		benchmark.Providers = dohbench.DefaultProviders()
	} else {
		providers, err := dohbench.ParseProviders(providerSpecs)
		if err != nil {
			printutils.ErrFprintf(os.Stderr, "There was an error while parsing providers: %s\n", err.Error())
			os.Exit(1)
		}
		benchmark.Providers = providers
	}
	if len(benchmark.Domains) == 0 {
		benchmark.Domains = dohbench.DefaultDomains()
	}
	benchmark.Writer = os.Stdout

	var bar *progressbar.ProgressBar
	if !benchmark.Silent && !benchmark.JSON {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetDescription("benchmarking"),
		)
		benchmark.OnProgress = func(status string) {
			bar.Describe(status)
			_ = bar.Add(1)
		}
	}

	sigsInt := make(chan os.Signal, 8)
	signal.Notify(sigsInt, syscall.SIGINT)

	defer close(sigsInt)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		_, ok := <-sigsInt
		if !ok {
			// standard exit based on channel close
			return
		}
		fmt.Fprintf(os.Stderr, "\nCancelling benchmark ^C, again to terminate now.\n")
		cancel()
		<-sigsInt
		os.Exit(1)
	}()

	start := time.Now()
	res, err := benchmark.Run(ctx)
	end := time.Now()

	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	if err != nil {
		printutils.ErrFprintf(os.Stderr, "There was an error while starting benchmark: %s\n", err.Error())
	} else {
		if err := reporter.PrintReport(&benchmark, res, end.Sub(start)); err != nil {
			printutils.ErrFprintf(os.Stderr, "There was an error while printing report: %s\n", err.Error())
		}
	}
}

func getSupportedDNSTypes() []string {
	keys := make([]string, 0, len(dns.StringToType))
	for k := range dns.StringToType {
		keys = append(keys, k)
	}
	return keys
}
