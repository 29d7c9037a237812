package dohbench

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/miekg/dns"
	"github.com/tantalor93/dohrace/pkg/printutils"
	"go.uber.org/ratelimit"
)

var client = http.Client{
	Timeout: 120 * time.Second,
}

// ProgressSink consumes one human-readable status line per query attempt.
// The sink must not block, blocking it perturbs the measured timings.
type ProgressSink func(status string)

// Benchmark is representation of a benchmark scenario.
type Benchmark struct {
	Providers []Provider
	Domains   []string
	Rounds    int

	QueryType string

	Timeout  time.Duration
	Cooldown time.Duration

	Rate int

	DohProtocol string
	Insecure    bool

	RequestLogEnabled bool
	RequestLogPath    string

	HistDisplay bool
	HistMin     time.Duration
	HistMax     time.Duration
	HistPre     int

	JSON bool

	Silent bool
	Color  bool

	PlotDir    string
	PlotFormat string

	// OnProgress, when set, receives a status line before each measured query.
	OnProgress ProgressSink

	// Client performs the DoH lookups. When nil, a JSONClient built from
	// DohProtocol, Timeout and Insecure is used.
	Client DohClient

	// Writer used for the benchmark messages, defaults to os.Stdout.
	Writer io.Writer
}

func (b *Benchmark) normalize() error {
	if b.Writer == nil {
		b.Writer = os.Stdout
	}

	if len(b.Providers) == 0 {
		return errors.New("no providers to benchmark")
	}
	names := make(map[string]struct{}, len(b.Providers))
	for _, provider := range b.Providers {
		if provider.Name == "" {
			return errors.New("provider with an empty name")
		}
		if _, ok := names[provider.Name]; ok {
			return fmt.Errorf("duplicate provider name '%s'", provider.Name)
		}
		names[provider.Name] = struct{}{}
		if u, err := url.Parse(provider.Endpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("provider '%s' has an invalid endpoint '%s'", provider.Name, provider.Endpoint)
		}
	}

	if len(b.Domains) == 0 {
		return errors.New("no domains to query")
	}

	if b.Rounds < 1 {
		return errors.New("at least one round is required")
	}

	if b.QueryType == "" {
		b.QueryType = DefaultQueryType
	}
	if _, ok := dns.StringToType[b.QueryType]; !ok {
		return fmt.Errorf("unknown query type '%s'", b.QueryType)
	}

	if b.Timeout == 0 {
		b.Timeout = DefaultTimeout
	}
	if b.Cooldown == 0 {
		b.Cooldown = DefaultCooldown
	}
	if b.RequestLogPath == "" {
		b.RequestLogPath = DefaultRequestLogPath
	}
	if b.HistMax == 0 {
		b.HistMax = b.Timeout
	}
	if b.HistPre == 0 {
		b.HistPre = DefaultHistPrecision
	}
	if b.PlotFormat == "" {
		b.PlotFormat = DefaultPlotFormat
	}

	if b.Client == nil {
		b.Client = NewJSONClient(b.DohProtocol, b.Timeout, b.Insecure)
	}
	return nil
}

// Run executes the benchmark. Providers are benchmarked one at a time in input
// order and queries are strictly sequential, so concurrent connections do not
// skew the measured latencies. A failed query never aborts the run, only a
// configuration error does. Cancelling the context stops the run before the
// next query and the aggregates collected so far are returned.
func (b *Benchmark) Run(ctx context.Context) ([]*ResultAggregator, error) {
	if err := b.normalize(); err != nil {
		return nil, err
	}

	color.NoColor = !b.Color

	domains, err := b.prepareDomains()
	if err != nil {
		return nil, err
	}

	if b.RequestLogEnabled {
		file, err := os.OpenFile(b.RequestLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open file for request logging due to '%v'", err)
		}
		defer file.Close()
		log.SetOutput(file)
	}

	var limit ratelimit.Limiter
	if b.Rate > 0 {
		limit = ratelimit.New(b.Rate)
	}

	if !b.Silent && !b.JSON {
		fmt.Fprintf(b.Writer, "Using %s hostnames\n", printutils.HighlightSprint(len(domains)))
		fmt.Fprintf(b.Writer, "Benchmarking %s providers with %s rounds per provider\n",
			printutils.HighlightSprint(len(b.Providers)), printutils.HighlightSprint(b.Rounds))
	}

	ceiling := float64(b.Timeout.Milliseconds())

	aggregates := make([]*ResultAggregator, 0, len(b.Providers))
	for _, provider := range b.Providers {
		agg := NewResultAggregator(provider.Name, ceiling)
		aggregates = append(aggregates, agg)

		if ctx.Err() != nil {
			return aggregates, nil
		}

		// warm-up primes connection state, the outcome is discarded and the
		// cooldown sleep happens whether it succeeded or not
		_, _ = b.Client.Lookup(ctx, provider, WarmupDomain, b.QueryType)
		if !sleepCtx(ctx, b.Cooldown) {
			return aggregates, nil
		}

		for round := 0; round < b.Rounds; round++ {
			for _, domain := range domains {
				if ctx.Err() != nil {
					return aggregates, nil
				}
				if b.OnProgress != nil {
					b.OnProgress(fmt.Sprintf("%s: resolving %s (round %d/%d)", provider.Name, domain, round+1, b.Rounds))
				}
				if limit != nil {
					limit.Take()
				}

				elapsed, err := b.Client.Lookup(ctx, provider, domain, b.QueryType)
				if err != nil {
					agg.Record(Sample{Domain: domain, Err: err})
					errorsTotalMetrics.WithLabelValues(provider.Name).Inc()
				} else {
					agg.Record(Sample{Domain: domain, Duration: float64(elapsed.Nanoseconds()) / 1e6})
					dohRequestsDurationMetrics.WithLabelValues(provider.Name).Observe(elapsed.Seconds())
					dohResponseTotalMetrics.WithLabelValues(provider.Name).Inc()
				}
				if b.RequestLogEnabled {
					logRequest(provider.Name, domain, b.QueryType, round+1, err, elapsed)
				}

				if !sleepCtx(ctx, b.Cooldown) {
					return aggregates, nil
				}
			}
			if round != b.Rounds-1 {
				if !sleepCtx(ctx, 2*b.Cooldown) {
					return aggregates, nil
				}
			}
		}
	}

	return aggregates, nil
}

// prepareDomains expands the configured domains. A domain entry may be a plain
// hostname, a local file referenced as @<file-path> or an HTTP(S) resource,
// files contain one hostname per line.
func (b *Benchmark) prepareDomains() ([]string, error) {
	var domains []string
	for _, d := range b.Domains {
		switch {
		case isHTTPURL(d):
			resp, err := client.Get(d)
			if err != nil {
				return nil, fmt.Errorf("failed to download file '%s' with error '%v'", d, err)
			}
			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				resp.Body.Close()
				return nil, fmt.Errorf("failed to download file '%s' with status '%s'", d, resp.Status)
			}
			scanner := bufio.NewScanner(resp.Body)
			for scanner.Scan() {
				if line := strings.TrimSpace(scanner.Text()); line != "" {
					domains = append(domains, line)
				}
			}
			resp.Body.Close()
		case strings.HasPrefix(d, "@"):
			file, err := os.Open(strings.TrimPrefix(d, "@"))
			if err != nil {
				return nil, fmt.Errorf("failed to read file '%s' with error '%v'", d, err)
			}
			scanner := bufio.NewScanner(file)
			for scanner.Scan() {
				if line := strings.TrimSpace(scanner.Text()); line != "" {
					domains = append(domains, line)
				}
			}
			file.Close()
		default:
			domains = append(domains, d)
		}
	}
	if len(domains) == 0 {
		return nil, errors.New("no domains to query")
	}
	return domains, nil
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// sleepCtx sleeps for the given duration, returns false when the context is
// cancelled before the sleep finishes.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
