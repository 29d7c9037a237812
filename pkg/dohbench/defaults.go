package dohbench

import (
	"time"
)

const (
	// DefaultRounds is a default number of passes over the domain list per provider.
	DefaultRounds = 3

	// DefaultTimeout bounds a single DoH query. It also serves as the worst case
	// latency substituted for derived statistics of providers without a single
	// successful query, so that such providers sort last instead of breaking
	// the comparison.
	DefaultTimeout = 3 * time.Second

	// DefaultCooldown is a default pause between queries. Twice the pause is
	// inserted between rounds.
	DefaultCooldown = 100 * time.Millisecond

	// DefaultQueryType is a default type for queries if no other is specified.
	DefaultQueryType = "A"

	// WarmupDomain is resolved once per provider before the measured queries to
	// prime connection state. The outcome of the warm-up query is discarded.
	WarmupDomain = "example.com"

	// DefaultRequestLogPath is a default path to the file, where the requests will be logged.
	DefaultRequestLogPath = "requests.log"

	// DefaultPlotFormat is a default format for plots.
	DefaultPlotFormat = "svg"

	// DefaultHistPrecision is a default precision for the latency distribution histogram.
	DefaultHistPrecision = 1
)

const (
	// HTTP1Proto represents HTTP/1.1 protocol for DoH requests.
	HTTP1Proto = "1.1"
	// HTTP2Proto represents HTTP/2 protocol for DoH requests.
	HTTP2Proto = "2"
	// HTTP3Proto represents HTTP/3 protocol for DoH requests.
	HTTP3Proto = "3"
)
