package dohbench

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/quic-go/quic-go/http3"
	"golang.org/x/net/http2"
)

// ErrUnsupportedFormat is returned for every query against a provider declaring
// the RFC 8484 wire format.
var ErrUnsupportedFormat = errors.New("wire format queries are not supported")

// googleHosts are DoH hosts that only understand the Google JSON API. Query URLs
// for them are always built with the GoogleJSON rules, whatever format the
// provider declares.
var googleHosts = map[string]struct{}{
	"dns.google":     {},
	"dns.google.com": {},
	"8.8.8.8":        {},
	"8.8.4.4":        {},
}

// DohClient performs a single timed DoH lookup. Implementations return every
// failure mode (transport faults, bad status, malformed body, timeout) as an
// error value, an error never terminates the benchmark.
type DohClient interface {
	Lookup(ctx context.Context, provider Provider, domain, queryType string) (time.Duration, error)
}

// JSONClient is a DohClient speaking the JSON DoH API via HTTP GET requests.
type JSONClient struct {
	client *http.Client
}

// NewJSONClient creates a JSONClient using the desired HTTP protocol version
// (HTTP1Proto, HTTP2Proto or HTTP3Proto). Every request is bounded by the
// given timeout.
func NewJSONClient(protocol string, timeout time.Duration, insecure bool) *JSONClient {
	var tr http.RoundTripper
	switch protocol {
	case HTTP3Proto:
		// nolint:gosec
		tr = &http3.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: insecure}}
	case HTTP2Proto:
		// nolint:gosec
		tr = &http2.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: insecure}}
	case HTTP1Proto:
		fallthrough
	default:
		// nolint:gosec
		tr = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: insecure}}
	}
	return &JSONClient{client: &http.Client{Transport: tr, Timeout: timeout}}
}

// Lookup resolves the domain through the provider and measures the elapsed
// wall-clock time from just before the request is issued to just after the
// response body is parsed as JSON.
func (c *JSONClient) Lookup(ctx context.Context, provider Provider, domain, queryType string) (time.Duration, error) {
	if provider.Format == Wire {
		return 0, ErrUnsupportedFormat
	}

	addr, err := queryURL(provider, domain, queryType)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/dns-json")
	req.Header.Set("Content-Type", "application/dns-json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("unexpected HTTP status '%s'", resp.Status)
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("malformed JSON response: %w", err)
	}
	elapsed := time.Since(start)

	if reason, ok := body["error"]; ok {
		return 0, fmt.Errorf("resolver error response: %s", reason)
	}
	return elapsed, nil
}

func queryURL(provider Provider, domain, queryType string) (string, error) {
	u, err := url.Parse(provider.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint '%s': %w", provider.Endpoint, err)
	}

	format := provider.Format
	if _, ok := googleHosts[u.Hostname()]; ok {
		format = GoogleJSON
	}

	q := u.Query()
	q.Set("name", domain)
	q.Set("type", queryType)
	if format == DNSJSON {
		q.Set("ct", "application/dns-json")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
