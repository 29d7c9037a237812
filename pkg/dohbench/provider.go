package dohbench

import (
	"fmt"
	"net/url"
	"strings"
)

// QueryFormat determines how a query URL is constructed for a provider.
type QueryFormat string

const (
	// GoogleJSON is the Google JSON API format (endpoint?name=<domain>&type=<type>).
	GoogleJSON QueryFormat = "google-json"
	// DNSJSON is the application/dns-json format served by Cloudflare and most
	// other public resolvers, it adds the ct=application/dns-json parameter.
	DNSJSON QueryFormat = "dns-json"
	// Wire is the RFC 8484 wire format. Wire format queries are not supported,
	// every query against a Wire provider fails without a network call.
	Wire QueryFormat = "wire"
)

// Provider is a single DNS resolution service under test.
type Provider struct {
	Name     string
	Endpoint string
	Format   QueryFormat
}

// ParseProviders parses repeated provider flag values, see ParseProvider.
func ParseProviders(specs []string) ([]Provider, error) {
	providers := make([]Provider, 0, len(specs))
	for _, spec := range specs {
		provider, err := ParseProvider(spec)
		if err != nil {
			return nil, err
		}
		providers = append(providers, provider)
	}
	return providers, nil
}

// ParseProvider parses a provider in the 'name=endpoint[,format]' format, where format
// is one of 'google-json', 'dns-json' or 'wire'. When the format is omitted, 'dns-json'
// is assumed.
func ParseProvider(spec string) (Provider, error) {
	name, rest, found := strings.Cut(spec, "=")
	if !found || name == "" || rest == "" {
		return Provider{}, fmt.Errorf("invalid provider '%s', expected format name=endpoint[,format]", spec)
	}

	endpoint := rest
	format := DNSJSON
	if i := strings.LastIndex(rest, ","); i != -1 {
		parsed, err := ParseQueryFormat(rest[i+1:])
		if err != nil {
			return Provider{}, err
		}
		endpoint = rest[:i]
		format = parsed
	}

	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Provider{}, fmt.Errorf("invalid provider endpoint '%s'", endpoint)
	}

	return Provider{Name: name, Endpoint: endpoint, Format: format}, nil
}

// ParseQueryFormat parses a string representation of the QueryFormat enum.
func ParseQueryFormat(s string) (QueryFormat, error) {
	switch format := QueryFormat(strings.ToLower(s)); format {
	case GoogleJSON, DNSJSON, Wire:
		return format, nil
	default:
		return "", fmt.Errorf("unknown query format '%s'", s)
	}
}

// DefaultProviders returns the built-in set of public DoH resolvers benchmarked
// when no providers are configured.
func DefaultProviders() []Provider {
	return []Provider{
		{Name: "Google", Endpoint: "https://dns.google/resolve", Format: GoogleJSON},
		{Name: "Cloudflare", Endpoint: "https://cloudflare-dns.com/dns-query", Format: DNSJSON},
		{Name: "Quad9", Endpoint: "https://dns.quad9.net/dns-query", Format: DNSJSON},
		{Name: "OpenDNS", Endpoint: "https://doh.opendns.com/dns-query", Format: DNSJSON},
		{Name: "AdGuard", Endpoint: "https://dns.adguard-dns.com/resolve", Format: GoogleJSON},
		{Name: "Mullvad", Endpoint: "https://dns.mullvad.net/dns-query", Format: DNSJSON},
		{Name: "DNS0", Endpoint: "https://zero.dns0.eu", Format: DNSJSON},
		{Name: "NextDNS", Endpoint: "https://dns.nextdns.io", Format: DNSJSON},
		{Name: "ControlD", Endpoint: "https://freedns.controld.com/p0", Format: DNSJSON},
	}
}

// DefaultDomains returns the built-in list of domains resolved through each provider
// when no domains are configured.
func DefaultDomains() []string {
	return []string{
		"google.com",
		"gitlab.com",
		"cloudflare.com",
		"microsoft.com",
		"github.com",
		"netflix.com",
	}
}
