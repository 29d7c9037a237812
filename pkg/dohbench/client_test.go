package dohbench

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONClient_Lookup(t *testing.T) {
	tests := []struct {
		name        string
		format      QueryFormat
		handler     http.HandlerFunc
		wantErr     bool
		wantCTParam bool
	}{
		{
			name:   "google JSON API resolution",
			format: GoogleJSON,
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Status":0,"Answer":[{"name":"example.org.","type":1,"TTL":300,"data":"93.184.216.34"}]}`))
			},
		},
		{
			name:        "dns-json resolution",
			format:      DNSJSON,
			wantCTParam: true,
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Status":0}`))
			},
		},
		{
			name:   "non-2xx status",
			format: GoogleJSON,
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantErr: true,
		},
		{
			name:   "body is not valid JSON",
			format: GoogleJSON,
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>not json</html>"))
			},
			wantErr: true,
		},
		{
			name:   "error field in response",
			format: GoogleJSON,
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"error":"bad request"}`))
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery map[string][]string
			var gotAccept, gotContentType string
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.Query()
				gotAccept = r.Header.Get("Accept")
				gotContentType = r.Header.Get("Content-Type")
				tt.handler(w, r)
			}))
			defer ts.Close()

			client := NewJSONClient(HTTP1Proto, time.Second, false)
			provider := Provider{Name: "test", Endpoint: ts.URL, Format: tt.format}

			elapsed, err := client.Lookup(context.Background(), provider, "example.org", "A")

			assert.Equal(t, []string{"example.org"}, gotQuery["name"], "name query parameter")
			assert.Equal(t, []string{"A"}, gotQuery["type"], "type query parameter")
			assert.Equal(t, "application/dns-json", gotAccept, "Accept header")
			assert.Equal(t, "application/dns-json", gotContentType, "Content-Type header")
			if tt.wantCTParam {
				assert.Equal(t, []string{"application/dns-json"}, gotQuery["ct"], "ct query parameter")
			} else {
				assert.NotContains(t, gotQuery, "ct", "ct query parameter")
			}

			if tt.wantErr {
				assert.Error(t, err, "Lookup() error")
				return
			}
			require.NoError(t, err, "Lookup() error")
			assert.Greater(t, elapsed, time.Duration(0), "Lookup() elapsed time")
		})
	}
}

func TestJSONClient_Lookup_wireFormat(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer ts.Close()

	client := NewJSONClient(HTTP1Proto, time.Second, false)
	provider := Provider{Name: "wire", Endpoint: ts.URL, Format: Wire}

	_, err := client.Lookup(context.Background(), provider, "example.org", "A")

	assert.ErrorIs(t, err, ErrUnsupportedFormat, "Lookup() error")
	assert.Zero(t, requests, "wire format providers must fail without a network call")
}

func TestJSONClient_Lookup_timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"Status":0}`))
	}))
	defer ts.Close()

	client := NewJSONClient(HTTP1Proto, 50*time.Millisecond, false)
	provider := Provider{Name: "slow", Endpoint: ts.URL, Format: GoogleJSON}

	_, err := client.Lookup(context.Background(), provider, "example.org", "A")

	assert.Error(t, err, "Lookup() timeout error")
}

func Test_queryURL(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		want     string
	}{
		{
			name:     "google JSON format",
			provider: Provider{Name: "Google", Endpoint: "https://dns.google/resolve", Format: GoogleJSON},
			want:     "https://dns.google/resolve?name=example.org&type=A",
		},
		{
			name:     "dns-json format",
			provider: Provider{Name: "Cloudflare", Endpoint: "https://cloudflare-dns.com/dns-query", Format: DNSJSON},
			want:     "https://cloudflare-dns.com/dns-query?ct=application%2Fdns-json&name=example.org&type=A",
		},
		{
			name:     "google host overrides the declared format",
			provider: Provider{Name: "Google", Endpoint: "https://dns.google/resolve", Format: DNSJSON},
			want:     "https://dns.google/resolve?name=example.org&type=A",
		},
		{
			name:     "google IP overrides the declared format",
			provider: Provider{Name: "Google", Endpoint: "https://8.8.8.8/resolve", Format: DNSJSON},
			want:     "https://8.8.8.8/resolve?name=example.org&type=A",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := queryURL(tt.provider, "example.org", "A")

			require.NoError(t, err, "queryURL() error")
			assert.Equal(t, tt.want, got, "queryURL()")
		})
	}
}
