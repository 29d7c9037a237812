package dohbench

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dohRequestsDurationMetrics = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dohrace",
		Name:      "doh_requests_duration_seconds",
		Help:      "DoH request duration in seconds",
	}, []string{"provider"})

	dohResponseTotalMetrics = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dohrace",
		Name:      "doh_response_total",
		Help:      "The total number of successful DoH responses",
	}, []string{"provider"})

	errorsTotalMetrics = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dohrace",
		Name:      "errors_total",
		Help:      "The total number of failed DoH requests",
	}, []string{"provider"})
)
