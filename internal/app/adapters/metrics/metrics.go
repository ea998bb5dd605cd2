package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectionStatus = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "irc_connection_status",
		Help: "Current connection status (0 connecting, 1 connected, 2 disconnected)",
	})

	LinesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irc_lines_total",
			Help: "Total number of wire lines per direction",
		},
		[]string{"direction"},
	)

	ParseErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "irc_parse_errors_total",
		Help: "Total number of lines that failed to parse or promote",
	})

	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irc_events_total",
			Help: "Total number of events dispatched per kind",
		},
		[]string{"kind"},
	)

	PongsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "irc_pongs_total",
		Help: "Total number of automatic PONG replies sent",
	})

	LineProcessingTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "irc_line_processing_seconds",
			Help:    "Time to process an inbound line, in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00005, 1.5, 25),
		},
	)
)
