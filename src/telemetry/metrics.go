package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Label values of the kind label.
const (
	KindRumor  = "rumor"
	KindStatus = "status"
)

var (
	Registry = prometheus.NewRegistry()

	PacketsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "peerchat",
			Name:      "packets_received_total",
			Help:      "Total number of decoded datagrams, by kind.",
		},
		[]string{"kind"},
	)

	PacketsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "peerchat",
			Name:      "packets_sent_total",
			Help:      "Total number of datagrams written, by kind.",
		},
		[]string{"kind"},
	)

	DecodeErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "peerchat",
			Name:      "decode_errors_total",
			Help:      "Datagrams discarded because they could not be decoded.",
		},
	)

	RumorsAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "peerchat",
			Name:      "rumors_accepted_total",
			Help:      "Rumors appended to the message log.",
		},
	)

	RumorsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "peerchat",
			Name:      "rumors_dropped_total",
			Help:      "Rumors refused by the message log, by reason (stale, premature).",
		},
		[]string{"reason"},
	)

	Retransmissions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "peerchat",
			Name:      "rumor_retransmissions_total",
			Help:      "Rumors resent after the retransmission timer expired.",
		},
	)

	RumorsAbandoned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "peerchat",
			Name:      "rumors_abandoned_total",
			Help:      "Rumors given up after exhausting their retries.",
		},
	)

	StatusActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "peerchat",
			Name:      "status_actions_total",
			Help:      "Outcome of processing a status vector (push, pull, new_origin, in_sync).",
		},
		[]string{"action"},
	)

	KnownMessages = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "peerchat",
			Name:      "known_messages",
			Help:      "Number of messages in the local message log, all origins included.",
		},
	)

	startTime = time.Now()
	uptime    = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "peerchat",
			Name:      "uptime_seconds",
			Help:      "Process uptime in seconds.",
		},
		func() float64 { return time.Since(startTime).Seconds() },
	)
)

func init() {
	Registry.MustRegister(
		PacketsReceived,
		PacketsSent,
		DecodeErrors,
		RumorsAccepted,
		RumorsDropped,
		Retransmissions,
		RumorsAbandoned,
		StatusActions,
		KnownMessages,
		uptime,
	)
}

// MetricsHandler exposes the registry. Mount it with
// mux.Handle("/metrics", telemetry.MetricsHandler()).
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
