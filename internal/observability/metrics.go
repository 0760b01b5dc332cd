package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/danmuck/grecp/internal/protocol/grecp"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "grecp"

var (
	registerOnce sync.Once

	codecMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "messages_total",
			Help:      "Decoded GRECP messages.",
		},
		[]string{"message_type", "tunnel"},
	)
	codecAttributes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "attributes_total",
			Help:      "Decoded GRECP attributes by attribute id.",
		},
		[]string{"attribute"},
	)
	codecDecodeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "decode_errors_total",
			Help:      "Packets that failed to decode, by error kind.",
		},
		[]string{"kind"},
	)
	codecSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "skipped_total",
			Help:      "Packets skipped before GRECP decode.",
		},
		[]string{"reason"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			codecMessages,
			codecAttributes,
			codecDecodeErrors,
			codecSkipped,
			httpRequests,
			httpDuration,
		)
	})
}

// RecordMessage counts one decoded message and each of its attributes.
func RecordMessage(m grecp.Message) {
	RegisterMetrics()
	codecMessages.WithLabelValues(messageLabel(m.Type), m.Tunnel.String()).Inc()
	for _, a := range m.Attributes {
		codecAttributes.WithLabelValues(strconv.Itoa(int(a.ID))).Inc()
	}
}

// RecordDecodeError counts a failed decode under its error kind label.
func RecordDecodeError(err error) {
	RegisterMetrics()
	codecDecodeErrors.WithLabelValues(grecp.ErrorLabel(err)).Inc()
}

func RecordSkipped(reason string) {
	RegisterMetrics()
	codecSkipped.WithLabelValues(reason).Inc()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

// WriteTextfile dumps the default gatherer in the node exporter textfile format.
func WriteTextfile(path string) error {
	RegisterMetrics()
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

// messageLabel keeps label cardinality bounded for unknown type nibbles.
func messageLabel(t grecp.MessageType) string {
	if !t.Known() {
		return "unknown"
	}
	return strconv.Itoa(int(t))
}
