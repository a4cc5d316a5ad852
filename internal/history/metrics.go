package history

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var (
	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "calculator",
		Subsystem: "history",
		Name:      "queue_depth",
		Help:      "Persistence operations waiting for the history worker.",
	})

	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "calculator",
		Subsystem: "history",
		Name:      "operations_total",
		Help:      "Persistence operations run by the history worker.",
	}, []string{"operation", "status"})
)

func observeOperation(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	operationsTotal.WithLabelValues(op, status).Inc()
}

// Request-side instruments, no-ops until InitMetrics replaces them.
var (
	requestCounter otelmetric.Int64Counter = noop.Int64Counter{}
	errorCounter   otelmetric.Int64Counter = noop.Int64Counter{}
)

// InitMetrics registers the OTel instruments of the history endpoints.
func InitMetrics() error {
	meter := otel.Meter("history")

	var err error

	requestCounter, err = meter.Int64Counter("history.requests.total",
		otelmetric.WithDescription("Total number of history requests served"),
		otelmetric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("creating request counter: %w", err)
	}

	errorCounter, err = meter.Int64Counter("history.errors.total",
		otelmetric.WithDescription("Total number of failed history requests"),
		otelmetric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	return nil
}
