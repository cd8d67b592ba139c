package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Recorder provides OpenTelemetry metrics for the relay, exported in
// Prometheus format. It owns a private registry so constructing more
// than one Recorder (e.g. in tests) never collides.
type Recorder struct {
	meterProvider *sdkmetric.MeterProvider
	handler       http.Handler

	signalsReceived  metric.Int64Counter
	deliveries       metric.Int64Counter
	deliveryDuration metric.Float64Histogram
}

// NewRecorder creates a Recorder with all instruments registered.
func NewRecorder() (*Recorder, error) {
	registry := prom.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	meter := meterProvider.Meter(
		"webhook-relay",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	r := &Recorder{
		meterProvider: meterProvider,
		handler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	r.signalsReceived, err = meter.Int64Counter(
		"relay.signals.received",
		metric.WithDescription("Number of inbound webhook signals received"),
		metric.WithUnit("{signals}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating signals counter: %w", err)
	}

	r.deliveries, err = meter.Int64Counter(
		"relay.deliveries",
		metric.WithDescription("Number of downstream delivery attempts by outcome"),
		metric.WithUnit("{deliveries}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating deliveries counter: %w", err)
	}

	r.deliveryDuration, err = meter.Float64Histogram(
		"relay.delivery.duration",
		metric.WithDescription("Downstream delivery latency"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating delivery duration histogram: %w", err)
	}

	return r, nil
}

// SignalReceived records one inbound webhook receipt.
func (r *Recorder) SignalReceived(ctx context.Context) {
	r.signalsReceived.Add(ctx, 1)
}

// DeliveryCompleted records one downstream delivery attempt.
func (r *Recorder) DeliveryCompleted(ctx context.Context, success bool, elapsed time.Duration) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	r.deliveries.Add(ctx, 1, attrs)
	r.deliveryDuration.Record(ctx, float64(elapsed.Milliseconds()), attrs)
}

// Handler returns the Prometheus exposition endpoint.
func (r *Recorder) Handler() http.Handler {
	return r.handler
}

// Shutdown flushes and stops the meter provider.
func (r *Recorder) Shutdown(ctx context.Context) error {
	return r.meterProvider.Shutdown(ctx)
}
