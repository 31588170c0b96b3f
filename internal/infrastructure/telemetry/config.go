// Package telemetry provides OpenTelemetry integration for tracing, metrics,
// logs and continuous profiling.
package telemetry

import (
	"fmt"
	"time"

	"github.com/marketplace/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

const (
	serviceVersion         = "1.0.0"
	defaultMetricsInterval = 30 * time.Second
	providerShutdownLimit  = 10 * time.Second
)

// Config selects which OTLP signals are exported. All signals share one
// collector endpoint and service identity.
type Config struct {
	ServiceName       string
	CollectorEndpoint string
	Insecure          bool

	Traces        bool
	SamplingRatio float64

	Metrics         bool
	MetricsInterval time.Duration

	Logs bool
}

// FromConfig maps the application settings onto a telemetry Config. The
// Enabled switch governs traces; metrics and logs have their own switches.
func FromConfig(cfg config.TelemetryConfig) Config {
	return Config{
		ServiceName:       cfg.ServiceName,
		CollectorEndpoint: cfg.CollectorEndpoint,
		Insecure:          cfg.Insecure,
		Traces:            cfg.Enabled,
		SamplingRatio:     cfg.SamplingRatio,
		Metrics:           cfg.MetricsEnabled,
		Logs:              cfg.LogsEnabled,
	}
}

func (c Config) metricsInterval() time.Duration {
	if c.MetricsInterval > 0 {
		return c.MetricsInterval
	}
	return defaultMetricsInterval
}

func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
