package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// durationBuckets are in seconds; cart calls are expected well under 250ms
var durationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// HTTPMetrics records request count, latency and in-flight requests per
// route. Requests that passed CartOwner are labelled guest or user.
func HTTPMetrics(meter metric.Meter) (gin.HandlerFunc, error) {
	if meter == nil {
		return nil, telemetry.ErrMeterNil
	}

	requests, err := meter.Int64Counter("http_server_requests_total",
		metric.WithDescription("HTTP requests served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("http_server_request_duration_seconds",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, err
	}
	inFlight, err := meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("HTTP requests being served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		inFlight.Add(ctx, 1)
		defer inFlight.Add(ctx, -1)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := []attribute.KeyValue{
			attribute.String("method", c.Request.Method),
			attribute.String("route", route),
		}
		if _, ok := c.Get(OwnerKey); ok {
			attrs = append(attrs, telemetry.AttrOwnerKind.String(ownerKind(GetOwner(c))))
		}
		duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))

		attrs = append(attrs, attribute.String("status_code", strconv.Itoa(c.Writer.Status())))
		requests.Add(ctx, 1, metric.WithAttributes(attrs...))
	}, nil
}
