package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestHTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	mw, err := HTTPMetrics(provider.Meter("test"))
	require.NoError(t, err)

	engine := gin.New()
	engine.Use(mw)
	api := engine.Group("/api/v1", CartOwner(OwnerConfig{JWTService: newTestJWT(), TokenCookie: "cart_token"}))
	api.GET("/cart", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/v1/cart", "/api/v1/cart", "/nowhere"} {
		engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	var active int64 = -1
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				switch m.Name {
				case "http_server_requests_total":
					counts[labels(dp.Attributes)] += dp.Value
				case "http_server_active_requests":
					active = dp.Value
				}
			}
		}
	}

	assert.Equal(t, int64(2), counts["method=GET,owner_kind=guest,route=/api/v1/cart,status_code=200"])
	assert.Equal(t, int64(1), counts["method=GET,route=unmatched,status_code=404"])
	assert.Zero(t, active)
}

func TestHTTPMetrics_NilMeter(t *testing.T) {
	_, err := HTTPMetrics(nil)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func labels(set attribute.Set) string {
	parts := make([]string, 0, set.Len())
	for _, kv := range set.ToSlice() {
		parts = append(parts, string(kv.Key)+"="+kv.Value.Emit())
	}
	return strings.Join(parts, ",")
}
