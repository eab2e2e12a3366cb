package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBizMetricLine checks that the Prometheus output contains a metric matching
// the given name, partial label pattern, and value. The regex tolerates the extra
// OTel scope labels injected by the exporter.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")

	require.NoError(t, err)
	assert.NotNil(t, businessMetrics)
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()
	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)

	ctx := context.Background()
	noOpMetrics.RecordOperation(ctx, "apikey", "apikey_create", StatusSuccess)
	noOpMetrics.RecordDuration(ctx, "apikey", "apikey_create", 100*time.Millisecond, StatusSuccess)
	noOpMetrics.RecordAuthFailure(ctx, "mismatch")
}

func TestBusinessMetrics_Export(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "apikey", "apikey_create", StatusSuccess)
	bm.RecordOperation(ctx, "apikey", "apikey_create", StatusSuccess)
	bm.RecordOperation(ctx, "apikey", "apikey_create", StatusError)
	bm.RecordOperation(ctx, "application", "application_list", StatusSuccess)

	bm.RecordDuration(ctx, "apikey", "apikey_create", 50*time.Millisecond, StatusSuccess)
	bm.RecordDuration(ctx, "apikey", "apikey_create", 60*time.Millisecond, StatusSuccess)

	bm.RecordAuthFailure(ctx, "not_found")
	bm.RecordAuthFailure(ctx, "not_found")
	bm.RecordAuthFailure(ctx, "owner_missing")

	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	output := w.Body.String()

	assertBizMetricLine(t, output, `integration_test_operations_total`,
		`domain="apikey".*operation="apikey_create".*status="success"`, `2`)
	assertBizMetricLine(t, output, `integration_test_operations_total`,
		`domain="apikey".*operation="apikey_create".*status="error"`, `1`)
	assertBizMetricLine(t, output, `integration_test_operations_total`,
		`domain="application".*operation="application_list".*status="success"`, `1`)
	assertBizMetricLine(t, output, `integration_test_operation_duration_seconds_count`,
		`domain="apikey".*operation="apikey_create".*status="success"`, `2`)
	assertBizMetricLine(t, output, `integration_test_auth_failures_total`, `reason="not_found"`, `2`)
	assertBizMetricLine(t, output, `integration_test_auth_failures_total`, `reason="owner_missing"`, `1`)
}
