package instrumentation

import (
	"context"
	"testing"
	"time"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()

	provider, err := NewProvider(context.Background(), Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider
}

func TestMetrics_Record(t *testing.T) {
	ctx := context.Background()
	metrics := newTestProvider(t).Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Should not panic
	metrics.RecordProbe(ctx, "Environment Loading", StatusSuccess, time.Millisecond)
	metrics.RecordProbe(ctx, "Folder Operations", StatusCrashed, time.Second)
	metrics.RecordGoogleAPIOperation(ctx, ServiceDrive, OperationList, StatusSuccess, 200*time.Millisecond)
	metrics.RecordGoogleAPIOperation(ctx, ServiceDrive, OperationCreate, StatusError, 500*time.Millisecond)
	metrics.RecordOAuthTokenRefresh(ctx, OAuthResultSuccess)
	metrics.RecordOAuthTokenRefresh(ctx, OAuthResultFailure)
}

func TestMetrics_Uninitialized(t *testing.T) {
	ctx := context.Background()

	// Zero value and nil recorders must be safe to use
	for _, m := range []*Metrics{{}, nil} {
		m.RecordProbe(ctx, "Drive Service", StatusSuccess, time.Millisecond)
		m.RecordGoogleAPIOperation(ctx, ServiceDrive, OperationGet, StatusSuccess, time.Millisecond)
		m.RecordOAuthTokenRefresh(ctx, OAuthResultSuccess)
	}
}
