// Package instrumentation provides OpenTelemetry instrumentation for drivecheck runs.
//
// A diagnostic run is a short-lived batch job, so metrics are collected into a
// private Prometheus registry and optionally pushed to a Prometheus Pushgateway
// when the run finishes, instead of being served on a scrape endpoint.
//
// # Metrics
//
// Probe Metrics:
//   - drivecheck_probe_runs_total: Counter of probe executions by probe name and status
//   - drivecheck_probe_duration_seconds: Histogram of probe durations
//
// Google API Metrics:
//   - google_api_operations_total: Counter of Google API operations by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of Google API operation durations
//
// OAuth Metrics:
//   - oauth_token_refresh_total: Counter of token refresh attempts by result
//
// # Tracing
//
// Spans are created for every probe (probe.<name>) and every Google API call
// (google.<service>.<operation>).
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 1.0)
//   - OTEL_SERVICE_NAME: Service name (default: drivecheck)
//   - PUSHGATEWAY_URL: Pushgateway to receive the run's metrics (default: none)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordProbe(ctx, "Token Refresh", instrumentation.StatusSuccess, time.Since(start))
//
//	// Deliver metrics before exiting
//	_ = provider.Push(ctx)
package instrumentation
