// Package observability provides OpenTelemetry tracing and metrics.
//
// The runner records a span per node call and the node.* / run.* metrics
// defined by Metrics. Exporters are OTLP over HTTP and are only installed
// when the telemetry component is enabled; otherwise the global no-op
// providers stay in place.
//
//	metrics, err := observability.NewMetrics(observability.Meter("ocvflow"))
//	metrics.RecordProcess(ctx, "blur", "processor.blur", observability.StatusOK, d)
package observability
