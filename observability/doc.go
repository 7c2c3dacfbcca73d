// Package observability provides OpenTelemetry tracing and metrics for
// pipeline runs and the HTTP host.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, &cfg)
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanPipelineRun)
//	defer span.End()
//
// Metrics:
//
//	metrics, err := observability.NewPipelineMetrics(observability.Meter("linekit"))
//	metrics.RecordRun(ctx, "top-errors", "ok", linesIn, linesOut, elapsed)
//
// Setup wires both from the service configuration.
package observability
