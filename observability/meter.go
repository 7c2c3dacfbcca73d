package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/linekit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns defaults for a local collector.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a global meter provider exporting over OTLP/HTTP.
// The caller shuts the provider down on exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Debug("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// PipelineMetrics holds the instruments recorded for each pipeline run.
type PipelineMetrics struct {
	runs        metric.Int64Counter
	linesIn     metric.Int64Counter
	linesOut    metric.Int64Counter
	stageErrors metric.Int64Counter
	duration    metric.Float64Histogram
}

// NewPipelineMetrics creates the pipeline instruments on meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	runs, err := meter.Int64Counter("pipeline.runs",
		metric.WithDescription("Pipeline runs by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.runs counter: %w", err)
	}

	linesIn, err := meter.Int64Counter("pipeline.lines_in",
		metric.WithDescription("Lines read from pipeline inputs"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.lines_in counter: %w", err)
	}

	linesOut, err := meter.Int64Counter("pipeline.lines_out",
		metric.WithDescription("Lines written to pipeline outputs"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.lines_out counter: %w", err)
	}

	stageErrors, err := meter.Int64Counter("pipeline.stage_errors",
		metric.WithDescription("Failed runs by the command that failed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.stage_errors counter: %w", err)
	}

	duration, err := meter.Float64Histogram("pipeline.duration",
		metric.WithDescription("Duration of pipeline runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.duration histogram: %w", err)
	}

	return &PipelineMetrics{
		runs:        runs,
		linesIn:     linesIn,
		linesOut:    linesOut,
		stageErrors: stageErrors,
		duration:    duration,
	}, nil
}

// RecordRun records a finished run. status is "ok" or "error".
func (m *PipelineMetrics) RecordRun(ctx context.Context, pipeline, status string, linesIn, linesOut int, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("pipeline", pipeline))
	m.runs.Add(ctx, 1, metric.WithAttributes(
		attribute.String("pipeline", pipeline),
		attribute.String("status", status),
	))
	m.linesIn.Add(ctx, int64(linesIn), attrs)
	m.linesOut.Add(ctx, int64(linesOut), attrs)
	m.duration.Record(ctx, d.Seconds(), attrs)
}

// RecordStageError records a failure raised by command at stage index.
func (m *PipelineMetrics) RecordStageError(ctx context.Context, command string, stage int) {
	m.stageErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("command", command),
		attribute.Int("stage", stage),
	))
}
