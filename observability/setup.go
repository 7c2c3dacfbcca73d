package observability

import (
	"context"
	"errors"
	"time"
)

// Config is the observability section of the service configuration.
type Config struct {
	Tracing    bool          `yaml:"tracing" mapstructure:"tracing"`
	Metrics    bool          `yaml:"metrics" mapstructure:"metrics"`
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults fills the exporter endpoint and intervals.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// Setup installs the providers enabled in cfg and returns the pipeline
// instruments (nil when metrics are disabled) and a shutdown function that
// flushes every installed provider.
func Setup(ctx context.Context, cfg Config, service, version, environment string) (*PipelineMetrics, func(context.Context) error, error) {
	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdowns {
			errs = append(errs, fn(ctx))
		}
		return errors.Join(errs...)
	}

	if cfg.Tracing {
		tp, err := InitTracer(ctx, &TracerConfig{
			ServiceName:    service,
			ServiceVersion: version,
			Environment:    environment,
			Endpoint:       cfg.Endpoint,
			Insecure:       cfg.Insecure,
			SampleRate:     cfg.SampleRate,
		})
		if err != nil {
			return nil, shutdown, err
		}
		shutdowns = append(shutdowns, tp.Shutdown)
	}

	if !cfg.Metrics {
		return nil, shutdown, nil
	}
	mp, err := InitMeter(ctx, &MeterConfig{
		ServiceName:    service,
		ServiceVersion: version,
		Environment:    environment,
		Endpoint:       cfg.Endpoint,
		Insecure:       cfg.Insecure,
		Interval:       cfg.Interval,
	})
	if err != nil {
		return nil, shutdown, err
	}
	shutdowns = append(shutdowns, mp.Shutdown)

	metrics, err := NewPipelineMetrics(Meter(service))
	if err != nil {
		return nil, shutdown, err
	}
	return metrics, shutdown, nil
}
