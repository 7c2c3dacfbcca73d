package config

import (
	"fmt"

	"github.com/kbukum/linekit/env"
	"github.com/kbukum/linekit/observability"
	"github.com/kbukum/linekit/server"
	"github.com/kbukum/linekit/validation"
)

// ServiceName is the default service name and environment variable prefix.
const ServiceName = "linekit"

// Config is the linekit host configuration.
//
//	name: linekit
//	environment: production
//	pipelines: ./pipelines.yml
//	env:
//	  current_directory: /var/log
//	server:
//	  port: 8080
//	observability:
//	  tracing: true
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	// Pipelines is the path of the pipeline definitions file.
	Pipelines     string               `yaml:"pipelines" mapstructure:"pipelines"`
	Env           EnvConfig            `yaml:"env" mapstructure:"env"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// EnvConfig overrides parts of the command execution environment.
type EnvConfig struct {
	// CurrentDirectory is the directory relative file operands resolve
	// against. Empty means the process working directory.
	CurrentDirectory string `yaml:"current_directory" mapstructure:"current_directory"`
}

// ApplyDefaults fills every unset field.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Pipelines == "" {
		c.Pipelines = "pipelines.yml"
	}
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks the service fields and the struct tags of every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return validation.Validate(c)
}

// EnvContext returns the execution environment described by c.Env.
func (c *Config) EnvContext() *env.Context {
	if c.Env.CurrentDirectory != "" {
		return env.NewWithDir(c.Env.CurrentDirectory)
	}
	return env.New()
}

// Load loads, defaults and validates the linekit configuration.
func Load(opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := LoadConfig(ServiceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
