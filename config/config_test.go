package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/linekit/errors"
)

type mockFS struct {
	files  map[string]bool
	loaded []string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	var c ServiceConfig
	c.ApplyDefaults()

	if c.Name != ServiceName {
		t.Errorf("expected name %q, got %q", ServiceName, c.Name)
	}
	if c.Environment != "development" {
		t.Errorf("expected environment 'development', got %q", c.Environment)
	}
	if c.Logging.Level != "debug" {
		t.Errorf("development should default to debug logging, got %q", c.Logging.Level)
	}

	prod := ServiceConfig{Environment: "production"}
	prod.ApplyDefaults()
	if prod.Logging.Level != "info" {
		t.Errorf("expected info logging in production, got %q", prod.Logging.Level)
	}
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    ServiceConfig
		errMsg string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "staging"}, "name: is required"},
		{"bad environment", ServiceConfig{Name: "svc", Environment: "qa"}, "environment: must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %v", tc.errMsg, err)
			}
		})
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	var c Config
	c.ApplyDefaults()

	if c.Pipelines != "pipelines.yml" {
		t.Errorf("pipelines = %q", c.Pipelines)
	}
	if c.Server.Addr() != "127.0.0.1:8080" {
		t.Errorf("addr = %q", c.Server.Addr())
	}
	if c.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown timeout = %v", c.Server.ShutdownTimeout)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfigValidate_Tags(t *testing.T) {
	var c Config
	c.ApplyDefaults()
	c.Server.Port = 70000

	err := c.Validate()
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "server.port") {
		t.Errorf("error should name server.port: %v", err)
	}
}

func TestConfigEnvContext(t *testing.T) {
	dir := t.TempDir()
	c := Config{Env: EnvConfig{CurrentDirectory: dir}}
	if got := c.EnvContext().CurrentDirectory(); got != dir {
		t.Errorf("current directory = %q, want %q", got, dir)
	}
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "linekit.yml", `
name: linekit-test
environment: staging
pipelines: /etc/linekit/pipelines.yml
env:
  current_directory: /var/log
server:
  port: 9000
  read_timeout: 5s
observability:
  tracing: false
`)
	t.Setenv("LINEKIT_SERVER_PORT", "9100")
	t.Setenv("LINEKIT_LOGGING_LEVEL", "warn")
	t.Setenv("OTHER_SERVER_PORT", "1")

	cfg, err := Load(WithConfigFile(path), WithEnvFile(filepath.Join(dir, "missing.env")))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Name != "linekit-test" || cfg.Environment != "staging" {
		t.Errorf("service = %+v", cfg.ServiceConfig)
	}
	if cfg.Pipelines != "/etc/linekit/pipelines.yml" {
		t.Errorf("pipelines = %q", cfg.Pipelines)
	}
	if cfg.Env.CurrentDirectory != "/var/log" {
		t.Errorf("current directory = %q", cfg.Env.CurrentDirectory)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("env should override file port, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("read timeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("logging level = %q", cfg.Logging.Level)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "LINEKIT_PIPELINES=from-dotenv.yml\n")
	t.Setenv("LINEKIT_PIPELINES", "")
	os.Unsetenv("LINEKIT_PIPELINES")

	cfg, err := Load(WithConfigFile(filepath.Join(dir, "none.yml")), WithEnvFile(envPath))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pipelines != "from-dotenv.yml" {
		t.Errorf("pipelines = %q", cfg.Pipelines)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yml", "server: [unterminated\n")
	if _, err := Load(WithConfigFile(path)); err == nil {
		t.Fatal("expected error for unparseable config")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "c.yml", "environment: qa\n")
	if _, err := Load(WithConfigFile(path), WithEnvFile(filepath.Join(dir, "none"))); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./config/linekit.yml": true,
		"./config.yml":         true,
		"./.env":               true,
	}}
	files := (&Resolver{FileSystem: fs}).ResolveFiles("linekit", LoaderConfig{})
	if files.ConfigFile != "./config/linekit.yml" {
		t.Errorf("config file = %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("env file = %q", files.EnvFile)
	}

	explicit := (&Resolver{FileSystem: fs}).ResolveFiles("linekit", LoaderConfig{ConfigFile: "x.yml"})
	if explicit.ConfigFile != "x.yml" {
		t.Errorf("explicit path not kept: %q", explicit.ConfigFile)
	}
}

func TestLoadConfig_UsesFileSystem(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./.env.linekit": true}}
	var cfg Config
	if err := LoadConfig(ServiceName, &cfg, WithFileSystem(fs)); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(fs.loaded, []string{"./.env.linekit"}) {
		t.Errorf("loaded = %v", fs.loaded)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("SERVER_READ_TIMEOUT")
	for _, want := range []string{"server_read_timeout", "server.read.timeout", "server.read_timeout", "server_read.timeout"} {
		if !slices.Contains(got, want) {
			t.Errorf("variants %v missing %q", got, want)
		}
	}
	if got := envKeyVariants("PIPELINES"); !slices.Equal(got, []string{"pipelines"}) {
		t.Errorf("single word variants = %v", got)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	WithFileSystem(fs)(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	if lc.FileSystem != fs || lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" {
		t.Errorf("options not applied: %+v", lc)
	}
}
