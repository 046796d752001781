package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := Default()
	cfg.ClaudeConfigDirs = []string{"/tmp/claude/projects"}
	return cfg
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "no dirs",
			mutate:  func(c *Config) { c.ClaudeConfigDirs = nil },
			wantErr: ErrNoClaudeDirs,
		},
		{
			name:    "bad cost mode",
			mutate:  func(c *Config) { c.Report.Mode = "guess" },
			wantErr: ErrInvalidCostMode,
		},
		{
			name:    "bad sort order",
			mutate:  func(c *Config) { c.Report.Order = "sideways" },
			wantErr: ErrInvalidSortOrder,
		},
		{
			name:    "negative token limit",
			mutate:  func(c *Config) { c.Report.TokenLimit = -1 },
			wantErr: ErrInvalidTokenLimit,
		},
		{
			name:    "zero http timeout",
			mutate:  func(c *Config) { c.Pricing.HTTPTimeout = 0 },
			wantErr: ErrInvalidHTTPTimeout,
		},
		{
			name:    "zero worker pool",
			mutate:  func(c *Config) { c.Performance.WorkerPoolSize = 0 },
			wantErr: ErrInvalidWorkerPoolSize,
		},
		{
			name:    "zero debounce",
			mutate:  func(c *Config) { c.Watch.Debounce = 0 },
			wantErr: ErrInvalidDebounce,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: ErrInvalidLogLevel,
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: ErrInvalidLogFormat,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
claude_config_dirs:
  - /data/claude/projects
report:
  mode: calculate
  order: desc
  token_limit: 500000
pricing:
  offline: true
  http_timeout: 5s
performance:
  worker_pool_size: 8
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}

	if len(cfg.ClaudeConfigDirs) != 1 || cfg.ClaudeConfigDirs[0] != "/data/claude/projects" {
		t.Errorf("ClaudeConfigDirs = %v", cfg.ClaudeConfigDirs)
	}
	if cfg.Report.Mode != "calculate" {
		t.Errorf("Report.Mode = %s, want calculate", cfg.Report.Mode)
	}
	if cfg.Report.Order != "desc" {
		t.Errorf("Report.Order = %s, want desc", cfg.Report.Order)
	}
	if cfg.Report.TokenLimit != 500000 {
		t.Errorf("Report.TokenLimit = %d, want 500000", cfg.Report.TokenLimit)
	}
	if !cfg.Pricing.Offline {
		t.Error("Pricing.Offline = false, want true")
	}
	if cfg.Pricing.HTTPTimeout != 5*time.Second {
		t.Errorf("Pricing.HTTPTimeout = %v, want 5s", cfg.Pricing.HTTPTimeout)
	}
	if cfg.Performance.WorkerPoolSize != 8 {
		t.Errorf("Performance.WorkerPoolSize = %d, want 8", cfg.Performance.WorkerPoolSize)
	}

	// Fields the file omits keep their defaults.
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 500ms", cfg.Watch.Debounce)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %s, want info", cfg.Logging.Level)
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadFromFile() error = %v, want %v", err, ErrConfigNotFound)
	}
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("report: [not a map"), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	_, err := LoadFromFile(path)
	if !errors.Is(err, ErrInvalidYAML) {
		t.Errorf("LoadFromFile() error = %v, want %v", err, ErrInvalidYAML)
	}
}

func TestLoadFromFileInvalidValues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("report:\n  mode: bogus\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	_, err := LoadFromFile(path)
	if !errors.Is(err, ErrInvalidCostMode) {
		t.Errorf("LoadFromFile() error = %v, want %v", err, ErrInvalidCostMode)
	}
}

func TestMergeConfigs(t *testing.T) {
	t.Parallel()

	l := &loader{}
	base := validConfig()
	override := &Config{
		Report:  ReportConfig{Mode: "display"},
		Pricing: PricingConfig{CachePath: "/tmp/prices.db"},
	}

	merged := l.mergeConfigs(base, override)

	if merged.Report.Mode != "display" {
		t.Errorf("Report.Mode = %s, want display", merged.Report.Mode)
	}
	if merged.Pricing.CachePath != "/tmp/prices.db" {
		t.Errorf("Pricing.CachePath = %s, want /tmp/prices.db", merged.Pricing.CachePath)
	}
	// Zero-valued override fields keep base values.
	if merged.Report.Order != base.Report.Order {
		t.Errorf("Report.Order = %s, want %s", merged.Report.Order, base.Report.Order)
	}
	if merged.Performance.WorkerPoolSize != base.Performance.WorkerPoolSize {
		t.Errorf("WorkerPoolSize = %d, want %d", merged.Performance.WorkerPoolSize, base.Performance.WorkerPoolSize)
	}
}

func TestApplyEnvVars(t *testing.T) {
	t.Setenv("CLAUDE_CONFIG_DIR", "/a/claude, /b/claude")
	t.Setenv("CCUSAGE_OFFLINE", "true")
	t.Setenv("CCUSAGE_LOG_LEVEL", "DEBUG")

	l := &loader{}
	cfg := l.applyEnvVars(validConfig())

	if len(cfg.ClaudeConfigDirs) != 2 || cfg.ClaudeConfigDirs[0] != "/a/claude" || cfg.ClaudeConfigDirs[1] != "/b/claude" {
		t.Errorf("ClaudeConfigDirs = %v", cfg.ClaudeConfigDirs)
	}
	if !cfg.Pricing.Offline {
		t.Error("Pricing.Offline = false, want true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
}
