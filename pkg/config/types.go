// Package config provides configuration management for ccusage.
//
// Configuration is loaded from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Configuration file
// 4. Default values (lowest priority)
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Claude dirs: %v\n", cfg.ClaudeConfigDirs)
package config

import (
	"time"
)

// Config represents the complete application configuration.
//
// Invariants:
// - ClaudeConfigDirs must have at least one directory
// - Report.Mode must be a known cost mode
// - Report.Order must be asc or desc
// - Performance.WorkerPoolSize must be > 0
// - Pricing.HTTPTimeout must be > 0
// - Watch.Debounce must be > 0.
type Config struct {
	// Claude data directories to scan for usage logs
	ClaudeConfigDirs []string `yaml:"claude_config_dirs"`

	// Report settings
	Report ReportConfig `yaml:"report"`

	// Pricing settings
	Pricing PricingConfig `yaml:"pricing"`

	// Performance settings
	Performance PerformanceConfig `yaml:"performance"`

	// Watch settings
	Watch WatchConfig `yaml:"watch"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// ReportConfig contains default report behavior.
type ReportConfig struct {
	// Cost mode (auto, calculate, display)
	Mode string `yaml:"mode"`

	// Bucket sort order (asc, desc)
	Order string `yaml:"order"`

	// Show per-model breakdown rows
	Breakdown bool `yaml:"breakdown"`

	// Token limit for block quota projection; 0 disables it
	TokenLimit int64 `yaml:"token_limit"`
}

// PricingConfig contains price-sheet settings.
type PricingConfig struct {
	// Skip remote price lookups entirely
	Offline bool `yaml:"offline"`

	// Path to the price-sheet cache database
	CachePath string `yaml:"cache_path"`

	// Timeout for remote price-sheet fetches
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// PerformanceConfig contains performance tuning settings.
type PerformanceConfig struct {
	// Number of concurrent file loaders
	WorkerPoolSize int `yaml:"worker_pool_size"`
}

// WatchConfig contains live-mode settings.
type WatchConfig struct {
	// Quiet period before a file event triggers a reload
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level"`

	// Log output destination (stdout, stderr, file path)
	Output string `yaml:"output"`

	// Log format (text, json)
	Format string `yaml:"format"`
}

// Validate checks if the configuration satisfies all invariants.
//
// Returns an error if any invariant is violated:
//   - No Claude config directories specified
//   - Unknown cost mode or sort order
//   - Invalid worker pool size (must be > 0)
//   - Invalid timeouts (must be > 0)
//   - Invalid log level or format
//
// Thread-safety: This method is read-only and thread-safe.
func (c *Config) Validate() error {
	if len(c.ClaudeConfigDirs) == 0 {
		return ErrNoClaudeDirs
	}

	validModes := map[string]bool{
		"auto":      true,
		"calculate": true,
		"display":   true,
	}
	if !validModes[c.Report.Mode] {
		return ErrInvalidCostMode
	}

	validOrders := map[string]bool{
		"asc":  true,
		"desc": true,
	}
	if !validOrders[c.Report.Order] {
		return ErrInvalidSortOrder
	}

	if c.Report.TokenLimit < 0 {
		return ErrInvalidTokenLimit
	}

	if c.Pricing.HTTPTimeout <= 0 {
		return ErrInvalidHTTPTimeout
	}

	if c.Performance.WorkerPoolSize <= 0 {
		return ErrInvalidWorkerPoolSize
	}

	if c.Watch.Debounce <= 0 {
		return ErrInvalidDebounce
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validFormats[c.Logging.Format] {
		return ErrInvalidLogFormat
	}

	return nil
}

// Default returns a configuration with sensible default values.
func Default() *Config {
	return &Config{
		ClaudeConfigDirs: defaultClaudeDirs(),
		Report: ReportConfig{
			Mode:  "auto",
			Order: "asc",
		},
		Pricing: PricingConfig{
			CachePath:   defaultPricingCachePath(),
			HTTPTimeout: 10 * time.Second,
		},
		Performance: PerformanceConfig{
			WorkerPoolSize: 4,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
			Format: "text",
		},
	}
}
