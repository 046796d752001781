package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrNoClaudeDirs is returned when no Claude data directories are specified.
	ErrNoClaudeDirs = errors.New("no Claude data directories specified")

	// ErrInvalidCostMode is returned when the cost mode is not recognized.
	ErrInvalidCostMode = errors.New("invalid cost mode: must be auto, calculate, or display")

	// ErrInvalidSortOrder is returned when the sort order is not recognized.
	ErrInvalidSortOrder = errors.New("invalid sort order: must be asc or desc")

	// ErrInvalidTokenLimit is returned when the token limit is negative.
	ErrInvalidTokenLimit = errors.New("invalid token limit: must be >= 0")

	// ErrInvalidHTTPTimeout is returned when the pricing HTTP timeout is <= 0.
	ErrInvalidHTTPTimeout = errors.New("invalid http timeout: must be > 0")

	// ErrInvalidWorkerPoolSize is returned when worker pool size is <= 0.
	ErrInvalidWorkerPoolSize = errors.New("invalid worker pool size: must be > 0")

	// ErrInvalidDebounce is returned when the watch debounce is <= 0.
	ErrInvalidDebounce = errors.New("invalid watch debounce: must be > 0")

	// ErrInvalidLogLevel is returned when log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn, or error")

	// ErrInvalidLogFormat is returned when log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")
)
