// Package monitor drives the live report mode.
//
// It re-renders a full report whenever the usage logs change,
// clearing the terminal between renders. Renders are sequential; a
// change arriving mid-render queues exactly one follow-up render.
package monitor

import (
	"context"
	"time"
)

// RenderFunc produces one complete report render. It is called
// sequentially, never concurrently.
type RenderFunc func(ctx context.Context) error

// Config holds the configuration for the live monitor.
type Config struct {
	// Dirs are the usage log directories to watch.
	Dirs []string

	// ClearScreen enables clearing the terminal between renders.
	ClearScreen bool

	// MinInterval is the shortest time between two renders,
	// protecting against event storms the watcher's debounce
	// doesn't catch. Default: 1s.
	MinInterval time.Duration
}

// Monitor re-renders a report on usage log changes.
type Monitor interface {
	// Run renders once, then blocks re-rendering on every log
	// change until the context is cancelled.
	Run(ctx context.Context) error

	// Close releases the underlying watcher.
	Close() error
}
