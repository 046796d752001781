// Package watcher provides real-time monitoring of usage log
// directories.
//
// It uses fsnotify to watch for new or growing .jsonl log files and
// debounces rapid write bursts so consumers see one event per file
// per quiet period.
//
// Example usage:
//
//	w, err := watcher.New(watcher.Config{
//	    DebounceInterval: 500 * time.Millisecond,
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	if err := w.Start(ctx, dirs); err != nil {
//	    log.Fatal(err)
//	}
//
//	for event := range w.Events() {
//	    fmt.Printf("log changed: %s\n", event.Path)
//	}
package watcher

import (
	"context"
	"time"
)

// Op describes a file operation type.
type Op uint32

// File operation types. Only operations that can change report
// output are surfaced.
const (
	OpCreate Op = 1 << iota // Log file created
	OpWrite                 // Log file appended
)

// String returns a human-readable operation name.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// Event represents a usage log change.
type Event struct {
	// Path is the absolute path to the log file that changed.
	Path string

	// Op is the operation that triggered the event.
	Op Op

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Watcher monitors usage log directories.
type Watcher interface {
	// Start begins watching the specified directories and their
	// subdirectories. New project subdirectories created while
	// watching are picked up automatically.
	//
	// Returns error if no directory can be watched. Start does not
	// block; events are delivered on Events until the context is
	// cancelled or the watcher is closed.
	Start(ctx context.Context, dirs []string) error

	// Events returns the channel for receiving debounced log events.
	// The channel is closed when the watcher closes.
	Events() <-chan Event

	// Errors returns the channel for non-fatal watcher errors.
	// The channel is closed when the watcher closes.
	Errors() <-chan error

	// Close shuts down the watcher and releases resources.
	Close() error
}

// Config contains watcher configuration.
type Config struct {
	// DebounceInterval is the quiet period before an event is
	// emitted. Multiple events for the same file within this
	// interval are coalesced. Default: 500ms.
	DebounceInterval time.Duration
}
