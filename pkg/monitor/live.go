package monitor

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/0xmhha/ccusage/pkg/logger"
	"github.com/0xmhha/ccusage/pkg/watcher"
)

// clearSequence resets the terminal before a re-render.
const clearSequence = "\033[2J\033[H"

// liveMonitor implements the Monitor interface.
type liveMonitor struct {
	config  Config
	logger  logger.Logger
	watcher watcher.Watcher
	render  RenderFunc

	mu      sync.Mutex
	running bool
	closed  bool
}

// New creates a new live monitor.
func New(cfg Config, w watcher.Watcher, render RenderFunc, log logger.Logger) Monitor {
	if cfg.MinInterval == 0 {
		cfg.MinInterval = time.Second
	}

	return &liveMonitor{
		config:  cfg,
		logger:  log,
		watcher: w,
		render:  render,
	}
}

// Run implements Monitor.Run.
func (m *liveMonitor) Run(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrMonitorClosed
	}
	if m.running {
		m.mu.Unlock()
		return ErrMonitorRunning
	}
	m.running = true
	m.mu.Unlock()

	if err := m.watcher.Start(ctx, m.config.Dirs); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	if err := m.renderOnce(ctx); err != nil {
		return err
	}

	var lastRender time.Time
	dirty := false

	// Events arriving faster than MinInterval coalesce into one
	// deferred render via the dirty flag.
	ticker := time.NewTicker(m.config.MinInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("live monitor stopped", "reason", "context cancelled")
			return nil

		case event, ok := <-m.watcher.Events():
			if !ok {
				return nil
			}
			m.logger.Debug("log change detected", "path", event.Path, "op", event.Op.String())
			if time.Since(lastRender) < m.config.MinInterval {
				dirty = true
				continue
			}
			if err := m.renderOnce(ctx); err != nil {
				return err
			}
			lastRender = time.Now()
			dirty = false

		case err, ok := <-m.watcher.Errors():
			if !ok {
				return nil
			}
			m.logger.Error("watcher error", "error", err)

		case <-ticker.C:
			if !dirty {
				continue
			}
			if err := m.renderOnce(ctx); err != nil {
				return err
			}
			lastRender = time.Now()
			dirty = false
		}
	}
}

// renderOnce clears the screen and runs one render.
func (m *liveMonitor) renderOnce(ctx context.Context) error {
	if m.config.ClearScreen {
		fmt.Fprint(os.Stdout, clearSequence)
	}

	if err := m.render(ctx); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// Close implements Monitor.Close.
func (m *liveMonitor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	m.running = false

	return m.watcher.Close()
}
