package monitor

import "errors"

var (
	// ErrMonitorClosed is returned when running a closed monitor.
	ErrMonitorClosed = errors.New("monitor is closed")

	// ErrMonitorRunning is returned when Run is called twice.
	ErrMonitorRunning = errors.New("monitor is already running")
)
