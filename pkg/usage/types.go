// Package usage defines the shared domain types of the reporting
// pipeline: branded identifiers, the loaded entry shape handed from
// the loader to the aggregation stages, and the cost/sort enums.
//
// Identifiers are single-field wrapper structs rather than string
// aliases so that a session id can never be passed where a request id
// is expected.
package usage

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/0xmhha/ccusage/pkg/parser"
)

// ModelName identifies an API model (e.g. "claude-sonnet-4-20250514").
type ModelName struct {
	value string
}

// NewModelName creates a ModelName.
func NewModelName(name string) ModelName { return ModelName{value: name} }

// String returns the raw model identifier.
func (m ModelName) String() string { return m.value }

// MarshalText implements encoding.TextMarshaler so the wrapper
// serializes as a plain JSON string.
func (m ModelName) MarshalText() ([]byte, error) { return []byte(m.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ModelName) UnmarshalText(b []byte) error {
	m.value = string(b)
	return nil
}

// SessionID identifies a Claude Code session.
type SessionID struct {
	value string
}

// NewSessionID creates a SessionID.
func NewSessionID(id string) SessionID { return SessionID{value: id} }

// String returns the raw session identifier.
func (s SessionID) String() string { return s.value }

// IsZero reports whether the id is empty. Entries without a session
// id cannot be attributed to a session bucket.
func (s SessionID) IsZero() bool { return s.value == "" }

// MarshalText implements encoding.TextMarshaler.
func (s SessionID) MarshalText() ([]byte, error) { return []byte(s.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SessionID) UnmarshalText(b []byte) error {
	s.value = string(b)
	return nil
}

// RequestID identifies one API request.
type RequestID struct {
	value string
}

// NewRequestID creates a RequestID.
func NewRequestID(id string) RequestID { return RequestID{value: id} }

// String returns the raw request identifier.
func (r RequestID) String() string { return r.value }

// MessageID identifies one API response message.
type MessageID struct {
	value string
}

// NewMessageID creates a MessageID.
func NewMessageID(id string) MessageID { return MessageID{value: id} }

// String returns the raw message identifier.
func (m MessageID) String() string { return m.value }

// ProjectName is the project directory name a log file belongs to.
type ProjectName struct {
	value string
}

// UnknownProject is the sentinel for files whose path cannot be
// mapped to a project.
var UnknownProject = NewProjectName("unknown")

// NewProjectName creates a ProjectName.
func NewProjectName(name string) ProjectName { return ProjectName{value: name} }

// String returns the raw project name.
func (p ProjectName) String() string { return p.value }

// MarshalText implements encoding.TextMarshaler.
func (p ProjectName) MarshalText() ([]byte, error) { return []byte(p.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *ProjectName) UnmarshalText(b []byte) error {
	p.value = string(b)
	return nil
}

// LoadedEntry is a UsageRecord after timestamp parsing, cost
// resolution, and identity derivation. It is owned by the loading
// pipeline until handed to aggregation and never mutated afterwards.
type LoadedEntry struct {
	Timestamp time.Time
	Model     ModelName
	Tokens    parser.TokenCounts
	Cost      decimal.Decimal
	SessionID SessionID
	RequestID RequestID
	MessageID MessageID
	Project   ProjectName
	Version   string
}

// DedupKey derives the composite identity used to discard duplicate
// log entries. It is empty only when both ids are absent; such
// entries are never deduplicated.
func (e *LoadedEntry) DedupKey() string {
	msgID := e.MessageID.String()
	reqID := e.RequestID.String()
	if msgID == "" && reqID == "" {
		return ""
	}
	return msgID + ":" + reqID
}

// CostMode selects how an entry's cost is resolved.
type CostMode string

const (
	// CostModeAuto prefers the record's precomputed cost and
	// calculates from tokens when it is absent.
	CostModeAuto CostMode = "auto"

	// CostModeCalculate always calculates from token counts.
	CostModeCalculate CostMode = "calculate"

	// CostModeDisplay only uses precomputed costs, defaulting to zero.
	CostModeDisplay CostMode = "display"
)

// ParseCostMode converts a string flag value to a CostMode.
func ParseCostMode(s string) (CostMode, error) {
	switch CostMode(s) {
	case CostModeAuto, CostModeCalculate, CostModeDisplay:
		return CostMode(s), nil
	default:
		return "", ErrInvalidCostMode
	}
}

// SortOrder orders final bucket lists.
type SortOrder string

const (
	// SortAsc sorts ascending by bucket key.
	SortAsc SortOrder = "asc"

	// SortDesc sorts descending by bucket key.
	SortDesc SortOrder = "desc"
)

// ParseSortOrder converts a string flag value to a SortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case SortAsc, SortDesc:
		return SortOrder(s), nil
	default:
		return "", ErrInvalidSortOrder
	}
}
