// Package parser defines the raw JSONL record types emitted by Claude
// Code and provides line-level parsing for them.
//
// One log line corresponds to one API call. Logs are externally
// generated and may be truncated or partially written, so malformed
// lines are reported as typed errors that callers are expected to
// skip rather than surface.
package parser

// UsageRecord is a single raw log line. The timestamp is kept as the
// original RFC-3339 string; parsing it is the loader's responsibility
// because a bad timestamp has different failure semantics than bad
// JSON (see pkg/loader).
//
// A record is immutable once parsed.
type UsageRecord struct {
	Timestamp         string   `json:"timestamp"`
	SessionID         string   `json:"sessionId,omitempty"`
	Version           string   `json:"version,omitempty"`
	CostUSD           *float64 `json:"costUSD,omitempty"`
	RequestID         string   `json:"requestId,omitempty"`
	IsAPIErrorMessage bool     `json:"isApiErrorMessage,omitempty"`
	Message           Message  `json:"message"`
}

// Message carries the API response details, including token usage.
// Usage is a pointer so that its absence (a structurally invalid
// record) is distinguishable from an all-zero usage.
type Message struct {
	ID    string       `json:"id,omitempty"`
	Model string       `json:"model,omitempty"`
	Usage *TokenCounts `json:"usage"`
}

// TokenCounts holds the four token counters of one API call, using the
// raw log's snake_case field names. Missing fields default to zero.
//
// Invariant: all counts are >= 0.
type TokenCounts struct {
	InputTokens              int64 `json:"input_tokens"`
	OutputTokens             int64 `json:"output_tokens"`
	CacheCreationInputTokens int64 `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int64 `json:"cache_read_input_tokens"`
}

// Total returns the sum of all four token counters.
func (tc TokenCounts) Total() int64 {
	return tc.InputTokens + tc.OutputTokens +
		tc.CacheCreationInputTokens + tc.CacheReadInputTokens
}

// Add accumulates other into tc. Addition is commutative and
// associative, so running sums do not depend on entry order.
func (tc *TokenCounts) Add(other TokenCounts) {
	tc.InputTokens += other.InputTokens
	tc.OutputTokens += other.OutputTokens
	tc.CacheCreationInputTokens += other.CacheCreationInputTokens
	tc.CacheReadInputTokens += other.CacheReadInputTokens
}

// Validate checks that no counter is negative.
func (tc TokenCounts) Validate() error {
	if tc.InputTokens < 0 || tc.OutputTokens < 0 ||
		tc.CacheCreationInputTokens < 0 || tc.CacheReadInputTokens < 0 {
		return ErrNegativeTokenCount
	}
	return nil
}

// Validate checks the structural invariants of a raw record: a
// timestamp string must be present and the message must carry a usage
// object with non-negative counters.
func (r *UsageRecord) Validate() error {
	if r.Timestamp == "" {
		return ErrMissingTimestamp
	}
	if r.Message.Usage == nil {
		return ErrMissingUsage
	}
	return r.Message.Usage.Validate()
}
