package parser

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// MaxLineLength is the maximum accepted line length (1MB).
	// Claude Code can emit very long lines for large completions.
	MaxLineLength = 1024 * 1024

	// InitialBufferSize is the starting scanner buffer size (64KB).
	InitialBufferSize = 64 * 1024
)

// ParseLine parses a single JSONL line into a UsageRecord.
//
// Returns ErrEmptyLine for blank lines, ErrMalformedJSON for lines
// that are not valid JSON, and a validation error for records that
// lack required structure. All of these are data-quality errors: the
// loader drops the line and continues.
func ParseLine(line string) (*UsageRecord, error) {
	if strings.TrimSpace(line) == "" {
		return nil, ErrEmptyLine
	}

	var record UsageRecord
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return &record, nil
}
