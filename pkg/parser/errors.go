package parser

import "errors"

// Common errors returned by the parser package.
var (
	// ErrEmptyLine is returned for blank lines.
	ErrEmptyLine = errors.New("empty line")

	// ErrMalformedJSON is returned when a line is not valid JSON.
	ErrMalformedJSON = errors.New("malformed JSON line")

	// ErrMissingTimestamp is returned when a record has no timestamp field.
	ErrMissingTimestamp = errors.New("record missing timestamp")

	// ErrMissingUsage is returned when a record has no message.usage object.
	ErrMissingUsage = errors.New("record missing message.usage")

	// ErrNegativeTokenCount is returned when a token counter is negative.
	ErrNegativeTokenCount = errors.New("negative token count")
)
