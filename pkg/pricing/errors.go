package pricing

import "errors"

// Common errors returned by the pricing package. Both are non-fatal:
// resolution falls through to zero cost.
var (
	// ErrPricingFetch is returned when the remote price sheet cannot
	// be downloaded.
	ErrPricingFetch = errors.New("failed to fetch remote pricing")

	// ErrPricingDecode is returned when the remote price sheet cannot
	// be decoded.
	ErrPricingDecode = errors.New("failed to decode remote pricing")
)
