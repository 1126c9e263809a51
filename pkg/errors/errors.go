package apperrors

import "errors"

// Standardized errors shared across the console
var (
	ErrQuoteUnavailable  = errors.New("quote unavailable")
	ErrStaleTarget       = errors.New("cancel-replace target is not a working order")
	ErrNotSubmitted      = errors.New("signal was not submitted")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrInvalidInstrument = errors.New("invalid instrument")
)
