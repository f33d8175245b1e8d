package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrUnknownKey    = fmt.Errorf("unknown configuration key")

	// Ledger errors
	//
	// A batch must stop when the store is unavailable: without durable
	// attempt records an idempotent re-run cannot be guaranteed.
	ErrStoreUnavailable = fmt.Errorf("resume ledger store unavailable")

	// Fetch and enumeration errors
	ErrFetchFailed        = fmt.Errorf("fetch failed")
	ErrEnumerationFailed  = fmt.Errorf("collection enumeration failed")
	ErrPartialEnumeration = fmt.Errorf("collection enumeration incomplete")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
