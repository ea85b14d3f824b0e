package analytics

import "errors"

var (
	// ErrInvalidSymbol is returned by Compute for an empty ticker.
	ErrInvalidSymbol = errors.New("invalid symbol")
	// ErrDataUnavailable marks a fetch that failed or returned no data.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrUnknownSector marks a sector with no benchmark proxy.
	ErrUnknownSector = errors.New("unknown sector")
	// ErrUnknownSymbol marks a ticker missing from the company listing.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrComputation marks a derived value that could not be computed.
	ErrComputation = errors.New("computation error")
)
