package domain

import "errors"

var (
	// ErrTokenNotFound means a symbol or address is absent from the token registry.
	ErrTokenNotFound = errors.New("token not found")
	// ErrDataUnavailable means an external market or chain read failed.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrRateNotFound means a conversion pair cannot be resolved from the rate table.
	ErrRateNotFound = errors.New("exchange rate not found")
)
