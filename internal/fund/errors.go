package fund

import (
	"errors"

	"fundtracker/internal/finance"
)

var (
	ErrDataUnavailable     = errors.New("price data unavailable")
	ErrUnknownStrategy     = errors.New("unknown strategy")
	ErrInsufficientHistory = errors.New("insufficient price history")
	ErrUnknownTicker       = errors.New("unknown ticker")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInvalidPrice        = errors.New("invalid price")
	ErrOutOfRange          = errors.New("date out of range")
	// ErrNotComputable is the same value as finance.ErrNotComputable.
	ErrNotComputable = finance.ErrNotComputable
)
