package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fundtracker/internal/date"
)

var (
	// ErrNoData is returned when a source has no usable bars for a request.
	ErrNoData = errors.New("no data")
	// ErrNotComputable marks a statistic that is undefined for its inputs.
	ErrNotComputable = errors.New("not computable")
)

// PriceSource returns daily bars for a ticker over an inclusive date range.
type PriceSource interface {
	DailyPrices(ctx context.Context, ticker string, from, to date.Date) (PriceSeries, error)
}

// StaticSource serves preloaded series, keyed by upper-cased ticker.
type StaticSource map[string]PriceSeries

// Add registers a series under its ticker.
func (s StaticSource) Add(series PriceSeries) StaticSource {
	s[strings.ToUpper(series.Ticker)] = series
	return s
}

func (s StaticSource) DailyPrices(ctx context.Context, ticker string, from, to date.Date) (PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return PriceSeries{}, err
	}
	series, ok := s[strings.ToUpper(ticker)]
	if !ok {
		return PriceSeries{}, fmt.Errorf("%s: %w", ticker, ErrNoData)
	}
	out := series.Between(from, to)
	out.Ticker = ticker
	if out.Len() == 0 {
		return PriceSeries{}, fmt.Errorf("%s between %s and %s: %w", ticker, from, to, ErrNoData)
	}
	return out, nil
}
