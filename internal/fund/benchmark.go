package fund

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"fundtracker/internal/date"
	"fundtracker/internal/finance"
)

// Benchmark is an index bought with the fund's starting cash under a Strategy.
// It never changes after construction.
type Benchmark struct {
	ticker    string
	cash      float64
	purchased date.Date
	strategy  Strategy
	rf        float64

	prices     finance.PriceSeries
	units      []float64
	uninvested []float64
	values     []float64
	normalized []float64
}

// NewBenchmark fetches ticker over [purchased, until] and allocates cash to it.
// rf is the risk-free rate as a fraction.
func NewBenchmark(ctx context.Context, src finance.PriceSource, ticker string, cash float64, purchased, until date.Date, strategy Strategy, rf float64) (*Benchmark, error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("benchmark %s: %v: %w", ticker, strategy, ErrUnknownStrategy)
	}
	prices, err := fetch(ctx, src, ticker, purchased, until)
	if err != nil {
		return nil, err
	}
	units, uninvested, err := strategy.allocate(prices.AdjCloses(), cash)
	if err != nil {
		return nil, fmt.Errorf("benchmark %s: %w", ticker, err)
	}
	b := &Benchmark{
		ticker:     ticker,
		cash:       cash,
		purchased:  purchased,
		strategy:   strategy,
		rf:         rf,
		prices:     prices,
		units:      units,
		uninvested: uninvested,
		values:     make([]float64, prices.Len()),
		normalized: make([]float64, prices.Len()),
	}
	for i, p := range prices.Points {
		b.values[i] = p.AdjClose*units[i] + uninvested[i]
	}
	for i, v := range b.values {
		b.normalized[i] = v / b.values[0] * 100
	}
	log.WithFields(log.Fields{"ticker": ticker, "strategy": strategy, "days": prices.Len()}).Debug("benchmark: allocated")
	return b, nil
}

// fetch wraps source failures as ErrDataUnavailable.
func fetch(ctx context.Context, src finance.PriceSource, ticker string, from, to date.Date) (finance.PriceSeries, error) {
	s, err := src.DailyPrices(ctx, ticker, from, to)
	if err != nil {
		if ctx.Err() != nil {
			return finance.PriceSeries{}, ctx.Err()
		}
		return finance.PriceSeries{}, fmt.Errorf("%s %s..%s: %w: %v", ticker, from, to, ErrDataUnavailable, err)
	}
	if err := s.Validate(); err != nil {
		return finance.PriceSeries{}, fmt.Errorf("%s: %w: %v", ticker, ErrDataUnavailable, err)
	}
	return s, nil
}

func (b *Benchmark) Ticker() string              { return b.ticker }
func (b *Benchmark) Cash() float64               { return b.cash }
func (b *Benchmark) Strategy() Strategy          { return b.strategy }
func (b *Benchmark) PurchaseDate() date.Date     { return b.purchased }
func (b *Benchmark) Prices() finance.PriceSeries { return b.prices }
func (b *Benchmark) Dates() []date.Date          { return b.prices.Dates() }
func (b *Benchmark) Len() int                    { return b.prices.Len() }

// Units returns the benchmark units held on each trading day.
func (b *Benchmark) Units() []float64 { return clone(b.units) }

// Uninvested returns the cash not yet deployed on each trading day.
func (b *Benchmark) Uninvested() []float64 { return clone(b.uninvested) }

// Valuation is close*units + uninvested cash, per trading day.
func (b *Benchmark) Valuation() []float64 { return clone(b.values) }

// Normalized is the valuation rebased so the first day is exactly 100.
func (b *Benchmark) Normalized() []float64 { return clone(b.normalized) }

// Returns are the log returns of the benchmark price.
func (b *Benchmark) Returns() finance.Returns {
	return finance.LogReturns(b.prices.Dates(), b.prices.AdjCloses())
}

func (b *Benchmark) years() float64 {
	return finance.ElapsedYears(b.prices.First().Date, b.prices.Last().Date)
}

// AnnualizedReturn is the price return from first to last bar over elapsed years.
func (b *Benchmark) AnnualizedReturn() (float64, error) {
	return finance.AnnualizedReturn(b.prices.First().AdjClose, b.prices.Last().AdjClose, b.years())
}

func (b *Benchmark) Volatility() float64 {
	return finance.Volatility(b.Returns(), b.years())
}

func (b *Benchmark) SharpeRatio() (float64, error) {
	r, err := b.AnnualizedReturn()
	if err != nil {
		return 0, err
	}
	return finance.SharpeRatio(r, b.rf, b.Volatility()), nil
}

func clone(xs []float64) []float64 { return append([]float64(nil), xs...) }
