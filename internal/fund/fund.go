// Package fund values a self-directed equity fund against a benchmark index.
package fund

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"fundtracker/internal/date"
	"fundtracker/internal/finance"
)

// Params are the construction parameters of a Fund.
type Params struct {
	Cash      float64
	Benchmark string
	Created   date.Date
	Strategy  Strategy
	// RiskFreeRatePct is a percentage: 2.5 means 2.5%.
	RiskFreeRatePct float64
	// Until is the last valuation date. Zero means today.
	Until date.Date
}

// Fund owns its positions, a cash ledger and a benchmark. Every successful
// Buy or Sell rebuilds the table and metrics; a failed one changes nothing.
// A Fund is not safe for concurrent use.
type Fund struct {
	params Params
	until  date.Date
	rf     float64
	src    finance.PriceSource

	bench     *Benchmark
	positions map[string]*Position
	order     []string
	ledger    *Ledger

	table    *Table
	metrics  fundMetrics
	revision int
}

// New builds the benchmark and an empty fund.
func New(ctx context.Context, src finance.PriceSource, p Params) (*Fund, error) {
	if p.Cash <= 0 || math.IsNaN(p.Cash) || math.IsInf(p.Cash, 0) {
		return nil, fmt.Errorf("cash %v: %w", p.Cash, ErrInvalidPrice)
	}
	if p.Benchmark == "" {
		return nil, fmt.Errorf("benchmark ticker is required: %w", ErrUnknownTicker)
	}
	if p.Created.IsZero() {
		return nil, fmt.Errorf("creation date is required: %w", ErrOutOfRange)
	}
	until := p.Until
	if until.IsZero() {
		until = date.Today()
	}
	if until.Before(p.Created) {
		return nil, fmt.Errorf("until %s before creation %s: %w", until, p.Created, ErrOutOfRange)
	}
	rf := p.RiskFreeRatePct / 100
	bench, err := NewBenchmark(ctx, src, p.Benchmark, p.Cash, p.Created, until, p.Strategy, rf)
	if err != nil {
		return nil, err
	}
	f := &Fund{
		params:    p,
		until:     until,
		rf:        rf,
		src:       src,
		bench:     bench,
		positions: map[string]*Position{},
		ledger:    NewLedger(decimal.NewFromFloat(p.Cash)),
	}
	f.table, f.metrics = f.recompute(f.ledger, f.positionList(f.positions, f.order))
	log.WithFields(log.Fields{"benchmark": p.Benchmark, "created": p.Created, "until": until}).Debug("fund: created")
	return f, nil
}

func key(ticker string) string { return strings.ToUpper(strings.TrimSpace(ticker)) }

func (f *Fund) checkTrade(on date.Date, qty, price float64) error {
	if qty <= 0 || math.IsNaN(qty) || math.IsInf(qty, 0) {
		return fmt.Errorf("qty %v: %w", qty, ErrInvalidQuantity)
	}
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("price %v: %w", price, ErrInvalidPrice)
	}
	if on.Before(f.params.Created) || on.After(f.until) {
		return fmt.Errorf("%s outside %s..%s: %w", on, f.params.Created, f.until, ErrOutOfRange)
	}
	return nil
}

// Buy adds qty units of ticker bought on the given date at price.
func (f *Fund) Buy(ctx context.Context, ticker string, on date.Date, qty, price float64) error {
	if err := f.checkTrade(on, qty, price); err != nil {
		return fmt.Errorf("buy %s: %w", ticker, err)
	}
	k := key(ticker)
	order := f.order
	pos, ok := f.positions[k]
	var err error
	switch {
	case !ok:
		pos, err = NewPosition(ctx, f.src, k, on, f.until, qty, f.rf)
		if err != nil {
			return fmt.Errorf("buy %s: %w", k, err)
		}
		pos.relateTo(f.bench)
		order = append(slices.Clone(order), k)
	case on.Before(pos.PurchaseDate()):
		pos, err = pos.refetch(ctx, f.src, on, f.until)
		if err != nil {
			return fmt.Errorf("buy %s: %w", k, err)
		}
		pos.relateTo(f.bench)
		if err := pos.AdjustQuantity(on, qty); err != nil {
			return fmt.Errorf("buy %s: %w", k, err)
		}
	default:
		pos = pos.clone()
		if err := pos.AdjustQuantity(on, qty); err != nil {
			return fmt.Errorf("buy %s: %w", k, err)
		}
	}
	f.apply(k, pos, order, Entry{Date: on, Amount: tradeAmount(qty, price, true), Ticker: k})
	return nil
}

// Sell removes qty units of ticker on the given date at price.
func (f *Fund) Sell(ticker string, on date.Date, qty, price float64) error {
	k := key(ticker)
	pos, ok := f.positions[k]
	if !ok {
		return fmt.Errorf("sell %s: %w", k, ErrUnknownTicker)
	}
	if err := f.checkTrade(on, qty, price); err != nil {
		return fmt.Errorf("sell %s: %w", k, err)
	}
	pos = pos.clone()
	if err := pos.AdjustQuantity(on, -qty); err != nil {
		return fmt.Errorf("sell %s: %w", k, err)
	}
	f.apply(k, pos, f.order, Entry{Date: on, Amount: tradeAmount(qty, price, false), Ticker: k})
	return nil
}

// apply swaps in the new state. Everything that can fail has already run.
func (f *Fund) apply(k string, pos *Position, order []string, e Entry) {
	positions := make(map[string]*Position, len(f.positions)+1)
	for t, p := range f.positions {
		positions[t] = p
	}
	positions[k] = pos
	ledger := f.ledger.clone()
	ledger.Append(e)

	table, metrics := f.recompute(ledger, f.positionList(positions, order))

	f.positions, f.order, f.ledger = positions, order, ledger
	f.table, f.metrics = table, metrics
	f.revision++
	log.WithFields(log.Fields{"ticker": k, "date": e.Date, "amount": e.Amount.String(), "revision": f.revision}).Debug("fund: recomputed")
}

func (f *Fund) positionList(m map[string]*Position, order []string) []*Position {
	out := make([]*Position, len(order))
	for i, k := range order {
		out[i] = m[k]
	}
	return out
}

func (f *Fund) recompute(ledger *Ledger, positions []*Position) (*Table, fundMetrics) {
	t := buildTable(f.bench, ledger, positions)
	return t, computeMetrics(t, f.bench, positions, f.rf)
}

func (f *Fund) Params() Params           { return f.params }
func (f *Fund) Until() date.Date         { return f.until }
func (f *Fund) RiskFreeRate() float64    { return f.rf }
func (f *Fund) Benchmark() *Benchmark    { return f.bench }
func (f *Fund) Table() *Table            { return f.table }
func (f *Fund) Ledger() *Ledger          { return f.ledger.clone() }
func (f *Fund) Revision() int            { return f.revision }
func (f *Fund) Positions() []*Position   { return f.positionList(f.positions, f.order) }
func (f *Fund) AnnualizedReturn() Figure { return f.metrics.annRet }
func (f *Fund) Volatility() float64      { return f.metrics.vol }
func (f *Fund) SharpeRatio() Figure      { return f.metrics.sharpe }
func (f *Fund) Beta() Figure             { return f.metrics.beta }
func (f *Fund) Alpha() Figure            { return f.metrics.alpha }

func (f *Fund) Position(ticker string) (*Position, bool) {
	p, ok := f.positions[key(ticker)]
	return p, ok
}

// CashOn is the ledger balance on d.
func (f *Fund) CashOn(d date.Date) decimal.Decimal { return f.ledger.BalanceOn(d) }

// MetricsTable returns the Fund, benchmark, position and cash rows in that order.
func (f *Fund) MetricsTable() []MetricsRow { return slices.Clone(f.metrics.rows) }

func (f *Fund) Summary() Summary { return f.metrics.summary }

func (f *Fund) PerformanceSeries() PerformanceSeries {
	return PerformanceSeries{
		Benchmark: f.bench.Ticker(),
		Dates:     f.table.Dates(),
		Bench:     f.table.column(func(r Row) float64 { return r.BenchmarkNormalized }),
		Fund:      f.table.column(func(r Row) float64 { return r.Normalized }),
	}
}
