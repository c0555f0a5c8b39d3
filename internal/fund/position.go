package fund

import (
	"context"
	"fmt"
	"math"
	"slices"

	log "github.com/sirupsen/logrus"

	"fundtracker/internal/date"
	"fundtracker/internal/finance"
)

// QuantityTolerance absorbs float noise when a holding is sold down to zero.
const QuantityTolerance = 1e-9

// QuantityStep adds Delta units from From onward.
type QuantityStep struct {
	From  date.Date
	Delta float64
}

// Position is the holding of one ticker inside a fund.
type Position struct {
	ticker string
	rf     float64
	steps  []QuantityStep
	prices finance.PriceSeries
	values []float64

	beta, alpha Figure
}

// NewPosition fetches ticker over [on, until] and holds qty from on.
func NewPosition(ctx context.Context, src finance.PriceSource, ticker string, on, until date.Date, qty, rf float64) (*Position, error) {
	if qty <= 0 || math.IsNaN(qty) || math.IsInf(qty, 0) {
		return nil, fmt.Errorf("%s: %v: %w", ticker, qty, ErrInvalidQuantity)
	}
	prices, err := fetch(ctx, src, ticker, on, until)
	if err != nil {
		return nil, err
	}
	p := &Position{
		ticker: ticker,
		rf:     rf,
		steps:  []QuantityStep{{From: on, Delta: qty}},
		prices: prices,
	}
	p.revalue()
	log.WithFields(log.Fields{"ticker": ticker, "from": on, "qty": qty}).Debug("position: created")
	return p, nil
}

func (p *Position) clone() *Position {
	c := *p
	c.steps = slices.Clone(p.steps)
	c.values = slices.Clone(p.values)
	return &c
}

// refetch returns a copy whose price history starts at from.
func (p *Position) refetch(ctx context.Context, src finance.PriceSource, from, until date.Date) (*Position, error) {
	prices, err := fetch(ctx, src, p.ticker, from, until)
	if err != nil {
		return nil, err
	}
	c := p.clone()
	c.prices = prices
	c.revalue()
	log.WithFields(log.Fields{"ticker": p.ticker, "from": from}).Debug("position: refetched history")
	return c, nil
}

// QuantityOn sums the steps in effect on d.
func (p *Position) QuantityOn(d date.Date) float64 {
	return quantityOn(p.steps, d)
}

func quantityOn(steps []QuantityStep, d date.Date) float64 {
	q := 0.0
	for _, s := range steps {
		if !s.From.After(d) {
			q += s.Delta
		}
	}
	if math.Abs(q) < QuantityTolerance {
		return 0
	}
	return q
}

// AdjustQuantity adds delta units from on. It fails with ErrInvalidQuantity,
// leaving the position unchanged, if the holding would go negative on any date.
func (p *Position) AdjustQuantity(on date.Date, delta float64) error {
	if delta == 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return fmt.Errorf("%s: delta %v: %w", p.ticker, delta, ErrInvalidQuantity)
	}
	steps := append(slices.Clone(p.steps), QuantityStep{From: on, Delta: delta})
	slices.SortStableFunc(steps, func(a, b QuantityStep) int { return a.From.Compare(b.From) })
	for _, s := range steps {
		if s.From.Before(on) {
			continue
		}
		if q := quantityOn(steps, s.From); q < -QuantityTolerance {
			return fmt.Errorf("%s: holding would be %v on %s: %w", p.ticker, q, s.From, ErrInvalidQuantity)
		}
	}
	p.steps = steps
	p.revalue()
	return nil
}

// revalue rebuilds the valuation series from scratch.
func (p *Position) revalue() {
	p.values = make([]float64, p.prices.Len())
	for i, pt := range p.prices.Points {
		p.values[i] = pt.AdjClose * p.QuantityOn(pt.Date)
	}
}

func (p *Position) Ticker() string              { return p.ticker }
func (p *Position) Steps() []QuantityStep       { return slices.Clone(p.steps) }
func (p *Position) Prices() finance.PriceSeries { return p.prices }

// PurchaseDate is the date of the earliest buy.
func (p *Position) PurchaseDate() date.Date {
	first := p.steps[0].From
	for _, s := range p.steps[1:] {
		if s.From.Before(first) {
			first = s.From
		}
	}
	return first
}

// Valuation is adjusted close * quantity on each of the position's own price dates.
func (p *Position) Valuation() []float64 { return clone(p.values) }

// ValueOn values the holding on d at the last adjusted close on or before d.
// It is 0 before the first bar.
func (p *Position) ValueOn(d date.Date) float64 {
	pt, ok := p.prices.AsOf(d)
	if !ok {
		return 0
	}
	return pt.AdjClose * p.QuantityOn(d)
}

func (p *Position) Returns() finance.Returns {
	return finance.LogReturns(p.prices.Dates(), p.prices.AdjCloses())
}

func (p *Position) years() float64 {
	return finance.ElapsedYears(p.prices.First().Date, p.prices.Last().Date)
}

func (p *Position) AnnualizedReturn() (float64, error) {
	return finance.AnnualizedReturn(p.prices.First().AdjClose, p.prices.Last().AdjClose, p.years())
}

func (p *Position) Volatility() float64 {
	return finance.Volatility(p.Returns(), p.years())
}

func (p *Position) SharpeRatio() (float64, error) {
	r, err := p.AnnualizedReturn()
	if err != nil {
		return 0, err
	}
	return finance.SharpeRatio(r, p.rf, p.Volatility()), nil
}

// Beta and Alpha stay unset until the fund relates the position to its benchmark.
func (p *Position) Beta() Figure  { return p.beta }
func (p *Position) Alpha() Figure { return p.alpha }

// relateTo sets beta and alpha against b.
func (p *Position) relateTo(b *Benchmark) {
	beta, err := finance.Beta(p.Returns(), b.Returns())
	if err != nil {
		p.beta, p.alpha = NotComputable, NotComputable
		return
	}
	p.beta = NewFigure(beta)
	annRet, err := p.AnnualizedReturn()
	if err != nil {
		p.alpha = NotComputable
		return
	}
	marketRet, err := b.AnnualizedReturn()
	if err != nil {
		p.alpha = NotComputable
		return
	}
	p.alpha = NewFigure(finance.Alpha(annRet, beta, p.rf, marketRet))
}
