package fund

import (
	"fundtracker/internal/date"
	"fundtracker/internal/finance"
)

type RowKind int

const (
	KindFund RowKind = iota
	KindBenchmark
	KindPosition
	KindCash
)

// MetricsRow is one line of the metrics table.
type MetricsRow struct {
	Name   string
	Kind   RowKind
	Alpha  Figure
	Beta   Figure
	Sharpe Figure
	// Share is the percentage of total asset value on the last date.
	Share Figure
}

// Performance summarises one normalized series.
type Performance struct {
	Name             string
	Start, End       float64
	TotalReturn      float64
	AnnualizedReturn Figure
	Volatility       float64
	Sharpe           Figure
	MaxDrawdown      float64
}

// Summary compares fund and benchmark over the table's date range.
type Summary struct {
	From, To  date.Date
	Fund      Performance
	Benchmark Performance
}

// PerformanceSeries is the chart data: both normalized series on the same dates.
type PerformanceSeries struct {
	Benchmark string
	Dates     []date.Date
	Bench     []float64
	Fund      []float64
}

type fundMetrics struct {
	annRet  Figure
	vol     float64
	sharpe  Figure
	beta    Figure
	alpha   Figure
	rows    []MetricsRow
	summary Summary
}

// computeMetrics derives every fund-level figure from a freshly built table.
func computeMetrics(t *Table, b *Benchmark, positions []*Position, rf float64) fundMetrics {
	dates := t.Dates()
	norm := t.column(func(r Row) float64 { return r.Normalized })
	years := finance.ElapsedYears(dates[0], dates[len(dates)-1])
	returns := finance.LogReturns(dates, norm)

	var m fundMetrics
	annRet, err := finance.AnnualizedReturn(norm[0], norm[len(norm)-1], years)
	m.annRet = figureOf(annRet, err)
	m.vol = finance.Volatility(returns, years)
	if err == nil {
		m.sharpe = NewFigure(finance.SharpeRatio(annRet, rf, m.vol))
	} else {
		m.sharpe = NotComputable
	}
	beta, err := finance.Beta(returns, b.Returns())
	m.beta = figureOf(beta, err)
	marketRet, mErr := b.AnnualizedReturn()
	if v, ok := m.annRet.Float(); ok && err == nil && mErr == nil {
		m.alpha = NewFigure(finance.Alpha(v, beta, rf, marketRet))
	} else {
		m.alpha = NotComputable
	}

	last := t.rows[len(t.rows)-1]
	share := func(v float64) Figure {
		if last.Total == 0 {
			return NotComputable
		}
		return NewFigure(v / last.Total * 100)
	}

	m.rows = append(m.rows, MetricsRow{
		Name: "Fund", Kind: KindFund,
		Alpha: m.alpha, Beta: m.beta, Sharpe: m.sharpe, Share: NewFigure(100),
	})
	m.rows = append(m.rows, MetricsRow{
		Name: b.Ticker(), Kind: KindBenchmark,
		Alpha: NotApplicable, Beta: NewFigure(1), Sharpe: figureOf(b.SharpeRatio()), Share: NotApplicable,
	})
	for i, p := range positions {
		m.rows = append(m.rows, MetricsRow{
			Name: p.Ticker(), Kind: KindPosition,
			Alpha: p.Alpha(), Beta: p.Beta(), Sharpe: figureOf(p.SharpeRatio()), Share: share(last.Values[i]),
		})
	}
	m.rows = append(m.rows, MetricsRow{
		Name: "cash", Kind: KindCash,
		Alpha: NotApplicable, Beta: NotApplicable, Sharpe: NotApplicable, Share: share(last.Cash),
	})

	bnorm := t.column(func(r Row) float64 { return r.BenchmarkNormalized })
	bvol := finance.Volatility(finance.LogReturns(dates, bnorm), years)
	bret, bErr := finance.AnnualizedReturn(bnorm[0], bnorm[len(bnorm)-1], years)
	bsharpe := NotComputable
	if bErr == nil {
		bsharpe = NewFigure(finance.SharpeRatio(bret, rf, bvol))
	}
	m.summary = Summary{
		From: dates[0],
		To:   dates[len(dates)-1],
		Fund: Performance{
			Name: "Fund", Start: norm[0], End: norm[len(norm)-1],
			TotalReturn:      finance.TotalReturn(norm),
			AnnualizedReturn: m.annRet,
			Volatility:       m.vol,
			Sharpe:           m.sharpe,
			MaxDrawdown:      finance.MaxDrawdown(norm),
		},
		Benchmark: Performance{
			Name: b.Ticker(), Start: bnorm[0], End: bnorm[len(bnorm)-1],
			TotalReturn:      finance.TotalReturn(bnorm),
			AnnualizedReturn: figureOf(bret, bErr),
			Volatility:       bvol,
			Sharpe:           bsharpe,
			MaxDrawdown:      finance.MaxDrawdown(bnorm),
		},
	}
	return m
}
