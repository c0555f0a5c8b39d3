package fund

import (
	"context"

	"fundtracker/internal/date"
	"fundtracker/internal/finance"
)

var day0 = date.MustParse("2020-05-18")

// walk builds a daily series starting on start with the given adjusted closes.
func walk(ticker string, start date.Date, closes ...float64) finance.PriceSeries {
	s := finance.PriceSeries{Ticker: ticker}
	for i, c := range closes {
		s.Points = append(s.Points, finance.PricePoint{Date: start.Add(i), Open: c, High: c, Low: c, Close: c, AdjClose: c})
	}
	return s
}

func ramp(from, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + step*float64(i)
	}
	return out
}

// countingSource records how often each ticker was fetched.
type countingSource struct {
	finance.StaticSource
	calls map[string]int
}

func (c *countingSource) DailyPrices(ctx context.Context, ticker string, from, to date.Date) (finance.PriceSeries, error) {
	if c.calls == nil {
		c.calls = map[string]int{}
	}
	c.calls[ticker]++
	return c.StaticSource.DailyPrices(ctx, ticker, from, to)
}

func testSource() finance.StaticSource {
	return finance.StaticSource{}.
		Add(walk("X", day0, append([]float64{100}, ramp(101, 0.5, 29)...)...)).
		Add(walk("Y", day0, ramp(50, 1, 30)...)).
		Add(walk("Z", day0.Add(5), ramp(20, -0.2, 25)...))
}

func testParams() Params {
	return Params{
		Cash:            100000,
		Benchmark:       "X",
		Created:         day0,
		Strategy:        LumpSum,
		RiskFreeRatePct: 2.5,
		Until:           day0.Add(29),
	}
}
