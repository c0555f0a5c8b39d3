package finance

import (
	"time"

	"fundtracker/internal/date"
)

// buildPoints zips the Yahoo arrays into daily points, keeping them aligned.
// Bars with a null or non-positive close are dropped. A missing adjclose array
// falls back to the raw close. Later bars for the same session date replace
// earlier ones, which covers the live bar Yahoo appends during trading hours.
func buildPoints(ts []int64, loc *time.Location, open, high, low, cl, adj []*float64) []PricePoint {
	n := len(ts)
	if len(cl) < n {
		n = len(cl)
	}
	if adj != nil && len(adj) < n {
		n = len(adj)
	}
	out := make([]PricePoint, 0, n)
	for i := 0; i < n; i++ {
		c := value(cl, i)
		if c <= 0 {
			continue
		}
		a := c
		if adj != nil {
			a = value(adj, i)
			if a <= 0 {
				continue
			}
		}
		p := PricePoint{
			Date:     date.FromTime(time.Unix(ts[i], 0), loc),
			Open:     value(open, i),
			High:     value(high, i),
			Low:      value(low, i),
			Close:    c,
			AdjClose: a,
		}
		if k := len(out); k > 0 && !out[k-1].Date.Before(p.Date) {
			if out[k-1].Date == p.Date {
				out[k-1] = p
			}
			continue
		}
		out = append(out, p)
	}
	return out
}

func value(xs []*float64, i int) float64 {
	if i >= len(xs) || xs[i] == nil {
		return 0
	}
	return *xs[i]
}
