package finance

import (
	"fmt"
	"slices"

	"fundtracker/internal/date"
)

// yahooChartResp mirrors the Yahoo v8 chart response (trimmed to needed fields).
// Price arrays hold pointers because Yahoo reports missing bars as null.
type yahooChartResp struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string `json:"symbol"`
				Currency             string `json:"currency"`
				GmtOffset            int    `json:"gmtoffset"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []*float64 `json:"open"`
					High  []*float64 `json:"high"`
					Low   []*float64 `json:"low"`
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// PricePoint is one daily bar.
type PricePoint struct {
	Date     date.Date
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
}

// PriceSeries is the daily history of one ticker, ordered by date ascending.
type PriceSeries struct {
	Ticker string
	Points []PricePoint
}

func (s PriceSeries) Len() int { return len(s.Points) }

// First returns the oldest point. It panics on an empty series.
func (s PriceSeries) First() PricePoint { return s.Points[0] }

// Last returns the most recent point. It panics on an empty series.
func (s PriceSeries) Last() PricePoint { return s.Points[len(s.Points)-1] }

// Dates returns the dates of all points.
func (s PriceSeries) Dates() []date.Date {
	out := make([]date.Date, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Date
	}
	return out
}

// AdjCloses returns the adjusted close of all points.
func (s PriceSeries) AdjCloses() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.AdjClose
	}
	return out
}

// search returns the index of the first point on or after d and whether it is exactly d.
func (s PriceSeries) search(d date.Date) (int, bool) {
	return slices.BinarySearchFunc(s.Points, d, func(p PricePoint, t date.Date) int {
		return p.Date.Compare(t)
	})
}

// IndexOnOrAfter returns the index of the first point dated on or after d, or -1.
func (s PriceSeries) IndexOnOrAfter(d date.Date) int {
	i, _ := s.search(d)
	if i >= len(s.Points) {
		return -1
	}
	return i
}

// AsOf returns the point on d, or the most recent one before it.
func (s PriceSeries) AsOf(d date.Date) (PricePoint, bool) {
	i, found := s.search(d)
	if found {
		return s.Points[i], true
	}
	if i == 0 {
		return PricePoint{}, false
	}
	return s.Points[i-1], true
}

// Since returns the sub-series dated on or after d. It shares the backing array.
func (s PriceSeries) Since(d date.Date) PriceSeries {
	i := s.IndexOnOrAfter(d)
	if i < 0 {
		return PriceSeries{Ticker: s.Ticker}
	}
	return PriceSeries{Ticker: s.Ticker, Points: s.Points[i:]}
}

// Between returns the sub-series within [from, to].
func (s PriceSeries) Between(from, to date.Date) PriceSeries {
	out := s.Since(from)
	j, found := out.search(to)
	if found {
		j++
	}
	out.Points = out.Points[:j]
	return out
}

// Validate checks ordering, uniqueness and that adjusted closes are positive.
func (s PriceSeries) Validate() error {
	if len(s.Points) == 0 {
		return fmt.Errorf("%s: %w", s.Ticker, ErrNoData)
	}
	for i, p := range s.Points {
		if p.AdjClose <= 0 {
			return fmt.Errorf("%s: non-positive adjusted close %v on %s", s.Ticker, p.AdjClose, p.Date)
		}
		if i > 0 && !s.Points[i-1].Date.Before(p.Date) {
			return fmt.Errorf("%s: dates not strictly ascending at %s", s.Ticker, p.Date)
		}
	}
	return nil
}
