package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fundtracker/internal/date"
)

// IndexedSeries holds tickers rebased to 100 on the first of their common dates.
type IndexedSeries struct {
	Dates  []date.Date
	Series []ChartSeries
}

// IndexTickers fetches every ticker over [from, to] and keeps the dates all of
// them traded on, rebased to 100 at the first one.
func IndexTickers(ctx context.Context, src PriceSource, tickers []string, from, to date.Date) (IndexedSeries, error) {
	if len(tickers) == 0 {
		return IndexedSeries{}, errors.New("no symbols provided")
	}
	fetched := make([]PriceSeries, 0, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		s, err := src.DailyPrices(ctx, t, from, to)
		if err != nil {
			return IndexedSeries{}, fmt.Errorf("%s: %w", t, err)
		}
		s.Ticker = t
		fetched = append(fetched, s)
	}
	if len(fetched) == 0 {
		return IndexedSeries{}, errors.New("no series fetched")
	}

	common := fetched[0].Dates()
	for _, s := range fetched[1:] {
		seen := make(map[date.Date]bool, s.Len())
		for _, d := range s.Dates() {
			seen[d] = true
		}
		kept := common[:0]
		for _, d := range common {
			if seen[d] {
				kept = append(kept, d)
			}
		}
		common = kept
	}
	if len(common) < 2 {
		return IndexedSeries{}, fmt.Errorf("%d common dates: %w", len(common), ErrNoData)
	}

	out := IndexedSeries{Dates: common}
	for _, s := range fetched {
		byDate := make(map[date.Date]float64, s.Len())
		for _, p := range s.Points {
			byDate[p.Date] = p.AdjClose
		}
		base := byDate[common[0]]
		values := make([]float64, len(common))
		for i, d := range common {
			values[i] = byDate[d] / base * 100
		}
		out.Series = append(out.Series, ChartSeries{Name: s.Ticker, Values: values})
	}
	return out, nil
}

// RenderIndexedChart draws the rebased tickers on one chart.
func RenderIndexedChart(ix IndexedSeries) ([]byte, error) {
	labels := make([]string, len(ix.Dates))
	for i, d := range ix.Dates {
		labels[i] = d.String()
	}
	names := make([]string, len(ix.Series))
	for i, s := range ix.Series {
		names[i] = s.Name
	}
	title := "Indexed • 1D"
	if len(ix.Dates) > 0 {
		title += fmt.Sprintf(" • %s to %s", ix.Dates[0], ix.Dates[len(ix.Dates)-1])
	}
	return RenderPerformanceChart(title, strings.Join(names, ", ")+" • base 100", labels, ix.Series)
}
