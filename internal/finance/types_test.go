package finance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundtracker/internal/date"
)

func series(ticker string, start string, closes ...float64) PriceSeries {
	s := PriceSeries{Ticker: ticker}
	d := date.MustParse(start)
	for i, c := range closes {
		s.Points = append(s.Points, PricePoint{Date: d.Add(i * 2), Close: c, AdjClose: c})
	}
	return s
}

func TestSeriesLookup(t *testing.T) {
	// dates: 01, 03, 05, 07
	s := series("X", "2020-01-01", 10, 11, 12, 13)

	assert.Equal(t, 1, s.IndexOnOrAfter(date.MustParse("2020-01-02")))
	assert.Equal(t, 1, s.IndexOnOrAfter(date.MustParse("2020-01-03")))
	assert.Equal(t, -1, s.IndexOnOrAfter(date.MustParse("2020-01-08")))

	p, ok := s.AsOf(date.MustParse("2020-01-04"))
	require.True(t, ok)
	assert.Equal(t, 11.0, p.AdjClose)
	_, ok = s.AsOf(date.MustParse("2019-12-31"))
	assert.False(t, ok)

	b := s.Between(date.MustParse("2020-01-02"), date.MustParse("2020-01-05"))
	assert.Equal(t, []float64{11, 12}, b.AdjCloses())
	assert.Equal(t, 0, s.Between(date.MustParse("2020-01-08"), date.MustParse("2020-01-09")).Len())
}

func TestSeriesValidate(t *testing.T) {
	require.NoError(t, series("X", "2020-01-01", 1, 2).Validate())
	assert.True(t, errors.Is(PriceSeries{Ticker: "X"}.Validate(), ErrNoData))
	assert.Error(t, series("X", "2020-01-01", 1, 0).Validate())

	dup := series("X", "2020-01-01", 1, 2)
	dup.Points[1].Date = dup.Points[0].Date
	assert.Error(t, dup.Validate())
}

func TestStaticSource(t *testing.T) {
	src := StaticSource{}.Add(series("^FTSE", "2020-01-01", 100, 101, 102))
	got, err := src.DailyPrices(context.Background(), "^ftse", date.MustParse("2020-01-02"), date.MustParse("2020-01-10"))
	require.NoError(t, err)
	assert.Equal(t, []float64{101, 102}, got.AdjCloses())
	assert.Equal(t, "^ftse", got.Ticker)

	_, err = src.DailyPrices(context.Background(), "MISSING", date.MustParse("2020-01-01"), date.MustParse("2020-01-10"))
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestBuildPointsDropsBadBars(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	ts := []int64{1589785200, 1589871600, 1589958000}
	cl := []*float64{f(10), nil, f(-1)}
	pts := buildPoints(ts, exchangeLocation("", 0), nil, nil, nil, cl, nil)
	require.Len(t, pts, 1)
	assert.Equal(t, 10.0, pts[0].AdjClose, "adjclose falls back to close")
}

func TestExchangeLocationFallback(t *testing.T) {
	loc := exchangeLocation("Nowhere/Invalid", -5*3600)
	_, off := date.MustParse("2020-01-01").Time().In(loc).Zone()
	assert.Equal(t, -5*3600, off)
}
