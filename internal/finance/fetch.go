package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"fundtracker/internal/date"
)

// DailyPrices fetches daily bars for ticker over [from, to].
// Each mirror host is tried once, in order; there is no backoff.
func (c *YahooClient) DailyPrices(ctx context.Context, ticker string, from, to date.Date) (PriceSeries, error) {
	if to.Before(from) {
		return PriceSeries{}, fmt.Errorf("%s: empty range %s..%s: %w", ticker, from, to, ErrNoData)
	}
	var lastErr error
	for _, host := range c.hosts {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return PriceSeries{}, err
			}
		}
		body, err := c.get(ctx, host, ticker, from, to)
		if err != nil {
			if ctx.Err() != nil {
				return PriceSeries{}, ctx.Err()
			}
			lastErr = err
			log.WithFields(log.Fields{"host": host, "ticker": ticker}).Debugf("yahoo: %v", err)
			continue
		}
		var yc yahooChartResp
		if err := json.Unmarshal(body, &yc); err != nil {
			lastErr = fmt.Errorf("failed to parse yahoo json: %v; body: %s", err, preview(body))
			continue
		}
		series, err := decodeDaily(ticker, &yc)
		if err != nil {
			return PriceSeries{}, err
		}
		series = series.Between(from, to)
		if series.Len() == 0 {
			return PriceSeries{}, fmt.Errorf("%s between %s and %s: %w", ticker, from, to, ErrNoData)
		}
		log.WithFields(log.Fields{"ticker": ticker, "bars": series.Len()}).Debug("yahoo: fetched daily prices")
		return series, nil
	}
	return PriceSeries{}, lastErr
}

func (c *YahooClient) get(ctx context.Context, host, ticker string, from, to date.Date) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.chartURL(host, ticker, from, to), nil)
	if err != nil {
		return nil, err
	}
	setBrowserHeaders(req, ticker)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("failed to read yahoo response: %w", readErr)
	}
	if resp.StatusCode == http.StatusTooManyRequests || strings.HasPrefix(string(body), "Edge: Too Many Requests") {
		return nil, fmt.Errorf("yahoo %s returned 429: Edge: Too Many Requests", host)
	}
	if resp.StatusCode == http.StatusNotFound {
		// Yahoo answers unknown symbols with 404 and a chart.error payload.
		return body, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo %s returned %d: %s", host, resp.StatusCode, preview(body))
	}
	if strings.HasPrefix(string(body), "<") || strings.HasPrefix(string(body), "Edge:") {
		return nil, fmt.Errorf("yahoo returned non-json body: %s", preview(body))
	}
	return body, nil
}

// decodeDaily turns a chart response into a clean series.
func decodeDaily(ticker string, yc *yahooChartResp) (PriceSeries, error) {
	if e := yc.Chart.Error; e != nil {
		return PriceSeries{}, fmt.Errorf("%s: yahoo %s: %s: %w", ticker, e.Code, e.Description, ErrNoData)
	}
	if len(yc.Chart.Result) == 0 || len(yc.Chart.Result[0].Indicators.Quote) == 0 {
		return PriceSeries{}, fmt.Errorf("%s: %w", ticker, ErrNoData)
	}
	res := yc.Chart.Result[0]
	q := res.Indicators.Quote[0]
	var adj []*float64
	if len(res.Indicators.AdjClose) > 0 {
		adj = res.Indicators.AdjClose[0].AdjClose
	}
	loc := exchangeLocation(res.Meta.ExchangeTimezoneName, res.Meta.GmtOffset)
	points := buildPoints(res.Timestamp, loc, q.Open, q.High, q.Low, q.Close, adj)
	if len(points) == 0 {
		return PriceSeries{}, fmt.Errorf("%s: no valid bars: %w", ticker, ErrNoData)
	}
	return PriceSeries{Ticker: ticker, Points: points}, nil
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
