package finance

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"fundtracker/internal/date"
)

// DefaultYahooHosts are the Yahoo Finance mirrors tried in order.
var DefaultYahooHosts = []string{"query1.finance.yahoo.com", "query2.finance.yahoo.com"}

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15"

// YahooClient fetches daily bars from the Yahoo Finance v8 chart API.
type YahooClient struct {
	hosts   []string
	scheme  string
	client  *http.Client
	limiter *rate.Limiter
}

// YahooOption configures a YahooClient.
type YahooOption func(*YahooClient)

// WithHosts overrides the mirror list. Entries may carry a scheme ("http://127.0.0.1:8080").
func WithHosts(hosts ...string) YahooOption {
	return func(c *YahooClient) {
		if len(hosts) > 0 {
			c.hosts = hosts
		}
	}
}

// WithHTTPClient sets the http.Client used for requests.
func WithHTTPClient(hc *http.Client) YahooOption {
	return func(c *YahooClient) { c.client = hc }
}

// WithRateLimit paces requests to rps requests per second. Zero disables pacing.
func WithRateLimit(rps float64) YahooOption {
	return func(c *YahooClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewYahooClient returns a client with default hosts and a 2 req/s pace.
func NewYahooClient(opts ...YahooOption) *YahooClient {
	c := &YahooClient{
		hosts:   DefaultYahooHosts,
		scheme:  "https",
		client:  &http.Client{Timeout: 20 * time.Second},
		limiter: rate.NewLimiter(2, 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// chartURL builds the daily chart request. period2 is exclusive on Yahoo's side,
// so it is pushed to the end of the `to` day.
func (c *YahooClient) chartURL(host, ticker string, from, to date.Date) string {
	base := host
	if !strings.Contains(host, "://") {
		base = c.scheme + "://" + host
	}
	q := url.Values{}
	q.Set("period1", fmt.Sprint(from.Time().Unix()))
	q.Set("period2", fmt.Sprint(to.Add(1).Time().Unix()))
	q.Set("interval", "1d")
	q.Set("events", "div,splits")
	q.Set("includeAdjustedClose", "true")
	return fmt.Sprintf("%s/v8/finance/chart/%s?%s", base, url.PathEscape(ticker), q.Encode())
}

func setBrowserHeaders(req *http.Request, ticker string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", fmt.Sprintf("https://finance.yahoo.com/quote/%s/chart", strings.ToUpper(ticker)))
}
