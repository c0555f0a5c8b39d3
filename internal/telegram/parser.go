package telegram

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"fundtracker/internal/date"
	"fundtracker/internal/fund"
)

// /buy TICKER QTY PRICE [YYYY-MM-DD]
var reTrade = regexp.MustCompile(`^/(buy|sell)(?:@[\w_]+)?(?:\s+(.*))?$`)

// ParseTrade parses a /buy or /sell command. The date defaults to today.
func ParseTrade(input string, today date.Date) (fund.Trade, error) {
	g := reTrade.FindStringSubmatch(strings.TrimSpace(input))
	if g == nil {
		return fund.Trade{}, fmt.Errorf("not a trade command")
	}
	action := fund.Action(g[1])
	parts := strings.Fields(g[2])
	if len(parts) < 3 || len(parts) > 4 {
		return fund.Trade{}, fmt.Errorf("usage: /%s TICKER QTY PRICE [YYYY-MM-DD]", action)
	}
	t := fund.Trade{Action: action, Ticker: strings.ToUpper(parts[0]), Date: today}
	var err error
	if t.Qty, err = strconv.ParseFloat(parts[1], 64); err != nil || t.Qty <= 0 {
		return fund.Trade{}, fmt.Errorf("invalid quantity '%s'", parts[1])
	}
	if t.Price, err = strconv.ParseFloat(parts[2], 64); err != nil || t.Price < 0 {
		return fund.Trade{}, fmt.Errorf("invalid price '%s'", parts[2])
	}
	if len(parts) == 4 {
		if t.Date, err = date.Parse(parts[3]); err != nil {
			return fund.Trade{}, fmt.Errorf("invalid date '%s', want YYYY-MM-DD", parts[3])
		}
	}
	return t, nil
}

// /compare SPY QQQ [1y|6mo|YYYY-MM-DD]
var reCompare = regexp.MustCompile(`^/compare(?:@[\w_]+)?(?:\s+(.*))?$`)

const maxCompareTickers = 6

var compareWindows = map[string]int{"1mo": 30, "3mo": 91, "6mo": 182, "1y": 365, "2y": 730, "5y": 1826}

// ParseCompare parses a /compare command into upper-cased tickers and the
// first day of the window. The window defaults to one year before today.
func ParseCompare(input string, today date.Date) ([]string, date.Date, error) {
	g := reCompare.FindStringSubmatch(strings.TrimSpace(input))
	if g == nil {
		return nil, date.Date{}, fmt.Errorf("not a compare command")
	}
	parts := strings.Fields(g[1])
	from := today.Add(-compareWindows["1y"])
	if n := len(parts); n > 0 {
		last := strings.ToLower(parts[n-1])
		if days, ok := compareWindows[last]; ok {
			from = today.Add(-days)
			parts = parts[:n-1]
		} else if d, err := date.Parse(last); err == nil {
			if !d.Before(today) {
				return nil, date.Date{}, fmt.Errorf("start date %s is not before today", d)
			}
			from = d
			parts = parts[:n-1]
		}
	}
	if len(parts) == 0 || len(parts) > maxCompareTickers {
		return nil, date.Date{}, fmt.Errorf("usage: /compare TICKER [TICKER...] [1mo|3mo|6mo|1y|2y|5y|YYYY-MM-DD], up to %d tickers", maxCompareTickers)
	}
	seen := make(map[string]bool)
	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.ToUpper(p)
		if seen[t] {
			return nil, date.Date{}, fmt.Errorf("duplicate symbol: %s", t)
		}
		seen[t] = true
		tickers = append(tickers, t)
	}
	return tickers, from, nil
}
