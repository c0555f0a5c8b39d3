package fund

import (
	"context"
	"fmt"
	"strings"

	"fundtracker/internal/date"
	"fundtracker/internal/finance"
)

type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionBuy, ActionSell:
		return a, nil
	}
	return "", fmt.Errorf("unknown trade action %q", s)
}

// Trade is one recorded buy or sell.
type Trade struct {
	Action Action
	Ticker string
	Date   date.Date
	Qty    float64
	Price  float64
}

func (t Trade) String() string {
	return fmt.Sprintf("%s %v %s @ %v on %s", t.Action, t.Qty, t.Ticker, t.Price, t.Date)
}

// Apply runs a single trade against the fund.
func (f *Fund) Apply(ctx context.Context, t Trade) error {
	switch t.Action {
	case ActionBuy:
		return f.Buy(ctx, t.Ticker, t.Date, t.Qty, t.Price)
	case ActionSell:
		return f.Sell(t.Ticker, t.Date, t.Qty, t.Price)
	}
	return fmt.Errorf("unknown trade action %q", t.Action)
}

// Replay builds a fund and applies trades in order, stopping at the first failure.
func Replay(ctx context.Context, src finance.PriceSource, p Params, trades []Trade) (*Fund, error) {
	f, err := New(ctx, src, p)
	if err != nil {
		return nil, err
	}
	for i, t := range trades {
		if err := f.Apply(ctx, t); err != nil {
			return nil, fmt.Errorf("trade %d (%s): %w", i+1, t, err)
		}
	}
	return f, nil
}
