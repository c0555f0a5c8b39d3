package fund

import (
	"slices"

	"github.com/shopspring/decimal"

	"fundtracker/internal/date"
)

// Entry is a signed cash movement: negative for a buy, positive for a sell.
type Entry struct {
	Date   date.Date
	Amount decimal.Decimal
	Ticker string
}

// Ledger derives the cash balance on any date from the starting cash and its entries.
type Ledger struct {
	initial decimal.Decimal
	entries []Entry
}

func NewLedger(initial decimal.Decimal) *Ledger {
	return &Ledger{initial: initial}
}

func (l *Ledger) Initial() decimal.Decimal { return l.initial }

// Entries returns the entries in the order they were recorded.
func (l *Ledger) Entries() []Entry { return slices.Clone(l.entries) }

func (l *Ledger) Len() int { return len(l.entries) }

func (l *Ledger) Append(e Entry) { l.entries = append(l.entries, e) }

// BalanceOn is the starting cash plus every entry dated on or before d.
func (l *Ledger) BalanceOn(d date.Date) decimal.Decimal {
	b := l.initial
	for _, e := range l.entries {
		if !e.Date.After(d) {
			b = b.Add(e.Amount)
		}
	}
	return b
}

func (l *Ledger) clone() *Ledger {
	return &Ledger{initial: l.initial, entries: slices.Clone(l.entries)}
}

// tradeAmount is the cash effect of trading qty at price: outflow for a buy.
func tradeAmount(qty, price float64, buy bool) decimal.Decimal {
	amt := decimal.NewFromFloat(price).Mul(decimal.NewFromFloat(qty))
	if buy {
		return amt.Neg()
	}
	return amt
}
