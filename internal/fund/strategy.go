package fund

import (
	"fmt"
	"strings"
)

// StagedTranches is the number of trading days the staged strategy spreads cash over.
const StagedTranches = 10

// Strategy is how the benchmark deploys its cash.
type Strategy int

const (
	LumpSum Strategy = iota + 1
	Staged10Day
)

// ParseStrategy accepts "lump_sum" and "staged_10day"; "dca10" is an alias of the latter.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lump_sum", "lumpsum":
		return LumpSum, nil
	case "staged_10day", "dca10":
		return Staged10Day, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownStrategy)
}

func (s Strategy) String() string {
	switch s {
	case LumpSum:
		return "lump_sum"
	case Staged10Day:
		return "staged_10day"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

func (s Strategy) Valid() bool { return s == LumpSum || s == Staged10Day }

// allocate returns, per price, the units held and the cash not yet invested.
// prices[0] is the first trading day on or after the purchase date.
func (s Strategy) allocate(prices []float64, cash float64) (units, uninvested []float64, err error) {
	switch s {
	case LumpSum:
		return allocateLumpSum(prices, cash)
	case Staged10Day:
		return allocateStaged(prices, cash)
	}
	return nil, nil, fmt.Errorf("%v: %w", s, ErrUnknownStrategy)
}

func allocateLumpSum(prices []float64, cash float64) ([]float64, []float64, error) {
	if len(prices) == 0 {
		return nil, nil, ErrInsufficientHistory
	}
	q := cash / prices[0]
	units := make([]float64, len(prices))
	for i := range units {
		units[i] = q
	}
	return units, make([]float64, len(prices)), nil
}

// allocateStaged invests cash/10 at the close of each of the first 10 trading
// days. The uninvested remainder on day i is counted after that day's tranche,
// so day 0 already holds one tranche and day 9 onwards is fully invested.
func allocateStaged(prices []float64, cash float64) ([]float64, []float64, error) {
	if len(prices) < StagedTranches {
		return nil, nil, fmt.Errorf("%d trading days, need %d: %w", len(prices), StagedTranches, ErrInsufficientHistory)
	}
	tranche := cash / StagedTranches
	units := make([]float64, len(prices))
	uninvested := make([]float64, len(prices))
	held := 0.0
	for i := range prices {
		if i < StagedTranches {
			held += tranche / prices[i]
			uninvested[i] = cash * float64(StagedTranches-1-i) / StagedTranches
		}
		units[i] = held
	}
	return units, uninvested, nil
}
