package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"fundtracker/internal/date"
	"fundtracker/internal/fund"
)

type tradeFile struct {
	Action string  `mapstructure:"action"`
	Ticker string  `mapstructure:"ticker"`
	Date   string  `mapstructure:"date"`
	Qty    float64 `mapstructure:"qty"`
	Price  float64 `mapstructure:"price"`
}

type planFile struct {
	Cash         float64     `mapstructure:"cash"`
	Benchmark    string      `mapstructure:"benchmark"`
	Created      string      `mapstructure:"created"`
	Strategy     string      `mapstructure:"strategy"`
	RiskFreeRate float64     `mapstructure:"risk_free_rate"`
	Until        string      `mapstructure:"until"`
	Trades       []tradeFile `mapstructure:"trades"`
}

// Plan is a fund definition: its construction parameters and recorded trades.
type Plan struct {
	Params fund.Params
	Trades []fund.Trade
}

// LoadPlan reads a YAML or JSON plan file. Top-level keys may be overridden
// with FUND_-prefixed environment variables, e.g. FUND_UNTIL.
func LoadPlan(path string) (Plan, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("strategy", "lump_sum")
	v.SetDefault("risk_free_rate", 2.5)
	v.SetEnvPrefix("fund")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return Plan{}, fmt.Errorf("error reading plan file: %w", err)
	}
	var pf planFile
	if err := v.Unmarshal(&pf); err != nil {
		return Plan{}, fmt.Errorf("error unmarshaling plan: %w", err)
	}
	return pf.plan()
}

func (pf planFile) plan() (Plan, error) {
	if pf.Cash <= 0 {
		return Plan{}, fmt.Errorf("plan: cash must be positive, got %v", pf.Cash)
	}
	if strings.TrimSpace(pf.Benchmark) == "" {
		return Plan{}, fmt.Errorf("plan: benchmark is required")
	}
	created, err := date.Parse(pf.Created)
	if err != nil {
		return Plan{}, fmt.Errorf("plan: created: %w", err)
	}
	strategy, err := fund.ParseStrategy(pf.Strategy)
	if err != nil {
		return Plan{}, fmt.Errorf("plan: %w", err)
	}
	var until date.Date
	if pf.Until != "" {
		if until, err = date.Parse(pf.Until); err != nil {
			return Plan{}, fmt.Errorf("plan: until: %w", err)
		}
	}
	p := Plan{Params: fund.Params{
		Cash:            pf.Cash,
		Benchmark:       strings.TrimSpace(pf.Benchmark),
		Created:         created,
		Strategy:        strategy,
		RiskFreeRatePct: pf.RiskFreeRate,
		Until:           until,
	}}
	for i, t := range pf.Trades {
		action, err := fund.ParseAction(t.Action)
		if err != nil {
			return Plan{}, fmt.Errorf("plan: trade %d: %w", i+1, err)
		}
		on, err := date.Parse(t.Date)
		if err != nil {
			return Plan{}, fmt.Errorf("plan: trade %d: %w", i+1, err)
		}
		if t.Ticker == "" {
			return Plan{}, fmt.Errorf("plan: trade %d: ticker is required", i+1)
		}
		p.Trades = append(p.Trades, fund.Trade{Action: action, Ticker: t.Ticker, Date: on, Qty: t.Qty, Price: t.Price})
	}
	return p, nil
}
