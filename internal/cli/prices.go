package cli

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"fundtracker/internal/date"
)

type pricesCmd struct {
	app  *App
	from string
	to   string
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "print the daily bars of a ticker as CSV" }
func (*pricesCmd) Usage() string {
	return `fundtracker prices -from YYYY-MM-DD [-to YYYY-MM-DD] TICKER

  Fetches daily bars through the price cache and prints them.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First day (required)")
	f.StringVar(&c.to, "to", "", "Last day (defaults to today)")
}

func (c *pricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("prices takes exactly one ticker")
	}
	from, err := date.Parse(c.from)
	if err != nil {
		return usageError("-from: %v", err)
	}
	to := date.Today()
	if c.to != "" {
		if to, err = date.Parse(c.to); err != nil {
			return usageError("-to: %v", err)
		}
	}
	src, closeSrc, err := c.app.openSource(ctx)
	if err != nil {
		return fail(err)
	}
	defer closeSrc()

	series, err := src.DailyPrices(ctx, strings.ToUpper(f.Arg(0)), from, to)
	if err != nil {
		return fail(err)
	}
	w := csv.NewWriter(c.app.out)
	_ = w.Write([]string{"date", "open", "high", "low", "close", "adjclose"})
	num := func(v float64) string { return fmt.Sprintf("%.4f", v) }
	for _, p := range series.Points {
		_ = w.Write([]string{p.Date.String(), num(p.Open), num(p.High), num(p.Low), num(p.Close), num(p.AdjClose)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
