// Package cli implements the fundtracker command line: offline reports over a fund plan.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"

	"fundtracker/internal/config"
	"fundtracker/internal/date"
	"fundtracker/internal/finance"
	"fundtracker/internal/fund"
	"fundtracker/internal/report"
	"fundtracker/internal/storage"
)

// App holds the flags shared by every subcommand.
type App struct {
	cfg      config.Config
	planPath string
	dbPath   string
	until    string
	noCache  bool

	out io.Writer
	// source replaces the Yahoo client and the sqlite cache when set.
	source   finance.PriceSource
	reviewer report.Reviewer
}

func NewApp(cfg config.Config) *App {
	return &App{cfg: cfg, out: os.Stdout}
}

// SetFlags registers the global flags on fs.
func (a *App) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&a.planPath, "plan", a.cfg.PlanPath, "Path to the fund plan (YAML or JSON)")
	fs.StringVar(&a.dbPath, "db", a.cfg.DBPath, "Path to the sqlite price cache")
	fs.StringVar(&a.until, "until", "", "Value the fund up to this date, YYYY-MM-DD (defaults to the plan, then today)")
	fs.BoolVar(&a.noCache, "no-cache", false, "Fetch prices from Yahoo without the sqlite cache")
}

// Register adds the subcommands to c.
func Register(c *subcommands.Commander, a *App) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&reportCmd{app: a}, "reports")
	c.Register(&chartCmd{app: a}, "reports")
	c.Register(&exportCmd{app: a}, "reports")
	c.Register(&ledgerCmd{app: a}, "reports")
	c.Register(&reviewCmd{app: a}, "reports")

	c.Register(&pricesCmd{app: a}, "market data")
	c.Register(&compareCmd{app: a}, "market data")
}

// openSource returns the price source and a func releasing it.
func (a *App) openSource(ctx context.Context) (finance.PriceSource, func(), error) {
	if a.source != nil {
		return a.source, func() {}, nil
	}
	yahoo := finance.NewYahooClient(finance.WithHosts(a.cfg.YahooHosts...), finance.WithRateLimit(a.cfg.YahooRPS))
	if a.noCache {
		return yahoo, func() {}, nil
	}
	src, db, err := storage.OpenPriceCache(ctx, a.dbPath, yahoo)
	if err != nil {
		return nil, nil, fmt.Errorf("price cache %s: %w", a.dbPath, err)
	}
	return src, func() { db.Close() }, nil
}

// openFund loads the plan and replays its trades.
func (a *App) openFund(ctx context.Context) (*fund.Fund, error) {
	plan, err := config.LoadPlan(a.planPath)
	if err != nil {
		return nil, err
	}
	if a.until != "" {
		if plan.Params.Until, err = date.Parse(a.until); err != nil {
			return nil, fmt.Errorf("-until: %w", err)
		}
	}
	src, closeSrc, err := a.openSource(ctx)
	if err != nil {
		return nil, err
	}
	defer closeSrc()
	f, err := fund.Replay(ctx, src, plan.Params, plan.Trades)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"plan": a.planPath, "trades": len(plan.Trades), "until": f.Until()}).Debug("cli: fund loaded")
	return f, nil
}

// fail prints err and maps it to an exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

func usageError(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}

func trimmed(s string) string { return strings.TrimSpace(s) + "\n" }
