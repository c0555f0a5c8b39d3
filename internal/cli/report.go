package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"fundtracker/internal/report"
)

type reportCmd struct {
	app     *App
	metrics bool
	summary bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "print the fund summary and metrics tables" }
func (*reportCmd) Usage() string {
	return `fundtracker report [-summary=false] [-metrics=false]

  Replays the plan and prints the fund vs benchmark summary and the
  per-holding metrics as markdown.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.summary, "summary", true, "Print the performance summary")
	f.BoolVar(&c.metrics, "metrics", true, "Print the metrics table")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fd, err := c.app.openFund(ctx)
	if err != nil {
		return fail(err)
	}
	if c.summary {
		fmt.Fprint(c.app.out, trimmed(report.SummaryMarkdown(fd.Summary())))
	}
	if c.metrics {
		fmt.Fprint(c.app.out, trimmed(report.MetricsMarkdown(fd.MetricsTable())))
	}
	return subcommands.ExitSuccess
}

type ledgerCmd struct{ app *App }

func (*ledgerCmd) Name() string     { return "ledger" }
func (*ledgerCmd) Synopsis() string { return "print the cash movements of the fund" }
func (*ledgerCmd) Usage() string {
	return `fundtracker ledger

  Prints every buy and sell as a signed cash amount with the running balance.
`
}

func (*ledgerCmd) SetFlags(*flag.FlagSet) {}

func (c *ledgerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fd, err := c.app.openFund(ctx)
	if err != nil {
		return fail(err)
	}
	fmt.Fprint(c.app.out, trimmed(report.LedgerMarkdown(fd.Ledger())))
	return subcommands.ExitSuccess
}
