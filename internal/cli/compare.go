package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"fundtracker/internal/date"
	"fundtracker/internal/finance"
)

type compareCmd struct {
	app    *App
	from   string
	to     string
	output string
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "chart tickers rebased to 100" }
func (*compareCmd) Usage() string {
	return `fundtracker compare -from YYYY-MM-DD [-to YYYY-MM-DD] [-o compare.png] TICKER...

  Rebases the adjusted closes of every ticker to 100 on the first day they
  all traded and renders them on one chart.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First day (required)")
	f.StringVar(&c.to, "to", "", "Last day (defaults to today)")
	f.StringVar(&c.output, "o", "compare.png", "Output PNG file")
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return usageError("compare needs at least one ticker")
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

	ix, err := finance.IndexTickers(ctx, src, f.Args(), from, to)
	if err != nil {
		return fail(err)
	}
	img, err := finance.RenderIndexedChart(ix)
	if err != nil {
		return fail(err)
	}
	if err := os.WriteFile(c.output, img, 0o644); err != nil {
		return fail(err)
	}
	for _, s := range ix.Series {
		fmt.Fprintf(c.app.out, "%-10s %8.2f\n", s.Name, s.Values[len(s.Values)-1])
	}
	fmt.Fprintf(c.app.out, "Chart of %s written to %s\n", strings.Join(f.Args(), ", "), c.output)
	return subcommands.ExitSuccess
}
