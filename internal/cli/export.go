package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"fundtracker/internal/report"
)

type chartCmd struct {
	app    *App
	output string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "render the fund vs benchmark chart as PNG" }
func (*chartCmd) Usage() string {
	return `fundtracker chart [-o fund.png]

  Renders both normalized valuations on one chart.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "fund.png", "Output PNG file")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fd, err := c.app.openFund(ctx)
	if err != nil {
		return fail(err)
	}
	if err := report.SaveChart(c.output, fd); err != nil {
		return fail(err)
	}
	fmt.Fprintf(c.app.out, "Chart written to %s\n", c.output)
	return subcommands.ExitSuccess
}

type exportCmd struct {
	app       *App
	valuation string
	metrics   string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the valuation and metrics tables as CSV" }
func (*exportCmd) Usage() string {
	return `fundtracker export [-valuation valuation.csv] [-metrics metrics.csv]

  Writes one row per trading day with every holding's value and quantity,
  and the alpha, beta, Sharpe ratio and share of each holding. An empty
  path skips that file.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.valuation, "valuation", "valuation.csv", "Output file for the valuation table")
	f.StringVar(&c.metrics, "metrics", "metrics.csv", "Output file for the metrics table")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.valuation == "" && c.metrics == "" {
		return usageError("nothing to export")
	}
	fd, err := c.app.openFund(ctx)
	if err != nil {
		return fail(err)
	}
	if c.valuation != "" {
		if err := writeFile(c.valuation, func(fh *os.File) error { return report.WriteValuationCSV(fh, fd.Table()) }); err != nil {
			return fail(err)
		}
		fmt.Fprintf(c.app.out, "Valuation written to %s\n", c.valuation)
	}
	if c.metrics != "" {
		if err := writeFile(c.metrics, func(fh *os.File) error { return report.WriteMetricsCSV(fh, fd.MetricsTable()) }); err != nil {
			return fail(err)
		}
		fmt.Fprintf(c.app.out, "Metrics written to %s\n", c.metrics)
	}
	return subcommands.ExitSuccess
}

func writeFile(path string, write func(*os.File) error) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(fh); err != nil {
		fh.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return fh.Close()
}
