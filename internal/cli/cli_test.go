package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundtracker/internal/config"
	"fundtracker/internal/date"
	"fundtracker/internal/finance"
)

var day0 = date.MustParse("2020-05-18")

const planYAML = `cash: 10000
benchmark: ^FTSE
created: "2020-05-18"
until: "2020-05-29"
trades:
  - {action: buy, ticker: GSK.L, date: "2020-05-18", qty: 20, price: 50}
  - {action: sell, ticker: GSK.L, date: "2020-05-25", qty: 5, price: 57}
`

type stubReviewer struct{ got string }

func (s *stubReviewer) Review(_ context.Context, metrics, summary string) (string, error) {
	s.got = summary + metrics
	return "looks fine", nil
}

func walk(ticker string, start float64, n int) finance.PriceSeries {
	s := finance.PriceSeries{Ticker: ticker}
	for i := 0; i < n; i++ {
		c := start + float64(i)
		s.Points = append(s.Points, finance.PricePoint{Date: day0.Add(i), Open: c, High: c, Low: c, Close: c, AdjClose: c})
	}
	return s
}

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	plan := filepath.Join(t.TempDir(), "fund.yaml")
	require.NoError(t, os.WriteFile(plan, []byte(planYAML), 0o644))
	out := &bytes.Buffer{}
	a := NewApp(config.Config{PlanPath: plan})
	a.out = out
	a.source = finance.StaticSource{}.Add(walk("^FTSE", 100, 14)).Add(walk("GSK.L", 50, 14))
	return a, out
}

func run(t *testing.T, a *App, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet("fundtracker", flag.ContinueOnError)
	c := subcommands.NewCommander(fs, "fundtracker")
	a.SetFlags(fs)
	Register(c, a)
	require.NoError(t, fs.Parse(args))
	return c.Execute(context.Background())
}

func TestReportCommand(t *testing.T) {
	a, out := newTestApp(t)
	require.Equal(t, subcommands.ExitSuccess, run(t, a, "report"))
	assert.Contains(t, out.String(), "# Fund vs ^FTSE")
	assert.Contains(t, out.String(), "From 2020-05-18 to 2020-05-29")
	assert.Contains(t, out.String(), "GSK.L")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, run(t, a, "-until", "2020-05-26", "report", "-metrics=false"))
	assert.Contains(t, out.String(), "to 2020-05-26")
	assert.NotContains(t, out.String(), "## Metrics")
}

func TestLedgerCommand(t *testing.T) {
	a, out := newTestApp(t)
	require.Equal(t, subcommands.ExitSuccess, run(t, a, "ledger"))
	assert.Contains(t, out.String(), "-1000.00")
	assert.Contains(t, out.String(), "285.00")
	assert.Contains(t, out.String(), "9285.00")
}

func TestExportAndChartCommands(t *testing.T) {
	a, _ := newTestApp(t)
	dir := t.TempDir()
	val := filepath.Join(dir, "valuation.csv")
	met := filepath.Join(dir, "metrics.csv")
	png := filepath.Join(dir, "fund.png")

	require.Equal(t, subcommands.ExitSuccess, run(t, a, "export", "-valuation", val, "-metrics", met))
	fh, err := os.Open(val)
	require.NoError(t, err)
	defer fh.Close()
	recs, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	assert.Len(t, recs, 13)
	assert.FileExists(t, met)

	require.Equal(t, subcommands.ExitSuccess, run(t, a, "chart", "-o", png))
	info, err := os.Stat(png)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	assert.Equal(t, subcommands.ExitUsageError, run(t, a, "export", "-valuation", "", "-metrics", ""))
}

func TestPricesCommand(t *testing.T) {
	a, out := newTestApp(t)
	require.Equal(t, subcommands.ExitSuccess, run(t, a, "prices", "-from", "2020-05-19", "-to", "2020-05-20", "gsk.l"))
	recs, err := csv.NewReader(out).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"2020-05-19", "51.0000", "51.0000", "51.0000", "51.0000", "51.0000"}, recs[1])

	assert.Equal(t, subcommands.ExitUsageError, run(t, a, "prices", "-from", "2020-05-19"))
	assert.Equal(t, subcommands.ExitFailure, run(t, a, "prices", "-from", "2020-05-19", "NOPE"))
}

func TestReviewCommand(t *testing.T) {
	a, out := newTestApp(t)
	assert.Equal(t, subcommands.ExitUsageError, run(t, a, "review"))

	r := &stubReviewer{}
	a.reviewer = r
	require.Equal(t, subcommands.ExitSuccess, run(t, a, "review"))
	assert.Equal(t, "looks fine\n", out.String())
	assert.Contains(t, r.got, "Sharpe")
}

func TestMissingPlan(t *testing.T) {
	a, _ := newTestApp(t)
	assert.Equal(t, subcommands.ExitFailure, run(t, a, "-plan", filepath.Join(t.TempDir(), "nope.yaml"), "report"))
}

func TestCompareCommand(t *testing.T) {
	a, out := newTestApp(t)
	png := filepath.Join(t.TempDir(), "compare.png")
	require.Equal(t, subcommands.ExitSuccess, run(t, a, "compare", "-from", "2020-05-18", "-to", "2020-05-27", "-o", png, "^FTSE", "gsk.l"))
	assert.Contains(t, out.String(), "GSK.L")
	assert.Contains(t, out.String(), "118.00")
	assert.FileExists(t, png)

	assert.Equal(t, subcommands.ExitUsageError, run(t, a, "compare", "-from", "2020-05-18"))
}
