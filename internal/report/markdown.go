package report

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"fundtracker/internal/fund"
)

func MetricsMarkdown(rows []fund.MetricsRow) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Metrics")
	table := md.TableSet{
		Header: []string{"", "Alpha", "Beta", "Sharpe", "Share"},
	}
	for _, r := range rows {
		name := r.Name
		if r.Kind == fund.KindFund {
			name = md.Bold(name)
		}
		table.Rows = append(table.Rows, []string{name, r.Alpha.Format(3), r.Beta.Format(3), r.Sharpe.Format(3), share(r.Share)})
	}
	doc.Table(table)
	return doc.String()
}

func SummaryMarkdown(s fund.Summary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Fund vs %s", s.Benchmark.Name))
	doc.PlainText(fmt.Sprintf("From %s to %s", s.From, s.To))

	pct := func(v float64) string { return fmt.Sprintf("%+.2f%%", v*100) }
	pctFig := func(f fund.Figure) string {
		if v, ok := f.Float(); ok {
			return pct(v)
		}
		return f.Format(2)
	}
	row := func(label string, get func(fund.Performance) string) []string {
		return []string{label, get(s.Fund), get(s.Benchmark)}
	}
	doc.Table(md.TableSet{
		Header: []string{"", "Fund", s.Benchmark.Name},
		Rows: [][]string{
			row("Normalized value", func(p fund.Performance) string { return fmt.Sprintf("%.2f", p.End) }),
			row("Total return", func(p fund.Performance) string { return pct(p.TotalReturn) }),
			row("Annualized return", func(p fund.Performance) string { return pctFig(p.AnnualizedReturn) }),
			row("Volatility", func(p fund.Performance) string { return fmt.Sprintf("%.2f%%", p.Volatility*100) }),
			row("Sharpe ratio", func(p fund.Performance) string { return p.Sharpe.Format(3) }),
			row("Max drawdown", func(p fund.Performance) string { return fmt.Sprintf("%.2f%%", p.MaxDrawdown*100) }),
		},
	})
	return doc.String()
}

// LedgerMarkdown lists the cash movements and the running balance after each.
func LedgerMarkdown(l *fund.Ledger) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Cash ledger")
	doc.PlainText(fmt.Sprintf("Starting cash %s", l.Initial().StringFixed(2)))
	table := md.TableSet{
		Header: []string{"Date", "Ticker", "Amount", "Balance"},
	}
	balance := l.Initial()
	for _, e := range l.Entries() {
		balance = balance.Add(e.Amount)
		table.Rows = append(table.Rows, []string{e.Date.String(), e.Ticker, e.Amount.StringFixed(2), balance.StringFixed(2)})
	}
	doc.Table(table)
	return doc.String()
}
