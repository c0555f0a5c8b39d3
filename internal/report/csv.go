// Package report renders a fund's valuation table, metrics and chart.
package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"fundtracker/internal/fund"
)

// WriteValuationCSV writes one line per table row, values rounded to 2 decimals.
func WriteValuationCSV(w io.Writer, t *fund.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return err
	}
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		rec := []string{r.Date.String()}
		for _, v := range r.Record() {
			rec = append(rec, strconv.FormatFloat(v, 'f', 2, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var metricsHeader = []string{"name", "alpha", "beta", "sharpe_ratio", "percentage_share"}

// WriteMetricsCSV writes the metrics table with 3 decimals and shares as "12.34%".
func WriteMetricsCSV(w io.Writer, rows []fund.MetricsRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(metricsHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{r.Name, r.Alpha.Format(3), r.Beta.Format(3), r.Sharpe.Format(3), share(r.Share)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func share(f fund.Figure) string {
	if v, ok := f.Float(); ok {
		return strconv.FormatFloat(v, 'f', 2, 64) + "%"
	}
	return f.Format(2)
}
