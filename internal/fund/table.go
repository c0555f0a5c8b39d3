package fund

import (
	"slices"

	"fundtracker/internal/date"
)

// Row is one date of the aggregate valuation table. Values and Quantities
// follow Table.Tickers.
type Row struct {
	Date                date.Date
	BenchmarkValue      float64
	BenchmarkNormalized float64
	Cash                float64
	Values              []float64
	Quantities          []float64
	Total               float64
	Normalized          float64
}

// Table holds one row per benchmark trading day.
type Table struct {
	benchmark string
	tickers   []string
	rows      []Row
}

func (t *Table) Benchmark() string { return t.benchmark }
func (t *Table) Tickers() []string { return slices.Clone(t.tickers) }
func (t *Table) Len() int          { return len(t.rows) }

func (t *Table) Row(i int) Row {
	r := t.rows[i]
	r.Values = slices.Clone(r.Values)
	r.Quantities = slices.Clone(r.Quantities)
	return r
}

func (t *Table) First() Row { return t.Row(0) }
func (t *Table) Last() Row  { return t.Row(len(t.rows) - 1) }

// Columns names the fields of a row in export order.
func (t *Table) Columns() []string {
	cols := []string{"date", t.benchmark + " value", t.benchmark + " normalized", "cash"}
	for _, tk := range t.tickers {
		cols = append(cols, tk+" value", tk+" qty")
	}
	return append(cols, "total_asset_value", "normalized_asset_value")
}

// Record flattens a row in Columns order.
func (r Row) Record() []float64 {
	out := []float64{r.BenchmarkValue, r.BenchmarkNormalized, r.Cash}
	for i := range r.Values {
		out = append(out, r.Values[i], r.Quantities[i])
	}
	return append(out, r.Total, r.Normalized)
}

func (t *Table) column(f func(Row) float64) []float64 {
	out := make([]float64, len(t.rows))
	for i, r := range t.rows {
		out[i] = f(r)
	}
	return out
}

func (t *Table) Dates() []date.Date {
	out := make([]date.Date, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Date
	}
	return out
}

// buildTable lays the benchmark, the cash ledger and every position onto the
// benchmark's trading days. A position contributes 0 before it holds anything.
func buildTable(b *Benchmark, ledger *Ledger, positions []*Position) *Table {
	t := &Table{benchmark: b.Ticker(), rows: make([]Row, b.Len())}
	for _, p := range positions {
		t.tickers = append(t.tickers, p.Ticker())
	}
	initial := ledger.Initial().InexactFloat64()
	values, normalized := b.values, b.normalized
	for i, d := range b.Dates() {
		r := Row{
			Date:                d,
			BenchmarkValue:      values[i],
			BenchmarkNormalized: normalized[i],
			Cash:                ledger.BalanceOn(d).InexactFloat64(),
			Values:              make([]float64, len(positions)),
			Quantities:          make([]float64, len(positions)),
		}
		r.Total = r.Cash
		for j, p := range positions {
			r.Quantities[j] = p.QuantityOn(d)
			r.Values[j] = p.ValueOn(d)
			r.Total += r.Values[j]
		}
		r.Normalized = r.Total / initial * 100
		t.rows[i] = r
	}
	return t
}
