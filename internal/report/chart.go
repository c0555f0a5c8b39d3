package report

import (
	"fmt"
	"os"

	"fundtracker/internal/finance"
	"fundtracker/internal/fund"
)

// Chart draws the normalized benchmark against the normalized fund.
func Chart(f *fund.Fund) ([]byte, error) {
	ps := f.PerformanceSeries()
	layout := "Jan 02"
	if len(ps.Dates) > 60 {
		layout = "Jan '06"
	}
	labels := make([]string, len(ps.Dates))
	for i, d := range ps.Dates {
		labels[i] = d.Time().Format(layout)
	}
	s := f.Summary()
	subtitle := fmt.Sprintf("Fund %+.2f%% | %s %+.2f%% | Sharpe %s | MaxDD %.2f%%",
		s.Fund.TotalReturn*100, ps.Benchmark, s.Benchmark.TotalReturn*100, s.Fund.Sharpe.Format(2), s.Fund.MaxDrawdown*100)
	return finance.RenderPerformanceChart(
		fmt.Sprintf("Fund vs %s (%s = 100)", ps.Benchmark, s.From),
		subtitle,
		labels,
		[]finance.ChartSeries{
			{Name: ps.Benchmark, Values: ps.Bench},
			{Name: "Fund", Values: ps.Fund},
		},
	)
}

// SaveChart writes the chart PNG to path.
func SaveChart(path string, f *fund.Fund) error {
	img, err := Chart(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, img, 0o644)
}
