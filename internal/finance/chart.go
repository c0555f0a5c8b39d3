package finance

import (
	"fmt"

	"github.com/vicanso/go-charts/v2"
)

// ChartSeries is one named line of a chart.
type ChartSeries struct {
	Name   string
	Values []float64
}

// RenderPerformanceChart draws the series as lines sharing one y axis and
// returns the PNG bytes. Every series must have one value per label.
func RenderPerformanceChart(title, subtitle string, labels []string, series []ChartSeries) ([]byte, error) {
	if len(series) == 0 || len(labels) == 0 {
		return nil, fmt.Errorf("chart %q: %w", title, ErrNoData)
	}
	for _, s := range series {
		if len(s.Values) != len(labels) {
			return nil, fmt.Errorf("series %s has %d values for %d labels", s.Name, len(s.Values), len(labels))
		}
	}
	values := make([][]float64, 0, len(series))
	names := make([]string, 0, len(series))
	yMin, yMax := series[0].Values[0], series[0].Values[0]
	for _, s := range series {
		for _, v := range s.Values {
			yMin = min(yMin, v)
			yMax = max(yMax, v)
		}
		values = append(values, s.Values)
		names = append(names, s.Name)
	}
	pad := (yMax - yMin) * 0.05
	if pad == 0 {
		pad = yMax * 0.05
	}
	yMin -= pad
	yMax += pad

	split := 6
	if len(labels) <= 30 {
		split = max(len(labels)/3, 3)
	}
	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}
	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: split}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return painter.Bytes()
}
