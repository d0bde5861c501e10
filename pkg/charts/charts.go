package charts

import (
	"errors"
	"io"

	"formify.app/models"
	"formify.app/pkg/statistics"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ErrNoChart is returned for questions that have nothing to plot.
var ErrNoChart = errors.New("question has no chartable data")

// pieLimit is the largest bucket count still drawn as a pie.
const pieLimit = 5

// UseBar reports whether the question is drawn as a bar chart rather than a pie.
func UseBar(q statistics.QuestionStats) bool {
	return q.Type == models.QuestionTypePositiveInteger || len(q.Buckets) > pieLimit
}

// Render writes a standalone HTML chart page for the question statistics.
func Render(w io.Writer, q statistics.QuestionStats) error {
	if q.NoData || len(q.Buckets) == 0 {
		return ErrNoChart
	}
	if UseBar(q) {
		return barChart(q).Render(w)
	}
	return pieChart(q).Render(w)
}

func barChart(q statistics.QuestionStats) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: q.Title, Subtitle: "Responses"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
	)

	labels := make([]string, 0, len(q.Buckets))
	items := make([]opts.BarData, 0, len(q.Buckets))
	for _, b := range q.Buckets {
		labels = append(labels, b.Label)
		items = append(items, opts.BarData{Name: b.Label, Value: b.Count})
	}
	bar.SetXAxis(labels).AddSeries("Responses", items)
	return bar
}

func pieChart(q statistics.QuestionStats) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: q.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	items := make([]opts.PieData, 0, len(q.Buckets))
	for _, b := range q.Buckets {
		items = append(items, opts.PieData{Name: b.Label, Value: b.Count})
	}
	pie.AddSeries("Responses", items).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
	)
	return pie
}
