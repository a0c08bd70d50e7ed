package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/motion-data/dynamics.report/internal/dynamics"
	"github.com/motion-data/dynamics.report/internal/httputil"
)

// getChart renders an HTML page of trajectory charts: the path in the
// plane, then speed and curvature against time. Intended for eyeballing a
// stored trajectory without any separate UI.
func (s *Server) getChart(w http.ResponseWriter, r *http.Request, id string) {
	targetUnits, ok := s.requestUnits(w, r)
	if !ok {
		return
	}

	rec, err := s.db.GetTrajectory(id)
	if err != nil {
		s.storeError(w, err)
		return
	}
	enriched, err := s.db.GetEnriched(id)
	if err != nil {
		s.storeError(w, err)
		return
	}
	enriched = convertUnits(enriched, targetUnits)

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Trajectory %s", rec.Name)
	page.AddCharts(
		pathChart(rec.Name, enriched),
		seriesChart("Speed", fmt.Sprintf("speed (%s)", targetUnits), enriched, func(row dynamics.EnrichedSample) float64 { return row.Speed }),
		seriesChart("Curvature", "curvature (1/m)", enriched, func(row dynamics.EnrichedSample) float64 { return row.Curvature }),
	)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// pathChart plots the sampled positions in the plane.
func pathChart(name string, et dynamics.EnrichedTrajectory) components.Charter {
	data := make([]opts.ScatterData, 0, len(et))
	for _, row := range et {
		data = append(data, opts.ScatterData{Value: []interface{}{row.X, row.Y}})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Path", Subtitle: fmt.Sprintf("trajectory=%s samples=%d", name, len(et))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "y (m)", NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("path", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	return scatter
}

// seriesChart plots one derived column against time. Undefined rows are
// skipped rather than drawn as zeroes.
func seriesChart(title, axisName string, et dynamics.EnrichedTrajectory, value func(dynamics.EnrichedSample) float64) components.Charter {
	xs := make([]string, 0, len(et))
	ys := make([]opts.LineData, 0, len(et))
	for _, row := range et {
		v := value(row)
		if !dynamics.Finite(v) {
			continue
		}
		xs = append(xs, fmt.Sprintf("%.3f", row.T))
		ys = append(ys, opts.LineData{Value: v})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: axisName}),
	)
	line.SetXAxis(xs)
	line.AddSeries(title, ys, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}))
	return line
}
