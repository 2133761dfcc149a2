package main

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/tracklet/cluster"
)

// viridis-like ramp, matching the debug charts used elsewhere in the
// pipeline tooling.
var plotColors = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// writeClusterPlot renders the cluster assignment as a standalone HTML
// scatter chart. Points are colored by cluster ID; noise maps to the low
// end of the ramp.
func writeClusterPlot(path string, xs, ys []float64, result *cluster.Result) error {
	data := make([]opts.ScatterData, 0, len(xs))
	for i, l := range result.Labels() {
		data = append(data, opts.ScatterData{Value: []interface{}{xs[i], ys[i], l}})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Tracklet Clusters",
			Theme:     "dark",
			Width:     "900px",
			Height:    "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Cluster Assignment",
			Subtitle: fmt.Sprintf("points=%d clusters=%d", result.Len(), result.NumClusters()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "y", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(cluster.Noise),
			Max:        float32(result.NumClusters() - 1),
			InRange:    &opts.VisualMapInRange{Color: plotColors},
		}),
	)
	scatter.AddSeries("clusters", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return scatter.Render(f)
}
