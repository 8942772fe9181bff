package main

import (
	"fmt"
	"html/template"
	"io"
	"math"

	"github.com/xor-shift/montecarlo/common"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Benchmark: {{.Title}}</title>
<script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
<style>
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    max-width: 800px;
    margin: 60px auto;
    padding: 0 20px;
    background: #f5f5f5;
    color: #333;
  }
  h1 { text-align: center; }
  .chart-container {
    background: #fff;
    border-radius: 8px;
    box-shadow: 0 2px 8px rgba(0,0,0,0.1);
    padding: 24px;
  }
  p.summary { text-align: center; font-family: monospace; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="chart-container">
  <canvas id="chart"></canvas>
</div>
<p class="summary">{{.Summary}}</p>
<script>
const ctx = document.getElementById("chart").getContext("2d");
new Chart(ctx, {
  type: "bar",
  data: {
    labels: {{.Labels}},
    datasets: {{.Datasets}},
  },
  options: {
    responsive: true,
    plugins: {
      legend: { display: {{.ShowLegend}} },
      title: {
        display: true,
        text: "Duration in seconds (lower is faster)",
        font: { size: 14 },
      },
    },
    scales: {
      y: {
        beginAtZero: true,
        title: { display: true, text: "Time (s)" },
      },
    },
  },
});
</script>
</body>
</html>
`))

type htmlDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor"`
	BorderColor     string    `json:"borderColor"`
	BorderWidth     int       `json:"borderWidth"`
}

type htmlReport struct {
	Title      string
	Summary    string
	Labels     []string
	Datasets   []htmlDataset
	ShowLegend bool
}

// seconds rounded to four places, as the table shows them
func roundedSeconds(r common.Result) float64 {
	return math.Round(r.Elapsed().Seconds()*1e4) / 1e4
}

// buildReport turns the measured runs into one chart dataset per run. With
// skipFirst the first run is left out, as it is from the average.
func buildReport(req common.RunRequest, results []common.Result, skipFirst bool) htmlReport {
	rep := htmlReport{
		Title:  "Monte Carlo pi estimation",
		Labels: []string{fmt.Sprintf("seed %d, n=%d, workers=%d", req.Seed, req.N, req.Workers)},
	}

	first := 0
	if skipFirst {
		first = 1
	}

	for i := first; i < len(results); i++ {
		rep.Datasets = append(rep.Datasets, htmlDataset{
			Label:           fmt.Sprintf("Run %d", i+1),
			Data:            []float64{roundedSeconds(results[i])},
			BackgroundColor: "#5bc0decc",
			BorderColor:     "#5bc0de",
			BorderWidth:     1,
		})
	}

	rep.ShowLegend = len(rep.Datasets) > 1

	if len(results) > 0 {
		rep.Summary = results[len(results)-1].Summary()
	}

	return rep
}

func writeHTML(w io.Writer, req common.RunRequest, results []common.Result, skipFirst bool) error {
	if err := reportTemplate.Execute(w, buildReport(req, results, skipFirst)); err != nil {
		return fmt.Errorf("rendering the html report: %w", err)
	}

	return nil
}
