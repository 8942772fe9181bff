package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xor-shift/montecarlo/common"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, (&args{Runs: 1, Workers: 1}).validate())
	assert.NoError(t, (&args{Runs: 2, SkipFirst: true}).validate())

	assert.ErrorIs(t, (&args{Runs: 1, SkipFirst: true}).validate(), errSkipFirst)
	assert.Error(t, (&args{Runs: 0}).validate())
	assert.Error(t, (&args{Runs: 1, Workers: 999}).validate())
}

func TestMeasureIsReproducible(t *testing.T) {
	results, err := (&args{Runs: 3, seed: 42, Samples: 1000, Workers: 1}).measure()
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, r := range results {
		assert.Equal(t, uint64(803), r.Inside)
	}
}

func TestReport(t *testing.T) {
	results := []common.Result{
		common.NewResult(42, 100, 1, 80, 3*time.Second),
		common.NewResult(42, 100, 1, 80, 1*time.Second),
		common.NewResult(42, 100, 1, 80, 2*time.Second),
	}

	var out bytes.Buffer
	report(&out, results, true)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "1     3.0000       (skipped)", lines[2])
	assert.Equal(t, "Avg   1.5000      ", lines[6])
	assert.True(t, strings.HasPrefix(lines[7], "pi(100) = 3.2000000000000002"))
}

func TestReportSingleRun(t *testing.T) {
	var out bytes.Buffer
	report(&out, []common.Result{common.NewResult(42, 100, 1, 80, time.Second)}, false)

	assert.NotContains(t, out.String(), "Avg")
	assert.Contains(t, out.String(), "1     1.0000")
}

func TestBuildReport(t *testing.T) {
	req := common.RunRequest{Seed: 42, N: 100, Workers: 1}
	results := []common.Result{
		common.NewResult(42, 100, 1, 80, 3*time.Second),
		common.NewResult(42, 100, 1, 80, 1234567*time.Microsecond),
		common.NewResult(42, 100, 1, 80, 2*time.Second),
	}

	rep := buildReport(req, results, true)

	require.Len(t, rep.Datasets, 2)
	assert.Equal(t, "Run 2", rep.Datasets[0].Label)
	assert.Equal(t, []float64{1.2346}, rep.Datasets[0].Data)
	assert.Equal(t, "Run 3", rep.Datasets[1].Label)
	assert.Equal(t, []float64{2}, rep.Datasets[1].Data)
	assert.Equal(t, []string{"seed 42, n=100, workers=1"}, rep.Labels)
	assert.True(t, rep.ShowLegend)

	rep = buildReport(req, results[:1], false)
	require.Len(t, rep.Datasets, 1)
	assert.Equal(t, "Run 1", rep.Datasets[0].Label)
	assert.False(t, rep.ShowLegend)
}

func TestWriteHTML(t *testing.T) {
	req := common.RunRequest{Seed: 42, N: 100, Workers: 1}
	results := []common.Result{
		common.NewResult(42, 100, 1, 80, 3*time.Second),
		common.NewResult(42, 100, 1, 80, 1*time.Second),
	}

	var out bytes.Buffer
	require.NoError(t, writeHTML(&out, req, results, true))

	html := out.String()
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<title>Benchmark: Monte Carlo pi estimation</title>")
	assert.Contains(t, html, `"label":"Run 2"`)
	assert.Contains(t, html, `"data":[1]`)
	assert.NotContains(t, html, `"label":"Run 1"`)
	assert.Contains(t, html, `"seed 42, n=100, workers=1"`)
	assert.Contains(t, html, "pi(100) = 3.2000000000000002")
}
