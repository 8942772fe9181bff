package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/template"

	"github.com/alecthomas/kong"
	"github.com/xor-shift/montecarlo/config"
	"github.com/xor-shift/montecarlo/store"
)

type args struct {
	Seed               string `name:"seed" short:"s" help:"Only export runs with this seed (decimal or 0x hex)"`
	Out                string `name:"out" short:"o" default:"runs_{{.Seed}}.{{.Format}}" help:"File to output to (templated)"`
	Format             string `name:"format" short:"f" enum:"csv,json" default:"csv" help:"Data format"`
	ExportColumnTitles bool   `name:"export_column_titles" negatable:"" default:"true" help:"(applicable only to CSV outputs) whether to include column titles for CSV exports"`
	EnvFile            string `name:"env-file" default:".env" help:"Dotenv file to read settings from; missing files are skipped"`
}

var columns = []string{
	"Run ID",
	"Seed",
	"Samples",
	"Workers",
	"Inside",
	"Estimate",
	"Error",
	"Elapsed (ns)",
	"Reported Time",
	"Insert Time",
}

func (a *args) seedFilter() (*uint64, error) {
	if a.Seed == "" {
		return nil, nil
	}

	seed, err := strconv.ParseUint(a.Seed, 0, 64)
	if err != nil {
		return nil, fmt.Errorf("bad seed %q: %w", a.Seed, err)
	}

	return &seed, nil
}

func (a *args) outFileName() (string, error) {
	outFileNameTemplate, err := template.New("").Parse(a.Out)
	if err != nil {
		return "", fmt.Errorf("error while creating the output filename template: %w", err)
	}

	seed := a.Seed
	if seed == "" {
		seed = "all"
	}

	templateArguments := struct {
		Seed   string
		Format string
	}{
		Seed:   seed,
		Format: a.Format,
	}

	var outFileNameBuf bytes.Buffer
	if err = outFileNameTemplate.Execute(&outFileNameBuf, templateArguments); err != nil {
		return "", fmt.Errorf("error while executing the output filename template: %w", err)
	}

	return outFileNameBuf.String(), nil
}

func writeCSV(w io.Writer, runs []store.Run, titles bool) error {
	csvWriter := csv.NewWriter(w)

	if titles {
		if err := csvWriter.Write(columns); err != nil {
			return err
		}
	}

	for _, run := range runs {
		if err := csvWriter.Write([]string{
			strconv.FormatInt(run.RunID, 10),
			strconv.FormatUint(run.Seed, 10),
			strconv.FormatUint(run.N, 10),
			strconv.Itoa(run.Workers),
			strconv.FormatUint(run.Inside, 10),
			strconv.FormatFloat(run.Estimate, 'f', -1, 64),
			strconv.FormatFloat(run.Error, 'f', -1, 64),
			strconv.FormatInt(run.ElapsedNanos, 10),
			strconv.FormatInt(run.ReportedTime.Unix(), 10),
			strconv.FormatInt(run.InsertTime.Unix(), 10),
		}); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

type jsonRun struct {
	RunID        int64   `json:"runId"`
	Seed         uint64  `json:"seed"`
	N            uint64  `json:"n"`
	Workers      int     `json:"workers"`
	Inside       uint64  `json:"inside"`
	Estimate     float64 `json:"estimate"`
	Error        float64 `json:"error"`
	ElapsedNanos int64   `json:"elapsedNs"`
	ReportedTime int64   `json:"reportedTime"`
	InsertTime   int64   `json:"insertTime"`
}

func writeJSON(w io.Writer, runs []store.Run) error {
	out := make([]jsonRun, 0, len(runs))

	for _, run := range runs {
		out = append(out, jsonRun{
			RunID:        run.RunID,
			Seed:         run.Seed,
			N:            run.N,
			Workers:      run.Workers,
			Inside:       run.Inside,
			Estimate:     run.Estimate,
			Error:        run.Error,
			ElapsedNanos: run.ElapsedNanos,
			ReportedTime: run.ReportedTime.Unix(),
			InsertTime:   run.InsertTime.Unix(),
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(out)
}

func main() {
	var a args
	ctx := kong.Parse(&a)

	cfg, err := config.Load(a.EnvFile)
	if err != nil {
		ctx.Fatalf("loading config failed: %s", err)
	}

	logger := cfg.Logger()

	seed, err := a.seedFilter()
	if err != nil {
		logger.Fatalf("%s", err)
	}

	outFileName, err := a.outFileName()
	if err != nil {
		logger.Fatalf("%s", err)
	}

	db, err := store.Open(cfg)
	if err != nil {
		logger.Fatalf("%s", err)
	}

	runs, err := db.Runs(context.Background(), seed)
	_ = db.Close()
	if err != nil {
		logger.Fatalf("%s", err)
	}

	var outFile *os.File
	if outFile, err = os.Create(outFileName); err != nil {
		logger.Fatalf("error while creating the output file \"%s\": %s", outFileName, err)
	}
	defer outFile.Close()

	if a.Format == "json" {
		err = writeJSON(outFile, runs)
	} else {
		err = writeCSV(outFile, runs, a.ExportColumnTitles)
	}

	if err != nil {
		logger.Fatalf("error while writing \"%s\": %s", outFileName, err)
	}

	logger.Infof("exported %d runs to %s", len(runs), outFileName)
}
