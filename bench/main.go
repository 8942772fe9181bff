package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/xor-shift/montecarlo/common"
	"github.com/xor-shift/montecarlo/config"
)

type args struct {
	Runs      int             `name:"runs" short:"r" default:"1" help:"Number of measured runs"`
	SkipFirst bool            `name:"skip-first" help:"Exclude the first run from the average and the HTML report (drops cold start)"`
	HTML      string          `name:"html" type:"path" help:"Write an HTML report with a chart to this path"`
	Seed      config.SeedFlag `name:"seed" short:"s" placeholder:"SEED" help:"Generator seed (DEFAULT_SEED if not given)"`
	Samples   uint64          `name:"samples" short:"n" default:"10000000" help:"Number of (x, y) pairs per run"`
	Workers   int             `name:"workers" short:"w" default:"1" help:"Independent generator streams per run"`
	EnvFile   string          `name:"env-file" default:".env" help:"Dotenv file to read settings from; missing files are skipped"`

	seed uint64
}

var errSkipFirst = errors.New("--skip-first requires --runs >= 2")

func (a *args) validate() error {
	if a.Runs < 1 {
		return fmt.Errorf("--runs must be at least 1 (got: %d)", a.Runs)
	}

	if a.SkipFirst && a.Runs < 2 {
		return errSkipFirst
	}

	return a.request().Validate(0)
}

func (a *args) request() common.RunRequest {
	return common.RunRequest{Seed: a.seed, N: a.Samples, Workers: a.Workers}
}

// measure executes the run a.Runs times. Every run must reproduce the first
// run's inside count.
func (a *args) measure() ([]common.Result, error) {
	req := a.request()
	results := make([]common.Result, 0, a.Runs)

	for i := 0; i < a.Runs; i++ {
		result := common.Execute(req)

		if i > 0 && result.Inside != results[0].Inside {
			return nil, fmt.Errorf("run %d counted %d inside, run 1 counted %d", i+1, result.Inside, results[0].Inside)
		}

		results = append(results, result)
	}

	return results, nil
}

func report(out io.Writer, results []common.Result, skipFirst bool) {
	fmt.Fprintf(out, "%-5s %-12s\n", "Run", "Time (s)")
	fmt.Fprintln(out, "------------------")

	measured := results
	if skipFirst {
		measured = results[1:]
	}

	for i, r := range results {
		suffix := ""
		if skipFirst && i == 0 {
			suffix = " (skipped)"
		}

		fmt.Fprintf(out, "%-5d %-12.4f%s\n", i+1, r.Elapsed().Seconds(), suffix)
	}

	if len(measured) > 1 {
		total := time.Duration(0)
		for _, r := range measured {
			total += r.Elapsed()
		}

		fmt.Fprintln(out, "------------------")
		fmt.Fprintf(out, "%-5s %-12.4f\n", "Avg", (total / time.Duration(len(measured))).Seconds())
	}

	if len(results) > 0 {
		fmt.Fprintln(out, results[len(results)-1].Summary())
	}
}

func main() {
	var a args
	ctx := kong.Parse(&a,
		kong.Name("bench"),
		kong.Description("Benchmark: Monte Carlo pi estimation."),
	)

	cfg, err := config.Load(a.EnvFile)
	if err != nil {
		ctx.Fatalf("loading config failed: %s", err)
	}

	a.seed = a.Seed.Resolve(cfg)

	if err = a.validate(); err != nil {
		ctx.Fatalf("%s", err)
	}

	results, err := a.measure()
	ctx.FatalIfErrorf(err)

	report(os.Stdout, results, a.SkipFirst)

	if a.HTML == "" {
		return
	}

	htmlFile, err := os.Create(a.HTML)
	if err != nil {
		ctx.Fatalf("error while creating the report file \"%s\": %s", a.HTML, err)
	}
	defer htmlFile.Close()

	ctx.FatalIfErrorf(writeHTML(htmlFile, a.request(), results, a.SkipFirst))
	fmt.Printf("HTML report written to %s\n", a.HTML)
}
