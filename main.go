package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/xor-shift/montecarlo/common"
	"github.com/xor-shift/montecarlo/config"
	"github.com/xor-shift/montecarlo/util"
	"github.com/xor-shift/montecarlo/util/rng"
)

type CLI struct {
	Seed     config.SeedFlag `name:"seed" short:"s" placeholder:"SEED" help:"Generator seed (DEFAULT_SEED if not given). 0 is accepted and yields a degenerate all-zero stream."`
	Samples  uint64          `name:"samples" short:"n" default:"10000000" help:"Number of (x, y) pairs to draw"`
	Workers  int             `name:"workers" short:"w" default:"1" help:"Independent generator streams to split the samples across"`
	Estimate bool            `name:"estimate" short:"e" help:"Print the pi estimate instead of the inside count"`
	Summary  bool            `name:"summary" help:"Print a human readable summary line"`
	Vectors  int             `name:"vectors" help:"Print the first k generator states for the seed and exit"`
	EnvFile  string          `name:"env-file" default:".env" help:"Dotenv file to read settings from; missing files are skipped"`
}

// Exec runs the command. cfg supplies the seed when --seed was not given.
func (c *CLI) Exec(cfg *config.Config, out io.Writer) error {
	seed := c.Seed.Resolve(cfg)

	if c.Vectors > 0 {
		for i, v := range rng.Vectors(seed, c.Vectors) {
			fmt.Fprintf(out, "%d\t%s\t%d\t%s\n",
				i,
				util.ArrayToString([]uint64{v.State}),
				v.State,
				strconv.FormatFloat(v.Float, 'g', -1, 64))
		}

		return nil
	}

	req := common.RunRequest{Seed: seed, N: c.Samples, Workers: c.Workers}
	if err := req.Validate(0); err != nil {
		return err
	}

	result := common.Execute(req)

	switch {
	case c.Summary:
		fmt.Fprintln(out, result.Summary())
	case c.Estimate:
		fmt.Fprintf(out, "%1.16f\n", result.Estimate)
	default:
		fmt.Fprintln(out, result.Inside)
	}

	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("montecarlo"),
		kong.Description("Estimates pi by sampling the unit square with a xorshift64 generator."),
	)

	cfg, err := config.Load(cli.EnvFile)
	if err != nil {
		ctx.Fatalf("loading config failed: %s", err)
	}

	ctx.FatalIfErrorf(cli.Exec(cfg, os.Stdout))
}
