package config

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/kong"
)

// SeedFlag is a kong flag value that remembers whether it was given on the
// command line. An unset seed falls back to DEFAULT_SEED once the config has
// been loaded, which lets binaries parse flags before touching any dotenv file.
type SeedFlag struct {
	value uint64
	set   bool
}

// Decode accepts decimal or 0x-prefixed hex.
func (s *SeedFlag) Decode(ctx *kong.DecodeContext) error {
	var raw string
	if err := ctx.Scan.PopValueInto("seed", &raw); err != nil {
		return err
	}

	v, err := strconv.ParseUint(raw, 0, 64)
	if err != nil {
		return fmt.Errorf("bad seed %q: %w", raw, err)
	}

	s.value = v
	s.set = true

	return nil
}

func (s SeedFlag) IsSet() bool {
	return s.set
}

// Resolve returns the given seed, or cfg.DefaultSeed if none was given.
func (s SeedFlag) Resolve(cfg *Config) uint64 {
	if s.set {
		return s.value
	}

	return cfg.DefaultSeed
}
