package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// defaultRadiusKm is the --radius default.
const defaultRadiusKm = 1000

// fileConfig is the YAML config file. Zero values leave the flag defaults alone.
//
//	source: https://restcountries.com/v2/all
//	category: region_timezones
//	format: table
//	timeout: 10s
type fileConfig struct {
	Source   string        `yaml:"source"`
	Category string        `yaml:"category"`
	Format   string        `yaml:"format"`
	Timeout  time.Duration `yaml:"timeout"`
	Near     string        `yaml:"near"`
	Radius   float64       `yaml:"radius"`
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := &fileConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// apply copies config values into opts for every flag not set on the command line,
// and returns the source to use. A source argument wins over the file.
func (c *fileConfig) apply(flags *pflag.FlagSet, opts *options, source string) string {
	if c.Category != "" && !flags.Changed("category") {
		opts.category = c.Category
	}
	if c.Format != "" && !flags.Changed("format") {
		opts.format = c.Format
	}
	if c.Timeout > 0 && !flags.Changed("timeout") {
		opts.timeout = c.Timeout
	}
	if c.Near != "" && !flags.Changed("near") {
		opts.near = c.Near
	}
	if c.Radius > 0 && !flags.Changed("radius") {
		opts.radius = c.Radius
	}
	if source == "" {
		source = c.Source
	}
	return source
}
