// Package config resolves environment-driven defaults. Per-command flags
// override these at parse time.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/seregni/tracelens/internal/analyze"
)

// Config holds the tracelens environment configuration.
type Config struct {
	// Home is the base state directory. Default: ~/.tracelens
	Home string `env:"TRACELENS_HOME"`
	// Tracer is the command spawned by `tracelens run` when none is given.
	Tracer string `env:"TRACELENS_TRACER" envDefault:"bpftrace"`
	// RateWindowNS is the time-bucket width for rate analysis.
	RateWindowNS int64 `env:"TRACELENS_RATE_WINDOW_NS" envDefault:"1000000000"`
	// TopProcesses caps the process activity ranking.
	TopProcesses int `env:"TRACELENS_TOP_PROCESSES" envDefault:"10"`
	// TopSlowest caps the slowest-syscall listing.
	TopSlowest int `env:"TRACELENS_TOP_SLOWEST" envDefault:"20"`
	// TimelineCap limits timeline entries per process in the report.
	TimelineCap int `env:"TRACELENS_TIMELINE_CAP" envDefault:"25"`
}

// Load parses the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

// HomeDir resolves the state directory, falling back to ~/.tracelens.
func (c *Config) HomeDir() (string, error) {
	if v := strings.TrimSpace(c.Home); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tracelens"), nil
}

// AnalyzeOptions maps the environment knobs onto pipeline options.
func (c *Config) AnalyzeOptions() analyze.Options {
	return analyze.Options{
		WindowNS:     c.RateWindowNS,
		TopProcesses: c.TopProcesses,
		TopSlowest:   c.TopSlowest,
	}
}
