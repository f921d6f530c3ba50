package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/upwind/stencil"
	"github.com/inference-sim/upwind/stencil/field"
)

// GridConfig describes the regular grid of a job.
type GridConfig struct {
	Size     []int     `yaml:"size"`
	Sampling []float64 `yaml:"sampling"`
}

// ShotConfig is one source position in physical coordinates.
type ShotConfig struct {
	ID     string    `yaml:"id"`
	Source []float64 `yaml:"source"`
}

// JobConfig represents the full job YAML structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type JobConfig struct {
	Grid     GridConfig   `yaml:"grid"`
	Velocity float64      `yaml:"velocity"`
	Seed     int64        `yaml:"seed"`
	Workers  int          `yaml:"workers"`
	Shots    []ShotConfig `yaml:"shots"`
}

// loadJobConfig parses a job file with strict field checking: typos must
// cause errors.
func loadJobConfig(path string) (*JobConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading job file: %w", err)
	}
	var cfg JobConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing job YAML %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *JobConfig) validate() error {
	if len(c.Shots) == 0 {
		return fmt.Errorf("job: at least one shot is required")
	}
	seen := make(map[string]bool, len(c.Shots))
	for i, s := range c.Shots {
		if s.ID == "" {
			return fmt.Errorf("job: shot %d has no id", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("job: duplicate shot id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// buildFields creates the grid and one point-source traveltime table per shot.
func (c *JobConfig) buildFields() (*stencil.Grid, [][]float64, error) {
	grid, err := stencil.NewGrid(c.Grid.Size, c.Grid.Sampling)
	if err != nil {
		return nil, nil, err
	}
	fields := make([][]float64, len(c.Shots))
	for i, s := range c.Shots {
		f, err := field.PointSource(grid, s.Source, c.Velocity)
		if err != nil {
			return nil, nil, fmt.Errorf("shot %q: %w", s.ID, err)
		}
		fields[i] = f
	}
	return grid, fields, nil
}
