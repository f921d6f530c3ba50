package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/upwind/stencil"
	"github.com/inference-sim/upwind/stencil/dottest"
	"github.com/inference-sim/upwind/stencil/shot"
)

var (
	// CLI flags for the run command
	configPath string  // Path to the job YAML
	logLevel   string  // Log verbosity level
	workers    int     // Concurrent stencil builds (overrides job file when > 0)
	seed       int64   // RNG seed for dot-product tests (overrides job file when set)
	tolerance  float64 // Max relative dot-product mismatch
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "upwind",
	Short: "Upwind causal stencil operators on regular grids",
}

// ShotReport is the per-shot section of the run report.
type ShotReport struct {
	ID      string         `yaml:"id"`
	Stats   *stencil.Stats `yaml:"stats"`
	Forward dottest.Result `yaml:"forward_adjoint"`
	Solve   dottest.Result `yaml:"solve_inverse"`
	Passed  bool           `yaml:"passed"`
}

// Report is written to stdout as YAML at the end of a run.
type Report struct {
	Nodes     int          `yaml:"nodes"`
	Seed      int64        `yaml:"seed"`
	Tolerance float64      `yaml:"tolerance"`
	ElapsedMs int64        `yaml:"elapsed_ms"`
	Shots     []ShotReport `yaml:"shots"`
}

// runCmd builds a stencil per shot and checks all four operators.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build stencils for every shot of a job and run dot-product tests",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := loadJobConfig(configPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if workers > 0 {
			cfg.Workers = workers
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = seed
		}

		report, err := runJob(cmd.Context(), cfg, tolerance)
		if err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}
		data, err := yaml.Marshal(report)
		if err != nil {
			logrus.Fatalf("YAML marshal failed: %v", err)
		}
		fmt.Print(string(data))

		for _, s := range report.Shots {
			if !s.Passed {
				logrus.Fatalf("Dot-product test failed for shot %q", s.ID)
			}
		}
		logrus.Info("All dot-product tests passed.")
	},
}

// runJob builds every shot's stencil in parallel, then runs the two
// dot-product tests per shot sequentially.
func runJob(ctx context.Context, cfg *JobConfig, tol float64) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	grid, fields, err := cfg.buildFields()
	if err != nil {
		return nil, err
	}
	logrus.Infof("Starting job on %v with %d shots", grid, len(cfg.Shots))

	set, err := shot.BuildAll(ctx, grid, fields, shot.Options{Workers: cfg.Workers})
	if err != nil {
		return nil, err
	}
	defer set.Close()

	rng := dottest.NewPartitionedRNG(cfg.Seed)
	report := &Report{Nodes: grid.Len(), Seed: cfg.Seed, Tolerance: tol}
	for i, st := range set.Stencils {
		id := cfg.Shots[i].ID
		r := rng.ForShot(id)
		fwd, err := dottest.Run(stencil.ForwardOperator(st), r)
		if err != nil {
			return nil, fmt.Errorf("shot %q forward/adjoint: %w", id, err)
		}
		sol, err := dottest.Run(stencil.SolveOperator(st), r)
		if err != nil {
			return nil, fmt.Errorf("shot %q solve/inverse: %w", id, err)
		}
		sr := ShotReport{
			ID:      id,
			Stats:   st.Stats(),
			Forward: fwd,
			Solve:   sol,
			Passed:  fwd.Passed(tol) && sol.Passed(tol),
		}
		logrus.Debugf("shot %q: forward relErr=%g solve relErr=%g", id, fwd.RelErr(), sol.RelErr())
		report.Shots = append(report.Shots, sr)
	}
	report.ElapsedMs = time.Since(start).Milliseconds()
	return report, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "Path to job YAML (grid, velocity, shots)")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Concurrent stencil builds (0 = use job file, then GOMAXPROCS)")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for dot-product test vectors (overrides job file)")
	runCmd.Flags().Float64Var(&tolerance, "tolerance", 1e-8, "Max relative dot-product mismatch")
	_ = runCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(runCmd)
}
