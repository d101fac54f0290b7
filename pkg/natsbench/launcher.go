// Package natsbench launches the third-party NATS-Bench search drivers
// (regularized evolution and reinforce) as external processes. The drivers
// write their result files themselves; this package only builds the command
// lines, runs them, and captures their output without parsing it.
package natsbench

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
)

// Launcher runs the NATS-Bench algorithm drivers with a fixed argument set.
type Launcher struct {
	cfg    *Config
	logger zerolog.Logger
}

// NewLauncher creates a launcher from config.
func NewLauncher(cfg *Config, logger zerolog.Logger) *Launcher {
	return &Launcher{cfg: cfg, logger: logger}
}

// commonArgs are the flags shared by both drivers.
func (l *Launcher) commonArgs(script string) []string {
	return []string{
		filepath.Join(l.cfg.DriverDir(), script),
		"--save_dir", l.cfg.SaveDir(),
		"--dataset", l.cfg.Dataset(),
		"--search_space", l.cfg.SearchSpace(),
		"--time_budget", strconv.Itoa(l.cfg.TimeBudget()),
		"--loops_if_rand", strconv.Itoa(l.cfg.LoopsIfRand()),
	}
}

// RegularizedEAArgs returns the full argument list for the regularized
// evolution driver.
func (l *Launcher) RegularizedEAArgs() []string {
	return append(l.commonArgs("regularized_ea.py"),
		"--ea_cycles", strconv.Itoa(l.cfg.EACycles()),
		"--ea_population", strconv.Itoa(l.cfg.EAPopulation()),
		"--ea_sample_size", strconv.Itoa(l.cfg.EASampleSize()),
	)
}

// ReinforceArgs returns the full argument list for the reinforce driver.
func (l *Launcher) ReinforceArgs() []string {
	return append(l.commonArgs("reinforce.py"),
		"--learning_rate", fmt.Sprintf("%g", l.cfg.LearningRate()),
	)
}

// Run launches both drivers in sequence. Driver output is captured but never
// parsed, and a failing driver is logged rather than surfaced: the result
// files are produced (or not) as a side effect of the external toolkit.
func (l *Launcher) Run(ctx context.Context) {
	l.runDriver(ctx, "regularized_ea", l.RegularizedEAArgs())
	l.runDriver(ctx, "reinforce", l.ReinforceArgs())
}

func (l *Launcher) runDriver(ctx context.Context, name string, args []string) {
	l.logger.Info().Str("driver", name).Strs("args", args).Msg("Running driver")

	cmd := exec.CommandContext(ctx, l.cfg.PythonBin(), args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		l.logger.Warn().
			Str("driver", name).
			Err(err).
			Int("output_bytes", len(output)).
			Msg("Driver exited with error")
		return
	}

	l.logger.Info().Str("driver", name).Msg("Driver done")
}
