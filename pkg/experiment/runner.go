package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/evobench/nasruns/pkg/evolution"
	"github.com/evobench/nasruns/pkg/nasbench"
)

// RunData aggregates the final best accuracies of the two experiments, one
// entry per independent run. The JSON keys are the published output contract.
type RunData struct {
	Valids30   []float64 `json:"valids_30"`
	Valids1000 []float64 `json:"valids_1000"`
	Tests30    []float64 `json:"tests_30"`
	Tests1000  []float64 `json:"tests_1000"`
}

// Runner repeats independent evolution searches against one oracle and
// collects each run's final best validation/test accuracy.
type Runner struct {
	oracle    nasbench.Oracle
	searchCfg *evolution.Config
	cfg       *Config
	rng       *rand.Rand
	logger    zerolog.Logger
}

// NewRunner creates a batch runner. The RNG is seeded once from the search
// config and carried across all repeats, so each run draws a fresh random
// sequence instead of replaying the previous run.
func NewRunner(oracle nasbench.Oracle, searchCfg *evolution.Config, cfg *Config, logger zerolog.Logger) *Runner {
	return &Runner{
		oracle:    oracle,
		searchCfg: searchCfg,
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(searchCfg.RandomSeed())),
		logger:    logger,
	}
}

// Repeat runs n independent searches, resetting the oracle's budget counters
// before each one, and returns the per-run final best validation and test
// accuracies.
func (r *Runner) Repeat(ctx context.Context, n int) (valids, tests []float64, err error) {
	valids = make([]float64, 0, n)
	tests = make([]float64, 0, n)

	interval := r.cfg.ProgressInterval()
	for run := 0; run < n; run++ {
		if interval > 0 && run%interval == 0 {
			r.logger.Info().Int("run", run).Int("total", n).Msg("Running repeat")
		}

		r.oracle.ResetBudgetCounters()
		result, err := evolution.RunSearchRNG(ctx, r.oracle, r.searchCfg, r.rng, r.logger)
		if err != nil {
			return nil, nil, fmt.Errorf("run %d: %w", run, err)
		}

		valids = append(valids, result.FinalValidation())
		tests = append(tests, result.FinalTest())
	}

	return valids, tests, nil
}

// GenerateRunData runs the short and long experiments and collects their
// final accuracies into one RunData.
func (r *Runner) GenerateRunData(ctx context.Context) (*RunData, error) {
	data := &RunData{}

	shortRuns := r.cfg.ShortRuns()
	valids, tests, err := r.Repeat(ctx, shortRuns)
	if err != nil {
		return nil, fmt.Errorf("short experiment: %w", err)
	}
	data.Valids30 = valids
	data.Tests30 = tests
	r.logSummary("short", valids)
	r.logger.Info().Int("runs", shortRuns).Msg("Short experiment done")

	longRuns := r.cfg.LongRuns()
	valids, tests, err = r.Repeat(ctx, longRuns)
	if err != nil {
		return nil, fmt.Errorf("long experiment: %w", err)
	}
	data.Valids1000 = valids
	data.Tests1000 = tests
	r.logSummary("long", valids)
	r.logger.Info().Int("runs", longRuns).Msg("Long experiment done")

	return data, nil
}

// logSummary reports distribution statistics of the collected accuracies.
func (r *Runner) logSummary(name string, values []float64) {
	if len(values) == 0 {
		return
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	r.logger.Info().
		Str("experiment", name).
		Int("runs", len(values)).
		Float64("mean", stat.Mean(values, nil)).
		Float64("stddev", stat.StdDev(values, nil)).
		Float64("median", stat.Quantile(0.5, stat.Empirical, sorted, nil)).
		Float64("max", sorted[len(sorted)-1]).
		Msg("Validation accuracy summary")
}
