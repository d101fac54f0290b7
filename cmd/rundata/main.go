// Command rundata generates regularized-evolution run data from a
// NAS-Bench-101 tabular dataset: it repeats a fixed-budget search many times
// and serializes the per-run best accuracies to a single JSON file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/evobench/nasruns/pkg/evolution"
	"github.com/evobench/nasruns/pkg/experiment"
	"github.com/evobench/nasruns/pkg/nasbench"
)

func main() {
	searchCfg := evolution.NewConfig()
	expCfg := experiment.NewConfig()

	dataset := flag.String("dataset", filepath.Join("data", "nasbench_only108.json"), "path to the tabular dataset file")
	out := flag.String("out", expCfg.OutputPath(), "path for the generated run-data JSON")
	budget := flag.Float64("budget", searchCfg.MaxTimeBudget(), "simulated time budget per run (seconds)")
	population := flag.Int("population", searchCfg.PopulationSize(), "population size")
	seed := flag.Int64("seed", searchCfg.RandomSeed(), "random seed")
	shortRuns := flag.Int("short-runs", expCfg.ShortRuns(), "repetitions of the short experiment")
	longRuns := flag.Int("long-runs", expCfg.LongRuns(), "repetitions of the long experiment")
	logLevel := flag.String("loglevel", expCfg.LogLevel(), "log level (debug, info, warn, error)")
	flag.Parse()

	searchCfg.Set("search.max_time_budget", *budget)
	searchCfg.Set("search.population_size", *population)
	searchCfg.Set("search.random_seed", *seed)
	searchCfg.Set("logging.level", *logLevel)
	searchCfg.Set("logging.enable_progress", false) // per-run progress is too chatty across 1000 runs
	expCfg.Set("experiment.output_path", *out)
	expCfg.Set("experiment.short_runs", *shortRuns)
	expCfg.Set("experiment.long_runs", *longRuns)
	expCfg.Set("logging.level", *logLevel)

	logger := expCfg.CreateLogger()

	oracle, err := nasbench.NewTabularOracle(*dataset, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	runner := experiment.NewRunner(oracle, searchCfg, expCfg, logger)
	data, err := runner.GenerateRunData(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := experiment.WriteRunData(expCfg.OutputPath(), data); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger.Info().Str("path", expCfg.OutputPath()).Msg("Run data saved")
}
