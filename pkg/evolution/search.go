package evolution

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/evobench/nasruns/pkg/nasbench"
)

// Candidate is one population entry: a spec and its validation accuracy.
// The population is ordered by insertion, oldest first.
type Candidate struct {
	Validation float64
	Spec       *nasbench.ModelSpec
}

// Result holds the trajectory of one search run. All three slices are
// parallel and gain exactly one entry per oracle query; BestValids and
// BestTests carry the best-so-far forward and are therefore non-decreasing.
type Result struct {
	Times      []float64 `json:"times"`
	BestValids []float64 `json:"best_valids"`
	BestTests  []float64 `json:"best_tests"`
	NumQueries int       `json:"num_queries"`
	RuntimeMS  int64     `json:"runtime_ms"`

	// FinalPopulation is the population as the run ended, oldest entry
	// first. After seeding it never grows past the configured size: each
	// evolution step appends the child and evicts the oldest entry.
	FinalPopulation []Candidate `json:"-"`
}

// FinalValidation returns the best validation accuracy found by the run.
func (r *Result) FinalValidation() float64 {
	if len(r.BestValids) == 0 {
		return 0
	}
	return r.BestValids[len(r.BestValids)-1]
}

// FinalTest returns the test accuracy of the spec that achieved the best
// validation accuracy.
func (r *Result) FinalTest() float64 {
	if len(r.BestTests) == 0 {
		return 0
	}
	return r.BestTests[len(r.BestTests)-1]
}

// RandomSpec samples random upper-triangular binary adjacency matrices with
// random interior operations until the oracle accepts one. maxAttempts bounds
// the retries (0 retries forever); exhausting it is an error, since an oracle
// that rejects nearly everything would otherwise spin here.
func RandomSpec(oracle nasbench.Oracle, rng *rand.Rand, maxAttempts int) (*nasbench.ModelSpec, error) {
	ops := oracle.AvailableOps()

	for attempt := 0; maxAttempts <= 0 || attempt < maxAttempts; attempt++ {
		matrix := make([][]int, nasbench.NumVertices)
		for i := range matrix {
			matrix[i] = make([]int, nasbench.NumVertices)
			for j := i + 1; j < nasbench.NumVertices; j++ {
				matrix[i][j] = rng.Intn(2)
			}
		}

		labels := make([]string, nasbench.NumVertices)
		labels[0] = nasbench.OpInput
		labels[nasbench.NumVertices-1] = nasbench.OpOutput
		for i := 1; i < nasbench.NumVertices-1; i++ {
			labels[i] = ops[rng.Intn(len(ops))]
		}

		spec, err := nasbench.NewModelSpec(matrix, labels)
		if err != nil {
			return nil, err
		}
		if oracle.IsValid(spec) {
			return spec, nil
		}
	}
	return nil, fmt.Errorf("no valid random spec after %d attempts", maxAttempts)
}

// MutateSpec derives a child from parent by flipping each possible edge with
// probability rate/numVertices and resampling each interior operation
// (excluding its current value) with probability rate/opSpots. In expectation
// that is roughly one edge flip and one op change per call. The whole
// mutation restarts from the unmutated parent until the oracle accepts the
// child; maxAttempts bounds the restarts (0 retries forever).
func MutateSpec(parent *nasbench.ModelSpec, oracle nasbench.Oracle, rate float64, rng *rand.Rand, maxAttempts int) (*nasbench.ModelSpec, error) {
	available := oracle.AvailableOps()
	numVertices := len(parent.OriginalMatrix)
	opSpots := numVertices - 2

	for attempt := 0; maxAttempts <= 0 || attempt < maxAttempts; attempt++ {
		matrix := make([][]int, numVertices)
		for i, row := range parent.OriginalMatrix {
			matrix[i] = make([]int, len(row))
			copy(matrix[i], row)
		}
		labels := make([]string, numVertices)
		copy(labels, parent.OriginalOps)

		edgeProb := rate / float64(numVertices)
		for src := 0; src < numVertices-1; src++ {
			for dst := src + 1; dst < numVertices; dst++ {
				if rng.Float64() < edgeProb {
					matrix[src][dst] = 1 - matrix[src][dst]
				}
			}
		}

		opProb := rate / float64(opSpots)
		for i := 1; i < numVertices-1; i++ {
			if rng.Float64() < opProb {
				choices := make([]string, 0, len(available)-1)
				for _, op := range available {
					if op != labels[i] {
						choices = append(choices, op)
					}
				}
				if len(choices) > 0 {
					labels[i] = choices[rng.Intn(len(choices))]
				}
			}
		}

		child, err := nasbench.NewModelSpec(matrix, labels)
		if err != nil {
			return nil, err
		}
		if oracle.IsValid(child) {
			return child, nil
		}
	}
	return nil, fmt.Errorf("no valid mutation after %d attempts", maxAttempts)
}

// randomCombination draws sampleSize distinct entries from the population by
// ascending random indices, preserving the population's relative order.
func randomCombination(population []Candidate, sampleSize int, rng *rand.Rand) []Candidate {
	indices := rng.Perm(len(population))[:sampleSize]
	sort.Ints(indices)

	sample := make([]Candidate, sampleSize)
	for i, idx := range indices {
		sample[i] = population[idx]
	}
	return sample
}

// tournament returns the sample entry with the highest validation accuracy.
// Entries are stable-sorted ascending by accuracy and the last one is taken,
// so equal top scores resolve to the entry sampled later in population order.
func tournament(sample []Candidate) Candidate {
	ranked := make([]Candidate, len(sample))
	copy(ranked, sample)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Validation < ranked[j].Validation
	})
	return ranked[len(ranked)-1]
}

// RunSearch executes one roll-out of regularized evolution against the oracle
// until its cumulative simulated time exceeds the configured budget.
//
// The population is first seeded with random valid specs, then evolved:
// tournament-select a parent, mutate it, query the child, and evict the
// oldest population entry. The budget check runs after each query, so the
// evolution phase always performs at least one step past seeding.
func RunSearch(ctx context.Context, oracle nasbench.Oracle, config *Config, logger zerolog.Logger) (*Result, error) {
	rng := rand.New(rand.NewSource(config.RandomSeed()))
	return RunSearchRNG(ctx, oracle, config, rng, logger)
}

// RunSearchRNG is RunSearch with an explicit RNG. Callers that repeat runs
// must share one RNG across them: reseeding from the same config every run
// would replay the identical random sequence and make the repeats copies of
// each other.
func RunSearchRNG(ctx context.Context, oracle nasbench.Oracle, config *Config, rng *rand.Rand, logger zerolog.Logger) (*Result, error) {
	startTime := time.Now()

	budget := config.MaxTimeBudget()
	populationSize := config.PopulationSize()
	tournamentSize := config.TournamentSize()
	mutationRate := config.MutationRate()
	maxAttempts := config.MaxSpecAttempts()

	if populationSize < 1 {
		return nil, fmt.Errorf("population size must be positive, got %d", populationSize)
	}

	result := &Result{}
	population := make([]Candidate, 0, populationSize)
	bestValid, bestTest := 0.0, 0.0

	record := func(metrics nasbench.Metrics, timeSpent float64) {
		if metrics.ValidationAccuracy > bestValid {
			bestValid = metrics.ValidationAccuracy
			bestTest = metrics.TestAccuracy
		}
		result.Times = append(result.Times, timeSpent)
		result.BestValids = append(result.BestValids, bestValid)
		result.BestTests = append(result.BestTests, bestTest)
		result.NumQueries++
	}

	logger.Debug().
		Float64("budget", budget).
		Int("population_size", populationSize).
		Int("tournament_size", tournamentSize).
		Float64("mutation_rate", mutationRate).
		Msg("Starting evolution search")

	// Seed the population with random cells.
	for i := 0; i < populationSize; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		spec, err := RandomSpec(oracle, rng, maxAttempts)
		if err != nil {
			return nil, fmt.Errorf("seeding population: %w", err)
		}
		metrics, err := oracle.Query(spec)
		if err != nil {
			return nil, fmt.Errorf("seeding population: %w", err)
		}
		timeSpent, _ := oracle.BudgetCounters()

		population = append(population, Candidate{metrics.ValidationAccuracy, spec})
		record(metrics, timeSpent)

		if timeSpent > budget {
			break
		}
	}

	// Evolve: tournament selection, mutation, aging replacement.
	sampleSize := tournamentSize
	if sampleSize > len(population) {
		sampleSize = len(population)
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		parent := tournament(randomCombination(population, sampleSize, rng))
		child, err := MutateSpec(parent.Spec, oracle, mutationRate, rng, maxAttempts)
		if err != nil {
			return nil, fmt.Errorf("evolving population: %w", err)
		}
		metrics, err := oracle.Query(child)
		if err != nil {
			return nil, fmt.Errorf("evolving population: %w", err)
		}
		timeSpent, _ := oracle.BudgetCounters()

		// Kill the oldest individual.
		population = append(population, Candidate{metrics.ValidationAccuracy, child})
		population = population[1:]

		record(metrics, timeSpent)

		if config.EnableProgress() && config.ProgressInterval() > 0 && result.NumQueries%config.ProgressInterval() == 0 {
			logger.Info().
				Int("queries", result.NumQueries).
				Float64("time_spent", timeSpent).
				Float64("best_validation", bestValid).
				Msg("Search progress")
		}

		if timeSpent > budget {
			break
		}
	}

	result.FinalPopulation = population
	result.RuntimeMS = time.Since(startTime).Milliseconds()

	logger.Debug().
		Int("queries", result.NumQueries).
		Float64("best_validation", bestValid).
		Float64("best_test", bestTest).
		Int64("runtime_ms", result.RuntimeMS).
		Msg("Search completed")

	return result, nil
}
