package nasbench

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// DatasetFile is the on-disk layout of the tabular benchmark: a mapping from
// graph hash to measured metrics, plus the epoch count the metrics were
// trained for.
type DatasetFile struct {
	Epochs  int                `json:"epochs"`
	Entries map[string]Metrics `json:"entries"`
}

// TabularOracle answers architecture queries from a precomputed table and
// keeps the running simulated-time budget counters the search loop stops on.
type TabularOracle struct {
	entries map[string]Metrics
	epochs  int
	ops     []string

	timeSpent   float64
	epochsSpent int

	logger zerolog.Logger
}

// NewTabularOracle loads the benchmark table from a JSON dataset file.
func NewTabularOracle(path string, logger zerolog.Logger) (*TabularOracle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	var dataset DatasetFile
	if err := json.Unmarshal(raw, &dataset); err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}
	if len(dataset.Entries) == 0 {
		return nil, fmt.Errorf("dataset %s contains no entries", path)
	}
	if dataset.Epochs <= 0 {
		dataset.Epochs = 108
	}

	logger.Info().
		Str("path", path).
		Int("entries", len(dataset.Entries)).
		Int("epochs", dataset.Epochs).
		Msg("Tabular dataset loaded")

	return &TabularOracle{
		entries: dataset.Entries,
		epochs:  dataset.Epochs,
		ops:     copyOps(AllowedOps),
		logger:  logger,
	}, nil
}

// Query looks up the metrics for spec and charges its training time to the
// budget counters. Unknown or invalid specs are an error; the caller is
// expected to have checked IsValid first.
func (o *TabularOracle) Query(spec *ModelSpec) (Metrics, error) {
	if spec == nil || !spec.valid {
		return Metrics{}, fmt.Errorf("query with invalid spec")
	}

	metrics, ok := o.entries[spec.Hash()]
	if !ok {
		return Metrics{}, fmt.Errorf("spec %s not in dataset", spec.Hash())
	}

	o.timeSpent += metrics.TrainingTime
	o.epochsSpent += o.epochs
	return metrics, nil
}

// IsValid reports whether spec is inside the benchmark's search space:
// structurally valid (pruning kept an input->output path), within the vertex
// and edge limits, and using only known operations.
func (o *TabularOracle) IsValid(spec *ModelSpec) bool {
	if spec == nil || !spec.valid {
		return false
	}
	if len(spec.Ops) > NumVertices {
		return false
	}
	if spec.NumEdges() > MaxEdges {
		return false
	}
	if spec.Ops[0] != OpInput || spec.Ops[len(spec.Ops)-1] != OpOutput {
		return false
	}
	for _, op := range spec.Ops[1 : len(spec.Ops)-1] {
		if !containsOp(o.ops, op) {
			return false
		}
	}
	return true
}

// AvailableOps returns the interior operation vocabulary.
func (o *TabularOracle) AvailableOps() []string { return copyOps(o.ops) }

// BudgetCounters returns cumulative simulated training time (seconds) and
// epochs spent since the last reset.
func (o *TabularOracle) BudgetCounters() (float64, int) {
	return o.timeSpent, o.epochsSpent
}

// ResetBudgetCounters zeroes the budget counters between independent runs.
func (o *TabularOracle) ResetBudgetCounters() {
	o.timeSpent = 0
	o.epochsSpent = 0
}

func containsOp(ops []string, op string) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}
