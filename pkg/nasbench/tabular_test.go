package nasbench

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func writeDataset(t *testing.T, dataset DatasetFile) string {
	t.Helper()
	raw, err := json.Marshal(dataset)
	if err != nil {
		t.Fatalf("encoding dataset: %v", err)
	}
	path := filepath.Join(t.TempDir(), "dataset.json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("writing dataset: %v", err)
	}
	return path
}

func testSpec(t *testing.T) *ModelSpec {
	t.Helper()
	spec, err := NewModelSpec(chainMatrix(4), []string{OpInput, OpConv3x3, OpConv1x1, OpOutput})
	if err != nil {
		t.Fatalf("building spec: %v", err)
	}
	return spec
}

func TestTabularOracleQueryChargesBudget(t *testing.T) {
	spec := testSpec(t)
	path := writeDataset(t, DatasetFile{
		Epochs: 108,
		Entries: map[string]Metrics{
			spec.Hash(): {ValidationAccuracy: 0.93, TestAccuracy: 0.91, TrainingTime: 1500},
		},
	})

	oracle, err := NewTabularOracle(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("loading oracle: %v", err)
	}

	for i := 1; i <= 3; i++ {
		metrics, err := oracle.Query(spec)
		if err != nil {
			t.Fatalf("query %d: %v", i, err)
		}
		if metrics.ValidationAccuracy != 0.93 || metrics.TestAccuracy != 0.91 {
			t.Errorf("query %d returned wrong metrics: %+v", i, metrics)
		}

		timeSpent, epochsSpent := oracle.BudgetCounters()
		if math.Abs(timeSpent-float64(i)*1500) > 1e-9 {
			t.Errorf("after %d queries time spent = %f, want %f", i, timeSpent, float64(i)*1500)
		}
		if epochsSpent != i*108 {
			t.Errorf("after %d queries epochs spent = %d, want %d", i, epochsSpent, i*108)
		}
	}

	oracle.ResetBudgetCounters()
	timeSpent, epochsSpent := oracle.BudgetCounters()
	if timeSpent != 0 || epochsSpent != 0 {
		t.Errorf("reset left counters at (%f, %d)", timeSpent, epochsSpent)
	}
}

func TestTabularOracleUnknownSpec(t *testing.T) {
	known := testSpec(t)
	path := writeDataset(t, DatasetFile{
		Entries: map[string]Metrics{
			known.Hash(): {ValidationAccuracy: 0.9, TestAccuracy: 0.88, TrainingTime: 100},
		},
	})

	oracle, err := NewTabularOracle(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("loading oracle: %v", err)
	}

	missing, err := NewModelSpec(chainMatrix(5),
		[]string{OpInput, OpConv3x3, OpConv3x3, OpConv3x3, OpOutput})
	if err != nil {
		t.Fatalf("building spec: %v", err)
	}

	if _, err := oracle.Query(missing); err == nil {
		t.Error("expected error for spec outside the dataset")
	}
	if timeSpent, _ := oracle.BudgetCounters(); timeSpent != 0 {
		t.Errorf("failed query must not charge budget, got %f", timeSpent)
	}
}

func TestTabularOracleIsValid(t *testing.T) {
	spec := testSpec(t)
	path := writeDataset(t, DatasetFile{
		Entries: map[string]Metrics{spec.Hash(): {TrainingTime: 1}},
	})
	oracle, err := NewTabularOracle(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("loading oracle: %v", err)
	}

	if !oracle.IsValid(spec) {
		t.Error("chain spec should be valid")
	}
	if oracle.IsValid(nil) {
		t.Error("nil spec should be invalid")
	}

	// Disconnected spec: pruning left nothing.
	disconnected, err := NewModelSpec([][]int{{0, 0}, {0, 0}}, []string{OpInput, OpOutput})
	if err != nil {
		t.Fatalf("building spec: %v", err)
	}
	if oracle.IsValid(disconnected) {
		t.Error("disconnected spec should be invalid")
	}

	// Fully-connected 7-vertex cell has 21 edges, over the 9-edge limit.
	n := NumVertices
	full := make([][]int, n)
	for i := range full {
		full[i] = make([]int, n)
		for j := i + 1; j < n; j++ {
			full[i][j] = 1
		}
	}
	ops := []string{OpInput, OpConv3x3, OpConv3x3, OpConv3x3, OpConv3x3, OpConv3x3, OpOutput}
	tooDense, err := NewModelSpec(full, ops)
	if err != nil {
		t.Fatalf("building spec: %v", err)
	}
	if oracle.IsValid(tooDense) {
		t.Error("spec over the edge limit should be invalid")
	}

	// Unknown interior operation.
	unknownOp, err := NewModelSpec(chainMatrix(3), []string{OpInput, "conv5x5-bn-relu", OpOutput})
	if err != nil {
		t.Fatalf("building spec: %v", err)
	}
	if oracle.IsValid(unknownOp) {
		t.Error("spec with unknown op should be invalid")
	}
}

func TestNewTabularOracleRejectsBadFiles(t *testing.T) {
	if _, err := NewTabularOracle(filepath.Join(t.TempDir(), "missing.json"), zerolog.Nop()); err == nil {
		t.Error("expected error for missing dataset file")
	}

	empty := writeDataset(t, DatasetFile{})
	if _, err := NewTabularOracle(empty, zerolog.Nop()); err == nil {
		t.Error("expected error for dataset with no entries")
	}
}
