package nasbench

// Metrics holds the precomputed evaluation of one architecture.
type Metrics struct {
	ValidationAccuracy float64 `json:"validation_accuracy"`
	TestAccuracy       float64 `json:"test_accuracy"`
	TrainingTime       float64 `json:"training_time"` // simulated seconds
}

// Oracle is the tabular-benchmark contract the search loop runs against.
// Query looks up the metrics for a spec and charges its training time to the
// oracle's running budget counters; BudgetCounters reports the cumulative
// simulated time and epochs spent since the last reset.
type Oracle interface {
	Query(spec *ModelSpec) (Metrics, error)
	IsValid(spec *ModelSpec) bool
	AvailableOps() []string
	BudgetCounters() (timeSpent float64, epochsSpent int)
	ResetBudgetCounters()
}
