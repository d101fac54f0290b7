package natsbench

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRegularizedEAArgs(t *testing.T) {
	launcher := NewLauncher(NewConfig(), zerolog.Nop())

	expected := []string{
		filepath.Join("thirdparty", "autodl", "exps", "NATS-algos", "regularized_ea.py"),
		"--save_dir", filepath.Join("data", "generated"),
		"--dataset", "cifar10",
		"--search_space", "tss",
		"--time_budget", "200000",
		"--loops_if_rand", "1",
		"--ea_cycles", "200",
		"--ea_population", "20",
		"--ea_sample_size", "10",
	}
	require.Equal(t, expected, launcher.RegularizedEAArgs())
}

func TestReinforceArgs(t *testing.T) {
	launcher := NewLauncher(NewConfig(), zerolog.Nop())

	expected := []string{
		filepath.Join("thirdparty", "autodl", "exps", "NATS-algos", "reinforce.py"),
		"--save_dir", filepath.Join("data", "generated"),
		"--dataset", "cifar10",
		"--search_space", "tss",
		"--time_budget", "200000",
		"--loops_if_rand", "1",
		"--learning_rate", "0.01",
	}
	require.Equal(t, expected, launcher.ReinforceArgs())
}

func TestArgsFollowConfigOverrides(t *testing.T) {
	cfg := NewConfig()
	cfg.Set("nats.time_budget", 50000)
	cfg.Set("nats.dataset", "cifar100")
	launcher := NewLauncher(cfg, zerolog.Nop())

	args := launcher.RegularizedEAArgs()
	require.Contains(t, args, "50000")
	require.Contains(t, args, "cifar100")
	require.NotContains(t, args, "cifar10")
}

func TestRunToleratesFailingDriver(t *testing.T) {
	cfg := NewConfig()
	cfg.Set("nats.python_bin", filepath.Join(t.TempDir(), "missing-python"))
	launcher := NewLauncher(cfg, zerolog.Nop())

	// Driver failures are logged and swallowed, never surfaced.
	launcher.Run(context.Background())
}
