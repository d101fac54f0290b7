// Command natsruns generates NATS-Bench run data by invoking the third-party
// regularized-evolution and reinforce drivers with a fixed argument set. The
// drivers write their own result files; their output is captured but not
// inspected here.
package main

import (
	"context"
	"flag"

	"github.com/evobench/nasruns/pkg/natsbench"
)

func main() {
	cfg := natsbench.NewConfig()

	pythonBin := flag.String("python", cfg.PythonBin(), "python interpreter used to run the drivers")
	driverDir := flag.String("driver-dir", cfg.DriverDir(), "directory containing the NATS-algos driver scripts")
	saveDir := flag.String("save-dir", cfg.SaveDir(), "directory the drivers write results into")
	budget := flag.Int("budget", cfg.TimeBudget(), "driver time budget")
	logLevel := flag.String("loglevel", cfg.LogLevel(), "log level (debug, info, warn, error)")
	flag.Parse()

	cfg.Set("nats.python_bin", *pythonBin)
	cfg.Set("nats.driver_dir", *driverDir)
	cfg.Set("nats.save_dir", *saveDir)
	cfg.Set("nats.time_budget", *budget)
	cfg.Set("logging.level", *logLevel)

	launcher := natsbench.NewLauncher(cfg, cfg.CreateLogger())
	launcher.Run(context.Background())
}
