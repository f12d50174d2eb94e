package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deltav-sim/deltav/kernel"
	"github.com/deltav-sim/deltav/monitor"
	"github.com/deltav-sim/deltav/record"
	"github.com/deltav-sim/deltav/trace"
)

var configPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the demo simulation with the given configuration.",
	RunE:  runSimulation,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&configPath, "config", "c", "",
		"path to a YAML configuration file")
}

func runSimulation(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	sched := kernel.NewScheduler(kernel.Config{
		MaxDeltaCycles: cfg.MaxDeltaCycles,
	})
	defer sched.Teardown()

	var rec record.Recorder
	if cfg.Record.Enable {
		rec = record.NewRecorder(cfg.Record.Path)
	}

	var tr *trace.Tracer
	if cfg.Trace && rec != nil {
		tr = trace.NewTracer(sched, rec, "waveform")
	}

	if err := buildDemoModel(sched, tr); err != nil {
		return err
	}

	if cfg.Monitor.Enable {
		m := monitor.NewMonitor(sched).
			WithPortNumber(cfg.Monitor.Port)
		if cfg.Monitor.OpenBrowser {
			m = m.WithBrowser()
		}

		m.StartServer()
	}

	err = sched.RunFor(kernel.Units(cfg.RunForNS, kernel.NS))

	sched.Finished()

	if rec != nil {
		rec.Flush()
	}

	fmt.Fprintf(os.Stderr,
		"Simulation %s finished at %s fs after %d delta cycles\n",
		cfg.Name, sched.CurrentTime(), sched.DeltaCount())

	return err
}
