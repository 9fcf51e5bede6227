package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/infersim/infersim/config"
	"github.com/infersim/infersim/sim"
	"github.com/infersim/infersim/sim/trace"
)

var runCmd = &cobra.Command{
	Use:   "run <preset>",
	Short: "Run one simulation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		preset := args[0]

		res := loadEffectiveConfigOrExit(preset)
		eff := res.eff

		sink, closer, err := newSinkForRun(eff.OutputDir, eff.Trace.Formats)
		if err != nil {
			logrus.Errorf("config error: %v", err)
			os.Exit(1)
		}
		defer closer()

		engine := config.BuildEngine(&eff, sink)
		until := config.BuildUntil(eff.Until)

		logrus.Infof("starting run: preset=%q seed=%q workers=%d scheduler=%s", preset, eff.Seed, len(eff.Workers), eff.Scheduler.Kind)
		start := time.Now()
		runEngine(engine, until)
		elapsed := time.Since(start)

		if engine.TraceIncomplete {
			logrus.Warnf("trace incomplete: one or more sink writes failed")
		}
		logrus.Infof("run complete in %s, %d jobs still pending", elapsed, engine.PendingAdmitted())
		engine.Metrics().Print()
	},
}

// runEngine drives the engine, recovering a LogicError panic (sim.Fatalf)
// long enough to log it as a diagnostic before re-panicking: per the
// error-handling design, a LogicError means the implementation is wrong and
// must still crash the process with a stack trace, but the run handler gets
// the first and only chance to say which invariant broke.
func runEngine(engine *sim.Engine, until sim.UntilConfig) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("simulation aborted: %v", r)
			panic(r)
		}
	}()
	engine.Run(until)
}

// newSinkForRun builds the configured EventSink(s) under outputDir. Returns
// a closer that must run before process exit to flush buffered writers.
func newSinkForRun(outputDir string, formats []string) (trace.EventSink, func(), error) {
	sink, err := config.BuildSink(outputDir, formats)
	if err != nil {
		return nil, nil, err
	}
	return sink, func() {
		if c, ok := sink.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				logrus.Warnf("closing sink: %v", err)
			}
		}
	}, nil
}
