package main

import (
	"github.com/spf13/cobra"

	"fleetmon/internal/config"
	"fleetmon/internal/event"
	"fleetmon/internal/logging"
	"fleetmon/internal/monitor"
	"fleetmon/internal/sink"
)

var (
	replaySpeed float64
	replayPrint bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <session-file>",
	Short: "Replay a recorded monitoring session",
	Long:  "replay feeds a recorded JSONL session through the monitor pipeline, pacing events by their recorded spacing.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.New(logging.Options{})

		cfg := &config.MonitorConfig{}
		cfg.ApplyDefaults()

		var opts []monitor.Option
		if replayPrint {
			opts = append(opts, monitor.WithSink(sink.NewStdoutWriter()))
		}
		mon := monitor.New(cfg, logger, opts...)

		if err := sink.ReplayFile(args[0], func(ev event.Event) {
			mon.Ingest(ev)
		}, replaySpeed); err != nil {
			return err
		}

		snap := mon.Snapshot()
		logger.Info("replay finished",
			"agents", len(snap.Agents),
			"messages", len(snap.Messages),
			"metrics", len(snap.Metrics),
			"logs", len(snap.Logs),
			"workflows", len(snap.Workflows),
		)
		return nil
	},
}

func init() {
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 0, "Playback speed multiplier; 0 replays without delay")
	replayCmd.Flags().BoolVar(&replayPrint, "print", false, "Print replayed events to STDOUT as JSONL")
}
