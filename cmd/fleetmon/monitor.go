package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fleetmon/internal/admin"
	"fleetmon/internal/config"
	"fleetmon/internal/logging"
	"fleetmon/internal/monitor"
)

var (
	monConfigPath  string
	monSchemaPath  string
	monEndpoint    string
	monPrintEvents bool
	monSessionFile string
	monJSONLogs    bool
	monDebug       bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the fleet monitor",
	Long:  "monitor connects to the fleet telemetry feed (or simulates one) and serves the admin API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(monConfigPath, monSchemaPath)
		if err != nil {
			return err
		}
		if monEndpoint != "" {
			cfg.Endpoint = monEndpoint
		}

		logger := logging.New(logging.Options{JSON: monJSONLogs, Debug: monDebug})

		sinkWriter, cleanup, err := newSink(cfg, monPrintEvents, monSessionFile)
		if err != nil {
			return err
		}
		defer cleanup()

		var opts []monitor.Option
		if sinkWriter != nil {
			opts = append(opts, monitor.WithSink(sinkWriter))
		}
		mon := monitor.New(cfg, logger, opts...)
		mon.Start()
		defer mon.Shutdown()

		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), logger))
		defer cancel()

		srv := admin.NewServer(mon)
		go func() {
			logger.Info("admin API listening", "addr", cfg.AdminAddr)
			if err := srv.Start(ctx, cfg.AdminAddr); err != nil && err != http.ErrServerClosed {
				logger.Error("admin server failed", "err", err)
			}
		}()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs

		cancel()
		logger.Info("fleet monitor stopped")
		return nil
	},
}

func init() {
	monitorCmd.Flags().StringVar(&monConfigPath, "config", "config/monitor.yaml", "Path to monitor configuration YAML")
	monitorCmd.Flags().StringVar(&monSchemaPath, "schema", "schemas/monitor.cue", "Path to CUE schema file")
	monitorCmd.Flags().StringVar(&monEndpoint, "endpoint", "", "Override the feed endpoint from the config file")
	monitorCmd.Flags().BoolVar(&monPrintEvents, "print-events", false, "Print ingested events to STDOUT as JSONL")
	monitorCmd.Flags().StringVar(&monSessionFile, "session-file", "", "Record the session to a JSONL file for replay")
	monitorCmd.Flags().BoolVar(&monJSONLogs, "json-logs", false, "Emit logs as JSON")
	monitorCmd.Flags().BoolVar(&monDebug, "debug", false, "Enable debug logging")
}
