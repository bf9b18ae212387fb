package main

import (
	"fleetmon/internal/config"
	"fleetmon/internal/monitor"
	"fleetmon/internal/sink"
)

// newSink assembles the event sink from flags and config. It returns a nil
// writer when nothing is configured, plus a cleanup to close any files.
func newSink(cfg *config.MonitorConfig, printEvents bool, sessionFile string) (monitor.EventSink, func(), error) {
	cleanup := func() {}

	var writers []sink.EventWriter
	if printEvents {
		writers = append(writers, sink.NewStdoutWriter())
	}
	if sessionFile != "" {
		fw, err := sink.NewFileWriter(sessionFile)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { fw.Close() }
		writers = append(writers, fw)
	}
	if cfg.Greptime.Endpoint != "" {
		db := cfg.Greptime.Database
		if db == "" {
			db = "public"
		}
		gw, err := sink.NewGreptimeWriter(cfg.Greptime.Endpoint, db)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		writers = append(writers, gw)
	}

	switch len(writers) {
	case 0:
		return nil, cleanup, nil
	case 1:
		return writers[0], cleanup, nil
	default:
		return sink.NewMultiWriter(writers...), cleanup, nil
	}
}
