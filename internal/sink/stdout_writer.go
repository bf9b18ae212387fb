package sink

import (
	"fmt"
	"io"
	"os"

	"fleetmon/internal/event"
)

// StdoutWriter prints events as JSON lines, wire-shape, one per line.
type StdoutWriter struct {
	out io.Writer
}

// NewStdoutWriter creates a StdoutWriter writing to os.Stdout.
func NewStdoutWriter() *StdoutWriter {
	return &StdoutWriter{out: os.Stdout}
}

// WriteEvent outputs one event in wire format.
func (w *StdoutWriter) WriteEvent(ev event.Event) error {
	data, err := event.Encode(ev)
	if err != nil {
		return err
	}
	fmt.Fprintln(w.out, string(data))
	return nil
}
