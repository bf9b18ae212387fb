// Event export sinks for the fleet monitor.
package sink

import "fleetmon/internal/event"

// EventWriter receives every event the monitor ingests, in order.
type EventWriter interface {
	WriteEvent(ev event.Event) error
}

// MultiWriter fans events out to several writers. The first error aborts
// the fan-out and is returned.
type MultiWriter struct {
	writers []EventWriter
}

// NewMultiWriter combines writers into one.
func NewMultiWriter(writers ...EventWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteEvent forwards the event to every writer.
func (m *MultiWriter) WriteEvent(ev event.Event) error {
	for _, w := range m.writers {
		if err := w.WriteEvent(ev); err != nil {
			return err
		}
	}
	return nil
}
