package monitor

import (
	"fleetmon/internal/event"
)

// apply routes one event to its state mutation. The switch is exhaustive
// over the sealed event set; adding a variant without a case here is a
// compile-time visible gap, not a silently ignored message.
func (m *Monitor) apply(ev event.Event) {
	switch e := ev.(type) {
	case event.AgentStatus:
		m.store.UpsertAgent(e.Agent)
	case event.AgentMessage:
		m.store.AddMessage(e.Message)
	case event.PerformanceMetric:
		m.store.AddMetric(e.Metric)
	case event.LogEntry:
		m.store.AddLog(e.Log)
	case event.WorkflowUpdate:
		m.store.UpsertWorkflow(e.Workflow)
	}
	if m.sink != nil {
		if err := m.sink.WriteEvent(ev); err != nil {
			m.log.Warn("sink write failed", "type", ev.EventType(), "err", err)
		}
	}
}

// Ingest feeds one already-decoded event through the monitor as if it had
// arrived on the feed. Used by replay and by tests; must only be called
// while the run loop is stopped, or through the simulation channel.
func (m *Monitor) Ingest(ev event.Event) {
	m.apply(ev)
}
