// Bounded in-memory state for the fleet monitor.
package state

import (
	"sync"

	"fleetmon/internal/fleet"
)

// Default collection caps. Oldest entries beyond a cap are evicted.
const (
	DefaultMessageCap = 100
	DefaultMetricCap  = 1000
	DefaultLogCap     = 200
)

// Mode describes where the current feed originates.
type Mode string

const (
	ModeLive      Mode = "live"
	ModeSimulated Mode = "simulated"
)

// Caps bounds the three append-only collections. Zero values fall back to
// the defaults.
type Caps struct {
	Messages int
	Metrics  int
	Logs     int
}

// Store holds the five fleet collections plus connectivity. Messages,
// metrics, and logs are newest-first and capped; agents and workflows are
// upserted by ID. Mutations happen on the monitor's run loop; reads may come
// from any goroutine and always receive copies.
type Store struct {
	mu        sync.RWMutex
	caps      Caps
	agents    []fleet.Agent
	messages  []fleet.AgentMessage
	metrics   []fleet.PerformanceMetric
	logs      []fleet.LogEntry
	workflows []fleet.Workflow
	connected bool
	mode      Mode
}

// New creates an empty store with the given caps.
func New(caps Caps) *Store {
	if caps.Messages <= 0 {
		caps.Messages = DefaultMessageCap
	}
	if caps.Metrics <= 0 {
		caps.Metrics = DefaultMetricCap
	}
	if caps.Logs <= 0 {
		caps.Logs = DefaultLogCap
	}
	return &Store{caps: caps, mode: ModeLive}
}

// UpsertAgent replaces the agent with the same ID or appends a new one.
func (s *Store) UpsertAgent(a fleet.Agent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.agents {
		if s.agents[i].ID == a.ID {
			s.agents[i] = a
			return
		}
	}
	s.agents = append(s.agents, a)
}

// UpsertWorkflow replaces the workflow with the same ID or appends a new one.
func (s *Store) UpsertWorkflow(w fleet.Workflow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.workflows {
		if s.workflows[i].ID == w.ID {
			s.workflows[i] = w
			return
		}
	}
	s.workflows = append(s.workflows, w)
}

// AddMessage prepends a message and evicts beyond the cap.
func (s *Store) AddMessage(m fleet.AgentMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = prepend(s.messages, m, s.caps.Messages)
}

// AddMetric prepends a metric sample and evicts beyond the cap.
func (s *Store) AddMetric(m fleet.PerformanceMetric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = prepend(s.metrics, m, s.caps.Metrics)
}

// AddLog prepends a log entry and evicts beyond the cap.
func (s *Store) AddLog(l fleet.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = prepend(s.logs, l, s.caps.Logs)
}

// prepend builds the new newest-first slice in one step so readers never
// observe a partially updated collection.
func prepend[T any](items []T, item T, limit int) []T {
	n := len(items) + 1
	if n > limit {
		n = limit
	}
	out := make([]T, n)
	out[0] = item
	copy(out[1:], items)
	return out
}

// SetConnectivity records whether a feed is available and where it comes
// from.
func (s *Store) SetConnectivity(connected bool, mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = connected
	s.mode = mode
}

// Connected reports whether a feed (live or simulated) is available.
func (s *Store) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// FeedMode reports the origin of the current feed.
func (s *Store) FeedMode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Agents returns a copy of the agent collection.
func (s *Store) Agents() []fleet.Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.agents)
}

// Messages returns a copy of the message collection, newest first.
func (s *Store) Messages() []fleet.AgentMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.messages)
}

// Metrics returns a copy of the metric collection, newest first.
func (s *Store) Metrics() []fleet.PerformanceMetric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.metrics)
}

// Logs returns a copy of the log collection, newest first.
func (s *Store) Logs() []fleet.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.logs)
}

// Workflows returns a copy of the workflow collection. Steps are copied
// too; a workflow's steps belong to the store's entry alone.
func (s *Store) Workflows() []fleet.Workflow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyWorkflows(s.workflows)
}

// Snapshot is a point-in-time view of the whole store.
type Snapshot struct {
	Agents    []fleet.Agent             `json:"agents"`
	Messages  []fleet.AgentMessage      `json:"messages"`
	Metrics   []fleet.PerformanceMetric `json:"metrics"`
	Logs      []fleet.LogEntry          `json:"logs"`
	Workflows []fleet.Workflow          `json:"workflows"`
	Connected bool                      `json:"connected"`
	Mode      Mode                      `json:"mode"`
}

// Snapshot returns a consistent copy of all collections and connectivity.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Agents:    copySlice(s.agents),
		Messages:  copySlice(s.messages),
		Metrics:   copySlice(s.metrics),
		Logs:      copySlice(s.logs),
		Workflows: copyWorkflows(s.workflows),
		Connected: s.connected,
		Mode:      s.mode,
	}
}

func copySlice[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

func copyWorkflows(items []fleet.Workflow) []fleet.Workflow {
	out := make([]fleet.Workflow, len(items))
	for i, w := range items {
		w.Steps = copySlice(w.Steps)
		out[i] = w
	}
	return out
}
