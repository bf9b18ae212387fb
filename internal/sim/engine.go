// Synthetic fleet telemetry generator used when no live feed is available.
package sim

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"fleetmon/internal/config"
	"fleetmon/internal/event"
	"fleetmon/internal/fleet"
)

// Message types and log lines the generator picks from.
var (
	messageTypes = []string{"task_request", "task_response", "status_update", "data_sync", "heartbeat"}
	logLevels    = []string{fleet.LevelInfo, fleet.LevelWarn, fleet.LevelError, fleet.LevelDebug}
	logMessages  = []string{
		"processed batch of queued tasks",
		"response time above rolling average",
		"retrying upstream call",
		"cache refreshed",
		"handshake with peer completed",
		"queue depth nominal",
	}
)

// Engine produces simulated telemetry events at a fixed cadence. It keeps
// its own runtime copy of the roster and publishes every change as an event,
// so all state mutations still flow through the ingester.
type Engine struct {
	agents   []fleet.Agent
	tick     time.Duration
	msgProb  float64
	logProb  float64
	out      chan<- event.Event
	rand     *rand.Rand
	now      func() time.Time
	stopping chan struct{}
	done     chan struct{}
	running  bool
}

// New builds an engine from the simulation config. rng and now may be nil;
// production callers pass nil and get entropy-seeded randomness and the
// system clock, tests inject deterministic ones.
func New(cfg config.Simulation, out chan<- event.Event, rng *rand.Rand, now func() time.Time) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	tick := cfg.TickInterval.Std()
	if tick <= 0 {
		tick = config.DefaultTickInterval
	}
	seeds := cfg.Agents
	if len(seeds) == 0 {
		seeds = DefaultRoster
	}
	e := &Engine{
		tick:    tick,
		msgProb: cfg.MessageProbability,
		logProb: cfg.LogProbability,
		out:     out,
		rand:    rng,
		now:     now,
	}
	for _, s := range seeds {
		e.agents = append(e.agents, fleet.Agent{
			ID:       s.ID,
			Name:     s.Name,
			Type:     s.Type,
			Status:   fleet.AgentActive,
			LastSeen: now(),
			Version:  s.Version,
			Endpoint: s.Endpoint,
			Metrics: fleet.AgentMetrics{
				MessagesProcessed:   100 + rng.Intn(900),
				AverageResponseTime: 20 + rng.Float64()*80,
				ErrorRate:           rng.Float64() * 0.05,
				Uptime:              95 + rng.Float64()*5,
			},
		})
	}
	return e
}

// DefaultRoster is used when the config defines no simulated agents.
var DefaultRoster = []config.AgentSeed{
	{ID: "orchestrator-01", Name: "Task Orchestrator", Type: "orchestrator", Endpoint: "http://agents.local:9001", Version: "1.4.2"},
	{ID: "intake-01", Name: "Intake Agent", Type: "intake", Endpoint: "http://agents.local:9002", Version: "1.4.2"},
	{ID: "triage-01", Name: "Triage Agent", Type: "triage", Endpoint: "http://agents.local:9003", Version: "1.3.9"},
	{ID: "records-01", Name: "Records Agent", Type: "records", Endpoint: "http://agents.local:9004", Version: "1.4.0"},
	{ID: "notify-01", Name: "Notification Agent", Type: "notifier", Endpoint: "http://agents.local:9005", Version: "1.2.7"},
}

// Start seeds the roster and begins ticking. Calling Start on a running
// engine is a no-op.
func (e *Engine) Start() {
	if e.running {
		return
	}
	e.running = true
	e.stopping = make(chan struct{})
	e.done = make(chan struct{})
	go e.run()
}

// Stop cancels the recurring tick and waits for the loop to exit. Safe to
// call multiple times and on a never-started engine.
func (e *Engine) Stop() {
	if !e.running {
		return
	}
	e.running = false
	close(e.stopping)
	<-e.done
}

func (e *Engine) run() {
	defer close(e.done)
	e.seed()
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			e.step()
		case <-e.stopping:
			return
		}
	}
}

// seed publishes the initial roster, once per activation.
func (e *Engine) seed() {
	for _, a := range e.agents {
		e.emit(event.AgentStatus{Agent: a})
	}
}

// step advances every agent's runtime state by one tick and probabilistically
// emits a message and a log entry. Drift is bounded; this is a presentation
// fallback, not a load model.
func (e *Engine) step() {
	now := e.now()
	for i := range e.agents {
		a := &e.agents[i]
		a.LastSeen = now
		a.Metrics.MessagesProcessed += e.rand.Intn(5)
		a.Metrics.AverageResponseTime += e.rand.Float64()*20 - 10
		if a.Metrics.AverageResponseTime < 0 {
			a.Metrics.AverageResponseTime = 0
		}
		e.emit(event.AgentStatus{Agent: *a})
	}

	if e.rand.Float64() < e.msgProb && len(e.agents) > 1 {
		from := e.rand.Intn(len(e.agents))
		to := e.rand.Intn(len(e.agents) - 1)
		if to >= from {
			to++
		}
		e.emit(event.AgentMessage{Message: fleet.AgentMessage{
			ID:             uuid.New().String(),
			Timestamp:      now,
			From:           e.agents[from].ID,
			To:             e.agents[to].ID,
			Type:           messageTypes[e.rand.Intn(len(messageTypes))],
			Status:         fleet.MessageDelivered,
			ProcessingTime: e.rand.Float64() * 100,
		}})
	}

	if e.rand.Float64() < e.logProb && len(e.agents) > 0 {
		e.emit(event.LogEntry{Log: fleet.LogEntry{
			ID:        uuid.New().String(),
			Timestamp: now,
			Level:     logLevels[e.rand.Intn(len(logLevels))],
			AgentID:   e.agents[e.rand.Intn(len(e.agents))].ID,
			Message:   logMessages[e.rand.Intn(len(logMessages))],
		}})
	}
}

// emit forwards an event to the consumer unless the engine is stopping.
func (e *Engine) emit(ev event.Event) {
	if e.stopping == nil {
		e.out <- ev
		return
	}
	select {
	case e.out <- ev:
	case <-e.stopping:
	}
}
