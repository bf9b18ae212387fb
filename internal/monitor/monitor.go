// Package monitor maintains a live operational view of an agent fleet.
//
// A single run loop owns the connection lifecycle and every state mutation:
// it dials the configured feed, falls back to the simulation engine when no
// feed is available, and applies inbound events to the bounded state store
// one at a time, in arrival order. Presentation layers only ever see
// snapshots.
package monitor

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"fleetmon/internal/config"
	"fleetmon/internal/event"
	"fleetmon/internal/fleet"
	"fleetmon/internal/state"
)

// ConnState is the connection manager's lifecycle state.
type ConnState int

const (
	StateConnecting ConnState = iota
	StateOpen
	StateClosed
)

// EventSink receives every successfully ingested event, for export or
// session recording. Sink failures are logged, never propagated.
type EventSink interface {
	WriteEvent(ev event.Event) error
}

// connEvent is what a reader goroutine delivers to the run loop. gen ties
// the event to one connection attempt so events from a superseded
// connection are ignored.
type connEvent struct {
	gen    int
	raw    []byte
	closed bool
	err    error
}

// Monitor owns the connection, the simulation fallback, and the state
// store. Create with New, start with Start, release with Shutdown.
type Monitor struct {
	cfg       *config.MonitorConfig
	transport Transport
	store     *state.Store
	sink      EventSink
	log       *slog.Logger

	// injectable for deterministic tests
	rng *rand.Rand
	now func() time.Time

	simEvents  chan event.Event
	connEvents chan connEvent
	reconnects chan struct{}

	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// Option tweaks a Monitor at construction time.
type Option func(*Monitor)

// WithSink tees every ingested event to w.
func WithSink(w EventSink) Option {
	return func(m *Monitor) { m.sink = w }
}

// WithTransport replaces the websocket transport, for tests.
func WithTransport(t Transport) Option {
	return func(m *Monitor) { m.transport = t }
}

// WithRand injects a deterministic random source for the simulation engine.
func WithRand(rng *rand.Rand) Option {
	return func(m *Monitor) { m.rng = rng }
}

// WithClock injects a clock for the simulation engine.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// New builds a monitor from config. The returned monitor is idle until
// Start is called.
func New(cfg *config.MonitorConfig, logger *slog.Logger, opts ...Option) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Monitor{
		cfg:       cfg,
		transport: WebsocketTransport{},
		store: state.New(state.Caps{
			Messages: cfg.Limits.Messages,
			Metrics:  cfg.Limits.Metrics,
			Logs:     cfg.Limits.Logs,
		}),
		log:        logger,
		simEvents:  make(chan event.Event, 64),
		connEvents: make(chan connEvent, 64),
		reconnects: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start launches the run loop. Calling Start twice is a no-op.
func (m *Monitor) Start() {
	if m.started {
		return
	}
	m.started = true
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.run(ctx)
}

// Shutdown stops the run loop and waits until every timer is cancelled, the
// simulation engine is stopped, and any open connection is closed. Safe to
// call multiple times.
func (m *Monitor) Shutdown() {
	if !m.started {
		return
	}
	m.started = false
	m.cancel()
	<-m.done
}

// Reconnect forcibly closes the current connection (if any) and dials again
// immediately, superseding any pending scheduled reconnect. Callable from
// any goroutine at any time; repeated calls coalesce into one attempt.
func (m *Monitor) Reconnect() {
	select {
	case m.reconnects <- struct{}{}:
	default:
	}
}

// SearchLogs requests a server-side filtered log view. The backing feed has
// no query surface yet, so this records the request and changes nothing; it
// is safe to call before any connection exists.
func (m *Monitor) SearchLogs(query string) error {
	m.log.Debug("log search requested", "query", query)
	return nil
}

// FilterMessages requests a server-side filtered message view. Same
// contract as SearchLogs: an explicit no-op until the feed grows a query
// surface.
func (m *Monitor) FilterMessages(filter string) error {
	m.log.Debug("message filter requested", "filter", filter)
	return nil
}

// Connected reports whether a feed (live or simulated) is available.
func (m *Monitor) Connected() bool { return m.store.Connected() }

// FeedMode reports whether the current feed is live or simulated.
func (m *Monitor) FeedMode() state.Mode { return m.store.FeedMode() }

// Agents returns the current agent roster.
func (m *Monitor) Agents() []fleet.Agent { return m.store.Agents() }

// Messages returns the message collection, newest first.
func (m *Monitor) Messages() []fleet.AgentMessage { return m.store.Messages() }

// Metrics returns the metric collection, newest first.
func (m *Monitor) Metrics() []fleet.PerformanceMetric { return m.store.Metrics() }

// Logs returns the log collection, newest first.
func (m *Monitor) Logs() []fleet.LogEntry { return m.store.Logs() }

// Workflows returns the tracked workflows.
func (m *Monitor) Workflows() []fleet.Workflow { return m.store.Workflows() }

// Snapshot returns a consistent view of all collections and connectivity.
func (m *Monitor) Snapshot() state.Snapshot { return m.store.Snapshot() }
