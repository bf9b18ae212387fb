package monitor

import (
	"context"
	"time"

	"fleetmon/internal/event"
	"fleetmon/internal/sim"
	"fleetmon/internal/state"
)

const dialTimeout = 10 * time.Second

// loopState is everything the run loop owns. Nothing here is touched by any
// other goroutine, which is what makes store mutations race-free.
type loopState struct {
	conn      Conn
	connState ConnState
	gen       int
	engine    *sim.Engine
	retry     *time.Timer
}

// run is the monitor's single event loop. It applies events in arrival
// order and is the only writer to the state store.
func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	ls := &loopState{connState: StateConnecting}
	defer m.teardown(ls)

	m.connect(ctx, ls)

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-m.simEvents:
			m.apply(ev)
		case ce := <-m.connEvents:
			m.handleConnEvent(ctx, ls, ce)
		case <-m.reconnects:
			m.forceReconnect(ctx, ls)
		case <-retryC(ls):
			ls.retry = nil
			m.connect(ctx, ls)
		}
	}
}

// retryC exposes the pending reconnect timer's channel, or nil (never
// ready) when no reconnect is scheduled.
func retryC(ls *loopState) <-chan time.Time {
	if ls.retry == nil {
		return nil
	}
	return ls.retry.C
}

// connect attempts to open the live feed. On failure the simulation engine
// takes over immediately so consumers never see an empty fleet.
func (m *Monitor) connect(ctx context.Context, ls *loopState) {
	ls.connState = StateConnecting
	m.cancelRetry(ls)
	// New attempt: events from any previous connection are stale now.
	ls.gen++

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	conn, err := m.transport.Dial(dialCtx, m.cfg.Endpoint)
	cancel()
	if err != nil {
		m.log.Warn("feed unavailable, falling back to simulation", "endpoint", m.cfg.Endpoint, "err", err)
		ls.connState = StateClosed
		m.startSimulation(ls)
		// The manager has no terminal state: keep probing for a live
		// feed underneath the simulation.
		m.scheduleRetry(ls)
		return
	}

	m.log.Info("feed connected", "endpoint", m.cfg.Endpoint)
	ls.conn = conn
	ls.connState = StateOpen
	m.stopSimulation(ls)
	m.store.SetConnectivity(true, state.ModeLive)
	go m.readLoop(ctx, conn, ls.gen)
}

// readLoop pumps raw messages from one connection into the run loop until
// the connection dies. It never touches monitor state itself.
func (m *Monitor) readLoop(ctx context.Context, conn Conn, gen int) {
	for {
		data, err := conn.Read(ctx)
		if err != nil {
			select {
			case m.connEvents <- connEvent{gen: gen, closed: true, err: err}:
			case <-ctx.Done():
			}
			return
		}
		select {
		case m.connEvents <- connEvent{gen: gen, raw: data}:
		case <-ctx.Done():
			return
		}
	}
}

// handleConnEvent processes one message or close notice from the reader.
// Events from superseded connections are dropped.
func (m *Monitor) handleConnEvent(ctx context.Context, ls *loopState, ce connEvent) {
	if ce.gen != ls.gen {
		return
	}
	if ce.closed {
		m.log.Warn("feed closed", "err", ce.err)
		if ls.conn != nil {
			_ = ls.conn.Close()
			ls.conn = nil
		}
		ls.connState = StateClosed
		m.store.SetConnectivity(false, state.ModeLive)
		m.scheduleRetry(ls)
		return
	}
	ev, err := event.Decode(ce.raw)
	if err != nil {
		// Malformed payloads are diagnostics, not failures: the
		// connection stays up and no state changes.
		m.log.Warn("dropping malformed event", "err", err)
		return
	}
	m.apply(ev)
}

// forceReconnect handles a caller-invoked Reconnect: close whatever is
// open, drop any pending retry, dial now.
func (m *Monitor) forceReconnect(ctx context.Context, ls *loopState) {
	m.log.Info("reconnect requested")
	if ls.conn != nil {
		_ = ls.conn.Close()
		ls.conn = nil
	}
	m.stopSimulation(ls)
	m.connect(ctx, ls)
}

// scheduleRetry arms the single reconnect timer, replacing any pending one.
func (m *Monitor) scheduleRetry(ls *loopState) {
	m.cancelRetry(ls)
	ls.retry = time.NewTimer(m.cfg.ReconnectDelay.Std())
}

func (m *Monitor) cancelRetry(ls *loopState) {
	if ls.retry != nil {
		ls.retry.Stop()
		ls.retry = nil
	}
}

func (m *Monitor) startSimulation(ls *loopState) {
	if ls.engine != nil {
		return
	}
	ls.engine = sim.New(m.cfg.Simulation, m.simEvents, m.rng, m.now)
	ls.engine.Start()
	// Simulated feeds report as connected so the fleet view is never
	// blank. FeedMode carries the live/simulated distinction.
	m.store.SetConnectivity(true, state.ModeSimulated)
}

func (m *Monitor) stopSimulation(ls *loopState) {
	if ls.engine == nil {
		return
	}
	ls.engine.Stop()
	ls.engine = nil
	m.drainSimEvents()
}

// drainSimEvents applies events the engine emitted before it stopped, so a
// live feed never interleaves with stale simulated telemetry.
func (m *Monitor) drainSimEvents() {
	for {
		select {
		case ev := <-m.simEvents:
			m.apply(ev)
		default:
			return
		}
	}
}

// teardown releases every owned resource: timers, the simulation engine,
// and any open connection. Nothing may outlive the monitor.
func (m *Monitor) teardown(ls *loopState) {
	m.cancelRetry(ls)
	m.stopSimulation(ls)
	if ls.conn != nil {
		_ = ls.conn.Close()
		ls.conn = nil
	}
	m.store.SetConnectivity(false, state.ModeLive)
}
