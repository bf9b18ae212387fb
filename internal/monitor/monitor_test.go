package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fleetmon/internal/config"
)

// fakeConn is a scriptable connection: tests push messages with send and
// kill it with breakConn.
type fakeConn struct {
	msgs   chan []byte
	broken chan struct{}
	once   sync.Once
	mu     sync.Mutex
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{msgs: make(chan []byte, 16), broken: make(chan struct{})}
}

func (c *fakeConn) Read(ctx context.Context) ([]byte, error) {
	select {
	case data := <-c.msgs:
		return data, nil
	case <-c.broken:
		return nil, errors.New("connection lost")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.breakConn()
	return nil
}

func (c *fakeConn) breakConn() { c.once.Do(func() { close(c.broken) }) }

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) send(data []byte) { c.msgs <- data }

// fakeTransport counts dial attempts and hands out fakeConns, or refuses
// every dial when fail is set.
type fakeTransport struct {
	mu    sync.Mutex
	fail  bool
	dials int
	conns []*fakeConn
}

func (t *fakeTransport) Dial(ctx context.Context, endpoint string) (Conn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dials++
	if t.fail {
		return nil, errors.New("dial refused")
	}
	c := newFakeConn()
	t.conns = append(t.conns, c)
	return c, nil
}

func (t *fakeTransport) dialCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dials
}

func (t *fakeTransport) lastConn() *fakeConn {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.conns) == 0 {
		return nil
	}
	return t.conns[len(t.conns)-1]
}

func testConfig(reconnectDelay time.Duration) *config.MonitorConfig {
	cfg := &config.MonitorConfig{
		Endpoint:       "ws://test.invalid/monitor",
		ReconnectDelay: config.Duration(reconnectDelay),
		Simulation: config.Simulation{
			TickInterval: config.Duration(10 * time.Millisecond),
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func newTestMonitor(t *testing.T, tr Transport, reconnectDelay time.Duration) *Monitor {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	return New(testConfig(reconnectDelay), logger, WithTransport(tr))
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, msg string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition never held: %s", msg)
}
