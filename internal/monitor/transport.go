package monitor

import (
	"context"
	"fmt"

	"github.com/coder/websocket"
)

// Conn is one open streaming connection to the monitored fleet. Read blocks
// until the next message, an error, or ctx cancellation; a Read error means
// the connection is dead.
type Conn interface {
	Read(ctx context.Context) ([]byte, error)
	Close() error
}

// Transport dials the monitoring feed. Tests inject fakes; production uses
// WebsocketTransport.
type Transport interface {
	Dial(ctx context.Context, endpoint string) (Conn, error)
}

// WebsocketTransport dials a websocket endpoint.
type WebsocketTransport struct{}

// Dial opens a websocket connection to the given ws:// or wss:// endpoint.
func (WebsocketTransport) Dial(ctx context.Context, endpoint string) (Conn, error) {
	c, _, err := websocket.Dial(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	return &wsConn{conn: c}, nil
}

type wsConn struct {
	conn *websocket.Conn
}

func (w *wsConn) Read(ctx context.Context) ([]byte, error) {
	_, data, err := w.conn.Read(ctx)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (w *wsConn) Close() error {
	return w.conn.Close(websocket.StatusNormalClosure, "monitor shutdown")
}
