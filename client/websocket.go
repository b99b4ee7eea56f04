package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

type WebSocketTransport struct {
	conn *websocket.Conn
	wmu  sync.Mutex // gorilla allows one concurrent writer
}

func NewWebSocketTransport() *WebSocketTransport {
	return &WebSocketTransport{}
}

// NormalizeURL turns "host:port" or an http URL into a ws URL.
func NormalizeURL(addr string) (string, error) {
	// If no scheme is provided, assume ws://
	if !strings.Contains(addr, "://") {
		addr = "ws://" + addr
	}

	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("invalid WebSocket URL: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid WebSocket URL %q: missing host", addr)
	}

	// Convert http addresses to WebSocket URLs
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid WebSocket URL %q: unsupported scheme %q", addr, u.Scheme)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

func (t *WebSocketTransport) Connect(ctx context.Context, addr string) error {
	target, err := NormalizeURL(addr)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to WebSocket server: %w", err)
	}

	t.conn = conn
	slog.Info("Connected to controller", "url", target)
	return nil
}

func (t *WebSocketTransport) Send(data []byte) error {
	if t.conn == nil {
		return fmt.Errorf("transport is not connected")
	}

	t.wmu.Lock()
	err := t.conn.WriteMessage(websocket.TextMessage, data)
	t.wmu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to send WebSocket message: %w", err)
	}

	slog.Debug("Sent WebSocket Message", "size", len(data))
	return nil
}

// Read returns the next text frame. A normal close from either side is
// reported as ErrConnectionClosed.
func (t *WebSocketTransport) Read() ([]byte, error) {
	if t.conn == nil {
		return nil, fmt.Errorf("transport is not connected")
	}

	_, data, err := t.conn.ReadMessage()
	if err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, fmt.Errorf("WebSocket connection error: %w", err)
		}
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) {
			return nil, fmt.Errorf("%w: %v", ErrConnectionClosed, err)
		}
		return nil, fmt.Errorf("WebSocket read failed: %w", err)
	}

	slog.Debug("Received WebSocket Message", "size", len(data))
	return data, nil
}

func (t *WebSocketTransport) Close() error {
	if t.conn == nil {
		return nil
	}

	t.wmu.Lock()
	err := t.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	t.wmu.Unlock()
	if err != nil {
		// Log error but don't return it - we still want to close the connection
		slog.Warn("Failed to send close message", "error", err)
	}

	return t.conn.Close()
}
