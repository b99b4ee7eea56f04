package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
)

// TCPTransport exchanges newline-delimited JSON with a controller's TCP
// listener. It is meant for panels that cannot speak websocket.
type TCPTransport struct {
	conn    net.Conn
	scanner *bufio.Scanner
	wmu     sync.Mutex
	closed  bool
	cmu     sync.Mutex
}

func NewTCPTransport() *TCPTransport {
	return &TCPTransport{}
}

// IsTCPEndpoint reports whether addr selects the TCP transport.
func IsTCPEndpoint(addr string) bool {
	return strings.HasPrefix(addr, "tcp://")
}

func (t *TCPTransport) Connect(ctx context.Context, addr string) error {
	addr = strings.TrimPrefix(addr, "tcp://")
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid TCP address %q: %w", addr, err)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	t.conn = conn
	t.scanner = bufio.NewScanner(conn)
	slog.Info("Connected to controller", "addr", addr, "transport", "tcp")
	return nil
}

func (t *TCPTransport) Send(data []byte) error {
	if t.conn == nil {
		return fmt.Errorf("transport is not connected")
	}

	line := make([]byte, 0, len(data)+1)
	line = append(line, data...)
	line = append(line, '\n')

	t.wmu.Lock()
	defer t.wmu.Unlock()
	_, err := t.conn.Write(line)
	return err
}

// Read returns the next line. EOF and a local Close are reported as
// ErrConnectionClosed.
func (t *TCPTransport) Read() ([]byte, error) {
	if t.conn == nil {
		return nil, fmt.Errorf("transport is not connected")
	}

	if t.scanner.Scan() {
		line := t.scanner.Bytes()
		out := make([]byte, len(line))
		copy(out, line)
		return out, nil
	}

	err := t.scanner.Err()
	if err == nil || errors.Is(err, io.EOF) || t.isClosed() {
		return nil, ErrConnectionClosed
	}
	return nil, err
}

func (t *TCPTransport) Close() error {
	if t.conn == nil {
		return nil
	}
	t.cmu.Lock()
	t.closed = true
	t.cmu.Unlock()
	return t.conn.Close()
}

func (t *TCPTransport) isClosed() bool {
	t.cmu.Lock()
	defer t.cmu.Unlock()
	return t.closed
}
