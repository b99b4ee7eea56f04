package client

import (
	"bufio"
	"context"
	"errors"
	"net"
	"testing"
)

// newLineServer echoes a success ack for every line it receives.
func newLineServer(t *testing.T) net.Listener {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	t.Cleanup(func() { l.Close() })

	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				sc := bufio.NewScanner(c)
				for sc.Scan() {
					c.Write([]byte(`{"status":"success","message":"Schedule set successfully"}` + "\n"))
				}
			}(conn)
		}
	}()
	return l
}

func TestIsTCPEndpoint(t *testing.T) {
	if !IsTCPEndpoint("tcp://localhost:8768") {
		t.Error("Expected tcp:// to select the TCP transport")
	}
	if IsTCPEndpoint("ws://localhost:8767/") {
		t.Error("Expected ws:// not to select the TCP transport")
	}
}

func TestTCPTransport_RoundTrip(t *testing.T) {
	l := newLineServer(t)
	tr := NewTCPTransport()

	if err := tr.Connect(context.Background(), "tcp://"+l.Addr().String()); err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	if err := tr.Send([]byte(`{"onTime":"06:30","offTime":"21:15"}`)); err != nil {
		t.Fatalf("Failed to send: %v", err)
	}

	data, err := tr.Read()
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	if string(data) != `{"status":"success","message":"Schedule set successfully"}` {
		t.Errorf("Unexpected reply %s", data)
	}

	tr.Close()
	if _, err := tr.Read(); !errors.Is(err, ErrConnectionClosed) {
		t.Errorf("Expected ErrConnectionClosed after Close, got %v", err)
	}
}

func TestTCPTransport_BadAddress(t *testing.T) {
	tr := NewTCPTransport()
	if err := tr.Connect(context.Background(), "tcp://nohost"); err == nil {
		t.Error("Expected error for address without port")
	}
	if err := tr.Send([]byte("x")); err == nil {
		t.Error("Expected error sending on an unconnected transport")
	}
}

func TestSessionOverTCP(t *testing.T) {
	l := newLineServer(t)
	ui := &recordingReflector{}
	s := NewSession(NewTCPTransport(), ui)

	if err := s.Connect(context.Background(), "tcp://"+l.Addr().String()); err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	if err := s.Submit("06:30", "21:15"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	s.Close()
	if err := <-done; err != nil {
		t.Errorf("Expected clean close, got %v", err)
	}
	if s.State() != StateClosed {
		t.Errorf("Expected closed state, got %s", s.State())
	}
}
