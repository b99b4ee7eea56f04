package controller

import (
	"bufio"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mbocsi/lightsched/proto"
)

// TCPListener serves the schedule exchange as newline-delimited JSON for
// panels without websocket support.
type TCPListener struct {
	Addr       string
	schedules  *ScheduleService
	registry   *Registry
	maxClients int

	mu       sync.Mutex
	listener net.Listener
}

func NewTCPListener(addr string, schedules *ScheduleService, registry *Registry) *TCPListener {
	return &TCPListener{Addr: addr, schedules: schedules, registry: registry, maxClients: DefaultMaxClients}
}

func (t *TCPListener) SetMaxClients(n int) {
	if n > 0 {
		t.maxClients = n
	}
}

// Listen binds the address. Serve must be called afterwards.
func (t *TCPListener) Listen() error {
	l, err := net.Listen("tcp", t.Addr)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.listener = l
	t.mu.Unlock()
	return nil
}

// ListenAddr returns the bound address, or nil before Listen.
func (t *TCPListener) ListenAddr() net.Addr {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

// Start listens and serves until Shutdown.
func (t *TCPListener) Start() error {
	if err := t.Listen(); err != nil {
		return err
	}
	return t.Serve()
}

func (t *TCPListener) Serve() error {
	t.mu.Lock()
	l := t.listener
	t.mu.Unlock()
	if l == nil {
		return errors.New("tcp listener is not bound")
	}

	slog.Info("Starting tcp server", "addr", l.Addr().String())
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		pc := &tcpPanel{id: "tcp-" + uuid.New().String(), conn: conn, connected: time.Now()}
		if !t.registry.TryStore(pc, t.maxClients) {
			slog.Warn("Max clients reached, rejecting connection", "remote_addr", conn.RemoteAddr().String())
			conn.Close()
			continue
		}

		go t.handleConnection(pc)
	}
}

func (t *TCPListener) handleConnection(pc *tcpPanel) {
	c := pc.conn
	slog.Info("Panel connected", "addr", pc.RemoteAddr(), "id", pc.id)

	defer func() {
		t.registry.Delete(pc.id)
		c.Close()
		slog.Info("Panel disconnected", "addr", pc.RemoteAddr(), "id", pc.id)
	}()

	reader := bufio.NewScanner(c)
	for reader.Scan() {
		line := reader.Bytes()
		if len(line) == 0 {
			continue
		}
		slog.Debug("Message received", "id", pc.id, "size", len(line))
		ack := t.schedules.HandleCommand(line, pc.id)
		if err := pc.send(ack); err != nil {
			slog.Warn("Failed to reply to panel", "id", pc.id, "error", err.Error())
			return
		}
	}

	if err := reader.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		slog.Warn("Connection error", "addr", pc.RemoteAddr(), "error", err.Error())
	}
}

func (t *TCPListener) Shutdown() error {
	slog.Info("Shutting down tcp server", "addr", t.Addr)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listener != nil {
		return t.listener.Close()
	}
	return nil
}

type tcpPanel struct {
	id        string
	conn      net.Conn
	connected time.Time
	wmu       sync.Mutex
}

func (p *tcpPanel) ID() string             { return p.id }
func (p *tcpPanel) RemoteAddr() string     { return p.conn.RemoteAddr().String() }
func (p *tcpPanel) ConnectedAt() time.Time { return p.connected }

func (p *tcpPanel) send(ack proto.Ack) error {
	data, err := json.Marshal(ack)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	p.wmu.Lock()
	defer p.wmu.Unlock()
	_, err = p.conn.Write(data)
	return err
}
