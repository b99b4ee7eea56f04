package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// mockTransport hands inbound frames to Read through a channel and records
// every outbound frame.
type mockTransport struct {
	mu         sync.Mutex
	sent       [][]byte
	connectErr error
	sendErr    error
	inbound    chan []byte
	readErr    chan error
	closed     bool
	closeOnce  sync.Once
	closedCh   chan struct{}
	addr       string
}

func newMockTransport() *mockTransport {
	return &mockTransport{
		inbound:  make(chan []byte, 8),
		readErr:  make(chan error, 1),
		closedCh: make(chan struct{}),
	}
}

func (m *mockTransport) Connect(ctx context.Context, addr string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addr = addr
	return m.connectErr
}

func (m *mockTransport) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, append([]byte(nil), data...))
	return nil
}

func (m *mockTransport) Read() ([]byte, error) {
	select {
	case data := <-m.inbound:
		return data, nil
	case err := <-m.readErr:
		return nil, err
	case <-m.closedCh:
		return nil, errors.New("use of closed network connection")
	}
}

func (m *mockTransport) Close() error {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		m.closed = true
		m.mu.Unlock()
		close(m.closedCh)
	})
	return nil
}

func (m *mockTransport) Sent() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.sent))
	copy(out, m.sent)
	return out
}

type notification struct {
	message  string
	severity Severity
}

// recordingReflector keeps every UI call in order.
type recordingReflector struct {
	mu            sync.Mutex
	calls         []string
	notifications []notification
	history       []string
	nextEvent     string
	bulb          bool
	submit        SubmitState
	shakes        int
}

func (r *recordingReflector) record(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recordingReflector) ShowNotification(message string, severity Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("notify %s %s", severity, message)
	r.notifications = append(r.notifications, notification{message, severity})
}

func (r *recordingReflector) AddHistoryItem(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("history %s", message)
	r.history = append(r.history, message)
}

func (r *recordingReflector) UpdateNextEvent(onTime, offTime string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("next %s %s", onTime, offTime)
	r.nextEvent = NextEventText(onTime, offTime)
}

func (r *recordingReflector) SetBulbAnimated(animated bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("bulb %t", animated)
	r.bulb = animated
}

func (r *recordingReflector) SetSubmitState(state SubmitState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("submit %s", state)
	r.submit = state
}

func (r *recordingReflector) ShakeSubmit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("shake")
	r.shakes++
}

func (r *recordingReflector) lastNotification() notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notifications) == 0 {
		return notification{}
	}
	return r.notifications[len(r.notifications)-1]
}

func (r *recordingReflector) hasHistory(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.history {
		if strings.Contains(h, substr) {
			return true
		}
	}
	return false
}

func (r *recordingReflector) snapshot() (bulb bool, submit SubmitState, shakes int, next string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bulb, r.submit, r.shakes, r.nextEvent
}
