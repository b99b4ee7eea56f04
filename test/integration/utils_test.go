package integration

import (
	"fmt"
	"net"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mbocsi/lightsched/client"
	"github.com/mbocsi/lightsched/config"
	"github.com/mbocsi/lightsched/controller"
)

func getRandomPort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to get random port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// startController serves a controller over httptest and returns its ws URL.
func startController(t *testing.T) (*controller.Controller, *controller.SimulatedSwitch, string) {
	t.Helper()
	cfg := config.Default().Controller
	sw := controller.NewSimulatedSwitch()
	c := controller.New(cfg, sw)

	srv := httptest.NewServer(c.Routes())
	t.Cleanup(srv.Close)
	return c, sw, "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
}

type uiEvent struct {
	kind string
	text string
}

// eventReflector records reflector calls and lets tests wait for one.
type eventReflector struct {
	mu     sync.Mutex
	events []uiEvent
	notify chan struct{}
}

func newEventReflector() *eventReflector {
	return &eventReflector{notify: make(chan struct{}, 64)}
}

func (r *eventReflector) add(kind, text string) {
	r.mu.Lock()
	r.events = append(r.events, uiEvent{kind, text})
	r.mu.Unlock()
	select {
	case r.notify <- struct{}{}:
	default:
	}
}

func (r *eventReflector) ShowNotification(message string, severity client.Severity) {
	r.add("notify", fmt.Sprintf("%s:%s", severity, message))
}
func (r *eventReflector) AddHistoryItem(message string) { r.add("history", message) }
func (r *eventReflector) UpdateNextEvent(on, off string) {
	r.add("next", client.NextEventText(on, off))
}
func (r *eventReflector) SetBulbAnimated(animated bool) { r.add("bulb", fmt.Sprint(animated)) }
func (r *eventReflector) SetSubmitState(state client.SubmitState) {
	r.add("submit", state.String())
}
func (r *eventReflector) ShakeSubmit() { r.add("shake", "") }

func (r *eventReflector) has(kind, text string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.kind == kind && e.text == text {
			return true
		}
	}
	return false
}

func (r *eventReflector) waitFor(t *testing.T, kind, text string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !r.has(kind, text) {
		select {
		case <-r.notify:
		case <-deadline:
			t.Fatalf("Timed out waiting for %s %q", kind, text)
		}
	}
}
