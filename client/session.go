package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mbocsi/lightsched/proto"
)

type State int

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// User-visible texts.
const (
	msgConnected       = "Connected to server"
	msgDisconnected    = "Disconnected from server"
	msgConnectionError = "Connection error"
	msgMissingTimes    = "Please set both ON and OFF times"
	msgSending         = "Sending schedule..."
	msgSendFailed      = "Failed to send schedule"
	msgBadResponse     = "Invalid response from server"

	histConnected       = "System connected"
	histDisconnected    = "System disconnected"
	histConnectionError = "Connection error occurred"
	histUpdated         = "Schedule updated successfully"
	histFailed          = "Failed to update schedule"
)

// Session owns the connection to the controller and allows one schedule
// in flight at a time. All UI feedback goes through the Reflector.
type Session struct {
	transport Transport
	ui        Reflector

	mu       sync.Mutex
	state    State
	awaiting bool
	closing  bool // Close was called; the next read error is a normal close
	last     proto.ScheduleCommand
}

func NewSession(t Transport, ui Reflector) *Session {
	return &Session{transport: t, ui: ui, state: StateConnecting}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AwaitingAck reports whether a sent schedule has not been acknowledged yet.
func (s *Session) AwaitingAck() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaiting
}

// LastSubmitted returns the most recently sent schedule.
func (s *Session) LastSubmitted() proto.ScheduleCommand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Connect opens the transport. The session is Open on success and Errored on
// failure; a failed session is not retried.
func (s *Session) Connect(ctx context.Context, endpoint string) error {
	s.mu.Lock()
	s.state = StateConnecting
	s.closing = false
	s.ui.SetSubmitState(SubmitDisabled)
	s.mu.Unlock()

	err := s.transport.Connect(ctx, endpoint)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = StateErrored
		slog.Error("Failed to connect to controller", "endpoint", endpoint, "error", err.Error())
		s.ui.ShowNotification(msgConnectionError, SeverityError)
		s.ui.AddHistoryItem(histConnectionError)
		return &TransportError{Op: "connect", Err: err}
	}

	s.state = StateOpen
	s.awaiting = false
	slog.Info("Session open", "endpoint", endpoint)
	s.ui.ShowNotification(msgConnected, SeveritySuccess)
	s.ui.SetBulbAnimated(true)
	s.ui.AddHistoryItem(histConnected)
	s.ui.SetSubmitState(SubmitIdle)
	return nil
}

// Run reads acknowledgements until the connection ends or ctx is done.
// Cancelling ctx closes the transport. The session is Closed or Errored when
// Run returns.
func (s *Session) Run(ctx context.Context) error {
	if s.State() != StateOpen {
		return &IllegalStateError{State: s.State(), Err: ErrNotConnected}
	}

	stop := context.AfterFunc(ctx, func() {
		if err := s.transport.Close(); err != nil {
			slog.Warn("Failed to close transport", "error", err.Error())
		}
	})
	defer stop()

	for {
		data, err := s.transport.Read()
		if err != nil {
			if ctx.Err() != nil || s.isClosing() || errors.Is(err, ErrConnectionClosed) {
				s.handleClose(nil)
				return nil
			}
			s.handleClose(err)
			return &TransportError{Op: "read", Err: err}
		}

		if err := s.HandleMessage(data); err != nil {
			slog.Warn("Dropped inbound message", "error", err.Error())
		}
	}
}

// Submit sends a schedule. It fails with an IllegalStateError when the
// session is not Open or a previous schedule is still awaiting its ack, and
// with a ValidationError when a time is missing. An IllegalStateError leaves
// the UI untouched.
func (s *Session) Submit(onTime, offTime string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen {
		return &IllegalStateError{State: s.state, Err: ErrNotConnected}
	}
	if s.awaiting {
		return &IllegalStateError{State: s.state, Err: ErrAwaitingAck}
	}

	cmd := proto.ScheduleCommand{OnTime: onTime, OffTime: offTime}
	if err := cmd.Validate(); err != nil {
		s.ui.ShowNotification(msgMissingTimes, SeverityError)
		s.ui.ShakeSubmit()
		return &ValidationError{Err: err}
	}

	data, err := proto.EncodeCommand(cmd)
	if err != nil {
		return &ValidationError{Err: err}
	}

	if err := s.transport.Send(data); err != nil {
		slog.Error("Failed to send schedule", "error", err.Error())
		s.ui.ShowNotification(msgSendFailed, SeverityError)
		s.ui.SetSubmitState(SubmitIdle)
		return &TransportError{Op: "send", Err: err}
	}

	s.awaiting = true
	s.last = cmd
	slog.Info("Sent schedule", "on_time", cmd.OnTime, "off_time", cmd.OffTime)
	s.ui.SetSubmitState(SubmitSending)
	s.ui.ShowNotification(msgSending, SeverityNeutral)
	return nil
}

// HandleMessage applies one inbound frame. The in-flight flag is cleared for
// every frame, including malformed ones, which are returned as a
// ProtocolError after being surfaced to the UI.
func (s *Session) HandleMessage(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.awaiting = false
	res := proto.ParseAck(data)

	switch res.Kind {
	case proto.AckSuccess:
		slog.Info("Schedule acknowledged", "message", res.Message)
		s.ui.ShowNotification(res.Message, SeveritySuccess)
		s.ui.SetSubmitState(SubmitSuccess)
		if s.last.Validate() == nil {
			s.ui.UpdateNextEvent(s.last.OnTime, s.last.OffTime)
		}
		s.ui.AddHistoryItem(histUpdated)
		return nil

	case proto.AckFailure:
		slog.Warn("Schedule rejected", "message", res.Message)
		s.ui.ShowNotification(res.Message, SeverityError)
		s.ui.SetSubmitState(s.submitStateLocked())
		s.ui.AddHistoryItem(histFailed)
		return nil

	default:
		s.ui.ShowNotification(msgBadResponse, SeverityError)
		s.ui.SetSubmitState(s.submitStateLocked())
		s.ui.AddHistoryItem(histFailed)
		return &ProtocolError{Raw: data, Err: res.Err}
	}
}

// Close shuts the transport down. Run observes the close and finishes the
// transition to Closed.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state != StateOpen || s.closing {
		s.mu.Unlock()
		return nil
	}
	s.closing = true
	s.mu.Unlock()

	return s.transport.Close()
}

func (s *Session) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

// handleClose moves an Open session to Closed, or to Errored when cause is
// non-nil. Repeated calls are ignored.
func (s *Session) handleClose(cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen && s.state != StateConnecting {
		return
	}

	s.awaiting = false
	if cause != nil {
		s.state = StateErrored
		slog.Error("Connection to controller failed", "error", cause.Error())
		s.ui.ShowNotification(msgConnectionError, SeverityError)
		s.ui.AddHistoryItem(histConnectionError)
	} else {
		s.state = StateClosed
	}

	slog.Info("Disconnected from controller")
	s.ui.ShowNotification(msgDisconnected, SeverityError)
	s.ui.SetSubmitState(SubmitDisabled)
	s.ui.SetBulbAnimated(false)
	s.ui.AddHistoryItem(histDisconnected)
}

func (s *Session) submitStateLocked() SubmitState {
	if s.state != StateOpen {
		return SubmitDisabled
	}
	return SubmitIdle
}
