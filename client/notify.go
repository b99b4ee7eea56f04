package client

import (
	"sync"
	"time"
)

// NotificationDuration is how long a notification stays visible.
const NotificationDuration = 3000 * time.Millisecond

type Severity int

const (
	SeverityNeutral Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return "neutral"
	}
}

type Notification struct {
	Message  string
	Severity Severity
	Shown    time.Time
}

// Timer is the subset of *time.Timer the Notifier needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it once wrapped.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Notifier shows at most one notification at a time. A new notification
// replaces the current one and restarts the dismiss timer.
type Notifier struct {
	mu       sync.Mutex
	current  *Notification
	timer    Timer
	gen      uint64
	duration time.Duration
	after    AfterFunc
	now      func() time.Time
}

func NewNotifier() *Notifier {
	return &Notifier{duration: NotificationDuration, after: realAfterFunc, now: time.Now}
}

func (n *Notifier) SetDuration(d time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if d > 0 {
		n.duration = d
	}
}

// SetTimerFunc overrides how dismiss timers are scheduled.
func (n *Notifier) SetTimerFunc(after AfterFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.after = after
}

func (n *Notifier) Show(message string, severity Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}
	n.gen++
	gen := n.gen
	n.current = &Notification{Message: message, Severity: severity, Shown: n.now()}
	n.timer = n.after(n.duration, func() { n.dismiss(gen) })
}

// dismiss clears the notification only if it is still the one that
// scheduled this timer.
func (n *Notifier) dismiss(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.gen {
		return
	}
	n.current = nil
	n.timer = nil
}

// Current returns the visible notification, if any.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}
