package ui

import (
	"sync"
	"time"

	"github.com/mbocsi/lightsched/audio"
	"github.com/mbocsi/lightsched/client"
)

const (
	// SuccessHold is how long the submit button shows success before
	// returning to idle.
	SuccessHold = 1500 * time.Millisecond
	// ShakeDuration is how long the submit button shakes after a rejected
	// submit.
	ShakeDuration = 500 * time.Millisecond
)

// CuePlayer plays an audible cue. *audio.Player satisfies it.
type CuePlayer interface {
	Play(audio.Cue)
}

type silentPlayer struct{}

func (silentPlayer) Play(audio.Cue) {}

// Panel holds everything the session reflects into the UI. It implements
// client.Reflector and is safe for use from the session's read goroutine and
// the render loop at once.
type Panel struct {
	notifier *client.Notifier
	history  *client.History
	cues     CuePlayer
	after    client.AfterFunc
	now      func() time.Time

	mu         sync.Mutex
	nextEvent  string
	bulb       bool
	submit     client.SubmitState
	submitGen  uint64
	shakeUntil time.Time
	shakes     uint64
	clock      string
}

type PanelOption func(*Panel)

func WithCuePlayer(p CuePlayer) PanelOption {
	return func(pn *Panel) {
		if p != nil {
			pn.cues = p
		}
	}
}

// WithTimers replaces the clock and timer factory used for notifications,
// history timestamps, the success hold and the shake.
func WithTimers(now func() time.Time, after client.AfterFunc) PanelOption {
	return func(pn *Panel) {
		pn.now = now
		pn.after = after
		pn.notifier.SetTimerFunc(after)
		pn.history.SetClock(now)
	}
}

func WithNotificationDuration(d time.Duration) PanelOption {
	return func(pn *Panel) {
		pn.notifier.SetDuration(d)
	}
}

func NewPanel(opts ...PanelOption) *Panel {
	p := &Panel{
		notifier: client.NewNotifier(),
		history:  client.NewHistory(),
		cues:     silentPlayer{},
		after: func(d time.Duration, f func()) client.Timer {
			return time.AfterFunc(d, f)
		},
		now:    time.Now,
		submit: client.SubmitDisabled,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Panel) ShowNotification(message string, severity client.Severity) {
	p.notifier.Show(message, severity)
	if severity == client.SeverityError {
		p.cues.Play(audio.CueFailure)
	}
}

func (p *Panel) AddHistoryItem(message string) {
	p.history.Add(message)
}

func (p *Panel) UpdateNextEvent(onTime, offTime string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextEvent = client.NextEventText(onTime, offTime)
}

func (p *Panel) SetBulbAnimated(animated bool) {
	p.mu.Lock()
	changed := p.bulb != animated
	p.bulb = animated
	p.mu.Unlock()

	if changed && animated {
		p.cues.Play(audio.CueConnected)
	}
}

// SetSubmitState updates the submit button. Success is held for SuccessHold
// and then falls back to idle, unless another state was set meanwhile.
func (p *Panel) SetSubmitState(state client.SubmitState) {
	p.mu.Lock()
	p.submit = state
	p.submitGen++
	gen := p.submitGen
	p.mu.Unlock()

	if state != client.SubmitSuccess {
		return
	}
	p.cues.Play(audio.CueSuccess)
	p.after(SuccessHold, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.submitGen == gen && p.submit == client.SubmitSuccess {
			p.submit = client.SubmitIdle
		}
	})
}

func (p *Panel) ShakeSubmit() {
	p.mu.Lock()
	p.shakeUntil = p.now().Add(ShakeDuration)
	p.shakes++
	p.mu.Unlock()
	p.cues.Play(audio.CueShake)
}

// SetClock is the sink for the clock text loop.
func (p *Panel) SetClock(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock = text
}

// View is a consistent copy of the panel for one frame.
type View struct {
	Notification    client.Notification
	HasNotification bool
	History         []client.HistoryEntry
	NextEvent       string
	BulbAnimated    bool
	Submit          client.SubmitState
	Shaking         bool
	Shakes          uint64 // count of shakes so far
	Clock           string
}

func (p *Panel) View() View {
	n, ok := p.notifier.Current()
	hist := p.history.Entries()

	p.mu.Lock()
	defer p.mu.Unlock()
	return View{
		Notification:    n,
		HasNotification: ok,
		History:         hist,
		NextEvent:       p.nextEvent,
		BulbAnimated:    p.bulb,
		Submit:          p.submit,
		Shaking:         p.now().Before(p.shakeUntil),
		Shakes:          p.shakes,
		Clock:           p.clock,
	}
}

var _ client.Reflector = (*Panel)(nil)
