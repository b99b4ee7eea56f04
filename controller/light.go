package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mbocsi/lightsched/proto"
)

const DefaultCheckInterval = 30 * time.Second

// LightController subscribes to proto.TopicSchedule and switches the light
// when the wall clock reaches the scheduled minute.
type LightController struct {
	sw Switch

	mu       sync.Mutex
	schedule *proto.LightSchedule
	on       bool
	known    bool // false until the first successful switch
	changed  time.Time
}

func NewLightController(sw Switch) *LightController {
	return &LightController{sw: sw}
}

func (l *LightController) ID() string {
	return "light-controller"
}

// Send receives broker messages. Only schedules are accepted.
func (l *LightController) Send(msg proto.Message) error {
	if msg.Topic != proto.TopicSchedule {
		return fmt.Errorf("unexpected topic %q", msg.Topic)
	}

	var sched proto.LightSchedule
	if err := json.Unmarshal(msg.Payload, &sched); err != nil {
		return fmt.Errorf("decode schedule: %w", err)
	}
	if _, err := clockMinute(sched.OnTime); err != nil {
		return err
	}
	if _, err := clockMinute(sched.OffTime); err != nil {
		return err
	}

	l.mu.Lock()
	l.schedule = &sched
	l.mu.Unlock()

	slog.Info("Received schedule", "on_time", sched.OnTime, "off_time", sched.OffTime, "sender", msg.Sender)
	return nil
}

// Check switches the light if now falls on the on or off minute. Repeated
// checks within the same minute do not switch again.
func (l *LightController) Check(now time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.schedule == nil {
		return nil
	}

	minute := now.Format("15:04")
	onAt, _ := clockMinute(l.schedule.OnTime)
	offAt, _ := clockMinute(l.schedule.OffTime)

	var want bool
	switch minute {
	case onAt:
		want = true
	case offAt:
		want = false
	default:
		return nil
	}

	if l.known && l.on == want {
		return nil
	}
	if err := l.sw.Set(want); err != nil {
		slog.Error("Failed to switch light", "on", want, "error", err.Error())
		return err
	}
	l.on = want
	l.known = true
	l.changed = now
	return nil
}

// Run checks the schedule immediately and then every interval until ctx is
// done.
func (l *LightController) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("Light controller running", "interval", interval)
	l.Check(time.Now())
	for {
		select {
		case <-ctx.Done():
			slog.Info("Light controller stopped")
			return
		case now := <-ticker.C:
			l.Check(now)
		}
	}
}

func (l *LightController) State() proto.LightState {
	l.mu.Lock()
	defer l.mu.Unlock()

	state := proto.LightState{On: l.on}
	if !l.changed.IsZero() {
		state.Changed = l.changed.Unix()
	}
	if l.schedule != nil {
		sched := *l.schedule
		state.Schedule = &sched
	}
	return state
}

// clockMinute normalizes "15:04" or "15:04:05" to "15:04".
func clockMinute(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("invalid time of day %q", s)
}
