package controller

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mbocsi/lightsched/proto"
)

// Reply texts sent back to panels.
const (
	ReplyInvalidJSON    = "Invalid JSON format"
	ReplyInvalidFormat  = "Invalid schedule format"
	ReplyPublishFailed  = "Failed to set schedule"
	ReplyScheduleStored = "Schedule set successfully"
)

// ScheduleService validates schedule commands and publishes accepted ones on
// proto.TopicSchedule.
type ScheduleService struct {
	broker *Broker
	now    func() time.Time

	mu      sync.RWMutex
	current *proto.LightSchedule
}

func NewScheduleService(broker *Broker) *ScheduleService {
	return &ScheduleService{broker: broker, now: time.Now}
}

// SetSchedule publishes cmd. The current schedule only changes when the
// publish succeeds.
func (s *ScheduleService) SetSchedule(cmd proto.ScheduleCommand, sender string) (proto.LightSchedule, error) {
	if err := cmd.Validate(); err != nil {
		return proto.LightSchedule{}, err
	}

	sched := proto.NewLightSchedule(cmd, s.now())
	msg, err := proto.NewMessage("schedule", proto.TopicSchedule, sender, sched)
	if err != nil {
		return proto.LightSchedule{}, err
	}
	if err := s.broker.Publish(msg); err != nil {
		slog.Error("Failed to publish schedule", "sender", sender, "error", err.Error())
		return proto.LightSchedule{}, err
	}

	s.mu.Lock()
	s.current = &sched
	s.mu.Unlock()

	slog.Info("Schedule set", "on_time", sched.OnTime, "off_time", sched.OffTime, "sender", sender)
	return sched, nil
}

// Current returns the last accepted schedule.
func (s *ScheduleService) Current() (proto.LightSchedule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return proto.LightSchedule{}, false
	}
	return *s.current, true
}

// HandleCommand turns one raw panel frame into the reply for it.
func (s *ScheduleService) HandleCommand(data []byte, sender string) proto.Ack {
	cmd, err := proto.DecodeCommand(data)
	if err != nil {
		if errors.Is(err, proto.ErrMissingTime) {
			slog.Warn("Invalid schedule format", "sender", sender, "data", string(data))
			return proto.Ack{Status: proto.StatusError, Message: ReplyInvalidFormat}
		}
		slog.Warn("Invalid JSON message received", "sender", sender, "error", err.Error())
		return proto.Ack{Status: proto.StatusError, Message: ReplyInvalidJSON}
	}

	if _, err := s.SetSchedule(cmd, sender); err != nil {
		return proto.Ack{Status: proto.StatusError, Message: ReplyPublishFailed}
	}
	return proto.Ack{Status: proto.StatusSuccess, Message: ReplyScheduleStored}
}
