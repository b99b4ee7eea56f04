package controller

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mbocsi/lightsched/proto"
)

func newTestService(t *testing.T) (*ScheduleService, *MockSubscriber) {
	t.Helper()
	broker := NewBroker()
	sub := NewMockSubscriber("light")
	broker.Subscribe(proto.TopicSchedule, sub)

	svc := NewScheduleService(broker)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc, sub
}

func TestScheduleService_HandleCommand(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		status  string
		message string
	}{
		{"valid", `{"onTime":"06:30","offTime":"21:15"}`, proto.StatusSuccess, ReplyScheduleStored},
		{"invalid json", `{"onTime":`, proto.StatusError, ReplyInvalidJSON},
		{"missing off", `{"onTime":"06:30"}`, proto.StatusError, ReplyInvalidFormat},
		{"blank on", `{"onTime":"  ","offTime":"21:15"}`, proto.StatusError, ReplyInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			ack := svc.HandleCommand([]byte(tt.data), "ws-test")
			if ack.Status != tt.status {
				t.Errorf("Expected status %q, got %q", tt.status, ack.Status)
			}
			if ack.Message != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, ack.Message)
			}
		})
	}
}

func TestScheduleService_PublishesSchedule(t *testing.T) {
	svc, sub := newTestService(t)

	svc.HandleCommand([]byte(`{"onTime":"06:30","offTime":"21:15"}`), "ws-test")

	msgs := sub.GetMessages()
	if len(msgs) != 1 {
		t.Fatalf("Expected 1 published message, got %d", len(msgs))
	}
	if msgs[0].Topic != proto.TopicSchedule {
		t.Errorf("Expected topic %s, got %s", proto.TopicSchedule, msgs[0].Topic)
	}
	if msgs[0].Sender != "ws-test" {
		t.Errorf("Expected sender ws-test, got %s", msgs[0].Sender)
	}

	var sched proto.LightSchedule
	if err := json.Unmarshal(msgs[0].Payload, &sched); err != nil {
		t.Fatalf("Failed to decode payload: %v", err)
	}
	if sched.OnTime != "06:30" || sched.OffTime != "21:15" {
		t.Errorf("Expected 06:30/21:15, got %s/%s", sched.OnTime, sched.OffTime)
	}
	if sched.Timestamp != "2024-03-01T09:00:00Z" {
		t.Errorf("Expected timestamp 2024-03-01T09:00:00Z, got %s", sched.Timestamp)
	}

	cur, ok := svc.Current()
	if !ok || cur != sched {
		t.Errorf("Expected current schedule %+v, got %+v (ok=%v)", sched, cur, ok)
	}
}

func TestScheduleService_PublishFailure(t *testing.T) {
	svc := NewScheduleService(NewBroker()) // nobody subscribed

	ack := svc.HandleCommand([]byte(`{"onTime":"06:30","offTime":"21:15"}`), "ws-test")
	if ack.Status != proto.StatusError || ack.Message != ReplyPublishFailed {
		t.Errorf("Expected publish failure reply, got %+v", ack)
	}
	if _, ok := svc.Current(); ok {
		t.Error("Expected no current schedule after a failed publish")
	}
}
