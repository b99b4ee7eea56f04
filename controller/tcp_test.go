package controller

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/mbocsi/lightsched/proto"
)

func startTCP(t *testing.T) (*TCPListener, *LightController) {
	t.Helper()
	broker := NewBroker()
	light := NewLightController(NewSimulatedSwitch())
	broker.Subscribe(proto.TopicSchedule, light)

	l := NewTCPListener("127.0.0.1:0", NewScheduleService(broker), NewRegistry())
	if err := l.Listen(); err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	go l.Serve()
	t.Cleanup(func() { l.Shutdown() })
	return l, light
}

func TestTCPListener_Replies(t *testing.T) {
	l, light := startTCP(t)

	conn, err := net.Dial("tcp", l.ListenAddr().String())
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(2 * time.Second))
	reader := bufio.NewScanner(conn)

	tests := []struct {
		line    string
		status  string
		message string
	}{
		{"garbage", proto.StatusError, ReplyInvalidJSON},
		{`{"offTime":"21:15"}`, proto.StatusError, ReplyInvalidFormat},
		{`{"onTime":"06:30","offTime":"21:15"}`, proto.StatusSuccess, ReplyScheduleStored},
	}
	for _, tt := range tests {
		if _, err := conn.Write([]byte(tt.line + "\n")); err != nil {
			t.Fatalf("Failed to write: %v", err)
		}
		if !reader.Scan() {
			t.Fatalf("Expected a reply to %q, got %v", tt.line, reader.Err())
		}
		var ack proto.Ack
		if err := json.Unmarshal(reader.Bytes(), &ack); err != nil {
			t.Fatalf("Reply is not JSON: %v", err)
		}
		if ack.Status != tt.status || ack.Message != tt.message {
			t.Errorf("For %q expected %s/%s, got %+v", tt.line, tt.status, tt.message, ack)
		}
	}

	if state := light.State(); state.Schedule == nil || state.Schedule.OnTime != "06:30" {
		t.Errorf("Expected schedule to reach the light controller, got %+v", state.Schedule)
	}
}

func TestTCPListener_ServeBeforeListen(t *testing.T) {
	l := NewTCPListener("127.0.0.1:0", NewScheduleService(NewBroker()), NewRegistry())
	if err := l.Serve(); err == nil {
		t.Error("Expected Serve to fail before Listen")
	}
	if l.ListenAddr() != nil {
		t.Error("Expected no address before Listen")
	}
}
