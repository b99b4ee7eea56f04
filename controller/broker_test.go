package controller

import (
	"errors"
	"sync"
	"testing"

	"github.com/mbocsi/lightsched/proto"
)

// MockSubscriber for testing broker functionality
type MockSubscriber struct {
	id       string
	messages []proto.Message
	sendErr  error
	mu       sync.Mutex
}

func NewMockSubscriber(id string) *MockSubscriber {
	return &MockSubscriber{id: id}
}

func (ms *MockSubscriber) ID() string {
	return ms.id
}

func (ms *MockSubscriber) Send(msg proto.Message) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.sendErr != nil {
		return ms.sendErr
	}
	ms.messages = append(ms.messages, msg)
	return nil
}

func (ms *MockSubscriber) GetMessages() []proto.Message {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	result := make([]proto.Message, len(ms.messages))
	copy(result, ms.messages)
	return result
}

func (ms *MockSubscriber) SetSendError(err error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sendErr = err
}

func testMessage(t *testing.T, topic string) proto.Message {
	t.Helper()
	msg, err := proto.NewMessage("schedule", topic, "test", map[string]string{"on_time": "06:30"})
	if err != nil {
		t.Fatalf("Failed to build message: %v", err)
	}
	return msg
}

func TestNewBroker(t *testing.T) {
	broker := NewBroker()

	if broker.subs == nil {
		t.Error("Expected subscriptions map to be initialized")
	}
}

func TestBroker_SubscribeAndPublish(t *testing.T) {
	broker := NewBroker()
	a := NewMockSubscriber("a")
	b := NewMockSubscriber("b")

	broker.Subscribe(proto.TopicSchedule, a)
	broker.Subscribe(proto.TopicSchedule, b)
	broker.Subscribe("other", b)

	if n := broker.Subscribers(proto.TopicSchedule); n != 2 {
		t.Errorf("Expected 2 subscribers, got %d", n)
	}

	if err := broker.Publish(testMessage(t, proto.TopicSchedule)); err != nil {
		t.Fatalf("Expected publish to succeed, got %v", err)
	}

	if len(a.GetMessages()) != 1 {
		t.Errorf("Expected a to receive 1 message, got %d", len(a.GetMessages()))
	}
	if len(b.GetMessages()) != 1 {
		t.Errorf("Expected b to receive 1 message, got %d", len(b.GetMessages()))
	}
}

func TestBroker_PublishWithoutSubscribers(t *testing.T) {
	broker := NewBroker()

	err := broker.Publish(testMessage(t, proto.TopicSchedule))
	if !errors.Is(err, ErrNoSubscribers) {
		t.Errorf("Expected ErrNoSubscribers, got %v", err)
	}
}

func TestBroker_PublishSubscriberError(t *testing.T) {
	broker := NewBroker()
	good := NewMockSubscriber("good")
	bad := NewMockSubscriber("bad")
	sendErr := errors.New("boom")
	bad.SetSendError(sendErr)

	broker.Subscribe(proto.TopicSchedule, good)
	broker.Subscribe(proto.TopicSchedule, bad)

	err := broker.Publish(testMessage(t, proto.TopicSchedule))
	if !errors.Is(err, sendErr) {
		t.Errorf("Expected subscriber error, got %v", err)
	}
	if len(good.GetMessages()) != 1 {
		t.Errorf("Expected healthy subscriber to still receive the message, got %d", len(good.GetMessages()))
	}
}

func TestBroker_Unsubscribe(t *testing.T) {
	broker := NewBroker()
	sub := NewMockSubscriber("sub")

	broker.Subscribe(proto.TopicSchedule, sub)
	broker.Unsubscribe(proto.TopicSchedule, sub)

	if n := broker.Subscribers(proto.TopicSchedule); n != 0 {
		t.Errorf("Expected 0 subscribers, got %d", n)
	}
	if _, ok := broker.subs[proto.TopicSchedule]; ok {
		t.Error("Expected empty topic to be removed")
	}

	// Unknown subscriber is a no-op
	broker.Unsubscribe(proto.TopicSchedule, sub)
}
