package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mbocsi/lightsched/proto"
)

var ErrNoSubscribers = errors.New("no subscribers for topic")

// Subscriber receives messages published on a topic.
type Subscriber interface {
	ID() string
	Send(proto.Message) error
}

type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[Subscriber]struct{} // Map topic to hashset of Subscribers
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[Subscriber]struct{}),
	}
}

func (b *Broker) Subscribe(topic string, sub Subscriber) {
	slog.Debug("Subscribing", "topic", topic, "subscriber", sub.ID())
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[Subscriber]struct{})
	}
	b.subs[topic][sub] = struct{}{}
}

// Publish delivers msg to every subscriber of its topic. It fails when nobody
// is subscribed or when any subscriber rejects the message.
func (b *Broker) Publish(msg proto.Message) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subs := b.subs[msg.Topic]
	if len(subs) == 0 {
		return fmt.Errorf("%w %q", ErrNoSubscribers, msg.Topic)
	}

	var errs []error
	sentCount := 0
	for sub := range subs {
		if err := sub.Send(msg); err != nil {
			slog.Warn("There was an error publishing a message to a subscriber", "type", msg.Type, "topic", msg.Topic, "subscriber", sub.ID(), "error", err.Error())
			errs = append(errs, fmt.Errorf("%s: %w", sub.ID(), err))
			continue
		}
		sentCount++
	}
	slog.Debug("Message published",
		"type", msg.Type,
		"topic", msg.Topic,
		"sender", msg.Sender,
		"subscribers", sentCount,
		"size", len(msg.Payload),
	)
	return errors.Join(errs...)
}

func (b *Broker) Unsubscribe(topic string, sub Subscriber) {
	slog.Debug("Unsubscribing", "topic", topic, "subscriber", sub.ID())
	b.mu.Lock()
	defer b.mu.Unlock()

	if subs, ok := b.subs[topic]; ok {
		if _, exists := subs[sub]; exists {
			delete(subs, sub)
		} else {
			slog.Warn("Did not find subscriber in topic to unsubscribe", "topic", topic, "subscriber", sub.ID())
		}
		if len(subs) == 0 {
			delete(b.subs, topic)
		}
	}
}

// Subscribers returns the number of subscribers on topic.
func (b *Broker) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
