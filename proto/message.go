package proto

import (
	"encoding/json"
	"time"
)

// TopicSchedule carries LightSchedule payloads.
const TopicSchedule = "light/schedule"

// ServiceType is the mDNS service the controller advertises.
const ServiceType = "_lightsched-ws._tcp"

// Message is the envelope routed through the controller's broker.
type Message struct {
	Type      string          `json:"type"`             // "schedule"
	Topic     string          `json:"topic,omitempty"`  // logical routing (e.g., "light/schedule")
	Sender    string          `json:"sender,omitempty"` // connection id or "mcp"
	Payload   json.RawMessage `json:"payload"`          // raw JSON; schema depends on Type
	Timestamp int64           `json:"timestamp"`        // UNIX timestamp in seconds
}

type LightState struct {
	On       bool           `json:"on"`
	Changed  int64          `json:"changed,omitempty"` // UNIX timestamp of the last switch
	Schedule *LightSchedule `json:"schedule,omitempty"`
}

func NewMessage(msgType, topic, sender string, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Type:      msgType,
		Topic:     topic,
		Sender:    sender,
		Payload:   raw,
		Timestamp: time.Now().Unix(),
	}, nil
}
