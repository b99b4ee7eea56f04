package proto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ScheduleCommand is the client -> controller message.
type ScheduleCommand struct {
	OnTime  string `json:"onTime"`  // Wall-clock time of day the light turns on, e.g. "18:00"
	OffTime string `json:"offTime"` // Wall-clock time of day the light turns off
}

var ErrMissingTime = errors.New("both onTime and offTime are required")

func (c ScheduleCommand) Validate() error {
	if strings.TrimSpace(c.OnTime) == "" || strings.TrimSpace(c.OffTime) == "" {
		return ErrMissingTime
	}
	return nil
}

func EncodeCommand(c ScheduleCommand) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(c)
}

// DecodeCommand parses a command and validates it. Returns a json error for bad
// JSON and ErrMissingTime for an incomplete schedule so callers can reply
// with the right message.
func DecodeCommand(data []byte) (ScheduleCommand, error) {
	var cmd ScheduleCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		return ScheduleCommand{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := cmd.Validate(); err != nil {
		return cmd, err
	}
	return cmd, nil
}

const StatusSuccess = "success"
const StatusError = "error"

// Ack is the controller -> client reply.
type Ack struct {
	Status  string `json:"status"` // "success" or anything else
	Message string `json:"message"`
}

func EncodeAck(a Ack) ([]byte, error) {
	return json.Marshal(a)
}

type AckKind int

const (
	AckMalformed AckKind = iota
	AckSuccess
	AckFailure
)

func (k AckKind) String() string {
	switch k {
	case AckSuccess:
		return "success"
	case AckFailure:
		return "failure"
	default:
		return "malformed"
	}
}

// AckResult is the validated form of an inbound Ack. Err is only set when
// Kind is AckMalformed.
type AckResult struct {
	Kind    AckKind
	Message string
	Err     error
}

// ParseAck strictly parses an inbound reply. Both status and message must be
// present and must be strings; anything else is AckMalformed.
func ParseAck(data []byte) AckResult {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return AckResult{Kind: AckMalformed, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	var status, message string
	if err := requireString(fields, "status", &status); err != nil {
		return AckResult{Kind: AckMalformed, Err: err}
	}
	if err := requireString(fields, "message", &message); err != nil {
		return AckResult{Kind: AckMalformed, Err: err}
	}

	if status == StatusSuccess {
		return AckResult{Kind: AckSuccess, Message: message}
	}
	return AckResult{Kind: AckFailure, Message: message}
}

func requireString(fields map[string]json.RawMessage, key string, dst *string) error {
	raw, ok := fields[key]
	if !ok {
		return fmt.Errorf("missing field %q", key)
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return fmt.Errorf("field %q must be a string, got null", key)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("field %q must be a string: %w", key, err)
	}
	return nil
}

// LightSchedule is what the controller publishes on the schedule topic.
type LightSchedule struct {
	OnTime    string `json:"on_time"`
	OffTime   string `json:"off_time"`
	Timestamp string `json:"timestamp"` // RFC 3339 time the schedule was accepted
}

func NewLightSchedule(cmd ScheduleCommand, at time.Time) LightSchedule {
	return LightSchedule{
		OnTime:    strings.TrimSpace(cmd.OnTime),
		OffTime:   strings.TrimSpace(cmd.OffTime),
		Timestamp: at.Format(time.RFC3339),
	}
}
