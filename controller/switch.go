package controller

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// Switch drives the physical light.
type Switch interface {
	Set(on bool) error
}

// SimulatedSwitch logs and records switch commands without touching hardware.
type SimulatedSwitch struct {
	mu      sync.Mutex
	on      bool
	history []bool
}

func NewSimulatedSwitch() *SimulatedSwitch {
	return &SimulatedSwitch{}
}

func (s *SimulatedSwitch) Set(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.on = on
	s.history = append(s.history, on)
	slog.Info("Simulated light switch", "on", on)
	return nil
}

func (s *SimulatedSwitch) On() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.on
}

// History returns every command received, oldest first.
func (s *SimulatedSwitch) History() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bool, len(s.history))
	copy(out, s.history)
	return out
}

// DeviceSwitch writes "1" or "0" to a device file such as a microcontroller's
// serial port.
type DeviceSwitch struct {
	Path string
	mu   sync.Mutex
}

func NewDeviceSwitch(path string) *DeviceSwitch {
	return &DeviceSwitch{Path: path}
}

func (s *DeviceSwitch) Set(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.Path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open switch device: %w", err)
	}
	defer f.Close()

	cmd := "0"
	if on {
		cmd = "1"
	}
	if _, err := f.WriteString(cmd); err != nil {
		return fmt.Errorf("write switch device: %w", err)
	}
	slog.Info("Light switched", "on", on, "device", s.Path)
	return nil
}
