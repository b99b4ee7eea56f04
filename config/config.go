// Package config loads the TOML configuration shared by lightpanel and lightd.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration written as "3s" or "16ms" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type PanelConfig struct {
	Endpoint             string   `toml:"endpoint"`              // Controller websocket URL; empty means discover via mDNS
	DiscoveryTimeout     Duration `toml:"discovery_timeout"`     // How long to wait for mDNS answers
	FrameInterval        Duration `toml:"frame_interval"`        // Render loop cadence
	NotificationDuration Duration `toml:"notification_duration"` // How long notifications stay visible
	PrefsPath            string   `toml:"prefs_path"`            // Theme preference file
	LogFile              string   `toml:"log_file"`              // The terminal belongs to the UI, so logs go to a file
	LogLevel             string   `toml:"log_level"`
	Sound                bool     `toml:"sound"`
	Volume               float64  `toml:"volume"`
}

type ControllerConfig struct {
	Addr          string   `toml:"addr"`           // Websocket + HTTP listen address
	MCPAddr       string   `toml:"mcp_addr"`       // MCP SSE listen address; empty disables MCP
	TCPAddr       string   `toml:"tcp_addr"`       // Line-delimited JSON listen address; empty disables it
	CheckInterval Duration `toml:"check_interval"` // How often the light controller compares the clock to the schedule
	TestMode      bool     `toml:"test_mode"`      // Simulate the light switch instead of driving hardware
	SwitchDevice  string   `toml:"switch_device"`  // Device file written with "1"/"0" when not in test mode
	MDNS          bool     `toml:"mdns"`           // Advertise the controller on the local network
	MaxClients    int      `toml:"max_clients"`
	LogLevel      string   `toml:"log_level"`
}

type Config struct {
	Panel      PanelConfig      `toml:"panel"`
	Controller ControllerConfig `toml:"controller"`
}

func Default() Config {
	return Config{
		Panel: PanelConfig{
			Endpoint:             "ws://localhost:8767/",
			DiscoveryTimeout:     Duration{5 * time.Second},
			FrameInterval:        Duration{16 * time.Millisecond},
			NotificationDuration: Duration{3000 * time.Millisecond},
			LogFile:              "lightpanel.log",
			LogLevel:             "info",
			Sound:                true,
			Volume:               0.5,
		},
		Controller: ControllerConfig{
			Addr:          "localhost:8767",
			MCPAddr:       "",
			TCPAddr:       "",
			CheckInterval: Duration{30 * time.Second},
			TestMode:      true,
			MDNS:          false,
			MaxClients:    16,
			LogLevel:      "debug",
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("Config file not found, using defaults", "path", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Panel.FrameInterval.Duration <= 0 {
		return errors.New("panel.frame_interval must be positive")
	}
	if c.Panel.NotificationDuration.Duration <= 0 {
		return errors.New("panel.notification_duration must be positive")
	}
	if c.Panel.Volume < 0 || c.Panel.Volume > 1 {
		return errors.New("panel.volume must be between 0 and 1")
	}
	if c.Controller.CheckInterval.Duration <= 0 {
		return errors.New("controller.check_interval must be positive")
	}
	if strings.TrimSpace(c.Controller.Addr) == "" {
		return errors.New("controller.addr is required")
	}
	if !c.Controller.TestMode && c.Controller.SwitchDevice == "" {
		return errors.New("controller.switch_device is required outside test mode")
	}
	if _, err := ParseLevel(c.Panel.LogLevel); err != nil {
		return err
	}
	if _, err := ParseLevel(c.Controller.LogLevel); err != nil {
		return err
	}
	return nil
}

// Encode renders c as TOML, used by "-print-config".
func Encode(c Config) ([]byte, error) {
	return toml.Marshal(c)
}

func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
