package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/mbocsi/lightsched/audio"
	"github.com/mbocsi/lightsched/client"
	"github.com/mbocsi/lightsched/config"
	"github.com/mbocsi/lightsched/prefs"
	"github.com/mbocsi/lightsched/ui"
)

func setupLogger(path string, level slog.Level) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
	return func() { f.Close() }, nil
}

func main() {
	configPath := flag.String("config", "lightsched.toml", "Path to the TOML config file")
	endpoint := flag.String("endpoint", "", "Controller websocket URL")
	discover := flag.Bool("discover", false, "Find the controller over mDNS instead of using the endpoint")
	mute := flag.Bool("mute", false, "Disable sound cues")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *endpoint != "" {
		cfg.Panel.Endpoint = *endpoint
	}
	if *discover {
		cfg.Panel.Endpoint = ""
	}
	if *mute {
		cfg.Panel.Sound = false
	}

	level, _ := config.ParseLevel(cfg.Panel.LogLevel)
	closeLog, err := setupLogger(cfg.Panel.LogFile, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg.Panel); err != nil {
		slog.Error("Panel exited with error", "error", err.Error())
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.PanelConfig) error {
	prefsPath := cfg.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	var store prefs.Store
	fileStore, err := prefs.OpenFileStore(prefsPath)
	if err != nil {
		slog.Warn("Preferences unavailable, using memory store", "path", prefsPath, "error", err.Error())
		store = prefs.NewMemoryStore()
	} else {
		store = fileStore
	}
	theme := prefs.LoadTheme(store)

	opts := []ui.PanelOption{ui.WithNotificationDuration(cfg.NotificationDuration.Duration)}
	if cfg.Sound {
		player := audio.NewPlayer(cfg.Volume)
		if err := player.Initialize(); err != nil {
			slog.Warn("Audio initialization failed", "error", err.Error())
		} else {
			defer player.Close()
			opts = append(opts, ui.WithCuePlayer(player))
		}
	}
	panel := ui.NewPanel(opts...)
	var transport client.Transport = client.NewWebSocketTransport()
	if client.IsTCPEndpoint(cfg.Endpoint) {
		transport = client.NewTCPTransport()
	}
	session := client.NewSession(transport, panel)

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	app := ui.NewApp(screen, session, panel, theme, ui.AppOptions{
		Resolve:       resolver(cfg),
		FrameInterval: cfg.FrameInterval.Duration,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Panel started", "endpoint", cfg.Endpoint, "theme", theme.Name())
	return app.Run(ctx)
}

// resolver returns the configured endpoint, or discovers one over mDNS when
// none is configured.
func resolver(cfg config.PanelConfig) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		if cfg.Endpoint != "" {
			return cfg.Endpoint, nil
		}
		svc, err := client.DiscoverController(cfg.DiscoveryTimeout.Duration)
		if err != nil {
			return "", err
		}
		return svc.URL(), nil
	}
}
