package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mbocsi/lightsched/config"
	"github.com/mbocsi/lightsched/controller"
)

func setupLogger(level slog.Level) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func main() {
	configPath := flag.String("config", "lightsched.toml", "Path to the TOML config file")
	addr := flag.String("addr", "", "Websocket and HTTP listen address")
	mcpAddr := flag.String("mcp", "", "MCP SSE listen address (empty disables MCP)")
	tcpAddr := flag.String("tcp", "", "Line-delimited JSON listen address (empty disables it)")
	device := flag.String("device", "", "Switch device file; disables test mode")
	advertise := flag.Bool("mdns", false, "Advertise the controller over mDNS")
	printConfig := flag.Bool("print-config", false, "Print the effective config and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Controller.Addr = *addr
		case "mcp":
			cfg.Controller.MCPAddr = *mcpAddr
		case "tcp":
			cfg.Controller.TCPAddr = *tcpAddr
		case "device":
			cfg.Controller.SwitchDevice = *device
			cfg.Controller.TestMode = false
		case "mdns":
			cfg.Controller.MDNS = *advertise
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	if *printConfig {
		data, err := config.Encode(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode config: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		return
	}

	level, _ := config.ParseLevel(cfg.Controller.LogLevel)
	setupLogger(level)

	var sw controller.Switch
	if cfg.Controller.TestMode {
		slog.Info("Running in test mode, light switch is simulated")
		sw = controller.NewSimulatedSwitch()
	} else {
		sw = controller.NewDeviceSwitch(cfg.Controller.SwitchDevice)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := controller.New(cfg.Controller, sw).Run(ctx); err != nil {
		slog.Error("Error running controller", "error", err.Error())
		os.Exit(1)
	}
}
