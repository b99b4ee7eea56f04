// Package controller is the light controller's server side: it accepts
// schedules from panels over a websocket, routes them through a topic broker
// to the light controller, and exposes the state over HTTP and MCP.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/mdns"
	"github.com/mbocsi/lightsched/config"
	"github.com/mbocsi/lightsched/proto"
)

const shutdownTimeout = 5 * time.Second

type Controller struct {
	cfg config.ControllerConfig

	broker    *Broker
	registry  *Registry
	schedules *ScheduleService
	light     *LightController
	hub       *Hub
	tcp       *TCPListener
	mcp       *MCPServer
}

// New wires a controller around sw. The TCP listener and MCP are only set up
// when their addresses are configured.
func New(cfg config.ControllerConfig, sw Switch) *Controller {
	broker := NewBroker()
	registry := NewRegistry()
	schedules := NewScheduleService(broker)
	light := NewLightController(sw)
	broker.Subscribe(proto.TopicSchedule, light)

	hub := NewHub(schedules, registry)
	hub.SetMaxClients(cfg.MaxClients)

	c := &Controller{
		cfg:       cfg,
		broker:    broker,
		registry:  registry,
		schedules: schedules,
		light:     light,
		hub:       hub,
	}
	if cfg.TCPAddr != "" {
		c.tcp = NewTCPListener(cfg.TCPAddr, schedules, registry)
		c.tcp.SetMaxClients(cfg.MaxClients)
	}
	if cfg.MCPAddr != "" {
		c.mcp = NewMCPServer(cfg.MCPAddr, schedules, light)
	}
	return c
}

func (c *Controller) Broker() *Broker             { return c.broker }
func (c *Controller) Schedules() *ScheduleService { return c.schedules }
func (c *Controller) Light() *LightController     { return c.light }
func (c *Controller) Registry() *Registry         { return c.registry }

// Run serves until ctx is done or a listener fails, then shuts everything
// down.
func (c *Controller) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 3)

	httpServer := &http.Server{
		Addr:    c.cfg.Addr,
		Handler: c.Routes(),
	}
	go func() {
		slog.Info("Starting WebSocket server", "addr", c.cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if c.tcp != nil {
		go func() {
			if err := c.tcp.Start(); err != nil {
				errCh <- err
			}
		}()
	}

	if c.mcp != nil {
		go func() {
			if err := c.mcp.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	var advertiser *mdns.Server
	if c.cfg.MDNS {
		srv, err := Advertise(c.cfg.Addr)
		if err != nil {
			slog.Warn("mDNS advertisement disabled", "error", err.Error())
		} else {
			advertiser = srv
		}
	}

	go c.light.Run(ctx, c.cfg.CheckInterval.Duration)

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		slog.Error("Server failed", "error", runErr.Error())
	}
	cancel()

	slog.Info("Shutting down controller")
	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()

	if advertiser != nil {
		if err := advertiser.Shutdown(); err != nil {
			slog.Error("There was an error when shutting down mDNS", "error", err.Error())
		}
	}
	if c.tcp != nil {
		if err := c.tcp.Shutdown(); err != nil {
			slog.Error("There was an error when shutting down TCP server", "error", err.Error())
		}
	}
	if c.mcp != nil {
		if err := c.mcp.Shutdown(shutdownCtx); err != nil {
			slog.Error("There was an error when shutting down MCP server", "error", err.Error())
		}
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("There was an error when shutting down HTTP server", "error", err.Error())
	}
	return runErr
}
