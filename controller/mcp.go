package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mbocsi/lightsched/proto"
)

// MCPServer exposes the schedule and light state as MCP tools over SSE.
type MCPServer struct {
	Server *server.MCPServer
	sse    *server.SSEServer
	addr   string

	schedules *ScheduleService
	light     *LightController
}

func NewMCPServer(addr string, schedules *ScheduleService, light *LightController) *MCPServer {
	m := &MCPServer{
		Server:    server.NewMCPServer("lightsched", "1.0.0"),
		addr:      addr,
		schedules: schedules,
		light:     light,
	}
	m.registerTools()
	m.sse = server.NewSSEServer(m.Server)
	return m
}

func (m *MCPServer) registerTools() {
	getSchedule := mcp.NewTool("get_schedule",
		mcp.WithDescription("Get the light schedule currently in effect"),
	)
	m.Server.AddTool(getSchedule, m.handleGetSchedule)

	setSchedule := mcp.NewTool("set_schedule",
		mcp.WithDescription("Set the times of day the light turns on and off"),
		mcp.WithString("onTime",
			mcp.Required(),
			mcp.Description("Time of day to turn the light on, HH:MM"),
		),
		mcp.WithString("offTime",
			mcp.Required(),
			mcp.Description("Time of day to turn the light off, HH:MM"),
		),
	)
	m.Server.AddTool(setSchedule, m.handleSetSchedule)

	getLight := mcp.NewTool("get_light_state",
		mcp.WithDescription("Get whether the light is on and when it last switched"),
	)
	m.Server.AddTool(getLight, m.handleGetLightState)
}

func (m *MCPServer) handleGetSchedule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sched, ok := m.schedules.Current()
	if !ok {
		return mcp.NewToolResultText("No schedule set"), nil
	}
	return jsonResult(sched)
}

func (m *MCPServer) handleSetSchedule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	onTime, err := request.RequireString("onTime")
	if err != nil {
		return mcp.NewToolResultError("onTime is required and must be a string"), nil
	}
	offTime, err := request.RequireString("offTime")
	if err != nil {
		return mcp.NewToolResultError("offTime is required and must be a string"), nil
	}

	sched, err := m.schedules.SetSchedule(proto.ScheduleCommand{OnTime: onTime, OffTime: offTime}, "mcp")
	if err != nil {
		if errors.Is(err, proto.ErrMissingTime) {
			return mcp.NewToolResultError(ReplyInvalidFormat), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", ReplyPublishFailed, err)), nil
	}
	return jsonResult(sched)
}

func (m *MCPServer) handleGetLightState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(m.light.State())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (m *MCPServer) Start() error {
	slog.Info("Started SSE MCP server", "addr", m.addr)
	return m.sse.Start(m.addr)
}

func (m *MCPServer) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down SSE MCP server", "addr", m.addr)
	return m.sse.Shutdown(ctx)
}
