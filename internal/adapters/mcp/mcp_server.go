// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/pomo-cli/internal/adapters/web"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

const defaultSessionLimit = 20

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider) *Server {
	s := &Server{
		stateProvider: stateProvider,
	}

	s.server = server.NewMCPServer(
		"pomo",
		"1.0.0",
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

func periodOption() mcp.ToolOption {
	return mcp.WithString(
		"period",
		mcp.Description("Reporting window: week, month, year or all (default: week)"),
		mcp.Enum("week", "month", "year", "all"),
	)
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_timer",
			mcp.WithDescription("Get the state of the running pomodoro timer, if any"),
		),
		s.handleGetTimer,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_stats",
			mcp.WithDescription("Summarize focused time per task over a reporting window"),
			periodOption(),
		),
		s.handleGetStats,
	)

	s.server.AddTool(
		mcp.NewTool(
			"list_sessions",
			mcp.WithDescription("List recorded pomodoro sessions, newest first"),
			periodOption(),
			mcp.WithNumber(
				"limit",
				mcp.Description("Maximum number of sessions to return (default: 20)"),
			),
		),
		s.handleListSessions,
	)

	s.server.AddTool(
		mcp.NewTool(
			"list_task_colors",
			mcp.WithDescription("List the display color assigned to each task"),
		),
		s.handleListTaskColors,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_task_color",
			mcp.WithDescription("Get the display color of a task, assigning one if it has none"),
			mcp.WithString(
				"task",
				mcp.Required(),
				mcp.Description("The task name"),
			),
		),
		s.handleGetTaskColor,
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleGetTimer handles the get_timer tool.
func (s *Server) handleGetTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.stateProvider.GetTimer(ctx)

	result := map[string]interface{}{
		"state": string(snap.State),
		"label": domain.GetStateLabel(snap.State),
	}
	if snap.IsRunning() {
		result["task"] = snap.TaskName
		result["started_at"] = snap.StartTime.Format("2006-01-02T15:04:05")
		result["planned"] = domain.FormatDuration(snap.Planned)
		result["elapsed"] = domain.FormatClock(snap.Elapsed)
		result["remaining"] = domain.FormatClock(snap.Remaining)
		result["progress"] = snap.Progress()
	}
	return jsonResult(result)
}

// handleGetStats handles the get_stats tool.
func (s *Server) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	window, err := domain.ParseWindow(request.GetString("period", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary, err := s.stateProvider.GetStats(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return jsonResult(web.NewSummaryView(summary))
}

// handleListSessions handles the list_sessions tool.
func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	window, err := domain.ParseWindow(request.GetString("period", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := request.GetInt("limit", defaultSessionLimit)
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}

	sessions, err := s.stateProvider.ListSessions(ctx, window, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return jsonResult(map[string]interface{}{
		"window":      string(window),
		"sessions":    web.NewSessionViews(sessions),
		"total_count": len(sessions),
	})
}

// handleListTaskColors handles the list_task_colors tool.
func (s *Server) handleListTaskColors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	colors, err := s.stateProvider.ListTaskColors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list task colors: %w", err)
	}
	return jsonResult(map[string]interface{}{
		"task_colors": web.NewTaskColorViews(colors),
	})
}

// handleGetTaskColor handles the get_task_color tool.
func (s *Server) handleGetTaskColor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task, err := request.RequireString("task")
	if err != nil {
		return mcp.NewToolResultError("task is required: " + err.Error()), nil
	}
	return jsonResult(map[string]interface{}{
		"task":  task,
		"color": s.stateProvider.ColorFor(ctx, task),
	})
}
