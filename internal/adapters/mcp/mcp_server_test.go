package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// mockStateProvider is a mock implementation of ports.MCPStateProvider for testing.
type mockStateProvider struct {
	timer    domain.TimerSnapshot
	sessions []*domain.Session
	colors   []domain.TaskColor
	windows  []domain.Window
	limits   []int
}

func (m *mockStateProvider) GetTimer(ctx context.Context) domain.TimerSnapshot {
	return m.timer
}

func (m *mockStateProvider) GetStats(ctx context.Context, window domain.Window) (*domain.Summary, error) {
	m.windows = append(m.windows, window)
	acc := domain.NewAccumulator(window, domain.Period{End: time.Now()})
	for _, s := range m.sessions {
		acc.Add(s)
	}
	return acc.Finish(), nil
}

func (m *mockStateProvider) ListSessions(ctx context.Context, window domain.Window, limit int) ([]*domain.Session, error) {
	m.windows = append(m.windows, window)
	m.limits = append(m.limits, limit)
	if len(m.sessions) > limit {
		return m.sessions[:limit], nil
	}
	return m.sessions, nil
}

func (m *mockStateProvider) ListTaskColors(ctx context.Context) ([]domain.TaskColor, error) {
	return m.colors, nil
}

func (m *mockStateProvider) ColorFor(ctx context.Context, taskName string) string {
	for _, c := range m.colors {
		if c.TaskName == taskName {
			return c.Color
		}
	}
	return domain.DefaultPalette[0]
}

func newMock(t *testing.T) *mockStateProvider {
	t.Helper()
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	a, err := domain.NewSession("coding", start, 30*time.Minute, 30*time.Minute, true)
	if err != nil {
		t.Fatal(err)
	}
	b, err := domain.NewSession("reading", start.Add(time.Hour), 25*time.Minute, 10*time.Minute, false)
	if err != nil {
		t.Fatal(err)
	}
	return &mockStateProvider{
		sessions: []*domain.Session{b, a},
		colors:   []domain.TaskColor{{TaskName: "coding", Color: "#61afef"}},
	}
}

func callArgs(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func decodeResult(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	if result == nil {
		t.Fatal("nil result")
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %+v", result.Content)
	}
	if len(result.Content) == 0 {
		t.Fatal("empty content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", result.Content[0])
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(text.Text), &out); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	return out
}

func TestNewServer(t *testing.T) {
	server := NewServer(newMock(t))

	if server == nil {
		t.Fatal("NewServer() returned nil")
	}
	if server.server == nil {
		t.Error("NewServer() did not create the MCP server")
	}
}

func TestServer_IsRunning(t *testing.T) {
	server := NewServer(newMock(t))
	if server.IsRunning() {
		t.Error("IsRunning() should be false before Start")
	}
}

func TestServer_handleGetTimer_Idle(t *testing.T) {
	server := NewServer(&mockStateProvider{timer: domain.TimerSnapshot{State: domain.TimerStateIdle}})

	result, err := server.handleGetTimer(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleGetTimer() error = %v", err)
	}
	out := decodeResult(t, result)
	if out["state"] != "idle" {
		t.Errorf("state = %v, want idle", out["state"])
	}
	if _, ok := out["task"]; ok {
		t.Error("idle timer should not report a task")
	}
}

func TestServer_handleGetTimer_Running(t *testing.T) {
	server := NewServer(&mockStateProvider{timer: domain.TimerSnapshot{
		State:     domain.TimerStateRunning,
		TaskName:  "coding",
		StartTime: time.Now(),
		Planned:   25 * time.Minute,
		Elapsed:   5 * time.Minute,
		Remaining: 20 * time.Minute,
	}})

	result, err := server.handleGetTimer(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleGetTimer() error = %v", err)
	}
	out := decodeResult(t, result)
	if out["task"] != "coding" {
		t.Errorf("task = %v", out["task"])
	}
	if out["remaining"] != "20:00" {
		t.Errorf("remaining = %v, want 20:00", out["remaining"])
	}
	if out["progress"] != 0.2 {
		t.Errorf("progress = %v, want 0.2", out["progress"])
	}
}

func TestServer_handleGetStats(t *testing.T) {
	mock := newMock(t)
	server := NewServer(mock)

	result, err := server.handleGetStats(context.Background(), callArgs(map[string]interface{}{"period": "month"}))
	if err != nil {
		t.Fatalf("handleGetStats() error = %v", err)
	}
	out := decodeResult(t, result)
	if out["total"] != "40m" {
		t.Errorf("total = %v, want 40m", out["total"])
	}
	if out["sessions"] != float64(2) {
		t.Errorf("sessions = %v, want 2", out["sessions"])
	}
	if len(mock.windows) != 1 || mock.windows[0] != domain.WindowMonth {
		t.Errorf("windows = %v", mock.windows)
	}
}

func TestServer_handleGetStats_InvalidPeriod(t *testing.T) {
	server := NewServer(newMock(t))

	result, err := server.handleGetStats(context.Background(), callArgs(map[string]interface{}{"period": "decade"}))
	if err != nil {
		t.Fatalf("handleGetStats() error = %v", err)
	}
	if !result.IsError {
		t.Error("handleGetStats() should return error for invalid period")
	}
}

func TestServer_handleListSessions(t *testing.T) {
	mock := newMock(t)
	server := NewServer(mock)

	result, err := server.handleListSessions(context.Background(), callArgs(map[string]interface{}{"limit": float64(1)}))
	if err != nil {
		t.Fatalf("handleListSessions() error = %v", err)
	}
	out := decodeResult(t, result)
	if out["total_count"] != float64(1) {
		t.Errorf("total_count = %v, want 1", out["total_count"])
	}
	if out["window"] != "week" {
		t.Errorf("window = %v, want week", out["window"])
	}
	if len(mock.limits) != 1 || mock.limits[0] != 1 {
		t.Errorf("limits = %v", mock.limits)
	}
}

func TestServer_handleListSessions_DefaultLimit(t *testing.T) {
	mock := newMock(t)
	server := NewServer(mock)

	if _, err := server.handleListSessions(context.Background(), callArgs(map[string]interface{}{})); err != nil {
		t.Fatalf("handleListSessions() error = %v", err)
	}
	if len(mock.limits) != 1 || mock.limits[0] != defaultSessionLimit {
		t.Errorf("limits = %v, want [%d]", mock.limits, defaultSessionLimit)
	}
}

func TestServer_handleListTaskColors(t *testing.T) {
	server := NewServer(newMock(t))

	result, err := server.handleListTaskColors(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleListTaskColors() error = %v", err)
	}
	out := decodeResult(t, result)
	colors, ok := out["task_colors"].([]interface{})
	if !ok || len(colors) != 1 {
		t.Fatalf("task_colors = %v", out["task_colors"])
	}
}

func TestServer_handleGetTaskColor(t *testing.T) {
	server := NewServer(newMock(t))

	result, err := server.handleGetTaskColor(context.Background(), callArgs(map[string]interface{}{"task": "coding"}))
	if err != nil {
		t.Fatalf("handleGetTaskColor() error = %v", err)
	}
	out := decodeResult(t, result)
	if out["color"] != "#61afef" {
		t.Errorf("color = %v, want #61afef", out["color"])
	}
}

func TestServer_handleGetTaskColor_MissingTask(t *testing.T) {
	server := NewServer(newMock(t))

	result, err := server.handleGetTaskColor(context.Background(), callArgs(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleGetTaskColor() error = %v", err)
	}
	if !result.IsError {
		t.Error("handleGetTaskColor() should return error for missing task")
	}
}

func TestServer_Stop(t *testing.T) {
	server := NewServer(newMock(t))

	// Stop before Start should not panic
	if err := server.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}
