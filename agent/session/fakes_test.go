package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	contractx "github.com/tanpawarit/fitfusion-assistant/agent/contract"
	"github.com/tanpawarit/fitfusion-assistant/agent/record"
)

// scriptedModel replays responses in order and records every request it saw.
type scriptedModel struct {
	mu        sync.Mutex
	steps     []func(context.Context, contractx.ModelRequest) (contractx.ModelResponse, error)
	idx       int
	requests  []contractx.ModelRequest
	repeatEnd bool
}

func (m *scriptedModel) Generate(ctx context.Context, req contractx.ModelRequest) (contractx.ModelResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.idx >= len(m.steps) {
		if m.repeatEnd && len(m.steps) > 0 {
			return m.steps[len(m.steps)-1](ctx, req)
		}
		return contractx.ModelResponse{}, errors.New("no scripted response left")
	}
	step := m.steps[m.idx]
	m.idx++
	return step(ctx, req)
}

func (m *scriptedModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func reply(text string) func(context.Context, contractx.ModelRequest) (contractx.ModelResponse, error) {
	return func(context.Context, contractx.ModelRequest) (contractx.ModelResponse, error) {
		return contractx.ModelResponse{Text: text}, nil
	}
}

func callTool(id, name string, args map[string]any) func(context.Context, contractx.ModelRequest) (contractx.ModelResponse, error) {
	return func(context.Context, contractx.ModelRequest) (contractx.ModelResponse, error) {
		return contractx.ModelResponse{ToolCalls: []contractx.ToolCallRequest{{ID: id, Name: name, Arguments: args}}}, nil
	}
}

func fail(err error) func(context.Context, contractx.ModelRequest) (contractx.ModelResponse, error) {
	return func(context.Context, contractx.ModelRequest) (contractx.ModelResponse, error) {
		return contractx.ModelResponse{}, err
	}
}

// echoLastToolResult answers with the text of the newest tool turn.
func echoLastToolResult(prefix string) func(context.Context, contractx.ModelRequest) (contractx.ModelResponse, error) {
	return func(_ context.Context, req contractx.ModelRequest) (contractx.ModelResponse, error) {
		for i := len(req.History) - 1; i >= 0; i-- {
			if req.History[i].Role == contractx.RoleTool {
				return contractx.ModelResponse{Text: prefix + req.History[i].Content}, nil
			}
		}
		return contractx.ModelResponse{}, errors.New("no tool result in history")
	}
}

type recordingGateway struct {
	mu    sync.Mutex
	calls []contractx.ToolCallRequest
	fn    func(contractx.ToolCallRequest) contractx.ToolResult
}

func (g *recordingGateway) Execute(_ context.Context, call contractx.ToolCallRequest) contractx.ToolResult {
	g.mu.Lock()
	g.calls = append(g.calls, call)
	g.mu.Unlock()
	if g.fn != nil {
		return g.fn(call)
	}
	return contractx.ToolResult{CallID: call.ID, Tool: call.Name, Text: "ok"}
}

type memSink struct {
	mu      sync.Mutex
	records []record.Record
}

func (s *memSink) Append(_ context.Context, rec record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ModelTimeout = time.Second
	return cfg
}

func newTestSession(t *testing.T, model contractx.ChatModel, tools contractx.ToolGateway, cfg Config) *Session {
	t.Helper()
	f, err := NewFactory(model, tools, "system prompt", cfg)
	if err != nil {
		t.Fatalf("NewFactory() error = %v", err)
	}
	s, err := f.New("session-1")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}
