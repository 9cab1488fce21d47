package contract

import "context"

// ChatModel is the boundary to the language-model service. Implementations are bound to a
// tool catalog at construction time.
type ChatModel interface {
	Generate(ctx context.Context, req ModelRequest) (ModelResponse, error)
}

// ToolGateway executes a model tool call. It never fails: every fault becomes a ToolResult.
type ToolGateway interface {
	Execute(ctx context.Context, req ToolCallRequest) ToolResult
}

// Publisher delivers a JSON payload to an external destination.
type Publisher interface {
	Publish(ctx context.Context, destination string, payload any) error
}
