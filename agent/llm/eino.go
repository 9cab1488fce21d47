package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	contractx "github.com/tanpawarit/fitfusion-assistant/agent/contract"
	"github.com/tanpawarit/fitfusion-assistant/agent/tool"
)

// EinoChatModel runs one model step through a compiled eino graph with the catalog bound.
type EinoChatModel struct {
	runner compose.Runnable[[]*schema.Message, *schema.Message]
}

var _ contractx.ChatModel = (*EinoChatModel)(nil)

func NewEinoChatModel(ctx context.Context, chatModel einomodel.ToolCallingChatModel, catalog tool.Catalog) (*EinoChatModel, error) {
	toolModel, err := chatModel.WithTools(catalog.ToolInfos())
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrModelInvoke, err)
	}
	runner, err := compileStepGraph(ctx, toolModel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return &EinoChatModel{runner: runner}, nil
}

func compileStepGraph(ctx context.Context, chatModel einomodel.BaseChatModel) (compose.Runnable[[]*schema.Message, *schema.Message], error) {
	graph := compose.NewGraph[[]*schema.Message, *schema.Message]()
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add step model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "model"); err != nil {
		return nil, fmt.Errorf("add step edge start->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add step edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("assistant.step_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile step graph: %w", err)
	}
	return runner, nil
}

func (m *EinoChatModel) Generate(ctx context.Context, req contractx.ModelRequest) (contractx.ModelResponse, error) {
	msg, err := m.runner.Invoke(ctx, toEinoMessages(req))
	if err != nil {
		return contractx.ModelResponse{}, fmt.Errorf("%w: %w", contractx.ErrModelInvoke, err)
	}
	return fromEinoMessage(msg)
}

func toEinoMessages(req contractx.ModelRequest) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(req.History)+1)
	if p := strings.TrimSpace(req.SystemPrompt); p != "" {
		msgs = append(msgs, schema.SystemMessage(p))
	}
	for _, turn := range req.History {
		switch turn.Role {
		case contractx.RoleUser:
			msgs = append(msgs, schema.UserMessage(turn.Content))
		case contractx.RoleModel:
			msgs = append(msgs, schema.AssistantMessage(turn.Content, toEinoToolCalls(turn.Calls)))
		case contractx.RoleTool:
			var callID, name string
			if turn.Result != nil {
				callID, name = turn.Result.CallID, turn.Result.Tool
			}
			msgs = append(msgs, schema.ToolMessage(turn.Content, callID, schema.WithToolName(name)))
		}
	}
	return msgs
}

func toEinoToolCalls(calls []contractx.ToolCallRequest) []schema.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]schema.ToolCall, 0, len(calls))
	for _, c := range calls {
		args, err := json.Marshal(c.Arguments)
		if err != nil || c.Arguments == nil {
			args = []byte("{}")
		}
		out = append(out, schema.ToolCall{
			ID:   c.ID,
			Type: "function",
			Function: schema.FunctionCall{
				Name:      c.Name,
				Arguments: string(args),
			},
		})
	}
	return out
}

func fromEinoMessage(msg *schema.Message) (contractx.ModelResponse, error) {
	if msg == nil {
		return contractx.ModelResponse{}, fmt.Errorf("%w: empty model response", contractx.ErrSchemaViolation)
	}

	calls := make([]contractx.ToolCallRequest, 0, len(msg.ToolCalls))
	for _, call := range msg.ToolCalls {
		name := strings.TrimSpace(call.Function.Name)
		if name == "" {
			return contractx.ModelResponse{}, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}

		args := map[string]any{}
		if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return contractx.ModelResponse{}, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, name, err)
			}
		}

		id := strings.TrimSpace(call.ID)
		if id == "" {
			id = uuid.NewString()
		}
		calls = append(calls, contractx.ToolCallRequest{ID: id, Name: name, Arguments: args})
	}

	resp := contractx.ModelResponse{Text: msg.Content}
	if len(calls) > 0 {
		resp.ToolCalls = calls
	}
	if !resp.HasToolCalls() && resp.TrimmedText() == "" {
		return contractx.ModelResponse{}, fmt.Errorf("%w: model returned neither text nor tool calls", contractx.ErrSchemaViolation)
	}
	return resp, nil
}
