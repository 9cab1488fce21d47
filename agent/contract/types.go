package contract

import "strings"

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
	RoleTool  Role = "tool"
)

// ToolCallRequest is a model-issued request to run one catalog tool.
type ToolCallRequest struct {
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// ToolResult is the single channel a tool uses to report back to the model.
// Only Text crosses the model boundary; IsError stays on this side for logs and metrics.
type ToolResult struct {
	CallID  string `json:"call_id,omitempty"`
	Tool    string `json:"tool"`
	Text    string `json:"text"`
	IsError bool   `json:"is_error,omitempty"`
}

// Turn is one entry of a conversation history.
//   - RoleUser:  Content is the user's utterance.
//   - RoleModel: Content is the model's text; Calls is set when the model asked for tools.
//   - RoleTool:  Result carries the outcome of exactly one call.
type Turn struct {
	Role    Role              `json:"role"`
	Content string            `json:"content,omitempty"`
	Calls   []ToolCallRequest `json:"calls,omitempty"`
	Result  *ToolResult       `json:"result,omitempty"`
}

func UserTurn(text string) Turn {
	return Turn{Role: RoleUser, Content: text}
}

func ModelTurn(text string, calls ...ToolCallRequest) Turn {
	return Turn{Role: RoleModel, Content: text, Calls: calls}
}

func ToolTurn(res ToolResult) Turn {
	return Turn{Role: RoleTool, Content: res.Text, Result: &res}
}

// ModelRequest is everything the model service needs for one step.
type ModelRequest struct {
	SystemPrompt string
	History      []Turn
}

// ModelResponse is either plain text or one or more tool calls.
type ModelResponse struct {
	Text      string
	ToolCalls []ToolCallRequest
}

func (r ModelResponse) HasToolCalls() bool {
	return len(r.ToolCalls) > 0
}

func (r ModelResponse) TrimmedText() string {
	return strings.TrimSpace(r.Text)
}
