package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	contractx "github.com/tanpawarit/fitfusion-assistant/agent/contract"
	"github.com/tanpawarit/fitfusion-assistant/agent/tool"
	"google.golang.org/genai"
)

// contentGenerator is the slice of *genai.Models the adapter needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiChatModel talks to the Gemini API natively through google.golang.org/genai.
type GeminiChatModel struct {
	models      contentGenerator
	model       string
	tools       []*genai.Tool
	temperature float32
	maxTokens   int32
}

var _ contractx.ChatModel = (*GeminiChatModel)(nil)

func NewGeminiChatModel(ctx context.Context, cfg Config, catalog tool.Catalog) (*GeminiChatModel, error) {
	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("%w: create gemini client: %v", contractx.ErrModelInvoke, err)
	}
	return newGeminiChatModel(client.Models, cfg, catalog), nil
}

func newGeminiChatModel(models contentGenerator, cfg Config, catalog tool.Catalog) *GeminiChatModel {
	return &GeminiChatModel{
		models:      models,
		model:       cfg.GeminiModel(),
		tools:       geminiTools(catalog),
		temperature: cfg.Temperature,
		maxTokens:   int32(cfg.MaxCompletionToken),
	}
}

func (m *GeminiChatModel) Generate(ctx context.Context, req contractx.ModelRequest) (contractx.ModelResponse, error) {
	conf := &genai.GenerateContentConfig{
		Tools:           m.tools,
		Temperature:     genai.Ptr(m.temperature),
		MaxOutputTokens: m.maxTokens,
	}
	if p := strings.TrimSpace(req.SystemPrompt); p != "" {
		conf.SystemInstruction = genai.NewContentFromText(p, genai.RoleUser)
	}

	resp, err := m.models.GenerateContent(ctx, m.model, toGeminiContents(req.History), conf)
	if err != nil {
		return contractx.ModelResponse{}, fmt.Errorf("%w: %w", contractx.ErrModelInvoke, err)
	}
	return fromGeminiResponse(resp)
}

func geminiTools(catalog tool.Catalog) []*genai.Tool {
	if len(catalog) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, 0, len(catalog))
	for _, spec := range catalog {
		props := make(map[string]*genai.Schema, len(spec.Parameters))
		required := make([]string, 0, len(spec.Parameters))
		for _, p := range spec.Parameters {
			props[p.Name] = &genai.Schema{
				Type:        genai.TypeString,
				Description: p.Description,
				Enum:        append([]string(nil), p.AllowedValues...),
			}
			if p.Required {
				required = append(required, p.Name)
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: props,
				Required:   required,
			},
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// toGeminiContents maps history onto Gemini roles. Consecutive tool results are folded
// into one user content so they answer the preceding model turn together.
func toGeminiContents(history []contractx.Turn) []*genai.Content {
	out := make([]*genai.Content, 0, len(history))
	var pending []*genai.Part

	flush := func() {
		if len(pending) > 0 {
			out = append(out, genai.NewContentFromParts(pending, genai.RoleUser))
			pending = nil
		}
	}

	for _, turn := range history {
		switch turn.Role {
		case contractx.RoleTool:
			name := ""
			if turn.Result != nil {
				name = turn.Result.Tool
			}
			pending = append(pending, genai.NewPartFromFunctionResponse(name, map[string]any{"result": turn.Content}))
		case contractx.RoleUser:
			flush()
			out = append(out, genai.NewContentFromText(turn.Content, genai.RoleUser))
		case contractx.RoleModel:
			flush()
			parts := make([]*genai.Part, 0, len(turn.Calls)+1)
			if strings.TrimSpace(turn.Content) != "" {
				parts = append(parts, genai.NewPartFromText(turn.Content))
			}
			for _, c := range turn.Calls {
				parts = append(parts, genai.NewPartFromFunctionCall(c.Name, c.Arguments))
			}
			if len(parts) == 0 {
				continue
			}
			out = append(out, genai.NewContentFromParts(parts, genai.RoleModel))
		}
	}
	flush()
	return out
}

func fromGeminiResponse(resp *genai.GenerateContentResponse) (contractx.ModelResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return contractx.ModelResponse{}, fmt.Errorf("%w: gemini returned no candidates", contractx.ErrSchemaViolation)
	}

	var calls []contractx.ToolCallRequest
	for _, fc := range resp.FunctionCalls() {
		if fc == nil || strings.TrimSpace(fc.Name) == "" {
			return contractx.ModelResponse{}, fmt.Errorf("%w: function call name is empty", contractx.ErrSchemaViolation)
		}
		id := fc.ID
		if id == "" {
			id = uuid.NewString()
		}
		calls = append(calls, contractx.ToolCallRequest{ID: id, Name: fc.Name, Arguments: fc.Args})
	}

	out := contractx.ModelResponse{Text: responseText(resp), ToolCalls: calls}
	if !out.HasToolCalls() && out.TrimmedText() == "" {
		return contractx.ModelResponse{}, fmt.Errorf("%w: gemini returned neither text nor function calls", contractx.ErrSchemaViolation)
	}
	return out, nil
}

// responseText concatenates the text parts of the first candidate, skipping thoughts.
func responseText(resp *genai.GenerateContentResponse) string {
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range c.Content.Parts {
		if p == nil || p.Thought || p.Text == "" {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
