package tool

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/fitfusion-assistant/agent/contract"
	"github.com/tanpawarit/fitfusion-assistant/agent/metrics"
)

// Func runs one tool with arguments already validated against its ToolSpec.
type Func func(ctx context.Context, args Args) (string, error)

type RegistryOption func(*Registry)

func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

func WithMetrics(p *metrics.Provider) RegistryOption {
	return func(r *Registry) {
		r.metrics = p
	}
}

// Registry maps catalog tool names to functions. Execute never returns an error
// or panics: every failure is turned into a ToolResult the model can read.
type Registry struct {
	catalog Catalog
	funcs   map[string]Func
	now     func() time.Time
	metrics *metrics.Provider
}

var _ contractx.ToolGateway = (*Registry)(nil)

func NewRegistry(catalog Catalog, funcs map[string]Func, opts ...RegistryOption) (*Registry, error) {
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrValidation, err)
	}
	for _, spec := range catalog {
		if funcs[spec.Name] == nil {
			return nil, fmt.Errorf("%w: no function for tool %q", contractx.ErrValidation, spec.Name)
		}
	}
	extra := make([]string, 0)
	for name := range funcs {
		if _, ok := catalog.Lookup(name); !ok {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return nil, fmt.Errorf("%w: functions without catalog entry: %v", contractx.ErrValidation, extra)
	}

	r := &Registry{
		catalog: catalog,
		funcs:   funcs,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

func (r *Registry) Catalog() Catalog {
	return r.catalog
}

func (r *Registry) Execute(ctx context.Context, call contractx.ToolCallRequest) (out contractx.ToolResult) {
	out = contractx.ToolResult{CallID: call.ID, Tool: call.Name}
	logger := log.With().Str("tool", call.Name).Str("call_id", call.ID).Logger()

	spec, ok := r.catalog.Lookup(call.Name)
	if !ok {
		logger.Warn().Err(contractx.ErrUnknownTool).Msg("model requested unknown tool")
		r.metrics.ToolExecuted(metrics.UnknownToolLabel, metrics.OutcomeUnknown)
		out.Text = "Error: Unknown function " + call.Name
		out.IsError = true
		return out
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().Interface("panic", rec).Bytes("stack", debug.Stack()).Msg("tool panicked")
			out.Text = fmt.Sprintf("Error executing %s: %v", call.Name, rec)
			out.IsError = true
		}
		outcome := metrics.OutcomeOK
		if out.IsError {
			outcome = metrics.OutcomeError
		}
		r.metrics.ToolExecuted(call.Name, outcome)
	}()

	args, err := bindArgs(spec, call.Arguments, r.now())
	if err != nil {
		logger.Info().Err(err).Msg("tool arguments rejected")
		return failed(out, err)
	}

	text, err := r.funcs[call.Name](ctx, args)
	if err != nil {
		logger.Error().Err(err).Msg("tool failed")
		return failed(out, err)
	}

	logger.Debug().Msg("tool executed")
	out.Text = text
	return out
}

func failed(out contractx.ToolResult, err error) contractx.ToolResult {
	reason := err.Error()
	if errors.Is(err, context.DeadlineExceeded) {
		reason = "timed out"
	}
	out.Text = fmt.Sprintf("Error executing %s: %s", out.Tool, reason)
	out.IsError = true
	return out
}

// NewDefaultRegistry wires DefaultCatalog to svc.
func NewDefaultRegistry(svc *Service, opts ...RegistryOption) (*Registry, error) {
	return NewRegistry(DefaultCatalog(), svc.Funcs(), opts...)
}
