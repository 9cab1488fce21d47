package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeUnknown = "unknown_tool"
	OutcomeTimeout = "timeout"
)

// UnknownToolLabel replaces model-supplied names that are not in the catalog.
const UnknownToolLabel = "unknown"

// Provider records assistant activity. A nil *Provider is valid and records nothing.
type Provider struct {
	toolCalls  *prometheus.CounterVec
	modelCalls *prometheus.CounterVec
	toolRounds prometheus.Histogram
	roundCaps  prometheus.Counter
}

func New(registry *prometheus.Registry) *Provider {
	if registry == nil {
		return nil
	}

	provider := &Provider{
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_tool_calls_total",
				Help: "Total number of tool executions by tool and outcome",
			},
			[]string{"tool", "outcome"},
		),
		modelCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_model_calls_total",
				Help: "Total number of model service calls by outcome",
			},
			[]string{"outcome"},
		),
		toolRounds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "assistant_tool_rounds",
				Help:    "Tool-call round trips needed to answer one user message",
				Buckets: []float64{0, 1, 2, 3, 4, 5, 8},
			},
		),
		roundCaps: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "assistant_round_limit_total",
				Help: "Messages answered with the round-limit reply",
			},
		),
	}

	registry.MustRegister(
		provider.toolCalls,
		provider.modelCalls,
		provider.toolRounds,
		provider.roundCaps,
	)

	return provider
}

func (p *Provider) ToolExecuted(tool, outcome string) {
	if p != nil && p.toolCalls != nil {
		p.toolCalls.WithLabelValues(tool, outcome).Inc()
	}
}

func (p *Provider) ModelCalled(outcome string) {
	if p != nil && p.modelCalls != nil {
		p.modelCalls.WithLabelValues(outcome).Inc()
	}
}

func (p *Provider) ObserveToolRounds(rounds int) {
	if p != nil && p.toolRounds != nil {
		p.toolRounds.Observe(float64(rounds))
	}
}

func (p *Provider) RoundLimitReached() {
	if p != nil && p.roundCaps != nil {
		p.roundCaps.Inc()
	}
}
