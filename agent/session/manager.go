package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/maypok86/otter"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/fitfusion-assistant/agent/contract"
	"github.com/tanpawarit/fitfusion-assistant/agent/metrics"
)

type FactoryOption func(*Factory)

func WithMetrics(p *metrics.Provider) FactoryOption {
	return func(f *Factory) {
		f.metrics = p
	}
}

// Factory builds independent sessions that share only the injected model and tools.
type Factory struct {
	model        contractx.ChatModel
	tools        contractx.ToolGateway
	systemPrompt string
	cfg          Config
	metrics      *metrics.Provider
}

func NewFactory(model contractx.ChatModel, tools contractx.ToolGateway, systemPrompt string, cfg Config, opts ...FactoryOption) (*Factory, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	if tools == nil {
		return nil, fmt.Errorf("%w: tool gateway is required", contractx.ErrValidation)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f := &Factory{
		model:        model,
		tools:        tools,
		systemPrompt: systemPrompt,
		cfg:          cfg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

func (f *Factory) New(id string) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidSession
	}
	return &Session{
		id:           id,
		model:        f.model,
		tools:        f.tools,
		systemPrompt: f.systemPrompt,
		cfg:          f.cfg,
		metrics:      f.metrics,
	}, nil
}

// Manager keeps live sessions by id and drops them after IdleTTL without use.
type Manager struct {
	factory *Factory
	mu      sync.Mutex
	cache   otter.Cache[string, *Session]
}

func NewManager(factory *Factory) (*Manager, error) {
	if factory == nil {
		return nil, errors.New("session factory is required")
	}
	builder, err := otter.NewBuilder[string, *Session](factory.cfg.Capacity)
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	cache, err := builder.
		WithTTL(factory.cfg.IdleTTL).
		DeletionListener(func(id string, s *Session, cause otter.DeletionCause) {
			if cause == otter.Replaced {
				return
			}
			log.Debug().Str("session_id", id).Int("cause", int(cause)).Msg("session evicted")
			s.Close()
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	return &Manager{factory: factory, cache: cache}, nil
}

// Get returns the live session for id, creating it when absent. Every Get restarts
// the idle clock.
func (m *Manager) Get(id string) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.cache.Get(id); ok && !s.Closed() {
		m.cache.Set(id, s)
		return s, nil
	}
	s, err := m.factory.New(id)
	if err != nil {
		return nil, err
	}
	m.cache.Set(id, s)
	return s, nil
}

// Remove closes and forgets a session. It reports whether one was live.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	id = strings.TrimSpace(id)
	s, ok := m.cache.Get(id)
	if !ok {
		return false
	}
	s.Close()
	m.cache.Delete(id)
	return true
}

func (m *Manager) Len() int {
	return m.cache.Size()
}

func (m *Manager) Close() {
	m.cache.Close()
}
