package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/fitfusion-assistant/agent/contract"
	"github.com/tanpawarit/fitfusion-assistant/agent/metrics"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrSessionClosed  = errors.New("session is closed")
	ErrInvalidSession = errors.New("session id is empty")
)

const (
	ReplyModelUnavailable = "I'm sorry, I'm having trouble answering right now. Please try again in a moment."
	ReplyModelTimeout     = "I'm sorry, that took longer than expected. Please try again."
	ReplyRoundLimit       = "I'm sorry, I couldn't complete that request. Could you try asking in a different way?"
)

// Session owns one conversation. Submit calls are serialized; history is private.
type Session struct {
	id           string
	model        contractx.ChatModel
	tools        contractx.ToolGateway
	systemPrompt string
	cfg          Config
	metrics      *metrics.Provider

	closed atomic.Bool

	mu      sync.Mutex
	history []contractx.Turn
}

func (s *Session) ID() string {
	return s.id
}

// Submit runs one user message through the tool loop and returns the reply text.
// Model and tool faults become reply text; the error is only for caller mistakes.
func (s *Session) Submit(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrInvalidMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return "", ErrSessionClosed
	}

	logger := log.With().Str("session_id", s.id).Logger()

	s.history = trimHistory(s.history, s.cfg.HistoryLimit)
	s.history = append(s.history, contractx.UserTurn(text))

	for round := 0; ; round++ {
		resp, err := s.generate(ctx)
		if err != nil {
			return s.fail(logger, round, err), nil
		}

		if !resp.HasToolCalls() {
			reply := resp.TrimmedText()
			s.history = append(s.history, contractx.ModelTurn(reply))
			s.metrics.ObserveToolRounds(round)
			return reply, nil
		}

		if round >= s.cfg.MaxToolRounds {
			logger.Warn().Int("round", round).Int("requested", len(resp.ToolCalls)).Msg("tool round limit reached")
			s.metrics.RoundLimitReached()
			s.metrics.ObserveToolRounds(round)
			s.history = append(s.history, contractx.ModelTurn(ReplyRoundLimit))
			return ReplyRoundLimit, nil
		}

		s.history = append(s.history, contractx.ModelTurn(resp.Text, resp.ToolCalls...))
		for _, call := range resp.ToolCalls {
			res := s.tools.Execute(ctx, call)
			logger.Debug().Int("round", round+1).Str("tool", call.Name).Bool("is_error", res.IsError).Msg("tool result")
			s.history = append(s.history, contractx.ToolTurn(res))
		}
	}
}

func (s *Session) generate(ctx context.Context) (contractx.ModelResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.ModelTimeout)
	defer cancel()

	history := make([]contractx.Turn, len(s.history))
	copy(history, s.history)

	resp, err := s.model.Generate(callCtx, contractx.ModelRequest{
		SystemPrompt: s.systemPrompt,
		History:      history,
	})
	if err == nil && !resp.HasToolCalls() && resp.TrimmedText() == "" {
		err = fmt.Errorf("%w: empty reply", contractx.ErrSchemaViolation)
	}
	if err != nil && callCtx.Err() == context.DeadlineExceeded && !errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}
	if err != nil {
		return contractx.ModelResponse{}, err
	}
	s.metrics.ModelCalled(metrics.OutcomeOK)
	return resp, nil
}

// fail records a model fault as an apology turn so history stays well formed.
func (s *Session) fail(logger zerolog.Logger, round int, err error) string {
	reply := ReplyModelUnavailable
	outcome := metrics.OutcomeError
	if errors.Is(err, context.DeadlineExceeded) {
		reply = ReplyModelTimeout
		outcome = metrics.OutcomeTimeout
	}
	logger.Error().Err(err).Int("round", round).Msg("model call failed")
	s.metrics.ModelCalled(outcome)
	s.history = append(s.history, contractx.ModelTurn(reply))
	return reply
}

// History returns a copy of the conversation so far.
func (s *Session) History() []contractx.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]contractx.Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Close marks the session closed. An in-flight Submit finishes normally; later ones fail.
func (s *Session) Close() {
	s.closed.Store(true)
}

func (s *Session) Closed() bool {
	return s.closed.Load()
}
