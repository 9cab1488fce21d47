package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/fitfusion-assistant/agent/session"
)

const maxRequestBytes = 64 << 10

type Config struct {
	Addr         string        `envconfig:"ADDR" split_words:"true" default:":8080"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" split_words:"true" default:"15s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" split_words:"true" default:"5m"`
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler bridges HTTP clients to dialogue sessions. It holds no conversation logic.
type Handler struct {
	sessions *session.Manager
	mux      *http.ServeMux
}

func NewHandler(sessions *session.Manager, registry *prometheus.Registry) *Handler {
	h := &Handler{sessions: sessions, mux: http.NewServeMux()}
	h.mux.HandleFunc("POST /v1/chat", h.handleChat)
	h.mux.HandleFunc("DELETE /v1/sessions/{id}", h.handleEndSession)
	h.mux.HandleFunc("GET /healthz", h.handleHealth)
	if registry != nil {
		h.mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: session.ErrInvalidMessage.Error()})
		return
	}

	id := strings.TrimSpace(req.SessionID)
	if id == "" {
		id = uuid.NewString()
	}

	reply, err := h.submit(r.Context(), id, req.Message)
	switch {
	case errors.Is(err, session.ErrInvalidMessage), errors.Is(err, session.ErrInvalidSession):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	case err != nil:
		log.Error().Err(err).Str("session_id", id).Msg("chat submit failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{SessionID: id, Reply: reply})
}

// submit retries once when the session was evicted between lookup and use.
func (h *Handler) submit(ctx context.Context, id, message string) (string, error) {
	for attempt := 0; ; attempt++ {
		s, err := h.sessions.Get(id)
		if err != nil {
			return "", err
		}
		reply, err := s.Submit(ctx, message)
		if errors.Is(err, session.ErrSessionClosed) && attempt == 0 {
			continue
		}
		return reply, err
	}
}

func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Remove(r.PathValue("id")) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Sessions: h.sessions.Len()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write response")
	}
}

func NewServer(cfg Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
}

// Serve runs srv until ctx is done, then drains in-flight requests for up to grace.
func Serve(ctx context.Context, srv *http.Server, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	log.Info().Msg("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
