package record

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultUpstashKeyPrefix = "fitfusion:records:"
	maxResponseSizeBytes    = 1 << 20
)

type UpstashConfig struct {
	URL       string        `envconfig:"URL" split_words:"true"`
	Token     string        `envconfig:"TOKEN" split_words:"true"`
	KeyPrefix string        `envconfig:"KEY_PREFIX" split_words:"true" default:"fitfusion:records:"`
	Timeout   time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// UpstashOption customizes UpstashClient.
type UpstashOption func(*UpstashClient)

func WithKeyPrefix(prefix string) UpstashOption {
	return func(c *UpstashClient) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" {
			c.keyPrefix = trimmed
		}
	}
}

func WithHTTPClient(client *http.Client) UpstashOption {
	return func(c *UpstashClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// UpstashClient talks to Upstash Redis over its REST interface.
type UpstashClient struct {
	baseURL    string
	token      string
	keyPrefix  string
	httpClient *http.Client
}

type redisRESTResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func NewUpstashClient(cfg UpstashConfig, opts ...UpstashOption) (*UpstashClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &UpstashClient{
		baseURL:    baseURL,
		token:      token,
		keyPrefix:  defaultUpstashKeyPrefix,
		httpClient: &http.Client{Timeout: timeout},
	}
	if p := strings.TrimSpace(cfg.KeyPrefix); p != "" {
		client.keyPrefix = p
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// NewUpstashSinks builds one list-backed sink per record kind.
func NewUpstashSinks(client *UpstashClient) Sinks {
	return Sinks{
		Leads:    &UpstashSink{kind: KindLead, client: client},
		Feedback: &UpstashSink{kind: KindFeedback, client: client},
		Bookings: &UpstashSink{kind: KindBooking, client: client},
	}
}

func (c *UpstashClient) key(kind Kind) string {
	return c.keyPrefix + string(kind)
}

func (c *UpstashClient) exec(ctx context.Context, command []any) (*redisRESTResponse, error) {
	if c == nil {
		return nil, errors.New("nil upstash client")
	}
	if len(command) == 0 {
		return nil, errors.New("empty redis command")
	}

	body, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("marshal redis command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	if parsed.Error != "" {
		return nil, errors.New(parsed.Error)
	}
	return &parsed, nil
}

// UpstashSink appends each record block as one RPUSH onto a per-kind list.
type UpstashSink struct {
	kind   Kind
	client *UpstashClient
}

func (s *UpstashSink) Append(ctx context.Context, rec Record) error {
	if rec == nil {
		return errors.New("record is nil")
	}
	if rec.Kind() != s.kind {
		return fmt.Errorf("%w: sink=%s record=%s", ErrKindMismatch, s.kind, rec.Kind())
	}
	if _, err := s.client.exec(ctx, []any{"RPUSH", s.client.key(s.kind), rec.Block()}); err != nil {
		return fmt.Errorf("append %s record: %w", s.kind, err)
	}
	return nil
}
