package record

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func TestNewUpstashClientValidatesConfig(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		cfg  UpstashConfig
	}{
		{name: "missing url", cfg: UpstashConfig{Token: "t"}},
		{name: "bad url", cfg: UpstashConfig{URL: "::not-a-url", Token: "t"}},
		{name: "missing token", cfg: UpstashConfig{URL: "https://example.upstash.io"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewUpstashClient(tc.cfg); err == nil {
				t.Fatal("NewUpstashClient() expected error")
			}
		})
	}
}

func TestUpstashSinkPushesBlockPerKind(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		commands [][]any
		auth     string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var cmd []any
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			t.Errorf("decode command: %v", err)
		}
		mu.Lock()
		commands = append(commands, cmd)
		auth = r.Header.Get("Authorization")
		mu.Unlock()
		fmt.Fprint(w, `{"result":1}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewUpstashClient(
		UpstashConfig{URL: server.URL, Token: "secret"},
		WithHTTPClient(server.Client()),
		WithKeyPrefix("studio:"),
	)
	if err != nil {
		t.Fatalf("NewUpstashClient() error = %v", err)
	}
	sinks := NewUpstashSinks(client)

	booking := &BookingRecord{BookingID: "TRIAL-1", CreatedAt: fixedTime, Name: "Ben", SessionLabel: "Yoga Class"}
	if err := sinks.Bookings.Append(context.Background(), booking); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if auth != "Bearer secret" {
		t.Fatalf("Authorization = %q, want Bearer secret", auth)
	}
	if len(commands) != 1 || len(commands[0]) != 3 {
		t.Fatalf("unexpected commands: %#v", commands)
	}
	if commands[0][0] != "RPUSH" {
		t.Fatalf("command[0] = %v, want RPUSH", commands[0][0])
	}
	if commands[0][1] != "studio:booking" {
		t.Fatalf("command[1] = %v, want studio:booking", commands[0][1])
	}
	if commands[0][2] != booking.Block() {
		t.Fatalf("command[2] = %v, want booking block", commands[0][2])
	}
}

func TestUpstashSinkSurfacesRedisError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"WRONGTYPE Operation against a key holding the wrong kind of value"}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewUpstashClient(UpstashConfig{URL: server.URL, Token: "t"}, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewUpstashClient() error = %v", err)
	}
	err = NewUpstashSinks(client).Leads.Append(context.Background(), &LeadRecord{Name: "Ana"})
	if err == nil || !strings.Contains(err.Error(), "WRONGTYPE") {
		t.Fatalf("Append() error = %v, want WRONGTYPE", err)
	}
}

func TestUpstashSinkNon2xx(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client, err := NewUpstashClient(UpstashConfig{URL: server.URL, Token: "t"}, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewUpstashClient() error = %v", err)
	}
	err = NewUpstashSinks(client).Feedback.Append(context.Background(), &FeedbackRecord{TicketID: "FB-1"})
	if err == nil || !strings.Contains(err.Error(), "status=401") {
		t.Fatalf("Append() error = %v, want status=401", err)
	}
}
