package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	contractx "github.com/tanpawarit/fitfusion-assistant/agent/contract"
)

func newTestManager(t *testing.T, model contractx.ChatModel) *Manager {
	t.Helper()
	f, err := NewFactory(model, &recordingGateway{}, "system prompt", testConfig())
	if err != nil {
		t.Fatalf("NewFactory() error = %v", err)
	}
	m, err := NewManager(f)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

func TestNewFactoryValidates(t *testing.T) {
	t.Parallel()

	if _, err := NewFactory(nil, &recordingGateway{}, "", testConfig()); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("NewFactory() error = %v, want ErrValidation", err)
	}
	cfg := testConfig()
	cfg.MaxToolRounds = 0
	if _, err := NewFactory(&scriptedModel{}, &recordingGateway{}, "", cfg); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("NewFactory() error = %v, want ErrValidation", err)
	}
}

func TestFactorySessionsAreIsolated(t *testing.T) {
	t.Parallel()

	model := &scriptedModel{steps: []func(context.Context, contractx.ModelRequest) (contractx.ModelResponse, error){reply("ok")}, repeatEnd: true}
	f, err := NewFactory(model, &recordingGateway{}, "p", testConfig())
	if err != nil {
		t.Fatalf("NewFactory() error = %v", err)
	}
	a, _ := f.New("a")
	b, _ := f.New("b")
	if _, err := a.Submit(context.Background(), "only in a"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if len(b.History()) != 0 {
		t.Fatal("sessions must not share history")
	}
	if _, err := f.New("  "); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("New() error = %v, want ErrInvalidSession", err)
	}
}

func TestManagerGetReturnsSameSession(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &scriptedModel{})
	first, err := m.Get("user-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	second, err := m.Get(" user-1 ")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if first != second {
		t.Fatal("Get() must return the live session for the same id")
	}
	other, _ := m.Get("user-2")
	if other == first {
		t.Fatal("different ids must get different sessions")
	}
	if _, err := m.Get(""); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Get() error = %v, want ErrInvalidSession", err)
	}
}

func TestManagerRemoveClosesSession(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &scriptedModel{})
	s, err := m.Get("user-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !m.Remove("user-1") {
		t.Fatal("Remove() = false, want true")
	}
	if !s.Closed() {
		t.Fatal("removed session must be closed")
	}
	if m.Remove("user-1") {
		t.Fatal("second Remove() = true, want false")
	}

	fresh, err := m.Get("user-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if fresh == s || fresh.Closed() {
		t.Fatal("Get() after Remove() must build a new open session")
	}
}

func TestManagerConcurrentGet(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, &scriptedModel{})
	const workers = 16
	got := make([]*Session, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := m.Get("shared")
			if err != nil {
				t.Errorf("Get() error = %v", err)
				return
			}
			got[i] = s
		}(i)
	}
	wg.Wait()
	for _, s := range got[1:] {
		if s != got[0] {
			t.Fatal("concurrent Get() must converge on one session")
		}
	}
}
