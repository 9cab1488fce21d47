package tool

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tanpawarit/fitfusion-assistant/agent/record"
)

// Wednesday.
var fixedNow = time.Date(2025, time.March, 5, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type memSink struct {
	mu      sync.Mutex
	records []record.Record
	err     error
}

func (s *memSink) Append(_ context.Context, rec record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *memSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

type memSinks struct {
	leads, feedback, bookings *memSink
}

func newMemSinks() memSinks {
	return memSinks{leads: &memSink{}, feedback: &memSink{}, bookings: &memSink{}}
}

func (m memSinks) sinks() record.Sinks {
	return record.Sinks{Leads: m.leads, Feedback: m.feedback, Bookings: m.bookings}
}

type publishCall struct {
	destination string
	payload     any
}

type fakePublisher struct {
	mu    sync.Mutex
	calls []publishCall
	err   error
}

func (p *fakePublisher) Publish(_ context.Context, destination string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, publishCall{destination: destination, payload: payload})
	return p.err
}

var errDiskFull = errors.New("disk full")

func newTestService(sinks memSinks, opts ...ServiceOption) *Service {
	svc, err := NewService(sinks.sinks(), append([]ServiceOption{WithClock(fixedClock)}, opts...)...)
	if err != nil {
		panic(err)
	}
	return svc
}
