package record

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var ErrKindMismatch = errors.New("record kind does not match sink")

var defaultFileNames = map[Kind]string{
	KindLead:     "leads.txt",
	KindFeedback: "feedback.txt",
	KindBooking:  "bookings.txt",
}

// FileSink appends record blocks to one text file. Each block is written with a single
// write on an O_APPEND descriptor while holding the sink mutex.
type FileSink struct {
	kind Kind
	path string
	mu   sync.Mutex
}

func NewFileSink(kind Kind, path string) (*FileSink, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("record file path is required")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create record dir: %w", err)
		}
	}
	return &FileSink{kind: kind, path: path}, nil
}

// NewFileSinks opens leads.txt, feedback.txt and bookings.txt under dir.
func NewFileSinks(dir string) (Sinks, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	sinks := make(map[Kind]Sink, len(defaultFileNames))
	for kind, name := range defaultFileNames {
		s, err := NewFileSink(kind, filepath.Join(dir, name))
		if err != nil {
			return Sinks{}, err
		}
		sinks[kind] = s
	}
	return Sinks{
		Leads:    sinks[KindLead],
		Feedback: sinks[KindFeedback],
		Bookings: sinks[KindBooking],
	}, nil
}

func (s *FileSink) Path() string {
	return s.path
}

func (s *FileSink) Append(ctx context.Context, rec Record) error {
	if rec == nil {
		return errors.New("record is nil")
	}
	if rec.Kind() != s.kind {
		return fmt.Errorf("%w: sink=%s record=%s", ErrKindMismatch, s.kind, rec.Kind())
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	block := []byte(rec.Block())

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s sink: %w", s.kind, err)
	}
	if _, err := f.Write(block); err != nil {
		_ = f.Close()
		return fmt.Errorf("append %s record: %w", s.kind, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s sink: %w", s.kind, err)
	}
	return nil
}
