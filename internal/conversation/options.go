package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// Recorder persists a snapshot after each completed request.
type Recorder interface {
	Record(ctx context.Context, snap Snapshot) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, snap Snapshot) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, snap Snapshot) error {
	return f(ctx, snap)
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source for message and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides the id source for messages and events lacking one.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// WithRecorder installs a persistence hook.
func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		s.recorder = r
	}
}

// WithRestored seeds the store with a previously persisted session so the
// conversation continues under its original id. Pending, LastError and
// Version are ignored.
func WithRestored(snap Snapshot) Option {
	return func(s *Store) {
		restored := snap.Clone()
		restored.Pending = false
		restored.LastError = nil
		restored.Version = 0
		s.state = restored
	}
}

func defaultID() string {
	return uuid.NewString()
}

// WithTracer records one span per processed request.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Store) {
		s.tracer = tracer
	}
}
