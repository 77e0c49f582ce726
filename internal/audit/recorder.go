package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Publisher fans a recorded entry out to an external sink (Kafka). Emission
// is fire-and-continue; implementations report failures through their own
// logging, never to the recorder's caller.
type Publisher interface {
	Publish(ctx context.Context, entry Entry)
}

// Recorder is the audit logger: one immutable entry per resolution call.
// The store write is the compliance record; the publisher fan-out is
// best-effort on top of it.
type Recorder struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
}

// Option configures the Recorder.
type Option func(*Recorder)

// WithPublisher attaches an external fan-out sink.
func WithPublisher(p Publisher) Option {
	return func(r *Recorder) { r.publisher = p }
}

// WithLogger sets a logger for failure reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) { r.logger = logger }
}

// NewRecorder creates a Recorder persisting to store.
func NewRecorder(store Store, opts ...Option) *Recorder {
	r := &Recorder{store: store}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record persists one entry. The returned error exists so the caller can
// count failures; by contract the caller must not let it alter the
// resolution it returns.
func (r *Recorder) Record(ctx context.Context, entry Entry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now()
	}

	if err := r.store.Append(ctx, entry); err != nil {
		if r.logger != nil {
			r.logger.ErrorContext(ctx, "audit append failed",
				"entry_id", entry.ID,
				"target_id", entry.TargetID,
				"source", entry.Source,
				"error", err,
			)
		}
		return fmt.Errorf("append audit entry: %w", err)
	}

	if r.publisher != nil {
		r.publisher.Publish(ctx, entry)
	}
	return nil
}
