package worker

import (
	"context"
	"errors"
	"log/slog"

	audit "orion/pkg/platform/audit"
)

// Worker drains an event channel into an audit.Store. A failed append does
// not stop the drain: the event is logged and skipped.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

type Option func(*Worker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, opts ...Option) *Worker {
	w := &Worker{store: store, inbox: inbox}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run persists events until ctx is cancelled or the inbox is closed. A closed
// inbox is drained fully. The returned error joins every append failure, plus
// ctx.Err() on cancellation.
func (w *Worker) Run(ctx context.Context) error {
	var failures []error
	for {
		select {
		case <-ctx.Done():
			return errors.Join(append(failures, ctx.Err())...)
		case event, ok := <-w.inbox:
			if !ok {
				return errors.Join(failures...)
			}
			if err := w.store.Append(ctx, event); err != nil {
				if w.logger != nil {
					w.logger.ErrorContext(ctx, "failed to persist audit event",
						"action", event.Action,
						"entity_id", event.EntityID,
						"error", err,
					)
				}
				failures = append(failures, err)
			}
		}
	}
}
