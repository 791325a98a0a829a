// Package publisher emits audit events to an audit.Store.
//
// In the default synchronous mode Emit blocks until the store accepts the
// event. WithAsyncBuffer switches to a buffered mode where a background
// worker persists events and Emit never blocks; Close drains the buffer.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	id "orion/pkg/domain"
	audit "orion/pkg/platform/audit"
	"orion/pkg/platform/audit/worker"
	"orion/pkg/requestcontext"
)

// ErrBufferFull is returned in async mode when the buffer has no room.
var ErrBufferFull = errors.New("audit buffer full")

// ErrClosed is returned when emitting after Close.
var ErrClosed = errors.New("audit publisher closed")

type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	bufferSize int
	inbox      chan audit.Event
	done       chan struct{}

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer enables async mode with the given buffer size.
// Sizes <= 0 keep the publisher synchronous.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.bufferSize = size
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufferSize > 0 {
		p.inbox = make(chan audit.Event, p.bufferSize)
		p.done = make(chan struct{})
		go p.run()
	}
	return p
}

func (p *Publisher) run() {
	defer close(p.done)
	w := worker.NewWorker(p.store, p.inbox, worker.WithLogger(p.logger))
	if err := w.Run(context.Background()); err != nil && p.logger != nil {
		p.logger.Error("audit worker finished with failures", "error", err)
	}
}

// Emit records an event. Missing ID, Timestamp and RequestID are filled from
// a fresh UUID and the request context.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit event dropped: buffer full",
				"action", event.Action,
				"entity_id", event.EntityID,
			)
		}
		return ErrBufferFull
	}
}

// List returns the events filed under an entity.
func (p *Publisher) List(ctx context.Context, entityID id.EntityID) ([]audit.Event, error) {
	return p.store.ListByEntity(ctx, entityID)
}

// Close stops accepting events and, in async mode, waits until buffered
// events are persisted or the timeout elapses.
func (p *Publisher) Close() error {
	if p.inbox == nil {
		return nil
	}
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.inbox)
		p.mu.Unlock()
	})
	select {
	case <-p.done:
		return nil
	case <-time.After(closeTimeout):
		return errors.New("audit publisher: timed out draining buffer")
	}
}

const closeTimeout = 5 * time.Second
