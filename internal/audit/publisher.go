package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	id "caseflow/pkg/domain"
	"caseflow/pkg/requestcontext"
)

// Sink receives a copy of every emitted event for out-of-process fan-out
// (Kafka, SIEM forwarders). Sink failures are logged, never surfaced: the
// store append is the durability guarantee, the sink is best-effort.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store  Store
	sink   Sink
	logger *slog.Logger
}

// Option configures optional publisher collaborators.
type Option func(*Publisher)

func WithSink(sink Sink) Option {
	return func(p *Publisher) { p.sink = sink }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit persists an event, defaulting the ID and timestamp when unset.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	if p.sink != nil {
		if err := p.sink.Publish(ctx, event); err != nil && p.logger != nil {
			p.logger.WarnContext(ctx, "audit sink publish failed",
				"action", event.Action,
				"case_id", event.CaseID,
				"error", err,
			)
		}
	}
	return nil
}

// List returns a case's audit stream in chronological order.
func (p *Publisher) List(ctx context.Context, caseID id.CaseID) ([]Event, error) {
	return p.store.ListByCase(ctx, caseID)
}
