// Package events publishes domain events and consumes agent recommendations.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event types emitted by the services.
const (
	UserRegistered           = "user.registered"
	JobCreated               = "job.created"
	JobUpdated               = "job.updated"
	JobClosed                = "job.closed"
	JobDeleted               = "job.deleted"
	ApplicationCreated       = "application.created"
	ApplicationStatusChanged = "application.status_changed"
)

// Event is the JSON envelope written to the events topic.
type Event struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	AggregateID string `json:"aggregate_id"`
	Payload     any    `json:"payload"`
	Timestamp   int64  `json:"timestamp"`
}

// New stamps an event with a fresh ID and the current time.
func New(typ, aggregateID string, payload any) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        typ,
		AggregateID: aggregateID,
		Payload:     payload,
		Timestamp:   time.Now().Unix(),
	}
}

// Publisher delivers events. Services treat publish failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// LogPublisher writes events to the log when Kafka is disabled.
type LogPublisher struct {
	logger zerolog.Logger
}

func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, e Event) error {
	p.logger.Info().
		Str("event_id", e.ID).
		Str("event_type", e.Type).
		Str("aggregate_id", e.AggregateID).
		Msg("domain event")
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types lists recorded event types in publish order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}
