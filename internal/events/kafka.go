package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jobzee/jobzee/internal/config"
	"github.com/jobzee/jobzee/internal/metrics"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a single topic, keyed by aggregate ID.
// The hash balancer sends every key to one partition so events about one
// record are consumed in order.
type KafkaPublisher struct {
	writer messageWriter
	logger zerolog.Logger
}

func NewKafkaPublisher(cfg config.KafkaConfig, logger zerolog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           10 * time.Second,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", e.Type, err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.AggregateID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
		},
	})
	metrics.EventsPublishedTotal.WithLabelValues(e.Type, metrics.Outcome(err)).Inc()
	if err != nil {
		p.logger.Error().Err(err).Str("event_type", e.Type).Msg("failed to publish event")
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	p.logger.Debug().Str("event_type", e.Type).Str("aggregate_id", e.AggregateID).Msg("published event")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Recommendation is a match proposed by the job-finder agent.
type Recommendation struct {
	UserID     uint    `json:"user_id"`
	JobID      uint    `json:"job_id"`
	MatchScore float64 `json:"match_score"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

func (r Recommendation) validate() error {
	if r.UserID == 0 || r.JobID == 0 {
		return errors.New("user_id and job_id are required")
	}
	if r.MatchScore < 0 || r.MatchScore > 1 {
		return fmt.Errorf("match_score %v out of range", r.MatchScore)
	}
	return nil
}

// RecommendationHandler stores a recommendation; it must be idempotent
// because a message can be delivered more than once.
type RecommendationHandler interface {
	RecordRecommendation(ctx context.Context, rec Recommendation) error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// RecommendationConsumer reads the recommendations topic as part of a
// consumer group and hands each message to the handler.
type RecommendationConsumer struct {
	reader  messageReader
	handler RecommendationHandler
	logger  zerolog.Logger
}

func NewRecommendationConsumer(cfg config.KafkaConfig, h RecommendationHandler, logger zerolog.Logger) *RecommendationConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.RecommendationTopic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	return &RecommendationConsumer{reader: r, handler: h, logger: logger}
}

// Run blocks until ctx is cancelled. Malformed messages and handler failures
// are logged and committed so one bad record cannot stall the partition.
func (c *RecommendationConsumer) Run(ctx context.Context) error {
	c.logger.Info().Msg("recommendation consumer started")
	defer c.logger.Info().Msg("recommendation consumer stopped")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error().Err(err).Msg("fetch message failed")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		outcome := c.handle(ctx, msg)
		metrics.RecommendationsConsumedTotal.WithLabelValues(outcome).Inc()

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.Warn().Err(err).Int64("offset", msg.Offset).Msg("commit failed")
		}
	}
}

func (c *RecommendationConsumer) handle(ctx context.Context, msg kafka.Message) string {
	var rec Recommendation
	if err := json.Unmarshal(msg.Value, &rec); err != nil {
		c.logger.Warn().Err(err).Int64("offset", msg.Offset).Msg("skipping malformed recommendation")
		return "malformed"
	}
	if err := rec.validate(); err != nil {
		c.logger.Warn().Err(err).Int64("offset", msg.Offset).Msg("skipping invalid recommendation")
		return "malformed"
	}
	if err := c.handler.RecordRecommendation(ctx, rec); err != nil {
		c.logger.Error().Err(err).
			Uint("user_id", rec.UserID).
			Uint("job_id", rec.JobID).
			Msg("record recommendation failed")
		return "error"
	}
	return "ok"
}

func (c *RecommendationConsumer) Close() error {
	return c.reader.Close()
}
