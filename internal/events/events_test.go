package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jobzee/jobzee/internal/config"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaPublisherEncodesEvent(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, logger: zerolog.Nop()}

	e := New(JobCreated, "42", map[string]any{"title": "Go developer"})
	require.NoError(t, p.Publish(context.Background(), e))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "42", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, JobCreated, string(msg.Headers[0].Value))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, e.ID, decoded.ID)
	assert.Equal(t, JobCreated, decoded.Type)
	assert.NotZero(t, decoded.Timestamp)
}

func TestKafkaPublisherError(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeWriter{err: errors.New("broker down")}, logger: zerolog.Nop()}
	err := p.Publish(context.Background(), New(JobDeleted, "1", nil))
	assert.ErrorContains(t, err, "broker down")
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	ctx := context.Background()
	require.NoError(t, r.Publish(ctx, New(JobCreated, "1", nil)))
	require.NoError(t, r.Publish(ctx, New(JobClosed, "1", nil)))
	assert.Equal(t, []string{JobCreated, JobClosed}, r.Types())

	r.Err = errors.New("fail")
	assert.Error(t, r.Publish(ctx, New(JobDeleted, "1", nil)))
	assert.Len(t, r.Events(), 2)
}

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	for {
		r.mu.Lock()
		if len(r.queue) > 0 {
			m := r.queue[0]
			r.queue = r.queue[1:]
			r.mu.Unlock()
			return m, nil
		}
		r.mu.Unlock()
		select {
		case <-ctx.Done():
			return kafka.Message{}, ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

type recordingHandler struct {
	mu   sync.Mutex
	recs []Recommendation
	fail uint
}

func (h *recordingHandler) RecordRecommendation(_ context.Context, rec Recommendation) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rec.UserID == h.fail {
		return errors.New("db down")
	}
	h.recs = append(h.recs, rec)
	return nil
}

func TestRecommendationConsumer(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{
		{Offset: 1, Value: []byte(`{"user_id":1,"job_id":2,"match_score":0.8,"reasoning":"skills"}`)},
		{Offset: 2, Value: []byte(`not json`)},
		{Offset: 3, Value: []byte(`{"user_id":0,"job_id":2}`)},
		{Offset: 4, Value: []byte(`{"user_id":9,"job_id":2,"match_score":0.5}`)},
		{Offset: 5, Value: []byte(`{"user_id":3,"job_id":4,"match_score":1.5}`)},
	}}
	h := &recordingHandler{fail: 9}
	c := &RecommendationConsumer{reader: reader, handler: h, logger: zerolog.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool { return len(reader.commits()) == 5 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	h.mu.Lock()
	defer h.mu.Unlock()
	require.Len(t, h.recs, 1)
	assert.Equal(t, Recommendation{UserID: 1, JobID: 2, MatchScore: 0.8, Reasoning: "skills"}, h.recs[0])
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, reader.commits())
}

func TestKafkaPublisherKeepsKeyOnOnePartition(t *testing.T) {
	p := NewKafkaPublisher(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "jobzee.events"}, zerolog.Nop())
	defer p.Close()
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)

	partitions := []int{0, 1, 2}
	for _, key := range []string{"42", "7", "job-1"} {
		seen := map[int]bool{}
		for i := 0; i < 6; i++ {
			msg := kafka.Message{Key: []byte(key), Value: make([]byte, 10*(i+1))}
			seen[w.Balancer.Balance(msg, partitions...)] = true
		}
		assert.Len(t, seen, 1, "key %s spread over %v", key, seen)
	}
}
