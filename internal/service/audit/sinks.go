package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/theglobal/uren-backend-go/internal/domain/audit"
	"github.com/theglobal/uren-backend-go/internal/pkg/kafka"
	"github.com/theglobal/uren-backend-go/internal/pkg/sse"
)

// LogSink writes each event as a structured log line.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Emit(ctx context.Context, e audit.Event) error {
	attrs := []slog.Attr{
		slog.String("event_id", e.ID),
		slog.String("event_type", string(e.Type)),
		slog.String("worker_id", e.WorkerID),
		slog.String("site_id", e.SiteID),
	}
	if e.SessionID != "" {
		attrs = append(attrs, slog.String("session_id", e.SessionID))
	}
	if e.DistanceM != nil {
		attrs = append(attrs, slog.Float64("distance_m", *e.DistanceM))
	}
	if e.Warning != nil {
		attrs = append(attrs, slog.String("warning", *e.Warning))
	}
	if e.Reason != nil {
		attrs = append(attrs, slog.String("reason", *e.Reason))
	}

	level := slog.LevelInfo
	if e.Type == audit.EventAdmissionRejected {
		level = slog.LevelWarn
	}
	s.logger.LogAttrs(ctx, level, "audit event", attrs...)
	return nil
}

// StoreSink persists events in an audit.Store.
type StoreSink struct {
	store audit.Store
}

func NewStoreSink(store audit.Store) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) Emit(ctx context.Context, e audit.Event) error {
	return s.store.Append(ctx, e)
}

// MessagePublisher is the part of kafka.Producer the sink needs.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaSink streams events as JSON, keyed by worker so one worker's events stay ordered.
type KafkaSink struct {
	producer MessagePublisher
}

func NewKafkaSink(producer MessagePublisher) *KafkaSink {
	return &KafkaSink{producer: producer}
}

func (s *KafkaSink) Emit(ctx context.Context, e audit.Event) error {
	payload, err := json.Marshal(MapEventToResponse(e))
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	return s.producer.Publish(ctx, kafka.Message{
		Key:   e.WorkerID,
		Value: payload,
		Headers: map[string]string{
			"event_type": string(e.Type),
		},
	})
}

// StreamSink fans events out to live SSE subscribers: the admin feed and the worker's own feed.
type StreamSink struct {
	hub *sse.Hub
}

func NewStreamSink(hub *sse.Hub) *StreamSink {
	return &StreamSink{hub: hub}
}

func (s *StreamSink) Emit(ctx context.Context, e audit.Event) error {
	event := sse.Event{
		Name: string(e.Type),
		Data: MapEventToResponse(e),
	}

	topics := []string{sse.AdminTopic}
	if e.WorkerID != "" {
		topics = append(topics, sse.WorkerTopic(e.WorkerID))
	}

	if dropped := s.hub.PublishToMany(topics, event); dropped > 0 {
		return fmt.Errorf("%d stream subscribers too slow, event %s dropped for them", dropped, e.ID)
	}
	return nil
}
