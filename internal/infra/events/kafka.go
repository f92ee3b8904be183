package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/pkg/config"
	"stayhub/internal/usecase/commands"

	"github.com/segmentio/kafka-go"
)

const publishTimeout = 5 * time.Second

type envelope struct {
	Name        string      `json:"name"`
	AggregateID string      `json:"aggregate_id"`
	OccurredAt  time.Time   `json:"occurred_at"`
	Payload     interface{} `json:"payload"`
}

// KafkaPublisher delivers booking events to the notification topic.
// Fire-and-forget: delivery happens off the request path and failures are
// logged, never surfaced to the booking flow.
type KafkaPublisher struct {
	writer *kafka.Writer
	wg     sync.WaitGroup
}

func NewKafkaPublisher(cfg config.KafkaConfig) (*KafkaPublisher, func()) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	p := &KafkaPublisher{writer: writer}
	cleanup := func() {
		p.wg.Wait()
		if err := writer.Close(); err != nil {
			slog.Warn("failed to close kafka writer", "error", err.Error())
		}
	}
	return p, cleanup
}

var _ commands.EventPublisher = (*KafkaPublisher)(nil)

func (p *KafkaPublisher) Publish(_ context.Context, ev booking.Event) {
	data, err := json.Marshal(envelope{
		Name:        ev.EventName(),
		AggregateID: ev.AggregateID().String(),
		OccurredAt:  ev.OccurredAt(),
		Payload:     ev,
	})
	if err != nil {
		slog.Error("failed to encode event", "event", ev.EventName(), "error", err.Error())
		return
	}

	// Keyed by aggregate so one booking's events stay ordered per partition.
	msg := kafka.Message{
		Key:   []byte(ev.AggregateID().String()),
		Value: data,
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			slog.Error("failed to publish event",
				"event", ev.EventName(),
				"aggregate_id", ev.AggregateID().String(),
				"error", err.Error())
		}
	}()
}
