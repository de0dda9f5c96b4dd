package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"ideaswipe_server/models"
)

// Event types written to the domain event topic.
const (
	EventMatchCreated    = "match.created"
	EventRequestCreated  = "request.created"
	EventRequestAccepted = "request.accepted"
	EventMessageSent     = "message.sent"
)

// Event is the envelope of every record on the topic.
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Recipients []string    `json:"recipients"`
	Data       interface{} `json:"data"`
}

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventPublisher mirrors every notification onto a Kafka topic so downstream
// consumers (push, email, analytics) can react without polling the tables.
type EventPublisher struct {
	writer MessageWriter
	log    *zap.SugaredLogger
	now    func() time.Time
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
	}
}

func NewEventPublisher(writer MessageWriter, log *zap.SugaredLogger) *EventPublisher {
	return &EventPublisher{
		writer: writer,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (p *EventPublisher) publish(ctx context.Context, eventType, key string, recipients []string, data interface{}) {
	value, err := json.Marshal(Event{
		Type:       eventType,
		OccurredAt: p.now(),
		Recipients: recipients,
		Data:       data,
	})
	if err != nil {
		p.log.Errorw("marshal event failed", "type", eventType, "error", err)
		return
	}

	// Keyed by aggregate id so events of one match or request stay ordered.
	msg := kafka.Message{Key: []byte(key), Value: value}
	if err := p.writer.WriteMessages(context.WithoutCancel(ctx), msg); err != nil {
		p.log.Warnw("publish event failed", "type", eventType, "key", key, "error", err)
	}
}

func (p *EventPublisher) NotifyMatch(ctx context.Context, match models.MatchView) {
	p.publish(ctx, EventMatchCreated, match.MatchID, []string{match.UserA, match.UserB}, match)
}

func (p *EventPublisher) NotifyNewRequest(ctx context.Context, req models.RequestView) {
	p.publish(ctx, EventRequestCreated, req.RequestID, []string{req.IdeaOwnerID}, req)
}

func (p *EventPublisher) NotifyRequestAccepted(ctx context.Context, req models.RequestView) {
	p.publish(ctx, EventRequestAccepted, req.RequestID, []string{req.RequesterID}, req)
}

func (p *EventPublisher) NotifyMessage(ctx context.Context, msg models.MessageView) {
	p.publish(ctx, EventMessageSent, msg.MatchID, nil, msg)
}

func (p *EventPublisher) Close() error {
	return p.writer.Close()
}
