package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/grocery-pos/pkg/logger"
)

// Event is implemented by every event type through its embedded Envelope
type Event interface {
	envelope() *Envelope
}

func (e *Envelope) envelope() *Envelope { return e }

// Publisher wraps Kafka producer. A nil *Publisher drops every event, which
// is how the service runs without brokers.
type Publisher struct {
	producer sarama.SyncProducer
	breaker  *Breaker
}

// NewProducerConfig returns the producer settings used by the service
func NewProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000
	return config
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string) (*Publisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return NewPublisherWithProducer(producer), nil
}

// NewPublisherWithProducer wraps an existing producer. Five consecutive send
// failures open the breaker for 30 seconds.
func NewPublisherWithProducer(producer sarama.SyncProducer) *Publisher {
	return &Publisher{
		producer: producer,
		breaker:  NewBreaker("kafka-producer", 5, 30*time.Second),
	}
}

// Healthy reports an error while the producer circuit is open
func (p *Publisher) Healthy(context.Context) error {
	if p != nil && p.breaker.State() == StateOpen {
		return ErrCircuitOpen
	}
	return nil
}

// PublishSaleCompleted publishes a sale.completed event keyed by sale
func (p *Publisher) PublishSaleCompleted(ctx context.Context, event SaleCompletedEvent) error {
	return p.publish(ctx, EventTypeSaleCompleted, fmt.Sprintf("sale_%d", event.SaleID), &event,
		attribute.Int64("sale.id", int64(event.SaleID)),
		attribute.String("sale.total", event.TotalAmount.StringFixed(2)),
	)
}

// PublishSaleCancelled publishes a sale.cancelled event keyed by sale
func (p *Publisher) PublishSaleCancelled(ctx context.Context, event SaleCancelledEvent) error {
	return p.publish(ctx, EventTypeSaleCancelled, fmt.Sprintf("sale_%d", event.SaleID), &event,
		attribute.Int64("sale.id", int64(event.SaleID)),
	)
}

// PublishStockAlert publishes a stock.alert event keyed by product
func (p *Publisher) PublishStockAlert(ctx context.Context, event StockAlertEvent) error {
	return p.publish(ctx, EventTypeStockAlert, fmt.Sprintf("product_%d", event.ProductID), &event,
		attribute.Int64("product.id", int64(event.ProductID)),
		attribute.String("alert.kind", event.Kind),
	)
}

func (p *Publisher) publish(ctx context.Context, eventType, key string, event Event, attrs ...attribute.KeyValue) error {
	if p == nil {
		return nil
	}
	topic := TopicFor(eventType)

	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish."+eventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", topic),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("event.type", eventType),
		),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	env := event.envelope()
	if env.EventID == "" {
		env.EventID = uuid.NewString()
	}
	env.EventType = eventType
	env.Timestamp = time.Now().UTC()

	span.SetAttributes(attribute.String("event.id", env.EventID))

	eventBytes, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Inject trace context into Kafka headers
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(eventType)},
		{Key: []byte("event_id"), Value: []byte(env.EventID)},
	}
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	var partition int32
	var offset int64
	err = p.breaker.Call(func() error {
		var sendErr error
		partition, offset, sendErr = p.producer.SendMessage(msg)
		return sendErr
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Error(ctx).
			Err(err).
			Str("topic", topic).
			Str("event_type", eventType).
			Msg("Failed to publish event")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published")

	logger.Info(ctx).
		Str("event_id", env.EventID).
		Str("event_type", eventType).
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Event published")
	return nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p != nil && p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
