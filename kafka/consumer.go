package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/grocery-pos/pkg/logger"
)

// ErrNoHandler is returned by Dispatch for an event type nobody registered
var ErrNoHandler = errors.New("no handler registered for event type")

// Message is a received event with its raw JSON payload
type Message struct {
	EventType string
	EventID   string
	Topic     string
	Payload   []byte
}

// EventHandler handles one event type
type EventHandler func(ctx context.Context, msg Message) error

// Consumer wraps a Kafka consumer group
type Consumer struct {
	group         sarama.ConsumerGroup
	groupID       string
	topics        []string
	handlers      map[string]EventHandler
	handlersMutex sync.RWMutex
	wg            sync.WaitGroup
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(brokers []string, groupID string, topics []string) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_6_0_0
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("group_id", groupID).
		Strs("topics", topics).
		Msg("Kafka consumer initialized")

	c := NewDispatcher()
	c.group = group
	c.groupID = groupID
	c.topics = topics
	return c, nil
}

// NewDispatcher returns a consumer without a group connection. Dispatch can
// be used to route messages to the registered handlers.
func NewDispatcher() *Consumer {
	return &Consumer{handlers: make(map[string]EventHandler)}
}

// RegisterHandler registers an event handler for a specific event type
func (c *Consumer) RegisterHandler(eventType string, handler EventHandler) {
	c.handlersMutex.Lock()
	defer c.handlersMutex.Unlock()
	c.handlers[eventType] = handler
	logger.Logger.Info().
		Str("event_type", eventType).
		Msg("Event handler registered")
}

// Start consumes in the background until ctx is cancelled
func (c *Consumer) Start(ctx context.Context) error {
	if c.group == nil {
		return errors.New("consumer has no group connection")
	}
	handler := &consumerGroupHandler{consumer: c}

	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		for {
			if err := c.group.Consume(ctx, c.topics, handler); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return
				}
				logger.Logger.Error().Err(err).Msg("Error from consumer")
			}
			if ctx.Err() != nil {
				logger.Logger.Info().Msg("Consumer context cancelled, stopping")
				return
			}
		}
	}()

	go func() {
		defer c.wg.Done()
		for err := range c.group.Errors() {
			logger.Logger.Error().Err(err).Msg("Consumer error")
		}
	}()

	logger.Logger.Info().
		Strs("topics", c.topics).
		Str("group_id", c.groupID).
		Msg("Kafka consumer started")
	return nil
}

// Close closes the consumer group and waits for the background loops
func (c *Consumer) Close() error {
	if c.group == nil {
		return nil
	}
	err := c.group.Close()
	c.wg.Wait()
	return err
}

// Dispatch routes one message to its handler, continuing the producer's trace
func (c *Consumer) Dispatch(ctx context.Context, message *sarama.ConsumerMessage) error {
	carrier := propagation.MapCarrier{}
	msg := Message{Topic: message.Topic, Payload: message.Value}
	for _, header := range message.Headers {
		switch key := string(header.Key); key {
		case "traceparent", "tracestate":
			carrier[key] = string(header.Value)
		case "event_type":
			msg.EventType = string(header.Value)
		case "event_id":
			msg.EventID = string(header.Value)
		}
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

	tracer := otel.Tracer("kafka-consumer")
	ctx, span := tracer.Start(ctx, "kafka.consume."+msg.EventType,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.source", message.Topic),
			attribute.String("messaging.source_kind", "topic"),
			attribute.Int("messaging.kafka.partition", int(message.Partition)),
			attribute.Int64("messaging.kafka.offset", message.Offset),
			attribute.String("event.type", msg.EventType),
			attribute.String("event.id", msg.EventID),
		),
	)
	defer span.End()

	if msg.EventType == "" {
		span.SetStatus(codes.Error, "Message without event_type header")
		return errors.New("message without event_type header")
	}

	c.handlersMutex.RLock()
	handler, ok := c.handlers[msg.EventType]
	c.handlersMutex.RUnlock()
	if !ok {
		span.SetStatus(codes.Error, "No handler registered")
		return fmt.Errorf("%w: %s", ErrNoHandler, msg.EventType)
	}

	if err := handler(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to handle event")
		return err
	}
	span.SetStatus(codes.Ok, "Event handled")
	return nil
}

// consumerGroupHandler implements sarama.ConsumerGroupHandler
type consumerGroupHandler struct {
	consumer *Consumer
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim marks every message. Failed messages are logged and skipped.
func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		ctx := session.Context()
		if err := h.consumer.Dispatch(ctx, message); err != nil {
			logger.Error(ctx).
				Err(err).
				Str("topic", message.Topic).
				Int32("partition", message.Partition).
				Int64("offset", message.Offset).
				Msg("Failed to handle message")
		}
		session.MarkMessage(message, "")
	}
	return nil
}

// DecodeStockAlert decodes a stock.alert payload
func DecodeStockAlert(payload []byte) (StockAlertEvent, error) {
	var event StockAlertEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return event, fmt.Errorf("decode stock alert: %w", err)
	}
	return event, nil
}
