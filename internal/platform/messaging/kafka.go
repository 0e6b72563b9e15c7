package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/ports"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the slice of kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes event envelopes to Kafka. Without brokers it only logs
// each envelope, which keeps local runs free of a broker dependency.
type Kafka struct {
	writer messageWriter
	logger *slog.Logger
}

func NewKafka(brokers []string, logger *slog.Logger) (*Kafka, error) {
	if logger == nil {
		logger = slog.Default()
	}
	addrs := make([]string, 0, len(brokers))
	for _, broker := range brokers {
		if broker = strings.TrimSpace(broker); broker != "" {
			addrs = append(addrs, broker)
		}
	}
	k := &Kafka{logger: logger}
	if len(addrs) == 0 {
		logger.Warn("no kafka brokers configured, events are logged only",
			"event", "kafka_log_only_mode",
			"module", "internal/platform/messaging",
			"layer", "platform",
		)
		return k, nil
	}
	k.writer = &kafka.Writer{
		Addr:                   kafka.TCP(addrs...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return k, nil
}

func (k *Kafka) Publish(ctx context.Context, topic string, event ports.EventEnvelope) error {
	if err := event.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(topic) == "" {
		return fmt.Errorf("publish %s: topic is required", event.EventType)
	}
	if k.writer != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("encode envelope: %w", err)
		}
		key := event.PartitionKey
		if key == "" {
			key = event.EventID
		}
		if err := k.writer.WriteMessages(ctx, kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: payload,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(event.EventType)},
				{Key: "schema_version", Value: []byte(fmt.Sprintf("%d", event.SchemaVersion))},
			},
		}); err != nil {
			return fmt.Errorf("write kafka message: %w", err)
		}
	}

	k.logger.Info("event published",
		"event", "kafka_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"event_id", event.EventID,
		"event_type", event.EventType,
		"delivered", k.writer != nil,
	)
	return nil
}

func (k *Kafka) Close() error {
	if k == nil || k.writer == nil {
		return nil
	}
	return k.writer.Close()
}
