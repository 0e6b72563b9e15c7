package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"leadqualifier/contexts/sales-intelligence/lead-qualification-service/ports"
	contractsv1 "leadqualifier/contracts/gen/events/v1"

	"github.com/segmentio/kafka-go"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validEnvelope() ports.EventEnvelope {
	return ports.EventEnvelope{
		EventID:          "evt-1",
		EventType:        contractsv1.EventTypeInteractionRecorded,
		OccurredAt:       time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC),
		SourceService:    "lead-qualification-service",
		TraceID:          "evt-1",
		SchemaVersion:    1,
		PartitionKeyPath: "action",
		PartitionKey:     "filter",
		Data:             json.RawMessage(`{"action":"filter"}`),
	}
}

func TestNewKafkaWithoutBrokersLogsOnly(t *testing.T) {
	k, err := NewKafka([]string{" ", ""}, discardLogger())
	if err != nil {
		t.Fatalf("new kafka: %v", err)
	}
	if k.writer != nil {
		t.Fatalf("expected log-only mode without brokers")
	}
	if err := k.Publish(context.Background(), "lead.interactions", validEnvelope()); err != nil {
		t.Fatalf("log-only publish: %v", err)
	}
	if err := k.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestPublishWritesKeyedMessage(t *testing.T) {
	writer := &recordingWriter{}
	k := &Kafka{writer: writer, logger: discardLogger()}

	if err := k.Publish(context.Background(), "lead.interactions", validEnvelope()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(writer.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(writer.messages))
	}
	msg := writer.messages[0]
	if msg.Topic != "lead.interactions" || string(msg.Key) != "filter" {
		t.Fatalf("unexpected message routing topic=%q key=%q", msg.Topic, msg.Key)
	}
	var decoded contractsv1.Envelope
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("decode value: %v", err)
	}
	if decoded.EventID != "evt-1" || decoded.SchemaVersion != 1 {
		t.Fatalf("unexpected envelope %+v", decoded)
	}
	if len(msg.Headers) != 2 || string(msg.Headers[0].Value) != contractsv1.EventTypeInteractionRecorded {
		t.Fatalf("unexpected headers %+v", msg.Headers)
	}

	unkeyed := validEnvelope()
	unkeyed.PartitionKey = ""
	if err := k.Publish(context.Background(), "lead.interactions", unkeyed); err != nil {
		t.Fatalf("publish unkeyed: %v", err)
	}
	if string(writer.messages[1].Key) != "evt-1" {
		t.Fatalf("expected event id as fallback key, got %q", writer.messages[1].Key)
	}

	if err := k.Close(); err != nil || !writer.closed {
		t.Fatalf("expected writer closed, err=%v", err)
	}
}

func TestPublishRejectsBadInput(t *testing.T) {
	writer := &recordingWriter{}
	k := &Kafka{writer: writer, logger: discardLogger()}

	invalid := validEnvelope()
	invalid.EventID = ""
	if err := k.Publish(context.Background(), "lead.interactions", invalid); !errors.Is(err, contractsv1.ErrInvalidEnvelope) {
		t.Fatalf("expected ErrInvalidEnvelope, got %v", err)
	}
	if err := k.Publish(context.Background(), " ", validEnvelope()); err == nil {
		t.Fatalf("expected missing topic error")
	}
	if len(writer.messages) != 0 {
		t.Fatalf("expected nothing written, got %d", len(writer.messages))
	}

	writer.err = errors.New("leader not available")
	if err := k.Publish(context.Background(), "lead.interactions", validEnvelope()); err == nil {
		t.Fatalf("expected write error to surface")
	}
}
