package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/querent-labs/horary-display/internal/config"
	"github.com/querent-labs/horary-display/internal/domain"
)

// Writer produces messages to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes multiple display payloads to the sink
// Kafka topic in a single WriteMessages call for efficiency.
func (w *Writer) LoadBatch(ctx context.Context, payloads []domain.DisplayPayload) error {
	if len(payloads) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(payloads))
	for i := range payloads {
		msg, err := serializeToMessage(payloads[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a DisplayPayload into a Kafka message keyed by
// chart ID so consumers can compact per chart.
func serializeToMessage(payload domain.DisplayPayload) (kafkago.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize display payload: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(payload.ChartID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "verdict", Value: []byte(payload.Verdict)},
			{Key: "generated_at", Value: []byte(payload.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
