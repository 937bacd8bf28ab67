package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/crash-archive-etl/internal/config"
	"github.com/couchcryptid/crash-archive-etl/internal/domain"
	"github.com/couchcryptid/crash-archive-etl/internal/observability"
)

// Writer publishes enriched accident records to a Kafka topic.
// It implements pipeline.Loader as the optional third export sink.
type Writer struct {
	writer  *kafkago.Writer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, metrics: metrics, logger: logger}
}

func (w *Writer) Name() string { return "kafka" }

// Load serializes and publishes the whole table in a single WriteMessages
// call. Record IDs are deterministic, so consumers can deduplicate replays
// by message key.
func (w *Writer) Load(ctx context.Context, records []domain.AccidentRecord) error {
	if len(records) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}

	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return err
	}

	w.metrics.RecordsExported.WithLabelValues("kafka").Add(float64(len(records)))
	w.logger.Info("records published", "topic", w.writer.Topic, "count", len(records))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an AccidentRecord into a Kafka message keyed
// by the record's deterministic ID.
func serializeToMessage(rec domain.AccidentRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize accident record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "record_type", Value: []byte("accident")},
			{Key: "scraped_at", Value: []byte(rec.ScrapedAt.Format(time.RFC3339))},
		},
	}, nil
}
