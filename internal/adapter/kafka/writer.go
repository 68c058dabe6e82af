// Package kafka publishes solar wind records to the sink topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/solar-wind-etl/internal/config"
	"github.com/couchcryptid/solar-wind-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces solar wind records to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	window string
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
	return &Writer{writer: w, window: cfg.SWPCWindow, logger: logger}
}

// LoadBatch serializes and publishes multiple records to the sink topic in a
// single WriteMessages call for efficiency.
func (w *Writer) LoadBatch(ctx context.Context, records []domain.SolarWindRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i], w.window)
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

// serializeToMessage marshals a SolarWindRecord into a Kafka message keyed
// by its time tag, so records for the same minute land on the same partition
// and replays overwrite cleanly in compacted topics.
func serializeToMessage(record domain.SolarWindRecord, window string) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize solar wind record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(record.TimeTag.UTC().Format(time.RFC3339)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "product_window", Value: []byte(window)},
			{Key: "processed_at", Value: []byte(record.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
