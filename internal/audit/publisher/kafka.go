// Package publisher fans audit entries out to Kafka for downstream
// compliance tooling. The Postgres entry is the record of truth; this
// stream is additive and fire-and-continue.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"moniker/internal/audit"
	"moniker/internal/platform/config"
)

// Kafka publishes audit entries to a single compliance topic, keyed by
// target identity so one person's disclosures stay in partition order.
type Kafka struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafka connects to the brokers and ensures the audit topic exists.
func NewKafka(ctx context.Context, cfg config.KafkaConfig, logger *slog.Logger) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ProducerLinger(50*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	if err := ensureTopic(ctx, client, cfg); err != nil {
		client.Close()
		return nil, err
	}

	return &Kafka{client: client, topic: cfg.AuditTopic, logger: logger}, nil
}

func ensureTopic(ctx context.Context, client *kgo.Client, cfg config.KafkaConfig) error {
	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopics(ctx, cfg.Partitions, 1, nil, cfg.AuditTopic)
	if err != nil {
		return fmt.Errorf("create audit topic: %w", err)
	}
	for _, res := range resp.Sorted() {
		if res.Err != nil && !errors.Is(res.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create audit topic %s: %w", res.Topic, res.Err)
		}
	}
	return nil
}

// wirePayload pins the JSON field names independently of the Entry struct.
type wirePayload struct {
	ID             string `json:"id"`
	TargetID       string `json:"target_id"`
	RequesterID    string `json:"requester_id,omitempty"`
	Source         string `json:"source"`
	NameText       string `json:"name_text"`
	NameID         string `json:"name_id,omitempty"`
	ContextID      string `json:"context_id,omitempty"`
	ConsentID      string `json:"consent_id,omitempty"`
	FallbackReason string `json:"fallback_reason,omitempty"`
	Error          string `json:"error,omitempty"`
	RequestID      string `json:"request_id,omitempty"`
	OccurredAt     string `json:"occurred_at"`
}

// Publish produces one entry asynchronously. Failures are logged and
// dropped; the store write has already happened.
func (k *Kafka) Publish(ctx context.Context, entry audit.Entry) {
	payload := wirePayload{
		ID:             entry.ID.String(),
		TargetID:       entry.TargetID.String(),
		Source:         entry.Source,
		NameText:       entry.NameText,
		FallbackReason: entry.FallbackReason,
		Error:          entry.Error,
		RequestID:      entry.RequestID,
		OccurredAt:     entry.OccurredAt.Format(time.RFC3339Nano),
	}
	if entry.RequesterID != nil {
		payload.RequesterID = entry.RequesterID.String()
	}
	if entry.NameID != nil {
		payload.NameID = entry.NameID.String()
	}
	if entry.ContextID != nil {
		payload.ContextID = entry.ContextID.String()
	}
	if entry.ConsentID != nil {
		payload.ConsentID = entry.ConsentID.String()
	}

	value, err := json.Marshal(payload)
	if err != nil {
		if k.logger != nil {
			k.logger.ErrorContext(ctx, "marshal audit payload", "entry_id", entry.ID, "error", err)
		}
		return
	}

	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(entry.TargetID.String()),
		Value: value,
	}
	k.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil && k.logger != nil {
			k.logger.ErrorContext(ctx, "audit fan-out produce failed",
				"entry_id", entry.ID,
				"topic", k.topic,
				"error", err,
			)
		}
	})
}

// Close flushes pending records and closes the client.
func (k *Kafka) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := k.client.Flush(ctx); err != nil {
		return fmt.Errorf("flush audit producer: %w", err)
	}
	k.client.Close()
	return nil
}
