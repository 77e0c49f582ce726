//go:build integration

package publisher_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"moniker/internal/audit"
	"moniker/internal/audit/publisher"
	"moniker/internal/platform/config"
	"moniker/pkg/domain"
	"moniker/pkg/testutil/containers"
)

func TestKafkaIntegration(t *testing.T) {
	rc := containers.NewRedpandaContainer(t)
	ctx := context.Background()

	cfg := config.KafkaConfig{
		Brokers:    []string{rc.Broker},
		AuditTopic: "moniker.audit.disclosures",
		Partitions: 1,
	}

	pub, err := publisher.NewKafka(ctx, cfg, nil)
	require.NoError(t, err)

	requester := domain.NewIdentityID()
	consentID := domain.NewConsentID()
	entry := audit.Entry{
		ID:          uuid.New(),
		TargetID:    domain.NewIdentityID(),
		RequesterID: &requester,
		Source:      "consent_based",
		NameText:    "Al",
		ConsentID:   &consentID,
		RequestID:   "req-456",
		OccurredAt:  time.Now().UTC(),
	}
	pub.Publish(ctx, entry)
	require.NoError(t, pub.Close())

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rc.Broker),
		kgo.ConsumeTopics(cfg.AuditTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, entry.TargetID.String(), string(records[0].Key),
		"records are keyed by target so one person's trail stays ordered")

	var payload map[string]any
	require.NoError(t, json.Unmarshal(records[0].Value, &payload))
	assert.Equal(t, entry.ID.String(), payload["id"])
	assert.Equal(t, "consent_based", payload["source"])
	assert.Equal(t, "Al", payload["name_text"])
	assert.Equal(t, requester.String(), payload["requester_id"])
	assert.Equal(t, consentID.String(), payload["consent_id"])
	assert.Equal(t, "req-456", payload["request_id"])
}
