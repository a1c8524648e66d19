package kafka

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderPlacedPayload struct {
	RefCode string `json:"ref_code"`
	Total   int64  `json:"total"`
}

func TestNewEvent(t *testing.T) {
	payload := orderPlacedPayload{RefCode: "k3j2h1g0f9e8d7c6b5a4", Total: 4500}

	event, err := NewEvent("storefront.order.placed", "order-1", "order", "storefront", payload)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "storefront.order.placed", event.EventType)
	assert.Equal(t, "order-1", event.AggregateID)
	assert.Equal(t, "order", event.AggregateType)
	assert.Equal(t, 1, event.Version)
	assert.Equal(t, "storefront", event.Source)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, time.Minute)

	var got orderPlacedPayload
	require.NoError(t, event.UnmarshalData(&got))
	assert.Equal(t, payload, got)
}

func TestEvent_Builders(t *testing.T) {
	event, err := NewEvent("storefront.cart.updated", "order-1", "order", "storefront", nil)
	require.NoError(t, err)

	event.WithCorrelationID("corr-42").WithMetadata("reason", "item_added")

	assert.Equal(t, "corr-42", event.CorrelationID)
	assert.Equal(t, "item_added", event.Metadata["reason"])
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	event, err := NewEvent("storefront.refund.requested", "order-9", "order", "storefront",
		map[string]string{"ref_code": "a1b2c3d4e5f6g7h8i9j0"})
	require.NoError(t, err)

	data, err := event.Marshal()
	require.NoError(t, err)

	got, err := UnmarshalEvent(data)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, got.EventID)
	assert.Equal(t, event.EventType, got.EventType)
	assert.Equal(t, event.AggregateID, got.AggregateID)
}

func TestUnmarshalEvent_Invalid(t *testing.T) {
	_, err := UnmarshalEvent([]byte("{not json"))
	assert.Error(t, err)
}

func TestPublish_UnreachableBroker(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := DefaultProducerConfig([]string{"127.0.0.1:1"})
	producer := NewProducer(cfg, logger)
	defer producer.Close()

	event, err := NewEvent("storefront.payment.failed", "order-1", "order", "storefront", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err = producer.Publish(ctx, "storefront.payment.failed", event)
	assert.Error(t, err)
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	err := PingBrokers(context.Background(), nil)
	assert.Error(t, err)
}

func TestPingBrokers_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := PingBrokers(ctx, []string{"127.0.0.1:1"})
	assert.Error(t, err)
}
