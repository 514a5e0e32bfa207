package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type outboxTestEvent struct {
	BaseDomainEvent
}

func TestNewOutboxEntry(t *testing.T) {
	tenantID := uuid.New()
	event := &outboxTestEvent{
		BaseDomainEvent: NewBaseDomainEvent("SomethingHappened", "Thing", uuid.New(), tenantID),
	}

	entry := NewOutboxEntry(tenantID, event, []byte(`{"x":1}`))

	assert.Equal(t, tenantID, entry.TenantID)
	assert.Equal(t, event.EventID(), entry.EventID)
	assert.Equal(t, "SomethingHappened", entry.EventType)
	assert.Equal(t, event.AggregateID(), entry.AggregateID)
	assert.Equal(t, OutboxStatusPending, entry.Status)
	assert.Equal(t, DefaultMaxRetries, entry.MaxRetries)
}

func TestOutboxEntry_Lifecycle(t *testing.T) {
	t.Run("mark processing then sent", func(t *testing.T) {
		entry := &OutboxEntry{ID: uuid.New(), Status: OutboxStatusPending}

		assert.NoError(t, entry.MarkProcessing())
		assert.Equal(t, OutboxStatusProcessing, entry.Status)

		entry.MarkSent()
		assert.Equal(t, OutboxStatusSent, entry.Status)
		assert.NotNil(t, entry.ProcessedAt)
	})

	t.Run("cannot process a sent entry", func(t *testing.T) {
		entry := &OutboxEntry{ID: uuid.New(), Status: OutboxStatusSent}
		assert.Error(t, entry.MarkProcessing())
	})
}

func TestOutboxEntry_MarkFailed(t *testing.T) {
	t.Run("exponential backoff doubles per retry", func(t *testing.T) {
		entry := &OutboxEntry{ID: uuid.New(), Status: OutboxStatusProcessing, MaxRetries: 5}

		entry.MarkFailed("error 1")
		assert.Equal(t, OutboxStatusFailed, entry.Status)
		assert.Equal(t, 1, entry.RetryCount)
		assert.True(t, entry.CanRetry())
		first := time.Until(*entry.NextRetryAt)
		assert.True(t, first > 0 && first <= 2*time.Second)

		entry.MarkFailed("error 2")
		assert.Equal(t, 2, entry.RetryCount)
		second := time.Until(*entry.NextRetryAt)
		assert.True(t, second > time.Second && second <= 3*time.Second)
	})

	t.Run("moves to dead letter after max retries", func(t *testing.T) {
		entry := &OutboxEntry{ID: uuid.New(), Status: OutboxStatusProcessing, RetryCount: 4, MaxRetries: 5}

		entry.MarkFailed("final error")
		assert.Equal(t, OutboxStatusDead, entry.Status)
		assert.Equal(t, "final error", entry.LastError)
		assert.True(t, entry.IsDead())
		assert.False(t, entry.CanRetry())
	})
}

func TestOutboxEntry_ResetForRetry(t *testing.T) {
	t.Run("resets a dead entry", func(t *testing.T) {
		now := time.Now()
		entry := &OutboxEntry{
			ID:          uuid.New(),
			Status:      OutboxStatusDead,
			RetryCount:  5,
			MaxRetries:  5,
			LastError:   "some error",
			NextRetryAt: &now,
		}

		assert.NoError(t, entry.ResetForRetry())
		assert.Equal(t, OutboxStatusPending, entry.Status)
		assert.Zero(t, entry.RetryCount)
		assert.Empty(t, entry.LastError)
		assert.Nil(t, entry.NextRetryAt)
	})

	t.Run("only dead entries can be reset", func(t *testing.T) {
		for _, status := range []OutboxStatus{
			OutboxStatusPending,
			OutboxStatusProcessing,
			OutboxStatusSent,
			OutboxStatusFailed,
		} {
			entry := &OutboxEntry{ID: uuid.New(), Status: status}
			assert.Error(t, entry.ResetForRetry())
		}
	})
}
