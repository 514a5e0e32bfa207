package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/domain/shared"
)

// fakeOutboxRepo is an in-memory shared.OutboxRepository for processor tests
type fakeOutboxRepo struct {
	entries map[uuid.UUID]*shared.OutboxEntry
}

func newFakeOutboxRepo() *fakeOutboxRepo {
	return &fakeOutboxRepo{entries: make(map[uuid.UUID]*shared.OutboxEntry)}
}

func (r *fakeOutboxRepo) Save(_ context.Context, entries ...*shared.OutboxEntry) error {
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return nil
}

func (r *fakeOutboxRepo) FindPending(_ context.Context, limit int) ([]*shared.OutboxEntry, error) {
	var out []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusPending && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeOutboxRepo) FindRetryable(_ context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	var out []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusFailed && e.NextRetryAt != nil && e.NextRetryAt.Before(before) && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeOutboxRepo) FindByID(_ context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	if e, ok := r.entries[id]; ok {
		return e, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOutboxRepo) MarkProcessing(_ context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	var out []*shared.OutboxEntry
	for _, id := range ids {
		e, ok := r.entries[id]
		if !ok {
			continue
		}
		if e.Status == shared.OutboxStatusPending || e.Status == shared.OutboxStatusFailed {
			e.Status = shared.OutboxStatusProcessing
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeOutboxRepo) Update(_ context.Context, entry *shared.OutboxEntry) error {
	r.entries[entry.ID] = entry
	return nil
}

func (r *fakeOutboxRepo) FindDead(_ context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	var dead []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusDead {
			dead = append(dead, e)
		}
	}
	total := int64(len(dead))
	start := (page - 1) * pageSize
	if start >= len(dead) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(dead) {
		end = len(dead)
	}
	return dead[start:end], total, nil
}

func (r *fakeOutboxRepo) CountByStatus(_ context.Context) (map[shared.OutboxStatus]int64, error) {
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts, nil
}

func (r *fakeOutboxRepo) DeleteOlderThan(_ context.Context, before time.Time) (int64, error) {
	var deleted int64
	for id, e := range r.entries {
		if e.Status == shared.OutboxStatusSent && e.ProcessedAt != nil && e.ProcessedAt.Before(before) {
			delete(r.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

var _ shared.OutboxRepository = (*fakeOutboxRepo)(nil)

func newProcessorFixture(t *testing.T) (*OutboxProcessor, *fakeOutboxRepo, *EventSerializer, *recordingHandler) {
	t.Helper()

	repo := newFakeOutboxRepo()
	serializer := NewEventSerializer()
	serializer.Register("ThingHappened", &testEvent{})

	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"ThingHappened"}}
	bus.Subscribe(handler)

	processor := NewOutboxProcessor(repo, bus, serializer, DefaultOutboxProcessorConfig(), zap.NewNop())
	return processor, repo, serializer, handler
}

func saveEntry(t *testing.T, repo *fakeOutboxRepo, serializer *EventSerializer, event shared.DomainEvent) *shared.OutboxEntry {
	t.Helper()
	payload, err := serializer.Serialize(event)
	require.NoError(t, err)
	entry := shared.NewOutboxEntry(event.TenantID(), event, payload)
	require.NoError(t, repo.Save(context.Background(), entry))
	return entry
}

func TestOutboxProcessor_DeliversPendingEntries(t *testing.T) {
	processor, repo, serializer, handler := newProcessorFixture(t)

	entry := saveEntry(t, repo, serializer, newTestEvent("ThingHappened", "payload"))

	processor.processBatch(context.Background())

	assert.Len(t, handler.received, 1)
	assert.Equal(t, shared.OutboxStatusSent, repo.entries[entry.ID].Status)
	assert.NotNil(t, repo.entries[entry.ID].ProcessedAt)
}

func TestOutboxProcessor_UnknownEventTypeIsRetriedThenDead(t *testing.T) {
	processor, repo, serializer, handler := newProcessorFixture(t)

	entry := saveEntry(t, repo, serializer, newTestEvent("NeverRegistered", "payload"))

	processor.processBatch(context.Background())

	assert.Empty(t, handler.received)
	assert.Equal(t, shared.OutboxStatusFailed, repo.entries[entry.ID].Status)
	assert.Equal(t, 1, repo.entries[entry.ID].RetryCount)
	assert.NotEmpty(t, repo.entries[entry.ID].LastError)

	// Exhaust retries
	for i := 0; i < shared.DefaultMaxRetries; i++ {
		past := time.Now().Add(-time.Minute)
		repo.entries[entry.ID].NextRetryAt = &past
		processor.processBatch(context.Background())
	}
	assert.Equal(t, shared.OutboxStatusDead, repo.entries[entry.ID].Status)
}

func TestOutboxProcessor_CleanupRemovesOldSentEntries(t *testing.T) {
	processor, repo, serializer, _ := newProcessorFixture(t)

	entry := saveEntry(t, repo, serializer, newTestEvent("ThingHappened", "payload"))
	entry.MarkSent()
	old := time.Now().Add(-30 * 24 * time.Hour)
	entry.ProcessedAt = &old

	processor.cleanup(context.Background())

	_, ok := repo.entries[entry.ID]
	assert.False(t, ok)
}

func TestOutboxProcessor_StartStop(t *testing.T) {
	processor, _, _, _ := newProcessorFixture(t)

	require.NoError(t, processor.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, processor.Stop(ctx))
}
