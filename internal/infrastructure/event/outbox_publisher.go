package event

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/hrm/backend/internal/domain/shared"
	"github.com/hrm/backend/internal/infrastructure/persistence"
)

// OutboxPublisher writes domain events to the outbox table inside the same
// transaction as the aggregate change.
type OutboxPublisher struct {
	serializer *EventSerializer
}

// NewOutboxPublisher creates a new outbox publisher
func NewOutboxPublisher(serializer *EventSerializer) *OutboxPublisher {
	return &OutboxPublisher{serializer: serializer}
}

// PublishWithTx persists events to the outbox within the provided transaction
func (p *OutboxPublisher) PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return err
		}
		entries = append(entries, shared.NewOutboxEntry(event.TenantID(), event, payload))
	}

	return NewGormOutboxRepository(tx).Save(ctx, entries...)
}

// SaveEvents implements shared.OutboxEventSaver
func (p *OutboxPublisher) SaveEvents(ctx context.Context, txProvider interface{}, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, ok := txProvider.(*gorm.DB)
	if !ok {
		return fmt.Errorf("txProvider must be a *gorm.DB, got %T", txProvider)
	}

	return p.PublishWithTx(ctx, tx, events...)
}

var _ shared.OutboxEventSaver = (*OutboxPublisher)(nil)

// OutboxEventPublisher is the shared.EventPublisher handed to application
// services. Each Publish call writes the events to the outbox in a short
// transaction; the outbox processor relays them onto the event bus.
type OutboxEventPublisher struct {
	db        *gorm.DB
	publisher *OutboxPublisher
}

// NewOutboxEventPublisher creates an outbox-backed event publisher
func NewOutboxEventPublisher(db *gorm.DB, publisher *OutboxPublisher) *OutboxEventPublisher {
	return &OutboxEventPublisher{db: db, publisher: publisher}
}

// Publish implements shared.EventPublisher. When the context carries an
// open transaction the outbox rows join it, so events commit or roll
// back together with the aggregate change that raised them.
func (p *OutboxEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	if tx := persistence.TxFromContext(ctx); tx != nil {
		return p.PublishWithTx(ctx, tx, events...)
	}
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return p.PublishWithTx(ctx, tx, events...)
	})
}

// PublishWithTx persists events to the outbox within the provided transaction
func (p *OutboxEventPublisher) PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error {
	return p.publisher.PublishWithTx(ctx, tx, events...)
}

var _ shared.EventPublisher = (*OutboxEventPublisher)(nil)
