package hr

import (
	"context"

	"go.uber.org/zap"

	"github.com/hrm/backend/internal/domain/shared"
)

// publishEvents publishes domain events one by one, logging instead of
// failing the surrounding operation when delivery does not work
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, events []shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	for _, event := range events {
		if err := publisher.Publish(ctx, event); err != nil {
			logger.Warn("Failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
}
