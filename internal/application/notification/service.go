package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/domain/notification"
	"github.com/hrm/backend/internal/domain/shared"
)

// Service handles announcements, the per-user inbox, and scheduled
// dispatch. Fan-out to deliveries happens asynchronously off the
// NotificationSent event; see SentHandler.
type Service struct {
	notifRepo      notification.Repository
	deliveryRepo   notification.DeliveryRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewService creates a new notification service
func NewService(
	notifRepo notification.Repository,
	deliveryRepo notification.DeliveryRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		notifRepo:      notifRepo,
		deliveryRepo:   deliveryRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// CreateAnnouncement creates a draft organization-wide announcement
func (s *Service) CreateAnnouncement(ctx context.Context, input CreateAnnouncementInput) (*NotificationDTO, error) {
	n, err := notification.NewAnnouncement(input.TenantID, input.AuthorID, input.Title, input.Body)
	if err != nil {
		return nil, err
	}

	if err := s.notifRepo.Save(ctx, n); err != nil {
		return nil, err
	}

	s.logger.Info("Announcement created",
		zap.String("notification_id", n.ID.String()),
		zap.String("author_id", input.AuthorID.String()))

	dto := ToNotificationDTO(n)
	return &dto, nil
}

// UpdateDraft edits the title and body of a draft
func (s *Service) UpdateDraft(ctx context.Context, input UpdateDraftInput) (*NotificationDTO, error) {
	n, err := s.notifRepo.FindByID(ctx, input.TenantID, input.NotificationID)
	if err != nil {
		return nil, err
	}

	if err := n.UpdateDraft(input.Title, input.Body); err != nil {
		return nil, err
	}
	if err := s.notifRepo.Save(ctx, n); err != nil {
		return nil, err
	}

	dto := ToNotificationDTO(n)
	return &dto, nil
}

// Schedule queues a notification for a future send
func (s *Service) Schedule(ctx context.Context, tenantID, notificationID uuid.UUID, at time.Time) (*NotificationDTO, error) {
	n, err := s.notifRepo.FindByID(ctx, tenantID, notificationID)
	if err != nil {
		return nil, err
	}

	if err := n.Schedule(at); err != nil {
		return nil, err
	}
	if err := s.notifRepo.Save(ctx, n); err != nil {
		return nil, err
	}

	s.logger.Info("Notification scheduled",
		zap.String("notification_id", notificationID.String()),
		zap.Time("scheduled_at", at))

	dto := ToNotificationDTO(n)
	return &dto, nil
}

// SendNow sends a draft or scheduled notification immediately
func (s *Service) SendNow(ctx context.Context, tenantID, notificationID uuid.UUID) (*NotificationDTO, error) {
	n, err := s.notifRepo.FindByID(ctx, tenantID, notificationID)
	if err != nil {
		return nil, err
	}

	if err := s.send(ctx, n); err != nil {
		return nil, err
	}

	dto := ToNotificationDTO(n)
	return &dto, nil
}

// SendDirect creates an individual notification and sends it in one step.
// Event handlers use it to surface domain events in the inbox.
func (s *Service) SendDirect(ctx context.Context, input SendDirectInput) (*NotificationDTO, error) {
	n, err := notification.NewDirect(input.TenantID, notification.Kind(input.Kind), input.Title, input.Body, input.RecipientIDs)
	if err != nil {
		return nil, err
	}

	if err := s.send(ctx, n); err != nil {
		return nil, err
	}

	dto := ToNotificationDTO(n)
	return &dto, nil
}

// Cancel withdraws a draft or scheduled notification
func (s *Service) Cancel(ctx context.Context, tenantID, notificationID uuid.UUID) (*NotificationDTO, error) {
	n, err := s.notifRepo.FindByID(ctx, tenantID, notificationID)
	if err != nil {
		return nil, err
	}

	if err := n.Cancel(); err != nil {
		return nil, err
	}
	if err := s.notifRepo.Save(ctx, n); err != nil {
		return nil, err
	}

	s.logger.Info("Notification cancelled", zap.String("notification_id", notificationID.String()))

	dto := ToNotificationDTO(n)
	return &dto, nil
}

// Get returns one notification
func (s *Service) Get(ctx context.Context, tenantID, notificationID uuid.UUID) (*NotificationDTO, error) {
	n, err := s.notifRepo.FindByID(ctx, tenantID, notificationID)
	if err != nil {
		return nil, err
	}

	dto := ToNotificationDTO(n)
	return &dto, nil
}

// List returns a page of notifications for back-office views, optionally
// limited to one kind
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, kind string, filter shared.Filter) (*shared.Paginated[NotificationDTO], error) {
	var (
		notifications []notification.Notification
		total         int64
		err           error
	)
	if kind != "" {
		notifications, total, err = s.notifRepo.FindByKind(ctx, tenantID, notification.Kind(kind), filter)
	} else {
		notifications, total, err = s.notifRepo.FindAll(ctx, tenantID, filter)
	}
	if err != nil {
		return nil, err
	}

	dtos := make([]NotificationDTO, len(notifications))
	for i := range notifications {
		dtos[i] = ToNotificationDTO(&notifications[i])
	}

	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Inbox returns a page of one user's deliveries joined with their
// notification content
func (s *Service) Inbox(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[InboxItemDTO], error) {
	deliveries, total, err := s.deliveryRepo.FindByUser(ctx, tenantID, userID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]InboxItemDTO, 0, len(deliveries))
	for i := range deliveries {
		d := &deliveries[i]
		n, err := s.notifRepo.FindByID(ctx, tenantID, d.NotificationID)
		if err != nil {
			if err == shared.ErrNotFound {
				continue
			}
			return nil, err
		}
		items = append(items, InboxItemDTO{
			DeliveryID:     d.ID,
			NotificationID: n.ID,
			Kind:           string(n.Kind),
			Title:          n.Title,
			Body:           n.Body,
			SentAt:         n.SentAt,
			ReadAt:         d.ReadAt,
			Read:           d.IsRead(),
		})
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// MarkRead marks one inbox entry as read
func (s *Service) MarkRead(ctx context.Context, tenantID, userID, notificationID uuid.UUID) error {
	delivery, err := s.deliveryRepo.FindByUserAndNotification(ctx, tenantID, userID, notificationID)
	if err != nil {
		return err
	}

	if delivery.IsRead() {
		return nil
	}

	delivery.MarkRead()
	return s.deliveryRepo.Update(ctx, delivery)
}

// MarkAllRead marks every unread inbox entry of one user as read
func (s *Service) MarkAllRead(ctx context.Context, tenantID, userID uuid.UUID) (int64, error) {
	return s.deliveryRepo.MarkAllRead(ctx, tenantID, userID)
}

// UnreadCount returns the number of unread inbox entries of one user
func (s *Service) UnreadCount(ctx context.Context, tenantID, userID uuid.UUID) (int64, error) {
	return s.deliveryRepo.CountUnread(ctx, tenantID, userID)
}

// DispatchDue sends every scheduled notification whose time has come.
// The scheduler calls this on a fixed interval.
func (s *Service) DispatchDue(ctx context.Context, now time.Time, limit int) (int, error) {
	due, err := s.notifRepo.FindDueScheduled(ctx, now, limit)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range due {
		n := &due[i]
		if !n.IsDue(now) {
			continue
		}
		if err := s.send(ctx, n); err != nil {
			s.logger.Error("Failed to dispatch scheduled notification",
				zap.String("notification_id", n.ID.String()),
				zap.Error(err))
			continue
		}
		sent++
	}

	if sent > 0 {
		s.logger.Info("Scheduled notifications dispatched", zap.Int("count", sent))
	}

	return sent, nil
}

// send marks the notification sent, saves it, and publishes the event
// that drives fan-out
func (s *Service) send(ctx context.Context, n *notification.Notification) error {
	if err := n.MarkSent(); err != nil {
		return err
	}
	if err := s.notifRepo.Save(ctx, n); err != nil {
		return err
	}

	publishEvents(ctx, s.eventPublisher, s.logger, n.GetDomainEvents())
	n.ClearDomainEvents()

	s.logger.Info("Notification sent",
		zap.String("notification_id", n.ID.String()),
		zap.String("audience", string(n.Audience)),
		zap.String("kind", string(n.Kind)))

	return nil
}

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
