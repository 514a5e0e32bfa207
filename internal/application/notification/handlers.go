package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/domain/hr"
	"github.com/hrm/backend/internal/domain/identity"
	"github.com/hrm/backend/internal/domain/invoice"
	"github.com/hrm/backend/internal/domain/leave"
	"github.com/hrm/backend/internal/domain/notification"
	"github.com/hrm/backend/internal/domain/shared"
)

// Page size used when fanning an announcement out to every member
const fanOutPageSize = 500

// PushEvent is the realtime payload pushed to connected inbox clients
type PushEvent struct {
	NotificationID uuid.UUID `json:"notification_id"`
	Kind           string    `json:"kind"`
	Title          string    `json:"title"`
	SentAt         time.Time `json:"sent_at"`
}

// Broadcaster pushes inbox events to connected clients. Delivery is best
// effort; clients that cannot keep up miss events and reconcile from the
// inbox on their next fetch.
type Broadcaster interface {
	Push(tenantID uuid.UUID, userIDs []uuid.UUID, event PushEvent)
}

// SentHandler fans a sent notification out into per-recipient deliveries
// and pushes it to connected clients
type SentHandler struct {
	userRepo     identity.UserRepository
	deliveryRepo notification.DeliveryRepository
	broadcaster  Broadcaster
	logger       *zap.Logger
}

// NewSentHandler creates a new sent-notification fan-out handler
func NewSentHandler(
	userRepo identity.UserRepository,
	deliveryRepo notification.DeliveryRepository,
	broadcaster Broadcaster,
	logger *zap.Logger,
) *SentHandler {
	return &SentHandler{
		userRepo:     userRepo,
		deliveryRepo: deliveryRepo,
		broadcaster:  broadcaster,
		logger:       logger,
	}
}

// Handle processes a NotificationSent event
func (h *SentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	sent, ok := event.(*notification.NotificationSentEvent)
	if !ok {
		return nil
	}

	recipients := sent.RecipientIDs
	if sent.Audience == notification.AudienceOrganization {
		var err error
		recipients, err = h.allMemberIDs(ctx, sent.TenantID())
		if err != nil {
			return err
		}
	}

	deliveries := make([]*notification.Delivery, 0, len(recipients))
	for _, userID := range recipients {
		delivery, err := notification.NewDelivery(sent.TenantID(), sent.AggregateID(), userID)
		if err != nil {
			h.logger.Warn("Skipping invalid delivery",
				zap.String("notification_id", sent.AggregateID().String()),
				zap.Error(err))
			continue
		}
		deliveries = append(deliveries, delivery)
	}

	if len(deliveries) > 0 {
		if err := h.deliveryRepo.SaveBatch(ctx, deliveries); err != nil {
			return err
		}
	}

	if h.broadcaster != nil {
		h.broadcaster.Push(sent.TenantID(), recipients, PushEvent{
			NotificationID: sent.AggregateID(),
			Kind:           string(sent.Kind),
			Title:          sent.Title,
			SentAt:         sent.SentAt,
		})
	}

	h.logger.Info("Notification fanned out",
		zap.String("notification_id", sent.AggregateID().String()),
		zap.Int("recipients", len(deliveries)))

	return nil
}

// EventTypes returns the event types this handler is interested in
func (h *SentHandler) EventTypes() []string {
	return []string{notification.EventTypeNotificationSent}
}

// allMemberIDs pages through the organization's users
func (h *SentHandler) allMemberIDs(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = fanOutPageSize

	ids := make([]uuid.UUID, 0)
	for page := 1; ; page++ {
		filter.Page = page
		users, total, err := h.userRepo.FindAll(ctx, tenantID, filter)
		if err != nil {
			return nil, err
		}
		for i := range users {
			ids = append(ids, users[i].ID)
		}
		if int64(len(ids)) >= total || len(users) == 0 {
			break
		}
	}

	return ids, nil
}

// LeaveDecidedHandler notifies the employee when their leave request is
// decided
type LeaveDecidedHandler struct {
	service *Service
	logger  *zap.Logger
}

// NewLeaveDecidedHandler creates a new leave decision handler
func NewLeaveDecidedHandler(service *Service, logger *zap.Logger) *LeaveDecidedHandler {
	return &LeaveDecidedHandler{service: service, logger: logger}
}

// Handle processes a LeaveRequestDecided event
func (h *LeaveDecidedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	decided, ok := event.(*leave.RequestDecidedEvent)
	if !ok {
		return nil
	}

	var title string
	if decided.Outcome == leave.RequestStatusApproved {
		title = "Leave request approved"
	} else {
		title = "Leave request denied"
	}

	body := fmt.Sprintf("Your %s leave from %s to %s was %s.",
		decided.LeaveType,
		decided.StartDate.Format("2006-01-02"),
		decided.EndDate.Format("2006-01-02"),
		decided.Outcome)
	if decided.DecisionNote != "" {
		body += "\n\nReviewer note: " + decided.DecisionNote
	}

	_, err := h.service.SendDirect(ctx, SendDirectInput{
		TenantID:     decided.TenantID(),
		Kind:         string(notification.KindLeave),
		Title:        title,
		Body:         body,
		RecipientIDs: []uuid.UUID{decided.UserID},
	})
	return err
}

// EventTypes returns the event types this handler is interested in
func (h *LeaveDecidedHandler) EventTypes() []string {
	return []string{leave.EventTypeRequestDecided}
}

// InvoiceReadyHandler notifies the employee when their payroll invoice
// becomes deliverable
type InvoiceReadyHandler struct {
	service *Service
	logger  *zap.Logger
}

// NewInvoiceReadyHandler creates a new invoice-ready handler
func NewInvoiceReadyHandler(service *Service, logger *zap.Logger) *InvoiceReadyHandler {
	return &InvoiceReadyHandler{service: service, logger: logger}
}

// Handle processes an InvoiceReady event
func (h *InvoiceReadyHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	ready, ok := event.(*invoice.InvoiceReadyEvent)
	if !ok {
		return nil
	}

	period := time.Date(ready.PeriodYear, time.Month(ready.PeriodMonth), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
	_, err := h.service.SendDirect(ctx, SendDirectInput{
		TenantID:     ready.TenantID(),
		Kind:         string(notification.KindInvoice),
		Title:        fmt.Sprintf("Invoice for %s is ready", period),
		Body:         fmt.Sprintf("Your payroll invoice for %s is ready to view.", period),
		RecipientIDs: []uuid.UUID{ready.UserID},
	})
	return err
}

// EventTypes returns the event types this handler is interested in
func (h *InvoiceReadyHandler) EventTypes() []string {
	return []string{invoice.EventTypeInvoiceReady}
}

// EmploymentCreatedHandler welcomes a newly onboarded employee
type EmploymentCreatedHandler struct {
	service *Service
	logger  *zap.Logger
}

// NewEmploymentCreatedHandler creates a new onboarding welcome handler
func NewEmploymentCreatedHandler(service *Service, logger *zap.Logger) *EmploymentCreatedHandler {
	return &EmploymentCreatedHandler{service: service, logger: logger}
}

// Handle processes an EmploymentCreated event
func (h *EmploymentCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*hr.EmploymentCreatedEvent)
	if !ok {
		return nil
	}

	_, err := h.service.SendDirect(ctx, SendDirectInput{
		TenantID: created.TenantID(),
		Kind:     string(notification.KindSystem),
		Title:    "Welcome aboard",
		Body: fmt.Sprintf("Your employment as %s starts on %s. Complete your profile to finish onboarding.",
			created.Designation,
			created.StartDate.Format("2006-01-02")),
		RecipientIDs: []uuid.UUID{created.UserID},
	})
	return err
}

// EventTypes returns the event types this handler is interested in
func (h *EmploymentCreatedHandler) EventTypes() []string {
	return []string{hr.EventTypeEmploymentCreated}
}

// Interface checks
var (
	_ shared.EventHandler = (*SentHandler)(nil)
	_ shared.EventHandler = (*LeaveDecidedHandler)(nil)
	_ shared.EventHandler = (*InvoiceReadyHandler)(nil)
	_ shared.EventHandler = (*EmploymentCreatedHandler)(nil)
)
