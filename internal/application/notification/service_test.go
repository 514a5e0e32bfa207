package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/domain/notification"
	"github.com/hrm/backend/internal/domain/shared"
)

// MockNotificationRepository is a mock implementation of notification.Repository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]notification.Notification, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]notification.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) FindByKind(ctx context.Context, tenantID uuid.UUID, kind notification.Kind, filter shared.Filter) ([]notification.Notification, int64, error) {
	args := m.Called(ctx, tenantID, kind, filter)
	return args.Get(0).([]notification.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) FindDueScheduled(ctx context.Context, now time.Time, limit int) ([]notification.Notification, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockDeliveryRepository is a mock implementation of notification.DeliveryRepository
type MockDeliveryRepository struct {
	mock.Mock
}

func (m *MockDeliveryRepository) SaveBatch(ctx context.Context, deliveries []*notification.Delivery) error {
	args := m.Called(ctx, deliveries)
	return args.Error(0)
}

func (m *MockDeliveryRepository) FindByUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]notification.Delivery, int64, error) {
	args := m.Called(ctx, tenantID, userID, filter)
	return args.Get(0).([]notification.Delivery), args.Get(1).(int64), args.Error(2)
}

func (m *MockDeliveryRepository) FindByUserAndNotification(ctx context.Context, tenantID, userID, notificationID uuid.UUID) (*notification.Delivery, error) {
	args := m.Called(ctx, tenantID, userID, notificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) CountUnread(ctx context.Context, tenantID, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, delivery *notification.Delivery) error {
	args := m.Called(ctx, delivery)
	return args.Error(0)
}

func (m *MockDeliveryRepository) MarkAllRead(ctx context.Context, tenantID, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func createNotificationService() (*Service, *MockNotificationRepository, *MockDeliveryRepository, *MockEventPublisher) {
	notifRepo := new(MockNotificationRepository)
	deliveryRepo := new(MockDeliveryRepository)
	publisher := new(MockEventPublisher)
	svc := NewService(notifRepo, deliveryRepo, publisher, zap.NewNop())
	return svc, notifRepo, deliveryRepo, publisher
}

func createTestAnnouncement(t *testing.T, tenantID uuid.UUID) *notification.Notification {
	t.Helper()
	n, err := notification.NewAnnouncement(tenantID, uuid.New(), "All hands", "Friday at 3pm.")
	require.NoError(t, err)
	return n
}

func TestNotificationService_CreateAnnouncement_Success(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, notifRepo, _, _ := createNotificationService()

	notifRepo.On("Save", ctx, mock.Anything).Return(nil)

	dto, err := svc.CreateAnnouncement(ctx, CreateAnnouncementInput{
		TenantID: tenantID,
		AuthorID: uuid.New(),
		Title:    "All hands",
		Body:     "Friday at 3pm.",
	})

	require.NoError(t, err)
	assert.Equal(t, "draft", dto.Status)
	assert.Equal(t, "organization", dto.Audience)
	assert.Equal(t, "announcement", dto.Kind)
	notifRepo.AssertExpectations(t)
}

func TestNotificationService_CreateAnnouncement_EmptyTitle(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := createNotificationService()

	dto, err := svc.CreateAnnouncement(ctx, CreateAnnouncementInput{
		TenantID: uuid.New(),
		AuthorID: uuid.New(),
		Title:    "   ",
		Body:     "Body",
	})

	require.Error(t, err)
	assert.Nil(t, dto)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_TITLE", domainErr.Code)
}

func TestNotificationService_Schedule_Success(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, notifRepo, _, _ := createNotificationService()

	n := createTestAnnouncement(t, tenantID)
	at := time.Now().Add(time.Hour)

	notifRepo.On("FindByID", ctx, tenantID, n.ID).Return(n, nil)
	notifRepo.On("Save", ctx, n).Return(nil)

	dto, err := svc.Schedule(ctx, tenantID, n.ID, at)

	require.NoError(t, err)
	assert.Equal(t, "scheduled", dto.Status)
	require.NotNil(t, dto.ScheduledAt)
	assert.True(t, dto.ScheduledAt.Equal(at))
}

func TestNotificationService_Schedule_PastTimeRejected(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, notifRepo, _, _ := createNotificationService()

	n := createTestAnnouncement(t, tenantID)

	notifRepo.On("FindByID", ctx, tenantID, n.ID).Return(n, nil)

	dto, err := svc.Schedule(ctx, tenantID, n.ID, time.Now().Add(-time.Hour))

	require.Error(t, err)
	assert.Nil(t, dto)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_SCHEDULE", domainErr.Code)
}

func TestNotificationService_SendNow_PublishesSentEvent(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, notifRepo, _, publisher := createNotificationService()

	n := createTestAnnouncement(t, tenantID)

	notifRepo.On("FindByID", ctx, tenantID, n.ID).Return(n, nil)
	notifRepo.On("Save", ctx, n).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	dto, err := svc.SendNow(ctx, tenantID, n.ID)

	require.NoError(t, err)
	assert.Equal(t, "sent", dto.Status)
	assert.NotNil(t, dto.SentAt)
	publisher.AssertExpectations(t)
}

func TestNotificationService_SendNow_AlreadySent(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, notifRepo, _, publisher := createNotificationService()

	n := createTestAnnouncement(t, tenantID)
	require.NoError(t, n.MarkSent())
	n.ClearDomainEvents()

	notifRepo.On("FindByID", ctx, tenantID, n.ID).Return(n, nil)

	dto, err := svc.SendNow(ctx, tenantID, n.ID)

	require.Error(t, err)
	assert.Nil(t, dto)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestNotificationService_SendDirect_RequiresRecipients(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := createNotificationService()

	dto, err := svc.SendDirect(ctx, SendDirectInput{
		TenantID: uuid.New(),
		Kind:     "system",
		Title:    "Welcome",
		Body:     "Hello",
	})

	require.Error(t, err)
	assert.Nil(t, dto)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_RECIPIENTS", domainErr.Code)
}

func TestNotificationService_Inbox_JoinsNotificationContent(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	svc, notifRepo, deliveryRepo, _ := createNotificationService()

	n := createTestAnnouncement(t, tenantID)
	require.NoError(t, n.MarkSent())
	n.ClearDomainEvents()

	delivery, err := notification.NewDelivery(tenantID, n.ID, userID)
	require.NoError(t, err)
	filter := shared.DefaultFilter()

	deliveryRepo.On("FindByUser", ctx, tenantID, userID, filter).
		Return([]notification.Delivery{*delivery}, int64(1), nil)
	notifRepo.On("FindByID", ctx, tenantID, n.ID).Return(n, nil)

	page, err := svc.Inbox(ctx, tenantID, userID, filter)

	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "All hands", page.Items[0].Title)
	assert.False(t, page.Items[0].Read)
}

func TestNotificationService_MarkRead_Idempotent(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	svc, _, deliveryRepo, _ := createNotificationService()

	notificationID := uuid.New()
	delivery, err := notification.NewDelivery(tenantID, notificationID, userID)
	require.NoError(t, err)
	delivery.MarkRead()

	deliveryRepo.On("FindByUserAndNotification", ctx, tenantID, userID, notificationID).Return(delivery, nil)

	err = svc.MarkRead(ctx, tenantID, userID, notificationID)

	require.NoError(t, err)
	deliveryRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestNotificationService_UnreadCount(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	svc, _, deliveryRepo, _ := createNotificationService()

	deliveryRepo.On("CountUnread", ctx, tenantID, userID).Return(int64(4), nil)

	count, err := svc.UnreadCount(ctx, tenantID, userID)

	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestNotificationService_DispatchDue_SendsOnlyDue(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, notifRepo, _, publisher := createNotificationService()

	now := time.Now()

	due := createTestAnnouncement(t, tenantID)
	require.NoError(t, due.Schedule(now.Add(time.Minute)))
	past := now.Add(2 * time.Minute)

	notYet := createTestAnnouncement(t, tenantID)
	require.NoError(t, notYet.Schedule(now.Add(time.Hour)))

	notifRepo.On("FindDueScheduled", ctx, past, 50).
		Return([]notification.Notification{*due, *notYet}, nil)
	notifRepo.On("Save", ctx, mock.Anything).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	sent, err := svc.DispatchDue(ctx, past, 50)

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	notifRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestNotificationService_Cancel_ScheduledNotification(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, notifRepo, _, _ := createNotificationService()

	n := createTestAnnouncement(t, tenantID)
	require.NoError(t, n.Schedule(time.Now().Add(time.Hour)))

	notifRepo.On("FindByID", ctx, tenantID, n.ID).Return(n, nil)
	notifRepo.On("Save", ctx, n).Return(nil)

	dto, err := svc.Cancel(ctx, tenantID, n.ID)

	require.NoError(t, err)
	assert.Equal(t, "cancelled", dto.Status)
	assert.Nil(t, dto.ScheduledAt)
}
