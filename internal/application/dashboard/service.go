package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/domain/attendance"
	"github.com/hrm/backend/internal/domain/hr"
	"github.com/hrm/backend/internal/domain/leave"
	"github.com/hrm/backend/internal/domain/notification"
	"github.com/hrm/backend/internal/domain/shared"
)

// OverviewDTO is the HR landing page summary
type OverviewDTO struct {
	ActiveEmployees int64            `json:"active_employees"`
	PresentToday    int64            `json:"present_today"`
	PendingLeave    int64            `json:"pending_leave"`
	TodayByStatus   map[string]int64 `json:"today_by_status"`
}

// MyDayDTO is the employee landing page summary
type MyDayDTO struct {
	CheckedIn      bool  `json:"checked_in"`
	OnBreak        bool  `json:"on_break"`
	WorkSeconds    int   `json:"work_seconds"`
	BreakSeconds   int   `json:"break_seconds"`
	PendingLeave   int64 `json:"pending_leave"`
	UnreadMessages int64 `json:"unread_messages"`
}

// Service aggregates cross-module read models for the landing pages
type Service struct {
	employmentRepo hr.EmploymentRepository
	attendanceRepo attendance.Repository
	leaveRepo      leave.RequestRepository
	deliveryRepo   notification.DeliveryRepository
	logger         *zap.Logger
}

// NewService creates a new dashboard service
func NewService(
	employmentRepo hr.EmploymentRepository,
	attendanceRepo attendance.Repository,
	leaveRepo leave.RequestRepository,
	deliveryRepo notification.DeliveryRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		employmentRepo: employmentRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		deliveryRepo:   deliveryRepo,
		logger:         logger,
	}
}

// Overview returns the HR summary for one organization
func (s *Service) Overview(ctx context.Context, tenantID uuid.UUID) (*OverviewDTO, error) {
	headcount, err := s.employmentRepo.CountActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	filter := shared.DefaultFilter()
	filter.PageSize = 1
	_, presentToday, err := s.attendanceRepo.FindByDate(ctx, tenantID, today, filter)
	if err != nil {
		return nil, err
	}

	counts, err := s.attendanceRepo.CountByStatusInRange(ctx, tenantID, uuid.Nil, today, today.AddDate(0, 0, 1).Add(-time.Second))
	if err != nil {
		return nil, err
	}
	byStatus := make(map[string]int64, len(counts))
	for status, n := range counts {
		byStatus[string(status)] = n
	}

	pendingFilter := shared.DefaultFilter()
	pendingFilter.PageSize = 1
	_, pendingLeave, err := s.leaveRepo.FindByStatus(ctx, tenantID,
		[]leave.RequestStatus{leave.RequestStatusPending, leave.RequestStatusProcessing}, pendingFilter)
	if err != nil {
		return nil, err
	}

	return &OverviewDTO{
		ActiveEmployees: headcount,
		PresentToday:    presentToday,
		PendingLeave:    pendingLeave,
		TodayByStatus:   byStatus,
	}, nil
}

// MyDay returns the personal summary for one employee
func (s *Service) MyDay(ctx context.Context, tenantID, userID uuid.UUID) (*MyDayDTO, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	dto := &MyDayDTO{}

	rec, err := s.attendanceRepo.FindByUserAndDate(ctx, tenantID, userID, today)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if rec != nil {
		work, brk := rec.LiveTotals(now)
		dto.CheckedIn = rec.IsOpen()
		dto.OnBreak = rec.IsOnBreak()
		dto.WorkSeconds = work
		dto.BreakSeconds = brk
	}

	pending, err := s.leaveRepo.CountPendingByUser(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	dto.PendingLeave = pending

	unread, err := s.deliveryRepo.CountUnread(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	dto.UnreadMessages = unread

	return dto, nil
}
