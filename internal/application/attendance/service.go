package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/domain/attendance"
	"github.com/hrm/backend/internal/domain/identity"
	"github.com/hrm/backend/internal/domain/shared"
)

// Service handles check-in, breaks, and checkout. All durations are
// computed from the server clock; the client only reports intent.
type Service struct {
	recordRepo     attendance.Repository
	orgRepo        identity.OrganizationRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewService creates a new attendance service
func NewService(
	recordRepo attendance.Repository,
	orgRepo identity.OrganizationRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		recordRepo:     recordRepo,
		orgRepo:        orgRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
		now:            time.Now,
	}
}

// StartDay opens today's attendance record. Checking in twice on the
// same day is a conflict.
func (s *Service) StartDay(ctx context.Context, input StartDayInput) (*RecordDTO, error) {
	settings, loc, err := s.orgSettings(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	now := s.now().In(loc)
	date := midnight(now)

	existing, err := s.recordRepo.FindByUserAndDate(ctx, input.TenantID, input.UserID, date)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrDuplicateDay
	}

	lateDeadline, err := lateDeadlineFor(date, settings)
	if err != nil {
		return nil, err
	}

	rec, err := attendance.StartDay(input.TenantID, input.UserID, date, now, lateDeadline, attendance.Source(input.Source), input.Location)
	if err != nil {
		return nil, err
	}

	if err := s.recordRepo.Save(ctx, rec); err != nil {
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, s.logger, rec.GetDomainEvents())
	rec.ClearDomainEvents()

	s.logger.Info("Day started",
		zap.String("user_id", input.UserID.String()),
		zap.String("date", rec.Date.Format("2006-01-02")),
		zap.String("status", string(rec.Status)))

	dto := ToRecordDTO(rec, now)
	return &dto, nil
}

// StartBreak pauses today's work timer
func (s *Service) StartBreak(ctx context.Context, tenantID, userID uuid.UUID) (*RecordDTO, error) {
	return s.transition(ctx, tenantID, userID, func(rec *attendance.Record, now time.Time) error {
		return rec.StartBreak(now)
	})
}

// EndBreak resumes today's work timer
func (s *Service) EndBreak(ctx context.Context, tenantID, userID uuid.UUID) (*RecordDTO, error) {
	return s.transition(ctx, tenantID, userID, func(rec *attendance.Record, now time.Time) error {
		return rec.EndBreak(now)
	})
}

// MarkRemote flags today's open record as worked remotely
func (s *Service) MarkRemote(ctx context.Context, tenantID, userID uuid.UUID) (*RecordDTO, error) {
	return s.transition(ctx, tenantID, userID, func(rec *attendance.Record, now time.Time) error {
		return rec.MarkRemote()
	})
}

// EndDay checks out. An open break is closed first, and the final status
// is derived from the organization's full day length.
func (s *Service) EndDay(ctx context.Context, tenantID, userID uuid.UUID) (*RecordDTO, error) {
	settings, loc, err := s.orgSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := s.now().In(loc)
	rec, err := s.recordRepo.FindByUserAndDate(ctx, tenantID, userID, midnight(now))
	if err != nil {
		return nil, err
	}

	if err := rec.EndDay(now, settings.WorkDaySeconds); err != nil {
		return nil, err
	}

	if err := s.recordRepo.Save(ctx, rec); err != nil {
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, s.logger, rec.GetDomainEvents())
	rec.ClearDomainEvents()

	s.logger.Info("Day ended",
		zap.String("user_id", userID.String()),
		zap.Int("work_seconds", rec.WorkSeconds),
		zap.String("status", string(rec.Status)))

	dto := ToRecordDTO(rec, now)
	return &dto, nil
}

// Today returns the state of the current working day, with timers
// reconciled to the request time
func (s *Service) Today(ctx context.Context, tenantID, userID uuid.UUID) (*TodayDTO, error) {
	_, loc, err := s.orgSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := s.now().In(loc)
	rec, err := s.recordRepo.FindByUserAndDate(ctx, tenantID, userID, midnight(now))
	if err != nil {
		if err == shared.ErrNotFound {
			return &TodayDTO{CheckedIn: false}, nil
		}
		return nil, err
	}

	dto := ToRecordDTO(rec, now)
	return &TodayDTO{CheckedIn: true, Record: &dto}, nil
}

// History returns one employee's records over a date range
func (s *Service) History(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]RecordDTO, error) {
	records, err := s.recordRepo.FindByUserInRange(ctx, tenantID, userID, from, to)
	if err != nil {
		return nil, err
	}

	now := s.now()
	dtos := make([]RecordDTO, len(records))
	for i := range records {
		dtos[i] = ToRecordDTO(&records[i], now)
	}

	return dtos, nil
}

// DayRoster returns everyone's records for one day, for HR views
func (s *Service) DayRoster(ctx context.Context, tenantID uuid.UUID, date time.Time, filter shared.Filter) (*shared.Paginated[RecordDTO], error) {
	records, total, err := s.recordRepo.FindByDate(ctx, tenantID, midnight(date), filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	dtos := make([]RecordDTO, len(records))
	for i := range records {
		dtos[i] = ToRecordDTO(&records[i], now)
	}

	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// MonthlySummary aggregates one employee's month: day counts per status
// plus total worked time
func (s *Service) MonthlySummary(ctx context.Context, tenantID, userID uuid.UUID, year, month int) (*MonthlySummaryDTO, error) {
	_, loc, err := s.orgSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 1, 0).Add(-time.Second)

	counts, err := s.recordRepo.CountByStatusInRange(ctx, tenantID, userID, from, to)
	if err != nil {
		return nil, err
	}

	records, err := s.recordRepo.FindByUserInRange(ctx, tenantID, userID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummaryDTO{
		Year:         year,
		Month:        month,
		DaysByStatus: make(map[string]int64, len(counts)),
	}
	for status, n := range counts {
		summary.DaysByStatus[string(status)] = n
	}
	for i := range records {
		summary.TotalWorkSeconds += records[i].WorkSeconds
		summary.TotalBreakSecs += records[i].BreakSeconds
	}

	return summary, nil
}

// CreateManualRecord enters a day record on behalf of an employee
func (s *Service) CreateManualRecord(ctx context.Context, input ManualRecordInput) (*RecordDTO, error) {
	_, loc, err := s.orgSettings(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	date := midnight(input.Date.In(loc))
	existing, err := s.recordRepo.FindByUserAndDate(ctx, input.TenantID, input.UserID, date)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrDuplicateDay
	}

	rec, err := attendance.NewManualRecord(input.TenantID, input.UserID, date, attendance.Status(input.Status), input.WorkSeconds, input.BreakSeconds)
	if err != nil {
		return nil, err
	}

	if err := s.recordRepo.Save(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("Manual record created",
		zap.String("user_id", input.UserID.String()),
		zap.String("date", date.Format("2006-01-02")))

	dto := ToRecordDTO(rec, s.now())
	return &dto, nil
}

// Correct overwrites a record with HR-entered values
func (s *Service) Correct(ctx context.Context, input CorrectRecordInput) (*RecordDTO, error) {
	rec, err := s.recordRepo.FindByID(ctx, input.TenantID, input.RecordID)
	if err != nil {
		return nil, err
	}

	if err := rec.Correct(attendance.Status(input.Status), input.WorkSeconds, input.BreakSeconds); err != nil {
		return nil, err
	}

	if err := s.recordRepo.Save(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("Record corrected",
		zap.String("record_id", rec.ID.String()),
		zap.String("status", string(rec.Status)))

	dto := ToRecordDTO(rec, s.now())
	return &dto, nil
}

// transition loads today's record, applies fn, and saves
func (s *Service) transition(ctx context.Context, tenantID, userID uuid.UUID, fn func(*attendance.Record, time.Time) error) (*RecordDTO, error) {
	_, loc, err := s.orgSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := s.now().In(loc)
	rec, err := s.recordRepo.FindByUserAndDate(ctx, tenantID, userID, midnight(now))
	if err != nil {
		return nil, err
	}

	if err := fn(rec, now); err != nil {
		return nil, err
	}

	if err := s.recordRepo.Save(ctx, rec); err != nil {
		return nil, err
	}

	dto := ToRecordDTO(rec, now)
	return &dto, nil
}

// orgSettings loads the organization's attendance settings and timezone
func (s *Service) orgSettings(ctx context.Context, tenantID uuid.UUID) (identity.OrganizationSettings, *time.Location, error) {
	org, err := s.orgRepo.FindByID(ctx, tenantID)
	if err != nil {
		return identity.OrganizationSettings{}, nil, err
	}

	loc, err := time.LoadLocation(org.Settings.Timezone)
	if err != nil {
		s.logger.Warn("Invalid organization timezone, falling back to UTC",
			zap.String("timezone", org.Settings.Timezone))
		loc = time.UTC
	}

	return org.Settings, loc, nil
}

// lateDeadlineFor computes work start plus the late threshold for a day
func lateDeadlineFor(date time.Time, settings identity.OrganizationSettings) (time.Time, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(settings.WorkStartTime, "%d:%d", &hour, &minute); err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_SETTINGS", "Organization work start time is malformed")
	}

	start := date.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	return start.Add(time.Duration(settings.LateThresholdMinutes) * time.Minute), nil
}

// midnight truncates a time to the start of its day in its location
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
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
