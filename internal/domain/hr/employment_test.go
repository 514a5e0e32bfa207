package hr

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newTestEmployment(t *testing.T) *Employment {
	t.Helper()
	emp, err := NewEmployment(uuid.New(), uuid.New(), "emp-001", "Software Engineer", EmploymentTypeFullTime, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	return emp
}

func TestNewEmployment(t *testing.T) {
	t.Run("starts in onboarding", func(t *testing.T) {
		emp := newTestEmployment(t)
		assert.Equal(t, "EMP-001", emp.EmployeeCode)
		assert.Equal(t, EmploymentStatusOnboarding, emp.Status)
		assert.True(t, emp.Compensation.BaseSalary.IsZero())
		assert.Len(t, emp.GetDomainEvents(), 1)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := NewEmployment(uuid.New(), uuid.Nil, "EMP-001", "Engineer", EmploymentTypeFullTime, time.Now())
		assert.Error(t, err)

		_, err = NewEmployment(uuid.New(), uuid.New(), "bad code", "Engineer", EmploymentTypeFullTime, time.Now())
		assert.Error(t, err)

		_, err = NewEmployment(uuid.New(), uuid.New(), "EMP-001", "", EmploymentTypeFullTime, time.Now())
		assert.Error(t, err)

		_, err = NewEmployment(uuid.New(), uuid.New(), "EMP-001", "Engineer", EmploymentType("gig"), time.Now())
		assert.Error(t, err)

		_, err = NewEmployment(uuid.New(), uuid.New(), "EMP-001", "Engineer", EmploymentTypeFullTime, time.Time{})
		assert.Error(t, err)
	})
}

func TestEmployment_Lifecycle(t *testing.T) {
	t.Run("onboarding to active to on leave and back", func(t *testing.T) {
		emp := newTestEmployment(t)

		assert.Error(t, emp.MarkOnLeave())
		assert.NoError(t, emp.Activate())
		assert.Error(t, emp.Activate())

		assert.NoError(t, emp.MarkOnLeave())
		assert.Equal(t, EmploymentStatusOnLeave, emp.Status)
		assert.True(t, emp.IsActive())

		assert.NoError(t, emp.Resume())
		assert.Equal(t, EmploymentStatusActive, emp.Status)
	})

	t.Run("terminate", func(t *testing.T) {
		emp := newTestEmployment(t)
		_ = emp.Activate()

		assert.Error(t, emp.Terminate(emp.StartDate.AddDate(0, 0, -1)))

		end := emp.StartDate.AddDate(1, 0, 0)
		assert.NoError(t, emp.Terminate(end))
		assert.Equal(t, EmploymentStatusTerminated, emp.Status)
		assert.Equal(t, end, *emp.TerminationDate)
		assert.False(t, emp.IsActive())

		assert.Error(t, emp.Terminate(end))
	})
}

func TestEmployment_Assignments(t *testing.T) {
	emp := newTestEmployment(t)

	t.Run("changing department clears team", func(t *testing.T) {
		deptA := uuid.New()
		team := uuid.New()
		emp.AssignDepartment(&deptA)
		emp.AssignTeam(&team)
		assert.NotNil(t, emp.TeamID)

		deptB := uuid.New()
		emp.AssignDepartment(&deptB)
		assert.Nil(t, emp.TeamID)
	})

	t.Run("cannot manage self", func(t *testing.T) {
		err := emp.AssignManager(&emp.UserID)
		assert.Error(t, err)

		manager := uuid.New()
		assert.NoError(t, emp.AssignManager(&manager))
	})
}

func TestEmployment_UpdateCompensation(t *testing.T) {
	emp := newTestEmployment(t)

	t.Run("accepts valid compensation", func(t *testing.T) {
		err := emp.UpdateCompensation(Compensation{
			BaseSalary:   decimal.NewFromInt(90000),
			Currency:     "eur",
			PayFrequency: PayFrequencyMonthly,
			CustomFields: map[string]string{"transport_allowance": "150"},
		})
		assert.NoError(t, err)
		assert.Equal(t, "EUR", emp.Compensation.Currency)
		assert.Equal(t, "150", emp.Compensation.CustomFields["transport_allowance"])
	})

	t.Run("rejects invalid compensation", func(t *testing.T) {
		err := emp.UpdateCompensation(Compensation{
			BaseSalary:   decimal.NewFromInt(-1),
			Currency:     "USD",
			PayFrequency: PayFrequencyMonthly,
		})
		assert.Error(t, err)

		err = emp.UpdateCompensation(Compensation{
			BaseSalary:   decimal.NewFromInt(1),
			Currency:     "DOLLARS",
			PayFrequency: PayFrequencyMonthly,
		})
		assert.Error(t, err)

		err = emp.UpdateCompensation(Compensation{
			BaseSalary:   decimal.NewFromInt(1),
			Currency:     "USD",
			PayFrequency: PayFrequency("daily"),
		})
		assert.Error(t, err)
	})
}

func TestProfile(t *testing.T) {
	t.Run("create and full name", func(t *testing.T) {
		p, err := NewProfile(uuid.New(), uuid.New(), " Jane ", " Doe ")
		assert.NoError(t, err)
		assert.Equal(t, "Jane Doe", p.FullName())
		assert.Equal(t, WorkModelOnsite, p.WorkModel)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := NewProfile(uuid.New(), uuid.Nil, "Jane", "Doe")
		assert.Error(t, err)

		p, _ := NewProfile(uuid.New(), uuid.New(), "Jane", "Doe")
		assert.Error(t, p.SetPhone("abc"))
		assert.NoError(t, p.SetPhone("+1 (415) 555-0100"))

		future := time.Now().Add(24 * time.Hour)
		assert.Error(t, p.SetDateOfBirth(&future))

		assert.Error(t, p.SetWorkModel(WorkModel("nomad")))
		assert.NoError(t, p.SetWorkModel(WorkModelHybrid))
	})

	t.Run("photo lifecycle", func(t *testing.T) {
		p, _ := NewProfile(uuid.New(), uuid.New(), "Jane", "Doe")
		assert.NoError(t, p.SetPhotoKey("profiles/abc.jpg"))
		assert.Equal(t, "profiles/abc.jpg", p.PhotoKey)
		p.ClearPhoto()
		assert.Empty(t, p.PhotoKey)
	})
}
