package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOrganization(t *testing.T) {
	t.Run("creates active organization with defaults", func(t *testing.T) {
		org, err := NewOrganization("Acme-Corp", "  Acme Corporation  ")
		assert.NoError(t, err)
		assert.Equal(t, "acme-corp", org.Slug)
		assert.Equal(t, "Acme Corporation", org.Name)
		assert.Equal(t, OrganizationStatusActive, org.Status)
		assert.Equal(t, 8*3600, org.Settings.WorkDaySeconds)
		assert.Equal(t, "09:00", org.Settings.WorkStartTime)
		assert.Len(t, org.GetDomainEvents(), 1)
	})

	t.Run("rejects bad slug", func(t *testing.T) {
		_, err := NewOrganization("x", "Acme")
		assert.Error(t, err)

		_, err = NewOrganization("has spaces", "Acme")
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewOrganization("acme", "   ")
		assert.Error(t, err)
	})
}

func TestOrganization_UpdateSettings(t *testing.T) {
	org, _ := NewOrganization("acme", "Acme")
	org.ClearDomainEvents()

	t.Run("accepts valid settings", func(t *testing.T) {
		s := DefaultOrganizationSettings()
		s.WorkDaySeconds = 7 * 3600
		s.LateThresholdMinutes = 30
		s.WorkStartTime = "08:30"

		err := org.UpdateSettings(s)
		assert.NoError(t, err)
		assert.Equal(t, 7*3600, org.Settings.WorkDaySeconds)
		assert.Len(t, org.GetDomainEvents(), 1)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		cases := []func(*OrganizationSettings){
			func(s *OrganizationSettings) { s.WorkDaySeconds = 0 },
			func(s *OrganizationSettings) { s.LateThresholdMinutes = -1 },
			func(s *OrganizationSettings) { s.LeaveCycleStartMonth = 13 },
			func(s *OrganizationSettings) { s.AnnualLeaveDays = -1 },
			func(s *OrganizationSettings) { s.WorkStartTime = "9am" },
		}
		for _, mutate := range cases {
			s := DefaultOrganizationSettings()
			mutate(&s)
			assert.Error(t, org.UpdateSettings(s))
		}
	})
}

func TestOrganization_StatusTransitions(t *testing.T) {
	org, _ := NewOrganization("acme", "Acme")

	assert.Error(t, org.Activate())

	assert.NoError(t, org.Suspend())
	assert.False(t, org.IsActive())

	assert.NoError(t, org.Activate())
	assert.True(t, org.IsActive())

	assert.NoError(t, org.Deactivate())
	assert.Error(t, org.Deactivate())
}
