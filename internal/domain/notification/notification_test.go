package notification

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewAnnouncement(t *testing.T) {
	t.Run("creates org-wide draft", func(t *testing.T) {
		n, err := NewAnnouncement(uuid.New(), uuid.New(), "  Office closed  ", "Closed on Friday")
		assert.NoError(t, err)
		assert.Equal(t, AudienceOrganization, n.Audience)
		assert.Equal(t, KindAnnouncement, n.Kind)
		assert.Equal(t, StatusDraft, n.Status)
		assert.Equal(t, "Office closed", n.Title)
		assert.NotNil(t, n.GetCreatedBy())
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := NewAnnouncement(uuid.New(), uuid.New(), "   ", "body")
		assert.Error(t, err)
	})
}

func TestNewDirect(t *testing.T) {
	t.Run("requires recipients", func(t *testing.T) {
		_, err := NewDirect(uuid.New(), KindLeave, "Leave approved", "", nil)
		assert.Error(t, err)
	})

	t.Run("individual audience", func(t *testing.T) {
		n, err := NewDirect(uuid.New(), KindInvoice, "Invoice ready", "", []uuid.UUID{uuid.New()})
		assert.NoError(t, err)
		assert.Equal(t, AudienceIndividual, n.Audience)
		assert.Len(t, n.RecipientIDs, 1)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := NewDirect(uuid.New(), Kind("carrier"), "x", "", []uuid.UUID{uuid.New()})
		assert.Error(t, err)
	})
}

func TestNotification_Lifecycle(t *testing.T) {
	t.Run("schedule and send", func(t *testing.T) {
		n, _ := NewAnnouncement(uuid.New(), uuid.New(), "Town hall", "Details soon")

		at := time.Now().Add(time.Hour)
		assert.NoError(t, n.Schedule(at))
		assert.Equal(t, StatusScheduled, n.Status)
		assert.False(t, n.IsDue(time.Now()))
		assert.True(t, n.IsDue(at.Add(time.Second)))

		// Reschedule is allowed
		assert.NoError(t, n.Schedule(at.Add(time.Hour)))

		assert.NoError(t, n.MarkSent())
		assert.Equal(t, StatusSent, n.Status)
		assert.Nil(t, n.ScheduledAt)
		assert.NotNil(t, n.SentAt)
		assert.Len(t, n.GetDomainEvents(), 1)
	})

	t.Run("cannot schedule in the past", func(t *testing.T) {
		n, _ := NewAnnouncement(uuid.New(), uuid.New(), "Town hall", "")
		assert.Error(t, n.Schedule(time.Now().Add(-time.Minute)))
	})

	t.Run("sent is terminal", func(t *testing.T) {
		n, _ := NewAnnouncement(uuid.New(), uuid.New(), "Town hall", "")
		_ = n.MarkSent()

		assert.Error(t, n.MarkSent())
		assert.Error(t, n.Cancel())
		assert.Error(t, n.UpdateDraft("new", ""))
		assert.Error(t, n.Schedule(time.Now().Add(time.Hour)))
	})

	t.Run("cancel scheduled", func(t *testing.T) {
		n, _ := NewAnnouncement(uuid.New(), uuid.New(), "Town hall", "")
		_ = n.Schedule(time.Now().Add(time.Hour))
		assert.NoError(t, n.Cancel())
		assert.Equal(t, StatusCancelled, n.Status)
		assert.Nil(t, n.ScheduledAt)
	})
}

func TestDelivery(t *testing.T) {
	t.Run("read marker is idempotent", func(t *testing.T) {
		d, err := NewDelivery(uuid.New(), uuid.New(), uuid.New())
		assert.NoError(t, err)
		assert.False(t, d.IsRead())

		d.MarkRead()
		assert.True(t, d.IsRead())
		first := *d.ReadAt

		d.MarkRead()
		assert.Equal(t, first, *d.ReadAt)
	})

	t.Run("requires notification and user", func(t *testing.T) {
		_, err := NewDelivery(uuid.New(), uuid.Nil, uuid.New())
		assert.Error(t, err)

		_, err = NewDelivery(uuid.New(), uuid.New(), uuid.Nil)
		assert.Error(t, err)
	})
}
