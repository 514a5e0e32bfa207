package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrm/backend/internal/domain/identity"
	"github.com/hrm/backend/internal/domain/leave"
	"github.com/hrm/backend/internal/domain/notification"
)

func TestEventSerializer_RoundTrip(t *testing.T) {
	s := NewEventSerializer()
	s.Register("ThingHappened", &testEvent{})

	original := newTestEvent("ThingHappened", "hello")

	data, err := s.Serialize(original)
	require.NoError(t, err)

	restored, err := s.Deserialize("ThingHappened", data)
	require.NoError(t, err)

	restoredEvent, ok := restored.(*testEvent)
	require.True(t, ok)
	assert.Equal(t, original.Payload, restoredEvent.Payload)
	assert.Equal(t, original.EventID(), restoredEvent.EventID())
	assert.Equal(t, original.AggregateID(), restoredEvent.AggregateID())
	assert.Equal(t, original.TenantID(), restoredEvent.TenantID())
}

func TestEventSerializer_UnknownType(t *testing.T) {
	s := NewEventSerializer()
	_, err := s.Deserialize("Unregistered", []byte(`{}`))
	assert.Error(t, err)
}

func TestRegisterDomainEvents(t *testing.T) {
	s := NewEventSerializer()
	RegisterDomainEvents(s)

	for _, eventType := range []string{
		identity.EventTypeUserCreated,
		leave.EventTypeRequestSubmitted,
		leave.EventTypeRequestDecided,
		notification.EventTypeNotificationSent,
	} {
		assert.True(t, s.IsRegistered(eventType), eventType)
	}
}
