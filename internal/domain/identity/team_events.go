package identity

import (
	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/shared"
)

// Aggregate type constant for Team
const AggregateTypeTeam = "Team"

// Team domain event types
const (
	EventTypeTeamCreated = "TeamCreated"
)

// TeamCreatedEvent is published when a team is created
type TeamCreatedEvent struct {
	shared.BaseDomainEvent
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	DepartmentID uuid.UUID `json:"department_id"`
}

// NewTeamCreatedEvent creates a new TeamCreatedEvent
func NewTeamCreatedEvent(team *Team) *TeamCreatedEvent {
	return &TeamCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTeamCreated, AggregateTypeTeam, team.ID, team.TenantID),
		Code:            team.Code,
		Name:            team.Name,
		DepartmentID:    team.DepartmentID,
	}
}
