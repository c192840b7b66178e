package domain

import (
	"time"

	"github.com/google/uuid"
)

// StatusChange is one accepted transition, written to the audit trail.
type StatusChange struct {
	ID        uuid.UUID  `json:"id"`
	Entity    EntityKind `json:"entity"`
	EntityID  uuid.UUID  `json:"entity_id"`
	ActorID   uuid.UUID  `json:"actor_id"`
	From      string     `json:"from"`
	To        string     `json:"to"`
	Response  *string    `json:"response,omitempty"`
	ChangedAt time.Time  `json:"changed_at"`
}
