package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCitizen Role = "citizen"
	RoleOfficer Role = "officer"
	RoleAdmin   Role = "admin"
)

var Roles = []Role{RoleCitizen, RoleOfficer, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleOfficer, RoleAdmin:
		return true
	}
	return false
}

// Actor is the caller as seen by the core: an id issued by the identity
// provider and the role currently stored for it.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

type Profile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *Profile) Actor() Actor {
	return Actor{ID: p.ID, Role: p.Role}
}

type ChangeRoleRequest struct {
	Role Role `json:"role" validate:"required,role"`
}

type ListProfilesRequest struct {
	Role string `query:"role" validate:"omitempty,role_filter"`
}

// UpdateProfileRequest is the self-service edit of a profile's contact
// details. An empty phone clears it.
type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,notblank,max=120"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
}
