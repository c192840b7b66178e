// Package access is the closed role model: which role may take which action on
// which kind of entity. There is no inheritance and no runtime registration.
package access

import (
	"github.com/google/uuid"

	"lapor/internal/domain"
)

type grant struct {
	role   domain.Role
	entity domain.EntityKind
	action domain.Action
}

var grants = map[grant]bool{
	{domain.RoleCitizen, domain.EntityReport, domain.ActionCreate}:     true,
	{domain.RoleCitizen, domain.EntitySuggestion, domain.ActionCreate}: true,

	{domain.RoleOfficer, domain.EntityReport, domain.ActionTransition}:   true,
	{domain.RoleAdmin, domain.EntityReport, domain.ActionTransition}:     true,
	{domain.RoleAdmin, domain.EntitySuggestion, domain.ActionTransition}: true,

	{domain.RoleOfficer, domain.EntityReport, domain.ActionRead}:     true,
	{domain.RoleOfficer, domain.EntitySuggestion, domain.ActionRead}: true,
	{domain.RoleAdmin, domain.EntityReport, domain.ActionRead}:       true,
	{domain.RoleAdmin, domain.EntitySuggestion, domain.ActionRead}:   true,
	{domain.RoleAdmin, domain.EntityProfile, domain.ActionRead}:      true,

	{domain.RoleAdmin, domain.EntityProfile, domain.ActionChangeRole}: true,
}

// Allowed reports whether role may take action on any entity of the kind.
// Reads restricted to owners are answered by CanRead, not here.
func Allowed(role domain.Role, entity domain.EntityKind, action domain.Action) bool {
	return grants[grant{role, entity, action}]
}

func CanTransition(role domain.Role, entity domain.EntityKind) bool {
	return Allowed(role, entity, domain.ActionTransition)
}

// CanRead reports whether actor may see an entity owned by ownerID.
// Citizens see only their own reports and suggestions.
func CanRead(actor domain.Actor, entity domain.EntityKind, ownerID uuid.UUID) bool {
	if Allowed(actor.Role, entity, domain.ActionRead) {
		return true
	}
	if actor.Role != domain.RoleCitizen || entity == domain.EntityProfile {
		return false
	}
	return actor.ID != uuid.Nil && actor.ID == ownerID
}

// ReadsAll reports whether actor lists every entity of the kind rather than
// only the ones it owns.
func ReadsAll(actor domain.Actor, entity domain.EntityKind) bool {
	return Allowed(actor.Role, entity, domain.ActionRead)
}
