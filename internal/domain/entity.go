package domain

// EntityKind names the things the role model grants actions on.
type EntityKind string

const (
	EntityReport     EntityKind = "report"
	EntitySuggestion EntityKind = "suggestion"
	EntityProfile    EntityKind = "profile"
)

type Action string

const (
	ActionCreate     Action = "create"
	ActionRead       Action = "read"
	ActionTransition Action = "transition"
	ActionChangeRole Action = "change_role"
)

// FilterAll disables a status, category or role filter.
const FilterAll = "all"
