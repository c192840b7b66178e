package lifecycle

import (
	"time"

	"github.com/google/uuid"
)

type FieldOp int

const (
	Keep FieldOp = iota
	Set
	Clear
)

// Update describes what happens to one nullable column.
type Update[T any] struct {
	Op    FieldOp
	Value T
}

func SetTo[T any](v T) Update[T] { return Update[T]{Op: Set, Value: v} }

func Cleared[T any]() Update[T] { return Update[T]{Op: Clear} }

// Apply returns the column value after the update.
func (u Update[T]) Apply(cur *T) *T {
	switch u.Op {
	case Set:
		v := u.Value
		return &v
	case Clear:
		return nil
	default:
		return cur
	}
}

// Mutation is the set of fields an accepted transition writes in one update.
type Mutation[S ~string] struct {
	Status     S
	Response   Update[string]
	AssigneeID Update[uuid.UUID]
	UpdatedAt  *time.Time
}

// Fields renders the mutation as column -> value for an update-by-id.
// Cleared columns map to nil; untouched columns are absent.
func (m Mutation[S]) Fields() map[string]any {
	f := map[string]any{"status": string(m.Status)}
	switch m.Response.Op {
	case Set:
		f["response"] = m.Response.Value
	case Clear:
		f["response"] = nil
	}
	switch m.AssigneeID.Op {
	case Set:
		f["assignee_id"] = m.AssigneeID.Value
	case Clear:
		f["assignee_id"] = nil
	}
	if m.UpdatedAt != nil {
		f["updated_at"] = *m.UpdatedAt
	}
	return f
}
