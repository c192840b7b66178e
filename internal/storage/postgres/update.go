package postgres

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"lapor/pkg/e"
)

// buildUpdate renders an update-by-id from a column -> value map. Only columns
// in allowed may be written; nil values become NULL.
func buildUpdate(table string, allowed []string, id uuid.UUID, fields map[string]any, returning string) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("%s: empty update: %w", table, e.ErrInvalidInput)
	}

	cols := make([]string, 0, len(fields))
	for col := range fields {
		if !slices.Contains(allowed, col) {
			return "", nil, fmt.Errorf("%s: column %q is not writable: %w", table, col, e.ErrInvalidInput)
		}
		cols = append(cols, col)
	}
	slices.Sort(cols)

	args := []any{id}
	sets := make([]string, 0, len(cols))
	for _, col := range cols {
		args = append(args, fields[col])
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1 RETURNING %s",
		table, strings.Join(sets, ", "), returning)
	return query, args, nil
}
