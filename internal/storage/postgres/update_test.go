package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"lapor/pkg/e"
)

func TestBuildUpdate(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	now := time.Date(2025, 12, 23, 12, 0, 0, 0, time.UTC)

	query, args, err := buildUpdate("reports", reportWritable, id, map[string]any{
		"status":      "pending",
		"response":    nil,
		"assignee_id": nil,
		"updated_at":  now,
	}, "id")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	want := "UPDATE reports SET assignee_id = $2, response = $3, status = $4, updated_at = $5 WHERE id = $1 RETURNING id"
	if query != want {
		t.Fatalf("query mismatch:\n got=%s\nwant=%s", query, want)
	}
	if len(args) != 5 || args[0] != id || args[1] != nil || args[2] != nil || args[3] != "pending" || args[4] != now {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildUpdate_Rejects(t *testing.T) {
	t.Parallel()

	if _, _, err := buildUpdate("reports", reportWritable, uuid.New(), nil, "id"); !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty update, got %v", err)
	}
	_, _, err := buildUpdate("reports", reportWritable, uuid.New(), map[string]any{"reporter_id": uuid.New()}, "id")
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for immutable column, got %v", err)
	}
	_, _, err = buildUpdate("suggestions", suggestionWritable, uuid.New(), map[string]any{"updated_at": time.Now()}, "id")
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("suggestions have no updated_at column, got %v", err)
	}
}
