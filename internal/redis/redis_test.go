//go:build integration

package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"lapor/internal/domain"
	"lapor/pkg/e"
)

var testRedis *Redis

func TestMain(m *testing.M) {
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		fmt.Println("cannot start container:", err)
		os.Exit(1)
	}

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "6379/tcp")
	testRedis = &Redis{Client: goredis.NewClient(&goredis.Options{Addr: host + ":" + port.Port()})}

	code := m.Run()

	_ = testRedis.Close()
	_ = c.Terminate(ctx)
	os.Exit(code)
}

func TestListCache_MissSetInvalidate(t *testing.T) {
	ctx := context.Background()
	cache := NewReportCache(testRedis, time.Minute)
	_ = cache.Invalidate(ctx)

	_, gen, ok, err := cache.Get(ctx)
	if err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}

	in := []*domain.Report{{ID: uuid.New(), Title: "a", Status: domain.ReportPending}}
	if err := cache.Set(ctx, gen, in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, _, ok, err := cache.Get(ctx)
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0].ID != in[0].ID {
		t.Fatalf("unexpected cached list: %+v", got)
	}

	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, _, ok, _ := cache.Get(ctx); ok {
		t.Fatalf("expected miss after invalidate")
	}
}

func TestListCache_SetAfterInvalidateIsDropped(t *testing.T) {
	ctx := context.Background()
	cache := NewSuggestionCache(testRedis, time.Minute)
	_ = cache.Invalidate(ctx)

	_, gen, ok, err := cache.Get(ctx)
	if err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}

	// A transition lands while the reader is still loading from the store.
	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	old := []*domain.Suggestion{{ID: uuid.New(), Status: domain.SuggestionPending}}
	if err := cache.Set(ctx, gen, old); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, _, ok, _ := cache.Get(ctx); ok {
		t.Fatalf("list read before the invalidation must not be cached")
	}

	_, gen, _, _ = cache.Get(ctx)
	fresh := []*domain.Suggestion{{ID: uuid.New(), Status: domain.SuggestionApproved}}
	if err := cache.Set(ctx, gen, fresh); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _, ok, err := cache.Get(ctx)
	if err != nil || !ok || got[0].ID != fresh[0].ID {
		t.Fatalf("expected fresh list cached, ok=%v err=%v", ok, err)
	}
}

func TestAuditQueue_FIFOAndEmpty(t *testing.T) {
	ctx := context.Background()
	q := NewAuditQueue(testRedis.Client, "test:audit:"+uuid.NewString())

	first := domain.StatusChange{ID: uuid.New(), Entity: domain.EntityReport, From: "pending", To: "in_progress"}
	second := domain.StatusChange{ID: uuid.New(), Entity: domain.EntityReport, From: "in_progress", To: "resolved"}
	for _, c := range []domain.StatusChange{first, second} {
		if err := q.Enqueue(ctx, c); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}

	got, err := q.BRPop(ctx, time.Second)
	if err != nil || got.ID != first.ID {
		t.Fatalf("expected first change, got %v err=%v", got.ID, err)
	}

	if err := q.Requeue(ctx, got); err != nil {
		t.Fatalf("Requeue: %v", err)
	}
	got, _ = q.BRPop(ctx, time.Second)
	if got.ID != first.ID {
		t.Fatalf("requeued change must be popped next")
	}
	got, _ = q.BRPop(ctx, time.Second)
	if got.ID != second.ID {
		t.Fatalf("expected second change")
	}

	_, err = q.BRPop(ctx, time.Second)
	if !errors.Is(err, e.ErrAuditQueueEmpty) {
		t.Fatalf("expected ErrAuditQueueEmpty, got %v", err)
	}
}
