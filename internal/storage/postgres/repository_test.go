//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"lapor/internal/domain"
	"lapor/internal/lifecycle"
	"lapor/pkg/e"
	"lapor/pkg/logger"
)

var (
	testPool *pgxpool.Pool
	tc       testcontainers.Container
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	user := "postgres"
	pass := "postgres"
	db := "postgres"

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": pass,
			"POSTGRES_DB":       db,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(90 * time.Second),
	}

	var err error
	tc, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Println("cannot start container:", err)
		os.Exit(1)
	}

	host, _ := tc.Host(ctx)
	mappedPort, _ := tc.MappedPort(ctx, "5432/tcp")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, mappedPort.Port(), db)

	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Println("pgxpool.New:", err)
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if err := testPool.Ping(ctx); err != nil {
		fmt.Println("pool.Ping:", err)
		testPool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if err := Migrate(ctx, testPool); err != nil {
		fmt.Println("Migrate:", err)
		testPool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()

	testPool.Close()
	_ = tc.Terminate(ctx)
	os.Exit(code)
}

func truncateAll(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), `TRUNCATE TABLE status_changes, reports, suggestions, profiles`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

func newProfile(t *testing.T, pg *Postgres, role domain.Role) *domain.Profile {
	t.Helper()
	p := &domain.Profile{Email: uuid.NewString() + "@lapor.test", Role: role}
	if err := pg.Profile.Create(context.Background(), p); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return p
}

func newReport(t *testing.T, pg *Postgres, reporter uuid.UUID, createdAt time.Time) *domain.Report {
	t.Helper()
	r := &domain.Report{
		ReporterID:  reporter,
		Category:    domain.ReportInfrastructure,
		Title:       "Jalan berlubang",
		Description: "Lubang besar di depan pasar",
		PhotoRef:    "photos/1.jpg",
		Location:    domain.Location{Latitude: -6.2, Longitude: 106.8, Address: "Jl. Merdeka"},
		Status:      domain.ReportPending,
		CreatedAt:   createdAt,
	}
	if err := pg.Report.Create(context.Background(), r); err != nil {
		t.Fatalf("create report: %v", err)
	}
	return r
}

func TestReportRepo_CreateGet_RoundTrip(t *testing.T) {
	truncateAll(t)
	pg := New(testPool, logger.Discard())

	citizen := newProfile(t, pg, domain.RoleCitizen)
	r := newReport(t, pg, citizen.ID, time.Time{})

	if r.ID == uuid.Nil || r.CreatedAt.IsZero() || r.UpdatedAt.IsZero() {
		t.Fatalf("expected defaults set, got %+v", r)
	}

	got, err := pg.Report.Get(context.Background(), r.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Location != r.Location {
		t.Fatalf("location mismatch got=%+v want=%+v", got.Location, r.Location)
	}
	if got.Status != domain.ReportPending || got.Response != nil || got.AssigneeID != nil {
		t.Fatalf("unexpected fresh report: %+v", got)
	}
}

func TestReportRepo_Get_NotFound(t *testing.T) {
	truncateAll(t)
	pg := New(testPool, logger.Discard())

	_, err := pg.Report.Get(context.Background(), uuid.New())
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestReportRepo_ListByReporter_NewestFirst(t *testing.T) {
	truncateAll(t)
	pg := New(testPool, logger.Discard())

	a := newProfile(t, pg, domain.RoleCitizen)
	b := newProfile(t, pg, domain.RoleCitizen)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		newReport(t, pg, a.ID, base.Add(time.Duration(i)*time.Hour))
	}
	newReport(t, pg, b.ID, base)

	own, err := pg.Report.ListByReporter(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("ListByReporter: %v", err)
	}
	if len(own) != 3 {
		t.Fatalf("expected 3, got %d", len(own))
	}
	if own[0].CreatedAt.Before(own[1].CreatedAt) {
		t.Fatalf("expected DESC order by created_at")
	}

	all, err := pg.Report.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4, got %d", len(all))
	}
}

func TestReportRepo_ApplyFields_EngineMutation(t *testing.T) {
	truncateAll(t)
	pg := New(testPool, logger.Discard())

	citizen := newProfile(t, pg, domain.RoleCitizen)
	officer := newProfile(t, pg, domain.RoleOfficer)
	r := newReport(t, pg, citizen.ID, time.Time{})

	en := lifecycle.NewReportEngine(true)
	m, err := lifecycle.TransitionReport(en, r, officer.Actor(), domain.ReportInProgress, "Petugas menuju lokasi")
	if err != nil {
		t.Fatalf("transition: %v", err)
	}

	got, err := pg.Report.ApplyFields(context.Background(), r.ID, m.Fields())
	if err != nil {
		t.Fatalf("ApplyFields: %v", err)
	}
	if got.Status != domain.ReportInProgress {
		t.Fatalf("status=%s", got.Status)
	}
	if got.AssigneeID == nil || *got.AssigneeID != officer.ID {
		t.Fatalf("assignee not stored: %v", got.AssigneeID)
	}
	if got.Response == nil || *got.Response != "Petugas menuju lokasi" {
		t.Fatalf("response not stored: %v", got.Response)
	}

	// reopen clears response and assignee
	m, err = lifecycle.TransitionReport(en, got, officer.Actor(), domain.ReportPending, "")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err = pg.Report.ApplyFields(context.Background(), r.ID, m.Fields())
	if err != nil {
		t.Fatalf("ApplyFields reopen: %v", err)
	}
	if got.Response != nil || got.AssigneeID != nil {
		t.Fatalf("expected cleared response/assignee, got %+v", got)
	}
}

func TestReportRepo_ApplyFields_NotFound(t *testing.T) {
	truncateAll(t)
	pg := New(testPool, logger.Discard())

	_, err := pg.Report.ApplyFields(context.Background(), uuid.New(), map[string]any{"status": domain.ReportRejected})
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestSuggestionRepo_Transition(t *testing.T) {
	truncateAll(t)
	pg := New(testPool, logger.Discard())

	citizen := newProfile(t, pg, domain.RoleCitizen)
	admin := newProfile(t, pg, domain.RoleAdmin)

	s := &domain.Suggestion{
		SubmitterID: citizen.ID,
		Category:    domain.SuggestionPublicService,
		Title:       "Perpanjang jam layanan",
		Description: "Buka kantor kelurahan sampai sore",
		Status:      domain.SuggestionPending,
	}
	if err := pg.Suggestion.Create(context.Background(), s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	m, err := lifecycle.TransitionSuggestion(lifecycle.NewSuggestionEngine(), s, admin.Actor(), domain.SuggestionApproved, "ok")
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	got, err := pg.Suggestion.ApplyFields(context.Background(), s.ID, m.Fields())
	if err != nil {
		t.Fatalf("ApplyFields: %v", err)
	}
	if got.Status != domain.SuggestionApproved || got.Response == nil || *got.Response != "ok" {
		t.Fatalf("unexpected row: %+v", got)
	}

	own, err := pg.Suggestion.ListBySubmitter(context.Background(), citizen.ID)
	if err != nil || len(own) != 1 {
		t.Fatalf("ListBySubmitter: len=%d err=%v", len(own), err)
	}
}

func TestSuggestionRepo_ShortDescription_Rejected(t *testing.T) {
	truncateAll(t)
	pg := New(testPool, logger.Discard())

	citizen := newProfile(t, pg, domain.RoleCitizen)
	s := &domain.Suggestion{
		SubmitterID: citizen.ID,
		Category:    domain.SuggestionOther,
		Title:       "x",
		Description: "short",
		Status:      domain.SuggestionPending,
	}
	err := pg.Suggestion.Create(context.Background(), s)
	if !errors.Is(err, e.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got: %v", err)
	}
}

func TestProfileRepo_ListAndUpdateRole(t *testing.T) {
	truncateAll(t)
	pg := New(testPool, logger.Discard())

	c := newProfile(t, pg, domain.RoleCitizen)
	newProfile(t, pg, domain.RoleOfficer)

	citizens, err := pg.Profile.List(context.Background(), domain.RoleCitizen)
	if err != nil || len(citizens) != 1 {
		t.Fatalf("List citizens: len=%d err=%v", len(citizens), err)
	}
	all, err := pg.Profile.List(context.Background(), "")
	if err != nil || len(all) != 2 {
		t.Fatalf("List all: len=%d err=%v", len(all), err)
	}

	got, err := pg.Profile.UpdateRole(context.Background(), c.ID, domain.RoleOfficer)
	if err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	if got.Role != domain.RoleOfficer {
		t.Fatalf("role=%s", got.Role)
	}

	_, err = pg.Profile.UpdateRole(context.Background(), uuid.New(), domain.RoleAdmin)
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestProfileRepo_DuplicateEmail(t *testing.T) {
	truncateAll(t)
	pg := New(testPool, logger.Discard())

	p := newProfile(t, pg, domain.RoleCitizen)
	err := pg.Profile.Create(context.Background(), &domain.Profile{Email: p.Email})
	if !errors.Is(err, e.ErrUniqueViolation) {
		t.Fatalf("expected ErrUniqueViolation, got: %v", err)
	}
}

func TestProfileRepo_UpdateDetails(t *testing.T) {
	truncateAll(t)
	pg := New(testPool, logger.Discard())

	p := newProfile(t, pg, domain.RoleCitizen)
	phone := "081234567890"

	got, err := pg.Profile.UpdateDetails(context.Background(), p.ID, "Siti Aminah", &phone)
	if err != nil {
		t.Fatalf("UpdateDetails: %v", err)
	}
	if got.FullName == nil || *got.FullName != "Siti Aminah" || got.Phone == nil || *got.Phone != phone {
		t.Fatalf("unexpected profile %+v", got)
	}
	if got.Role != domain.RoleCitizen || got.Email != p.Email {
		t.Fatalf("role and email must not change: %+v", got)
	}

	got, err = pg.Profile.UpdateDetails(context.Background(), p.ID, "Siti Aminah", nil)
	if err != nil {
		t.Fatalf("UpdateDetails clear phone: %v", err)
	}
	if got.Phone != nil {
		t.Fatalf("expected phone cleared, got %q", *got.Phone)
	}

	_, err = pg.Profile.UpdateDetails(context.Background(), uuid.New(), "x", nil)
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestHistoryRepo_SaveIdempotent_Ordered(t *testing.T) {
	truncateAll(t)
	pg := New(testPool, logger.Discard())

	entityID := uuid.New()
	actor := uuid.New()
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	second := &domain.StatusChange{
		ID: uuid.New(), Entity: domain.EntityReport, EntityID: entityID, ActorID: actor,
		From: "in_progress", To: "resolved", ChangedAt: base.Add(time.Hour),
	}
	first := &domain.StatusChange{
		ID: uuid.New(), Entity: domain.EntityReport, EntityID: entityID, ActorID: actor,
		From: "pending", To: "in_progress", ChangedAt: base,
	}
	for _, c := range []*domain.StatusChange{second, first, second} {
		if err := pg.StatusTrail.Save(context.Background(), c); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	trail, err := pg.StatusTrail.ListForEntity(context.Background(), domain.EntityReport, entityID)
	if err != nil {
		t.Fatalf("ListForEntity: %v", err)
	}
	if len(trail) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(trail))
	}
	if trail[0].ID != first.ID || trail[1].ID != second.ID {
		t.Fatalf("expected oldest first")
	}
}
