package lifecycle_test

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lapor/internal/domain"
	"lapor/internal/lifecycle"
	"lapor/pkg/e"
)

var fixedNow = time.Date(2025, 12, 23, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func strptr(s string) *string { return &s }

func newReportEngine(t *testing.T, reopen bool) *lifecycle.ReportEngine {
	t.Helper()
	return lifecycle.NewReportEngine(reopen, lifecycle.WithClock(clock))
}

func actor(role domain.Role) domain.Actor {
	return domain.Actor{ID: uuid.New(), Role: role}
}

func TestReportEngine_InvalidTargets(t *testing.T) {
	t.Parallel()

	en := newReportEngine(t, false)
	officer := actor(domain.RoleOfficer)
	long := "tanggapan yang cukup panjang"

	for _, from := range domain.ReportStatuses {
		if en.IsTerminal(from) {
			continue
		}
		allowed := en.AllowedNext(from)
		for _, to := range domain.ReportStatuses {
			if slices.Contains(allowed, to) {
				continue
			}
			_, err := en.Request(lifecycle.Request[domain.ReportStatus]{From: from, To: to, Actor: officer, Response: long})
			require.ErrorIs(t, err, e.ErrInvalidTransition, "%s -> %s", from, to)
			assert.Equal(t, from == to, lifecycle.IsNoOp(err), "%s -> %s noop flag", from, to)
		}
	}
}

func TestReportEngine_UnknownTargetIsInvalid(t *testing.T) {
	t.Parallel()

	en := newReportEngine(t, false)
	_, err := en.Request(lifecycle.Request[domain.ReportStatus]{
		From: domain.ReportPending, To: "archived", Actor: actor(domain.RoleAdmin), Response: "0123456789",
	})
	require.ErrorIs(t, err, e.ErrInvalidTransition)
}

func TestReportEngine_TerminalRejectsEverything(t *testing.T) {
	t.Parallel()

	en := newReportEngine(t, true)
	for _, from := range []domain.ReportStatus{domain.ReportResolved, domain.ReportRejected} {
		for _, role := range []domain.Role{domain.RoleOfficer, domain.RoleAdmin} {
			for _, to := range domain.ReportStatuses {
				_, err := en.Request(lifecycle.Request[domain.ReportStatus]{
					From: from, To: to, Actor: actor(role), Response: "alasan yang sangat jelas",
				})
				require.ErrorIs(t, err, e.ErrTerminalState, "%s %s -> %s", role, from, to)
			}
		}
		assert.Empty(t, en.AllowedNext(from))
	}
}

func TestReportEngine_ResponseFloorLeavingPending(t *testing.T) {
	t.Parallel()

	en := newReportEngine(t, false)

	for _, to := range []domain.ReportStatus{domain.ReportInProgress, domain.ReportRejected} {
		for _, resp := range []string{"", "   ", "123456789", "  12345678  "} {
			_, err := en.Request(lifecycle.Request[domain.ReportStatus]{
				From: domain.ReportPending, To: to, Actor: actor(domain.RoleOfficer), Response: resp,
			})
			require.ErrorIs(t, err, e.ErrResponseRequired, "to=%s resp=%q", to, resp)
		}

		officer := actor(domain.RoleOfficer)
		m, err := en.Request(lifecycle.Request[domain.ReportStatus]{
			From: domain.ReportPending, To: to, Actor: officer, Response: " 1234567890 ",
		})
		require.NoError(t, err)
		assert.Equal(t, to, m.Status)
		assert.Equal(t, lifecycle.SetTo("1234567890"), m.Response)
		assert.Equal(t, lifecycle.SetTo(officer.ID), m.AssigneeID)
	}
}

func TestReportEngine_ResponseFloorCountsCharacters(t *testing.T) {
	t.Parallel()

	en := newReportEngine(t, false)
	// ten characters, more than ten bytes
	_, err := en.Request(lifecycle.Request[domain.ReportStatus]{
		From: domain.ReportPending, To: domain.ReportInProgress, Actor: actor(domain.RoleAdmin), Response: "ditangani✓",
	})
	require.NoError(t, err)
}

func TestReportEngine_Scenario_AdminStartsWork(t *testing.T) {
	t.Parallel()

	en := newReportEngine(t, false)
	admin := actor(domain.RoleAdmin)
	report := domain.Report{ID: uuid.New(), Status: domain.ReportPending}

	m, err := lifecycle.TransitionReport(en, &report, admin, domain.ReportInProgress, "Sedang ditangani tim teknis")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"status":      "in_progress",
		"response":    "Sedang ditangani tim teknis",
		"assignee_id": admin.ID,
		"updated_at":  fixedNow,
	}, m.Fields())

	updated := lifecycle.ApplyReport(report, m)
	require.NotNil(t, updated.Response)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, "Sedang ditangani tim teknis", *updated.Response)
	assert.Equal(t, admin.ID, *updated.AssigneeID)
	assert.Equal(t, fixedNow, updated.UpdatedAt)
	assert.Nil(t, report.Response, "input snapshot must not change")

	// same report now in progress, officer resolves with a 7 character response
	_, err = lifecycle.TransitionReport(en, &updated, actor(domain.RoleOfficer), domain.ReportResolved, "Selesai")
	require.ErrorIs(t, err, e.ErrResponseRequired)
}

func TestReportEngine_ResolveFromInProgress(t *testing.T) {
	t.Parallel()

	en := newReportEngine(t, false)
	officer := actor(domain.RoleOfficer)

	m, err := en.Request(lifecycle.Request[domain.ReportStatus]{
		From: domain.ReportInProgress, To: domain.ReportResolved, Actor: officer, Response: "Perbaikan jalan selesai",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReportResolved, m.Status)
	assert.Equal(t, lifecycle.SetTo(officer.ID), m.AssigneeID)
}

func TestReportEngine_ReopenClearsResponseAndAssignee(t *testing.T) {
	t.Parallel()

	en := newReportEngine(t, true)
	prevAssignee := uuid.New()
	report := domain.Report{
		ID:         uuid.New(),
		Status:     domain.ReportInProgress,
		Response:   strptr("Sedang ditangani tim teknis"),
		AssigneeID: &prevAssignee,
	}

	for _, resp := range []string{"", "ignored response text", "x"} {
		m, err := lifecycle.TransitionReport(en, &report, actor(domain.RoleOfficer), domain.ReportPending, resp)
		require.NoError(t, err)

		assert.Equal(t, lifecycle.FieldOp(lifecycle.Clear), m.Response.Op)
		assert.Equal(t, lifecycle.FieldOp(lifecycle.Clear), m.AssigneeID.Op)

		fields := m.Fields()
		assert.Nil(t, fields["response"])
		assert.Nil(t, fields["assignee_id"])
		assert.Contains(t, fields, "response")
		assert.Contains(t, fields, "assignee_id")

		updated := lifecycle.ApplyReport(report, m)
		assert.Equal(t, domain.ReportPending, updated.Status)
		assert.Nil(t, updated.Response)
		assert.Nil(t, updated.AssigneeID)
	}
}

func TestReportEngine_ReopenDisabledByDefault(t *testing.T) {
	t.Parallel()

	en := newReportEngine(t, false)
	_, err := en.Request(lifecycle.Request[domain.ReportStatus]{
		From: domain.ReportInProgress, To: domain.ReportPending, Actor: actor(domain.RoleAdmin),
	})
	require.ErrorIs(t, err, e.ErrInvalidTransition)
	assert.False(t, lifecycle.IsNoOp(err))
}

func TestReportEngine_RoleChecks(t *testing.T) {
	t.Parallel()

	en := newReportEngine(t, false)

	for _, to := range domain.ReportStatuses {
		_, err := en.Request(lifecycle.Request[domain.ReportStatus]{
			From: domain.ReportPending, To: to, Actor: actor(domain.RoleCitizen), Response: "0123456789",
		})
		require.ErrorIs(t, err, e.ErrUnauthorized)
	}

	// role is checked before terminal state
	_, err := en.Request(lifecycle.Request[domain.ReportStatus]{
		From: domain.ReportResolved, To: domain.ReportRejected, Actor: actor(domain.RoleCitizen),
	})
	require.ErrorIs(t, err, e.ErrUnauthorized)

	_, err = en.Request(lifecycle.Request[domain.ReportStatus]{
		From: domain.ReportPending, To: domain.ReportInProgress, Actor: actor("superuser"), Response: "0123456789",
	})
	require.ErrorIs(t, err, e.ErrMalformed)
	assert.False(t, lifecycle.IsRejection(err))
}

func TestReportEngine_UnknownCurrentStatusIsMalformed(t *testing.T) {
	t.Parallel()

	en := newReportEngine(t, false)
	_, err := en.Request(lifecycle.Request[domain.ReportStatus]{
		From: "diproses", To: domain.ReportResolved, Actor: actor(domain.RoleAdmin), Response: "0123456789",
	})
	require.ErrorIs(t, err, e.ErrMalformed)

	var te *lifecycle.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, domain.EntityReport, te.Entity)
	assert.Equal(t, "diproses", te.From)
}

func TestReportEngine_AllowedNext(t *testing.T) {
	t.Parallel()

	en := newReportEngine(t, false)
	assert.Equal(t, []domain.ReportStatus{domain.ReportInProgress, domain.ReportRejected}, en.AllowedNext(domain.ReportPending))
	assert.Equal(t, []domain.ReportStatus{domain.ReportResolved, domain.ReportRejected}, en.AllowedNext(domain.ReportInProgress))
	assert.Empty(t, en.AllowedNext("unknown"))

	next := en.AllowedNext(domain.ReportPending)
	next[0] = domain.ReportResolved
	assert.Equal(t, domain.ReportInProgress, en.AllowedNext(domain.ReportPending)[0], "AllowedNext must return a copy")

	reopen := newReportEngine(t, true)
	assert.Contains(t, reopen.AllowedNext(domain.ReportInProgress), domain.ReportPending)
	assert.Equal(t, domain.ReportStatuses, reopen.States())
}
