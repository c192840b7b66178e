package lifecycle

import "lapor/internal/domain"

// ReportResponseMin is the response floor for report transitions that need one.
const ReportResponseMin = 10

// ReportPolicy is the complaint lifecycle. With allowReopen an in-progress
// report may be sent back to pending, which clears its response and assignee.
func ReportPolicy(allowReopen bool) Policy[domain.ReportStatus] {
	inProgress := []domain.ReportStatus{domain.ReportResolved, domain.ReportRejected}
	if allowReopen {
		inProgress = append(inProgress, domain.ReportPending)
	}
	return Policy[domain.ReportStatus]{
		Entity:  domain.EntityReport,
		Initial: domain.ReportPending,
		Allowed: []Edge[domain.ReportStatus]{
			{From: domain.ReportPending, To: []domain.ReportStatus{domain.ReportInProgress, domain.ReportRejected}},
			{From: domain.ReportInProgress, To: inProgress},
			{From: domain.ReportResolved},
			{From: domain.ReportRejected},
		},
		Terminal:         []domain.ReportStatus{domain.ReportResolved, domain.ReportRejected},
		RequiresResponse: reportRequiresResponse,
		MinResponseLen:   ReportResponseMin,
		TracksAssignee:   true,
		TracksUpdatedAt:  true,
	}
}

func reportRequiresResponse(from, to domain.ReportStatus) bool {
	if to == domain.ReportPending {
		return false
	}
	return from == domain.ReportPending || to == domain.ReportResolved || to == domain.ReportRejected
}

type ReportEngine = Engine[domain.ReportStatus]

func NewReportEngine(allowReopen bool, opts ...Option) *ReportEngine {
	return MustNew(ReportPolicy(allowReopen), opts...)
}

// TransitionReport runs a request against the persisted report.
func TransitionReport(en *ReportEngine, r *domain.Report, actor domain.Actor, to domain.ReportStatus, response string) (Mutation[domain.ReportStatus], error) {
	return en.Request(Request[domain.ReportStatus]{
		From:     r.Status,
		To:       to,
		Actor:    actor,
		Response: response,
	})
}

// ApplyReport returns a copy of r with the mutation applied.
func ApplyReport(r domain.Report, m Mutation[domain.ReportStatus]) domain.Report {
	r.Status = m.Status
	r.Response = m.Response.Apply(r.Response)
	r.AssigneeID = m.AssigneeID.Apply(r.AssigneeID)
	if m.UpdatedAt != nil {
		r.UpdatedAt = *m.UpdatedAt
	}
	return r
}
