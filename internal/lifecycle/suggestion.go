package lifecycle

import "lapor/internal/domain"

// SuggestionPolicy is the aspiration lifecycle. Any non-empty response is
// enough; suggestions carry no assignee and no update timestamp.
func SuggestionPolicy() Policy[domain.SuggestionStatus] {
	return Policy[domain.SuggestionStatus]{
		Entity:  domain.EntitySuggestion,
		Initial: domain.SuggestionPending,
		Allowed: []Edge[domain.SuggestionStatus]{
			{From: domain.SuggestionPending, To: []domain.SuggestionStatus{domain.SuggestionApproved, domain.SuggestionRejected}},
			{From: domain.SuggestionApproved},
			{From: domain.SuggestionRejected},
		},
		Terminal:         []domain.SuggestionStatus{domain.SuggestionApproved, domain.SuggestionRejected},
		RequiresResponse: suggestionRequiresResponse,
		MinResponseLen:   1,
	}
}

func suggestionRequiresResponse(from, to domain.SuggestionStatus) bool {
	if to == domain.SuggestionPending {
		return false
	}
	return from == domain.SuggestionPending || to == domain.SuggestionApproved || to == domain.SuggestionRejected
}

type SuggestionEngine = Engine[domain.SuggestionStatus]

func NewSuggestionEngine(opts ...Option) *SuggestionEngine {
	return MustNew(SuggestionPolicy(), opts...)
}

func TransitionSuggestion(en *SuggestionEngine, s *domain.Suggestion, actor domain.Actor, to domain.SuggestionStatus, response string) (Mutation[domain.SuggestionStatus], error) {
	return en.Request(Request[domain.SuggestionStatus]{
		From:     s.Status,
		To:       to,
		Actor:    actor,
		Response: response,
	})
}

func ApplySuggestion(s domain.Suggestion, m Mutation[domain.SuggestionStatus]) domain.Suggestion {
	s.Status = m.Status
	s.Response = m.Response.Apply(s.Response)
	return s
}
