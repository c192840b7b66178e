package domain

import (
	"time"

	"github.com/google/uuid"
)

type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionApproved SuggestionStatus = "approved"
	SuggestionRejected SuggestionStatus = "rejected"
)

var SuggestionStatuses = []SuggestionStatus{SuggestionPending, SuggestionApproved, SuggestionRejected}

type SuggestionCategory string

const (
	SuggestionDevelopment   SuggestionCategory = "development"
	SuggestionPublicService SuggestionCategory = "public_service"
	SuggestionPolicy        SuggestionCategory = "policy"
	SuggestionEconomy       SuggestionCategory = "economy"
	SuggestionSocial        SuggestionCategory = "social"
	SuggestionOther         SuggestionCategory = "other"
)

var SuggestionCategories = []SuggestionCategory{
	SuggestionDevelopment, SuggestionPublicService, SuggestionPolicy,
	SuggestionEconomy, SuggestionSocial, SuggestionOther,
}

// SuggestionMinDescription is the creation floor for a suggestion description.
const SuggestionMinDescription = 10

type Suggestion struct {
	ID          uuid.UUID          `json:"id"`
	SubmitterID uuid.UUID          `json:"submitter_id"`
	Category    SuggestionCategory `json:"category"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      SuggestionStatus   `json:"status"`
	Response    *string            `json:"response"`
	CreatedAt   time.Time          `json:"created_at"`
}

func (s *Suggestion) ListStatus() string       { return string(s.Status) }
func (s *Suggestion) ListCategory() string     { return string(s.Category) }
func (s *Suggestion) ListCreatedAt() time.Time { return s.CreatedAt }
func (s *Suggestion) SearchFields() []string {
	return []string{s.Title, s.Description, string(s.Category)}
}

type CreateSuggestionRequest struct {
	Category    SuggestionCategory `json:"category" validate:"required,suggestion_category"`
	Title       string             `json:"title" validate:"required,notblank,max=200"`
	Description string             `json:"description" validate:"required,min=10"`
}

type SuggestionTransitionRequest struct {
	Status   SuggestionStatus `json:"status" validate:"required"`
	Response string           `json:"response"`
}
