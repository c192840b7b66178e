package domain

import (
	"time"

	"github.com/google/uuid"
)

type ReportStatus string

const (
	ReportPending    ReportStatus = "pending"
	ReportInProgress ReportStatus = "in_progress"
	ReportResolved   ReportStatus = "resolved"
	ReportRejected   ReportStatus = "rejected"
)

var ReportStatuses = []ReportStatus{ReportPending, ReportInProgress, ReportResolved, ReportRejected}

type ReportCategory string

const (
	ReportInfrastructure ReportCategory = "infrastructure"
	ReportSanitation     ReportCategory = "sanitation"
	ReportSecurity       ReportCategory = "security"
	ReportHealth         ReportCategory = "health"
	ReportEducation      ReportCategory = "education"
	ReportOther          ReportCategory = "other"
)

var ReportCategories = []ReportCategory{
	ReportInfrastructure, ReportSanitation, ReportSecurity,
	ReportHealth, ReportEducation, ReportOther,
}

type Location struct {
	Latitude  float64 `json:"latitude" validate:"lat"`
	Longitude float64 `json:"longitude" validate:"lng"`
	Address   string  `json:"address,omitempty"`
}

// Report is a citizen complaint. PhotoRef and Location are fixed at creation;
// Status, Response and AssigneeID only change through a transition.
type Report struct {
	ID          uuid.UUID      `json:"id"`
	ReporterID  uuid.UUID      `json:"reporter_id"`
	Category    ReportCategory `json:"category"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	PhotoRef    string         `json:"photo_ref"`
	Location    Location       `json:"location"`
	Status      ReportStatus   `json:"status"`
	Response    *string        `json:"response"`
	AssigneeID  *uuid.UUID     `json:"assignee_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (r *Report) ListStatus() string       { return string(r.Status) }
func (r *Report) ListCategory() string     { return string(r.Category) }
func (r *Report) ListCreatedAt() time.Time { return r.CreatedAt }
func (r *Report) SearchFields() []string {
	return []string{r.Title, r.Description, string(r.Category)}
}

type CreateReportRequest struct {
	Category    ReportCategory `json:"category" validate:"required,report_category"`
	Title       string         `json:"title" validate:"required,notblank,max=200"`
	Description string         `json:"description" validate:"required,notblank"`
	PhotoRef    string         `json:"photo_ref" validate:"required,notblank"`
	Location    *Location      `json:"location" validate:"required"`
}

type ReportTransitionRequest struct {
	Status   ReportStatus `json:"status" validate:"required"`
	Response string       `json:"response"`
}
