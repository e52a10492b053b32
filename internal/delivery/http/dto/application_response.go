package dto

import (
	"time"

	"smart-hr/internal/domain/application"
	"smart-hr/internal/interview"

	"github.com/google/uuid"
)

// ApplicationResponse reports an unscored application as score 0 with
// scored=false.
type ApplicationResponse struct {
	ID             uuid.UUID                   `json:"id"`
	CandidateID    uuid.UUID                   `json:"candidate_id"`
	Candidate      application.Candidate       `json:"candidate"`
	JobID          *uuid.UUID                  `json:"job_id"`
	JobTitle       string                      `json:"job_title"`
	Status         application.Status          `json:"status"`
	StatusLabel    string                      `json:"status_label"`
	MatchScore     int                         `json:"ai_match_score"`
	Scored         bool                        `json:"scored"`
	Summary        string                      `json:"ai_summary"`
	JobSuggestions []application.JobSuggestion `json:"ai_job_suggestions"`
	InterviewDate  *string                     `json:"interview_date"`
	InterviewType  application.InterviewType   `json:"interview_type,omitempty"`
	Location       string                      `json:"interview_location,omitempty"`
	CVURL          string                      `json:"cv_url,omitempty"`
	AppliedAt      string                      `json:"applied_at"`
	UpdatedAt      string                      `json:"updated_at"`
}

func NewApplicationResponse(a application.Application, lang string) ApplicationResponse {
	out := ApplicationResponse{
		ID:             a.ID,
		CandidateID:    a.CandidateID,
		Candidate:      a.Candidate,
		JobTitle:       a.JobTitle,
		Status:         a.Status,
		StatusLabel:    a.Status.Label(lang),
		MatchScore:     a.Score(),
		Scored:         a.Scored(),
		Summary:        a.Summary,
		JobSuggestions: a.JobSuggestions,
		CVURL:          a.CVURL,
		AppliedAt:      formatTime(a.AppliedAt),
		UpdatedAt:      formatTime(a.UpdatedAt),
	}
	if out.Candidate.Skills == nil {
		out.Candidate.Skills = []string{}
	}
	if out.JobSuggestions == nil {
		out.JobSuggestions = []application.JobSuggestion{}
	}
	if a.JobID != uuid.Nil {
		id := a.JobID
		out.JobID = &id
	}
	if a.Interview != nil && !a.Interview.Date.IsZero() {
		d := formatTime(a.Interview.Date)
		out.InterviewDate = &d
		out.InterviewType = a.Interview.Type
		out.Location = a.Interview.Location
	}
	return out
}

func NewApplicationList(apps []application.Application, lang string) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, NewApplicationResponse(a, lang))
	}
	return out
}

type InterviewResponse struct {
	Application ApplicationResponse `json:"application"`
	Message     string              `json:"message"`
	Links       interview.Links     `json:"links"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
