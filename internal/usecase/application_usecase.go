package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"smart-hr/internal/config"
	"smart-hr/internal/domain/application"
	"smart-hr/internal/domain/job"
	"smart-hr/internal/enrichment"
	"smart-hr/internal/intake"
	"smart-hr/internal/interview"
	"smart-hr/internal/repository"
	"smart-hr/internal/store"
	"smart-hr/internal/worker"
	"smart-hr/internal/ws"

	"github.com/google/uuid"
)

// Enricher is the AI gateway as the usecases use it.
type Enricher interface {
	ParseAndScoreCV(ctx context.Context, file io.Reader, mimeType string, j job.Job, lang string) (enrichment.CandidateFields, error)
	ScoreCandidateProfile(ctx context.Context, c application.Candidate, j job.Job, lang string) enrichment.Score
	TranslateCandidateData(ctx context.Context, appID uuid.UUID, c application.Candidate, summary, lang string) enrichment.Localized
	AnalyzeJobSuitability(ctx context.Context, c application.Candidate, jobs []job.Job, lang string) []application.JobSuggestion
	GenerateInterviewMessage(ctx context.Context, d enrichment.InterviewDraft) string
	EmbedProfile(ctx context.Context, c application.Candidate) []float32
	EmbedJob(ctx context.Context, j job.Job) []float32
	ForgetTranslations(ctx context.Context, appID uuid.UUID)
}

type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
}

// File is an uploaded document.
type File struct {
	Name     string
	MimeType string
	Reader   io.Reader
}

type CreateApplicationInput struct {
	Candidate  application.Candidate
	JobID      uuid.UUID
	MatchScore *int
	Summary    string
	CV         *File
	Lang       string
}

type ParseCVInput struct {
	JobID uuid.UUID
	File  File
	Lang  string
}

type ProfileInput struct {
	Candidate application.Candidate
	Summary   string
}

type SearchResult struct {
	Items  []application.Application `json:"items"`
	Total  int                       `json:"total"`
	Limit  int                       `json:"limit"`
	Offset int                       `json:"offset"`
}

type ScheduleInput struct {
	Date     time.Time
	Type     application.InterviewType
	Location string
	Message  string
}

type InterviewResult struct {
	Application application.Application `json:"application"`
	Message     string                  `json:"message,omitempty"`
	Links       interview.Links         `json:"links"`
}

type DraftInput struct {
	Date     time.Time
	Type     application.InterviewType
	Location string
	Lang     string
}

type ApplicationUsecase interface {
	Get(ctx context.Context, id uuid.UUID) (application.Application, error)
	Search(ctx context.Context, f repository.ApplicationFilter) (SearchResult, error)
	Create(ctx context.Context, in CreateApplicationInput) (application.Application, error)
	ParseCV(ctx context.Context, in ParseCVInput) (enrichment.CandidateFields, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (application.Application, error)
	Delete(ctx context.Context, id uuid.UUID, actor string) error
	ScheduleInterview(ctx context.Context, id uuid.UUID, in ScheduleInput) (InterviewResult, error)
	DraftInterview(ctx context.Context, id uuid.UUID, in DraftInput) (InterviewResult, error)
	Translate(ctx context.Context, id uuid.UUID, lang string) (enrichment.Localized, error)
	Suggestions(ctx context.Context, id uuid.UUID, lang string, force bool) ([]application.JobSuggestion, error)
	Transitions(ctx context.Context, id uuid.UUID, limit int) ([]application.TransitionEvent, error)
}

type ApplicationDeps struct {
	Store       *store.Store
	Apps        repository.ApplicationRepository
	Jobs        repository.JobRepository
	Transitions repository.TransitionRepository
	AI          Enricher
	Files       Uploader
	Pool        *worker.Pool
	Events      ws.Publisher
	Logger      *log.Logger
}

type Applications struct {
	store   *store.Store
	apps    repository.ApplicationRepository
	jobs    repository.JobRepository
	audit   repository.TransitionRepository
	ai      Enricher
	files   Uploader
	pool    *worker.Pool
	events  ws.Publisher
	policy  string
	timeout time.Duration
	company string
	logger  *log.Logger
	now     func() time.Time
}

func NewApplicationUsecase(deps ApplicationDeps, pipeline config.PipelineConfig, company string) *Applications {
	u := &Applications{
		store:   deps.Store,
		apps:    deps.Apps,
		jobs:    deps.Jobs,
		audit:   deps.Transitions,
		ai:      deps.AI,
		files:   deps.Files,
		pool:    deps.Pool,
		events:  deps.Events,
		policy:  pipeline.FailurePolicy,
		timeout: pipeline.PersistTimeout,
		company: company,
		logger:  deps.Logger,
		now:     time.Now,
	}
	if u.events == nil {
		u.events = noopPublisher{}
	}
	if u.logger == nil {
		u.logger = log.Default()
	}
	if u.timeout <= 0 {
		u.timeout = 10 * time.Second
	}
	if u.company == "" {
		u.company = "Senglao Group"
	}
	return u
}

func (u *Applications) Get(ctx context.Context, id uuid.UUID) (application.Application, error) {
	a, err := u.apps.GetByID(ctx, id)
	if err != nil {
		return application.Application{}, mapRepoError(err)
	}
	if a.IsHidden {
		return application.Application{}, ErrNotFound
	}
	return a, nil
}

func (u *Applications) Search(ctx context.Context, f repository.ApplicationFilter) (SearchResult, error) {
	if f.Limit < 0 || f.Offset < 0 {
		return SearchResult{}, ErrInvalidInput
	}
	if f.Status != "" && !f.Status.Valid() {
		return SearchResult{}, ErrInvalidInput
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	items, total, err := u.apps.Search(ctx, f)
	if err != nil {
		return SearchResult{}, mapRepoError(err)
	}
	return SearchResult{Items: items, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

// Create stores a manually entered or CV-parsed candidate. An absent or
// zero score is computed against the job; a failed scoring leaves the
// application unscored.
func (u *Applications) Create(ctx context.Context, in CreateApplicationInput) (application.Application, error) {
	c := in.Candidate
	if strings.TrimSpace(c.FirstName) == "" || strings.TrimSpace(c.Email) == "" {
		return application.Application{}, ErrInvalidInput
	}

	var target job.Job
	if in.JobID != uuid.Nil {
		j, err := u.jobs.GetByID(ctx, in.JobID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return application.Application{}, ErrInvalidInput
			}
			return application.Application{}, ErrInternal
		}
		target = j
		c.AppliedPosition = j.Title
	}

	if in.CV != nil {
		url, err := u.files.Upload(ctx, in.CV.Name, in.CV.Reader)
		if err != nil {
			u.logger.Printf("[Applications] cv upload failed err=%v", err)
			return application.Application{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		c.ResumeURL = url
	}
	if c.AvatarURL == "" {
		c.AvatarURL = intake.AvatarURL(c.FirstName, u.now())
	}

	score := in.MatchScore
	summary := in.Summary
	if (score == nil || *score == 0) && in.JobID != uuid.Nil {
		s := u.ai.ScoreCandidateProfile(ctx, c, target, in.Lang)
		score, summary = scoredOrRaw(s, summary)
	}
	c.Embedding = u.ai.EmbedProfile(ctx, c)

	created, err := u.apps.Create(ctx, repository.NewApplication{
		Candidate:  c,
		JobID:      in.JobID,
		Status:     application.StatusNew,
		MatchScore: score,
		Summary:    summary,
		CVURL:      c.ResumeURL,
	})
	if err != nil {
		u.logger.Printf("[Applications] create failed err=%v", err)
		return application.Application{}, mapRepoError(err)
	}

	u.store.Prepend(created)
	u.events.Publish(ws.Event{Type: ws.EventApplicationCreated, ApplicationID: created.ID.String(), Data: created})
	u.logger.Printf("[Applications] created app=%s job=%s scored=%t", created.ID, in.JobID, created.Scored())
	return created, nil
}

// scoredOrRaw keeps the previous summary and no score when scoring fell
// back, so the raw entry survives for a later analysis.
func scoredOrRaw(s enrichment.Score, previous string) (*int, string) {
	switch s.Summary {
	case enrichment.SummaryMissingKey, enrichment.SummaryScoringFailed:
		if strings.TrimSpace(previous) == "" {
			return nil, s.Summary
		}
		return nil, previous
	}
	return application.ScorePtr(s.Value), s.Summary
}

func (u *Applications) ParseCV(ctx context.Context, in ParseCVInput) (enrichment.CandidateFields, error) {
	if in.File.Reader == nil {
		return enrichment.CandidateFields{}, ErrInvalidInput
	}
	j, err := u.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return enrichment.CandidateFields{}, ErrInvalidInput
		}
		return enrichment.CandidateFields{}, ErrInternal
	}
	mime := in.File.MimeType
	if mime == "" || mime == "application/octet-stream" {
		mime = enrichment.MimeTypeByName(in.File.Name)
	}
	fields, err := u.ai.ParseAndScoreCV(ctx, in.File.Reader, mime, j, in.Lang)
	if err != nil {
		if errors.Is(err, enrichment.ErrNotConfigured) {
			return enrichment.CandidateFields{}, ErrNotConfigured
		}
		if errors.Is(err, enrichment.ErrEmptyDocument) {
			return enrichment.CandidateFields{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return enrichment.CandidateFields{}, err
	}
	return fields, nil
}

func (u *Applications) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (application.Application, error) {
	if strings.TrimSpace(in.Candidate.FirstName) == "" {
		return application.Application{}, ErrInvalidInput
	}
	updated, err := u.apps.UpdateCandidateProfile(ctx, id, repository.CandidateProfile{Candidate: in.Candidate, Summary: in.Summary})
	if err != nil {
		return application.Application{}, mapRepoError(err)
	}
	u.ai.ForgetTranslations(ctx, id)
	u.store.Replace(updated)

	if emb := u.ai.EmbedProfile(ctx, updated.Candidate); len(emb) > 0 {
		if err := u.apps.UpdateCandidateEmbedding(ctx, updated.CandidateID, emb); err != nil {
			u.logger.Printf("[Applications] embedding update failed app=%s err=%v", id, err)
		}
	}
	return updated, nil
}

// Delete hides the application locally at once and persists the soft
// delete in the background.
func (u *Applications) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	removal, ok := u.store.Remove(id)
	if !ok {
		if err := u.apps.SoftDelete(ctx, id); err != nil {
			return mapRepoError(err)
		}
		u.events.Publish(ws.Event{Type: ws.EventApplicationDeleted, ApplicationID: id.String()})
		return nil
	}
	u.events.Publish(ws.Event{Type: ws.EventApplicationDeleted, ApplicationID: id.String()})
	u.logger.Printf("[Applications] hidden app=%s actor=%s", id, actor)

	task := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, u.timeout)
		defer cancel()
		if err := u.apps.SoftDelete(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
			u.deleteFailed(removal, err)
			return err
		}
		return nil
	}
	if err := u.pool.Submit("delete:"+id.String(), task); err != nil {
		u.deleteFailed(removal, err)
	}
	return nil
}

func (u *Applications) deleteFailed(r store.Removal, cause error) {
	id := r.App.ID
	u.logger.Printf("[Applications] soft delete failed app=%s policy=%s err=%v", id, u.policy, cause)
	data := map[string]any{"policy": u.policy, "operation": "delete"}
	if u.policy != config.FailurePolicyMarkDirty {
		restored := u.store.Reinsert(r)
		data["restored"] = restored
		if restored {
			u.events.Publish(ws.Event{Type: ws.EventApplicationCreated, ApplicationID: id.String(), Data: r.App})
		}
	}
	u.events.Publish(ws.Event{Type: ws.EventSyncFailed, ApplicationID: id.String(), Data: data})
}

func (u *Applications) current(ctx context.Context, id uuid.UUID) (application.Application, error) {
	if a, ok := u.store.Get(id); ok {
		return a, nil
	}
	return u.Get(ctx, id)
}

func (u *Applications) ScheduleInterview(ctx context.Context, id uuid.UUID, in ScheduleInput) (InterviewResult, error) {
	if in.Date.IsZero() {
		return InterviewResult{}, ErrInvalidInput
	}
	a, err := u.current(ctx, id)
	if err != nil {
		return InterviewResult{}, err
	}
	iv := interview.Normalize(application.Interview{Date: in.Date.UTC(), Type: in.Type, Location: in.Location})
	if err := u.apps.UpdateInterview(ctx, id, iv); err != nil {
		return InterviewResult{}, mapRepoError(err)
	}
	if change, ok := u.store.SetInterview(id, iv); ok {
		a = change.Current
	} else {
		a.Interview = &iv
	}

	message := strings.TrimSpace(in.Message)
	if message == "" {
		message = interview.Fallback(a.Candidate.FullName(), position(a), iv.Date, iv.Location)
	}
	u.logger.Printf("[Applications] interview scheduled app=%s type=%s at=%s", id, iv.Type, iv.Date.Format(time.RFC3339))
	return InterviewResult{Application: a, Message: message, Links: interview.BuildLinks(a.Candidate, u.company, message)}, nil
}

func (u *Applications) DraftInterview(ctx context.Context, id uuid.UUID, in DraftInput) (InterviewResult, error) {
	if in.Date.IsZero() {
		return InterviewResult{}, ErrInvalidInput
	}
	a, err := u.current(ctx, id)
	if err != nil {
		return InterviewResult{}, err
	}
	iv := interview.Normalize(application.Interview{Date: in.Date, Type: in.Type, Location: in.Location})
	msg := u.ai.GenerateInterviewMessage(ctx, enrichment.InterviewDraft{
		CandidateName: a.Candidate.FullName(),
		Position:      position(a),
		At:            iv.Date,
		Type:          iv.Type,
		Location:      iv.Location,
		Lang:          in.Lang,
	})
	return InterviewResult{Application: a, Message: msg, Links: interview.BuildLinks(a.Candidate, u.company, msg)}, nil
}

func (u *Applications) Translate(ctx context.Context, id uuid.UUID, lang string) (enrichment.Localized, error) {
	a, err := u.current(ctx, id)
	if err != nil {
		return enrichment.Localized{}, err
	}
	return u.ai.TranslateCandidateData(ctx, id, a.Candidate, a.Summary, lang), nil
}

// Suggestions returns the stored job suggestions, computing and persisting
// them on first use or when force is set.
func (u *Applications) Suggestions(ctx context.Context, id uuid.UUID, lang string, force bool) ([]application.JobSuggestion, error) {
	a, err := u.current(ctx, id)
	if err != nil {
		return nil, err
	}
	if !force && len(a.JobSuggestions) > 0 {
		return a.JobSuggestions, nil
	}

	jobs := u.store.Jobs()
	if len(jobs) == 0 {
		jobs, err = u.jobs.ListJobs(ctx)
		if err != nil {
			return nil, mapRepoError(err)
		}
	}
	out := u.ai.AnalyzeJobSuitability(ctx, a.Candidate, jobs, lang)
	if len(out) == 0 {
		return out, nil
	}
	if err := u.apps.UpdateSuggestions(ctx, id, out); err != nil {
		u.logger.Printf("[Applications] suggestions not saved app=%s err=%v", id, err)
		return out, nil
	}
	u.store.Update(id, func(app *application.Application) { app.JobSuggestions = out })
	return out, nil
}

func (u *Applications) Transitions(ctx context.Context, id uuid.UUID, limit int) ([]application.TransitionEvent, error) {
	if limit < 0 {
		return nil, ErrInvalidInput
	}
	out, err := u.audit.ListByApplication(ctx, id, limit)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return out, nil
}

func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrConflict
	case errors.Is(err, repository.ErrReference), errors.Is(err, application.ErrInvalidStatus):
		return ErrInvalidInput
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
