package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"smart-hr/internal/domain/application"
	"smart-hr/internal/domain/job"
	"smart-hr/internal/intake"
	"smart-hr/internal/repository"
	"smart-hr/internal/store"
	"smart-hr/internal/ws"

	"github.com/google/uuid"
)

type SubmitInput struct {
	Form   intake.Form
	Resume *File
	Lang   string
}

// IntakeUsecase serves the unauthenticated application form.
type IntakeUsecase interface {
	PublicJobs(ctx context.Context) ([]job.Job, error)
	Submit(ctx context.Context, in SubmitInput) (application.Application, error)
}

type Intake struct {
	apps   repository.ApplicationRepository
	jobs   repository.JobRepository
	ai     Enricher
	files  Uploader
	store  *store.Store
	events ws.Publisher
	logger *log.Logger
	now    func() time.Time
}

func NewIntakeUsecase(apps repository.ApplicationRepository, jobs repository.JobRepository, ai Enricher, files Uploader, st *store.Store, events ws.Publisher, logger *log.Logger) *Intake {
	if events == nil {
		events = noopPublisher{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Intake{apps: apps, jobs: jobs, ai: ai, files: files, store: st, events: events, logger: logger, now: time.Now}
}

func (u *Intake) PublicJobs(ctx context.Context) ([]job.Job, error) {
	out, err := u.jobs.ListPublicJobs(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return out, nil
}

// Submit uploads the resume, scores the typed profile against the chosen
// job and stores the application as NEW.
func (u *Intake) Submit(ctx context.Context, in SubmitInput) (application.Application, error) {
	if err := in.Form.Validate(in.Resume != nil && in.Resume.Reader != nil); err != nil {
		return application.Application{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	jobID, err := uuid.Parse(in.Form.JobID)
	if err != nil {
		return application.Application{}, fmt.Errorf("%w: %v", ErrInvalidInput, intake.ErrMissingJob)
	}
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return application.Application{}, fmt.Errorf("%w: %v", ErrInvalidInput, intake.ErrMissingJob)
		}
		return application.Application{}, mapRepoError(err)
	}

	url, err := u.files.Upload(ctx, in.Resume.Name, in.Resume.Reader)
	if err != nil {
		u.logger.Printf("[Intake] resume upload failed err=%v", err)
		return application.Application{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	c := in.Form.Candidate(u.now())
	c.AppliedPosition = j.Title
	c.ResumeURL = url

	s := u.ai.ScoreCandidateProfile(ctx, c, j, in.Lang)
	score, summary := scoredOrRaw(s, in.Form.ExtraDetails())
	c.Embedding = u.ai.EmbedProfile(ctx, c)

	created, err := u.apps.Create(ctx, repository.NewApplication{
		Candidate:  c,
		JobID:      jobID,
		Status:     application.StatusNew,
		MatchScore: score,
		Summary:    summary,
		CVURL:      url,
	})
	if err != nil {
		u.logger.Printf("[Intake] submit failed err=%v", err)
		return application.Application{}, mapRepoError(err)
	}

	if u.store != nil {
		u.store.Prepend(created)
	}
	u.events.Publish(ws.Event{Type: ws.EventApplicationCreated, ApplicationID: created.ID.String(), Data: created})
	u.logger.Printf("[Intake] submitted app=%s job=%s scored=%t", created.ID, jobID, created.Scored())
	return created, nil
}
