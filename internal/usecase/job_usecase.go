package usecase

import (
	"context"
	"log"
	"strings"

	"smart-hr/internal/domain/job"
	"smart-hr/internal/repository"
	"smart-hr/internal/store"

	"github.com/google/uuid"
)

type JobUsecase interface {
	List(ctx context.Context) ([]job.Job, error)
	Get(ctx context.Context, id uuid.UUID) (job.Job, error)
	Create(ctx context.Context, d job.Draft) (job.Job, error)
	Update(ctx context.Context, id uuid.UUID, d job.Draft) (job.Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type JobEmbedder interface {
	EmbedJob(ctx context.Context, j job.Job) []float32
}

type Jobs struct {
	repo   repository.JobRepository
	store  *store.Store
	ai     JobEmbedder
	logger *log.Logger
}

func NewJobUsecase(repo repository.JobRepository, st *store.Store, ai JobEmbedder, logger *log.Logger) *Jobs {
	if logger == nil {
		logger = log.Default()
	}
	return &Jobs{repo: repo, store: st, ai: ai, logger: logger}
}

func (u *Jobs) List(ctx context.Context) ([]job.Job, error) {
	out, err := u.repo.ListJobs(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return out, nil
}

func (u *Jobs) Get(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return job.Job{}, mapRepoError(err)
	}
	return j, nil
}

func validDraft(d job.Draft) bool {
	return strings.TrimSpace(d.Title) != "" && strings.TrimSpace(d.Department) != ""
}

func (u *Jobs) Create(ctx context.Context, d job.Draft) (job.Job, error) {
	if !validDraft(d) {
		return job.Job{}, ErrInvalidInput
	}
	j, err := u.repo.Create(ctx, d)
	if err != nil {
		return job.Job{}, mapRepoError(err)
	}
	u.embed(ctx, &j)
	u.store.PutJob(j)
	return j, nil
}

func (u *Jobs) Update(ctx context.Context, id uuid.UUID, d job.Draft) (job.Job, error) {
	if !validDraft(d) {
		return job.Job{}, ErrInvalidInput
	}
	j, err := u.repo.Update(ctx, id, d)
	if err != nil {
		return job.Job{}, mapRepoError(err)
	}
	u.embed(ctx, &j)
	u.store.PutJob(j)
	return j, nil
}

func (u *Jobs) Delete(ctx context.Context, id uuid.UUID) error {
	if err := u.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}
	u.store.RemoveJob(id)
	return nil
}

func (u *Jobs) embed(ctx context.Context, j *job.Job) {
	if u.ai == nil {
		return
	}
	emb := u.ai.EmbedJob(ctx, *j)
	if len(emb) == 0 {
		return
	}
	if err := u.repo.UpdateEmbedding(ctx, j.ID, emb); err != nil {
		u.logger.Printf("[Jobs] embedding update failed job=%s err=%v", j.ID, err)
		return
	}
	j.Embedding = emb
}
