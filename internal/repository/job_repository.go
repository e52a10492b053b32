package repository

import (
	"context"

	"smart-hr/internal/database"
	"smart-hr/internal/domain/job"

	"github.com/google/uuid"
)

type JobRepository interface {
	ListJobs(ctx context.Context) ([]job.Job, error)
	ListPublicJobs(ctx context.Context) ([]job.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	Create(ctx context.Context, d job.Draft) (job.Job, error)
	Update(ctx context.Context, id uuid.UUID, d job.Draft) (job.Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobSelect = `SELECT id, title, department, description, requirements, created_at FROM jobs`

func (r *PostgresJobRepository) ListJobs(ctx context.Context) ([]job.Job, error) {
	return r.list(ctx, jobSelect+` ORDER BY created_at DESC`)
}

// ListPublicJobs backs the careers page, grouped by department.
func (r *PostgresJobRepository) ListPublicJobs(ctx context.Context) ([]job.Job, error) {
	return r.list(ctx, jobSelect+` ORDER BY department ASC, title ASC`)
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := scanJob(r.db.QueryRow(ctx, jobSelect+` WHERE id = $1`, id))
	if err != nil {
		return job.Job{}, mapError(err)
	}
	return j, nil
}

func (r *PostgresJobRepository) Create(ctx context.Context, d job.Draft) (job.Job, error) {
	d = sanitizeDraft(d)
	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs (title, department, description, requirements)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, title, department, description, requirements, created_at`,
		d.Title, d.Department, d.Description, d.Requirements,
	)
	j, err := scanJob(row)
	if err != nil {
		return job.Job{}, mapError(err)
	}
	return j, nil
}

func (r *PostgresJobRepository) Update(ctx context.Context, id uuid.UUID, d job.Draft) (job.Job, error) {
	d = sanitizeDraft(d)
	row := r.db.QueryRow(ctx,
		`UPDATE jobs SET title = $2, department = $3, description = $4, requirements = $5
		 WHERE id = $1
		 RETURNING id, title, department, description, requirements, created_at`,
		id, d.Title, d.Department, d.Description, d.Requirements,
	)
	j, err := scanJob(row)
	if err != nil {
		return job.Job{}, mapError(err)
	}
	return j, nil
}

func (r *PostgresJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	return affected(n, err)
}

func (r *PostgresJobRepository) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	n, err := r.db.Exec(ctx, `UPDATE jobs SET embedding = $2 WHERE id = $1`, id, nullableEmbedding(embedding))
	return affected(n, err)
}

func (r *PostgresJobRepository) list(ctx context.Context, q string) ([]job.Job, error) {
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	if err := row.Scan(&j.ID, &j.Title, &j.Department, &j.Description, &j.Requirements, &j.CreatedAt); err != nil {
		return job.Job{}, err
	}
	if j.Requirements == nil {
		j.Requirements = []string{}
	}
	return j, nil
}

func sanitizeDraft(d job.Draft) job.Draft {
	d.Title = SanitizeText(d.Title)
	d.Department = SanitizeText(d.Department)
	d.Description = SanitizeText(d.Description)
	d.Requirements = SanitizeStrings(d.Requirements)
	return d
}
