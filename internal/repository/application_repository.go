package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"smart-hr/internal/database"
	"smart-hr/internal/domain/application"

	"github.com/google/uuid"
)

type ApplicationFilter struct {
	Query  string
	Status application.Status
	JobID  uuid.UUID
	Limit  int
	Offset int
}

// NewApplication is a candidate plus the application row created for it.
// A nil JobID is stored as NULL.
type NewApplication struct {
	Candidate   application.Candidate
	JobID       uuid.UUID
	Status      application.Status
	MatchScore  *int
	Summary     string
	Suggestions []application.JobSuggestion
	CVURL       string
}

type AIUpdate struct {
	Score   int
	Summary string
	// Suggestions are left untouched when nil.
	Suggestions []application.JobSuggestion
}

type CandidateProfile struct {
	Candidate application.Candidate
	Summary   string
}

type ApplicationRepository interface {
	ListVisibleApplications(ctx context.Context) ([]application.Application, error)
	Search(ctx context.Context, f ApplicationFilter) ([]application.Application, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (application.Application, error)
	Create(ctx context.Context, in NewApplication) (application.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status application.Status) error
	UpdateInterview(ctx context.Context, id uuid.UUID, iv application.Interview) error
	UpdateAI(ctx context.Context, id uuid.UUID, in AIUpdate) error
	UpdateSuggestions(ctx context.Context, id uuid.UUID, suggestions []application.JobSuggestion) error
	UpdateCandidateProfile(ctx context.Context, id uuid.UUID, in CandidateProfile) (application.Application, error)
	UpdateCandidateEmbedding(ctx context.Context, candidateID uuid.UUID, embedding []float32) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

const applicationSelect = `SELECT
	a.id, a.candidate_id,
	COALESCE(a.job_id, '00000000-0000-0000-0000-000000000000'::uuid), COALESCE(j.title, ''),
	a.status, a.ai_match_score, a.ai_summary, a.ai_job_suggestions, a.cv_url,
	a.interview_date, a.interview_type, a.interview_location,
	a.is_hidden, a.applied_at, a.updated_at,
	c.first_name, c.last_name, c.email, c.phone, c.address,
	c.village, c.district, c.province, c.gender, c.age,
	c.experience_years, c.work_history, c.skills, c.education,
	c.expected_salary, c.applied_position, c.avatar_url, c.resume_url
FROM applications a
JOIN candidates c ON c.id = a.candidate_id
LEFT JOIN jobs j ON j.id = a.job_id`

func (r *PostgresApplicationRepository) ListVisibleApplications(ctx context.Context) ([]application.Application, error) {
	rows, err := r.db.Query(ctx, applicationSelect+`
		WHERE a.is_hidden = false
		ORDER BY a.applied_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *PostgresApplicationRepository) Search(ctx context.Context, f ApplicationFilter) ([]application.Application, int, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	where := []string{"a.is_hidden = false"}
	args := make([]any, 0, 5)
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(c.first_name ILIKE $%d OR c.last_name ILIKE $%d OR c.email ILIKE $%d OR c.applied_position ILIKE $%d)",
			n, n, n, n,
		))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if f.JobID != uuid.Nil {
		args = append(args, f.JobID)
		where = append(where, fmt.Sprintf("a.job_id = $%d", len(args)))
	}
	cond := " WHERE " + strings.Join(where, " AND ")

	var total int
	countSQL := `SELECT COUNT(1) FROM applications a JOIN candidates c ON c.id = a.candidate_id` + cond
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)
	q := applicationSelect + cond + fmt.Sprintf(" ORDER BY a.applied_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := scanApplications(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	row := r.db.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id)
	a, err := scanApplication(row)
	if err != nil {
		return application.Application{}, mapError(err)
	}
	return a, nil
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, in NewApplication) (application.Application, error) {
	status := in.Status
	if status == "" {
		status = application.StatusNew
	}
	if !status.Valid() {
		return application.Application{}, application.ErrInvalidStatus
	}
	suggestions, err := encodeSuggestions(in.Suggestions)
	if err != nil {
		return application.Application{}, err
	}

	c := sanitizeCandidate(in.Candidate)
	var score any
	if in.MatchScore != nil {
		score = application.ClampScore(*in.MatchScore)
	}

	var id uuid.UUID
	err = database.WithTx(ctx, r.db, func(tx database.Tx) error {
		var candidateID uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO candidates (
				first_name, last_name, email, phone, address, village, district, province,
				gender, age, experience_years, work_history, skills, education,
				expected_salary, applied_position, avatar_url, resume_url, embedding
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
			RETURNING id`,
			c.FirstName, c.LastName, c.Email, c.Phone, c.Address, c.Village, c.District, c.Province,
			c.Gender, c.Age, c.ExperienceYears, c.WorkHistory, c.Skills, c.Education,
			c.ExpectedSalary, c.AppliedPosition, c.AvatarURL, c.ResumeURL, nullableEmbedding(c.Embedding),
		).Scan(&candidateID)
		if err != nil {
			return mapError(err)
		}

		return mapError(tx.QueryRow(ctx,
			`INSERT INTO applications (candidate_id, job_id, status, ai_match_score, ai_summary, ai_job_suggestions, cv_url)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id`,
			candidateID, nullableUUID(in.JobID), string(status), score,
			SanitizeText(in.Summary), suggestions, SanitizeText(in.CVURL),
		).Scan(&id))
	})
	if err != nil {
		return application.Application{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status application.Status) error {
	if !status.Valid() {
		return application.ErrInvalidStatus
	}
	n, err := r.db.Exec(ctx,
		`UPDATE applications SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status),
	)
	return affected(n, err)
}

func (r *PostgresApplicationRepository) UpdateInterview(ctx context.Context, id uuid.UUID, iv application.Interview) error {
	n, err := r.db.Exec(ctx,
		`UPDATE applications
		 SET interview_date = $2, interview_type = $3, interview_location = $4, updated_at = now()
		 WHERE id = $1`,
		id, iv.Date.UTC(), string(iv.Type), SanitizeText(iv.Location),
	)
	return affected(n, err)
}

func (r *PostgresApplicationRepository) UpdateAI(ctx context.Context, id uuid.UUID, in AIUpdate) error {
	score := application.ClampScore(in.Score)
	summary := SanitizeText(in.Summary)

	if in.Suggestions == nil {
		n, err := r.db.Exec(ctx,
			`UPDATE applications SET ai_match_score = $2, ai_summary = $3, updated_at = now() WHERE id = $1`,
			id, score, summary,
		)
		return affected(n, err)
	}

	suggestions, err := encodeSuggestions(in.Suggestions)
	if err != nil {
		return err
	}
	n, err := r.db.Exec(ctx,
		`UPDATE applications
		 SET ai_match_score = $2, ai_summary = $3, ai_job_suggestions = $4, updated_at = now()
		 WHERE id = $1`,
		id, score, summary, suggestions,
	)
	return affected(n, err)
}

// UpdateSuggestions stores job suggestions without touching the score, so an
// unscored application stays unscored.
func (r *PostgresApplicationRepository) UpdateSuggestions(ctx context.Context, id uuid.UUID, suggestions []application.JobSuggestion) error {
	if suggestions == nil {
		suggestions = []application.JobSuggestion{}
	}
	b, err := encodeSuggestions(suggestions)
	if err != nil {
		return err
	}
	n, err := r.db.Exec(ctx,
		`UPDATE applications SET ai_job_suggestions = $2, updated_at = now() WHERE id = $1`,
		id, b,
	)
	return affected(n, err)
}

func (r *PostgresApplicationRepository) UpdateCandidateProfile(ctx context.Context, id uuid.UUID, in CandidateProfile) (application.Application, error) {
	c := sanitizeCandidate(in.Candidate)

	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		var candidateID uuid.UUID
		err := tx.QueryRow(ctx,
			`UPDATE applications SET ai_summary = $2, updated_at = now()
			 WHERE id = $1 AND is_hidden = false
			 RETURNING candidate_id`,
			id, SanitizeText(in.Summary),
		).Scan(&candidateID)
		if err != nil {
			return mapError(err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE candidates SET
				first_name = $2, last_name = $3, email = $4, phone = $5, address = $6,
				village = $7, district = $8, province = $9, gender = $10, age = $11,
				experience_years = $12, work_history = $13, skills = $14, education = $15,
				expected_salary = $16, applied_position = $17
			 WHERE id = $1`,
			candidateID, c.FirstName, c.LastName, c.Email, c.Phone, c.Address,
			c.Village, c.District, c.Province, c.Gender, c.Age,
			c.ExperienceYears, c.WorkHistory, c.Skills, c.Education,
			c.ExpectedSalary, c.AppliedPosition,
		)
		if err != nil {
			return mapError(err)
		}

		// Cached translations describe the old profile.
		_, err = tx.Exec(ctx, `DELETE FROM candidate_localizations WHERE application_id = $1`, id)
		return mapError(err)
	})
	if err != nil {
		return application.Application{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresApplicationRepository) UpdateCandidateEmbedding(ctx context.Context, candidateID uuid.UUID, embedding []float32) error {
	n, err := r.db.Exec(ctx, `UPDATE candidates SET embedding = $2 WHERE id = $1`, candidateID, nullableEmbedding(embedding))
	return affected(n, err)
}

func (r *PostgresApplicationRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`UPDATE applications SET is_hidden = true, updated_at = now() WHERE id = $1 AND is_hidden = false`,
		id,
	)
	return affected(n, err)
}

func scanApplications(rows database.Rows) ([]application.Application, error) {
	out := make([]application.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanApplication(row database.Row) (application.Application, error) {
	var (
		a           application.Application
		status      string
		score       *int
		suggestions []byte
		ivDate      *time.Time
		ivType      *string
		ivLocation  *string
	)
	c := &a.Candidate
	err := row.Scan(
		&a.ID, &a.CandidateID,
		&a.JobID, &a.JobTitle,
		&status, &score, &a.Summary, &suggestions, &a.CVURL,
		&ivDate, &ivType, &ivLocation,
		&a.IsHidden, &a.AppliedAt, &a.UpdatedAt,
		&c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address,
		&c.Village, &c.District, &c.Province, &c.Gender, &c.Age,
		&c.ExperienceYears, &c.WorkHistory, &c.Skills, &c.Education,
		&c.ExpectedSalary, &c.AppliedPosition, &c.AvatarURL, &c.ResumeURL,
	)
	if err != nil {
		return application.Application{}, err
	}

	c.ID = a.CandidateID
	if c.Skills == nil {
		c.Skills = []string{}
	}
	a.Status = application.Status(status)
	a.MatchScore = score

	if len(suggestions) > 0 {
		if err := json.Unmarshal(suggestions, &a.JobSuggestions); err != nil {
			return application.Application{}, fmt.Errorf("decode ai_job_suggestions: %w", err)
		}
	}
	if ivDate != nil {
		iv := application.Interview{Date: ivDate.UTC()}
		if ivType != nil {
			iv.Type = application.InterviewType(*ivType)
		}
		if ivLocation != nil {
			iv.Location = *ivLocation
		}
		a.Interview = &iv
	}
	return a, nil
}

func sanitizeCandidate(c application.Candidate) application.Candidate {
	c.FirstName = SanitizeText(c.FirstName)
	c.LastName = SanitizeText(c.LastName)
	c.Email = SanitizeText(c.Email)
	c.Phone = SanitizeText(c.Phone)
	c.Address = SanitizeText(c.Address)
	c.Village = SanitizeText(c.Village)
	c.District = SanitizeText(c.District)
	c.Province = SanitizeText(c.Province)
	c.Gender = SanitizeText(c.Gender)
	c.WorkHistory = SanitizeText(c.WorkHistory)
	c.Skills = SanitizeStrings(c.Skills)
	c.Education = SanitizeText(c.Education)
	c.ExpectedSalary = SanitizeText(c.ExpectedSalary)
	c.AppliedPosition = SanitizeText(c.AppliedPosition)
	c.AvatarURL = SanitizeText(c.AvatarURL)
	c.ResumeURL = SanitizeText(c.ResumeURL)
	if c.Age < 0 {
		c.Age = 0
	}
	if c.ExperienceYears < 0 {
		c.ExperienceYears = 0
	}
	return c
}

func encodeSuggestions(in []application.JobSuggestion) ([]byte, error) {
	if in == nil {
		return nil, nil
	}
	clean := make([]application.JobSuggestion, 0, len(in))
	for _, s := range in {
		clean = append(clean, application.JobSuggestion{
			JobID:      SanitizeText(s.JobID),
			Title:      SanitizeText(s.Title),
			MatchScore: application.ClampScore(s.MatchScore),
			Reason:     SanitizeText(s.Reason),
		})
	}
	return json.Marshal(clean)
}

func nullableUUID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}

func nullableEmbedding(v []float32) any {
	if len(v) == 0 {
		return nil
	}
	return v
}

func affected(n int64, err error) error {
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
