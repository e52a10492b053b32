package repository

import (
	"context"

	"smart-hr/internal/database"
	"smart-hr/internal/domain/application"
)

type StatusCount struct {
	Status application.Status `json:"status"`
	Count  int                `json:"count"`
}

type ScoreSummary struct {
	Scored  int     `json:"scored"`
	Average float64 `json:"average"`
}

type ReportRepository interface {
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	GetScoreSummary(ctx context.Context) (ScoreSummary, error)
	ListRecent(ctx context.Context, limit int) ([]application.Application, error)
}

type PostgresReportRepository struct {
	db database.DB
}

func NewPostgresReportRepository(db database.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

func (r *PostgresReportRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT status, COUNT(1)
		 FROM applications
		 WHERE is_hidden = false
		 GROUP BY status`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[application.Status]int{}
	for rows.Next() {
		var s string
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		counts[application.Status(s)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]StatusCount, 0, len(application.Statuses()))
	for _, s := range application.Statuses() {
		out = append(out, StatusCount{Status: s, Count: counts[s]})
	}
	return out, nil
}

func (r *PostgresReportRepository) GetScoreSummary(ctx context.Context) (ScoreSummary, error) {
	var out ScoreSummary
	row := r.db.QueryRow(ctx,
		`SELECT COALESCE(COUNT(ai_match_score), 0), COALESCE(AVG(ai_match_score), 0)
		 FROM applications
		 WHERE is_hidden = false`,
	)
	if err := row.Scan(&out.Scored, &out.Average); err != nil {
		return ScoreSummary{}, err
	}
	return out, nil
}

func (r *PostgresReportRepository) ListRecent(ctx context.Context, limit int) ([]application.Application, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, applicationSelect+`
		WHERE a.is_hidden = false
		ORDER BY a.applied_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}
