package repository

import (
	"context"

	"smart-hr/internal/database"
	"smart-hr/internal/domain/application"

	"github.com/google/uuid"
)

type TransitionRepository interface {
	Record(ctx context.Context, ev application.TransitionEvent) error
	ListByApplication(ctx context.Context, applicationID uuid.UUID, limit int) ([]application.TransitionEvent, error)
}

type PostgresTransitionRepository struct {
	db database.DB
}

func NewPostgresTransitionRepository(db database.DB) *PostgresTransitionRepository {
	return &PostgresTransitionRepository{db: db}
}

func (r *PostgresTransitionRepository) Record(ctx context.Context, ev application.TransitionEvent) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO application_transitions (id, application_id, from_status, to_status, actor, at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		ev.ID, ev.ApplicationID, string(ev.From), string(ev.To), SanitizeText(ev.Actor), ev.At.UTC(),
	)
	return mapError(err)
}

func (r *PostgresTransitionRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID, limit int) ([]application.TransitionEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, application_id, from_status, to_status, actor, at
		 FROM application_transitions
		 WHERE application_id = $1
		 ORDER BY at DESC
		 LIMIT $2`,
		applicationID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.TransitionEvent, 0)
	for rows.Next() {
		var (
			ev       application.TransitionEvent
			from, to string
		)
		if err := rows.Scan(&ev.ID, &ev.ApplicationID, &from, &to, &ev.Actor, &ev.At); err != nil {
			return nil, err
		}
		ev.From = application.Status(from)
		ev.To = application.Status(to)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
