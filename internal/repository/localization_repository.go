package repository

import (
	"context"

	"smart-hr/internal/database"

	"github.com/google/uuid"
)

type Localization struct {
	ApplicationID uuid.UUID `json:"application_id"`
	LanguageCode  string    `json:"language_code"`
	WorkHistory   string    `json:"work_history"`
	Education     string    `json:"education"`
	Summary       string    `json:"ai_summary"`
}

type LocalizationRepository interface {
	Get(ctx context.Context, applicationID uuid.UUID, lang string) (Localization, error)
	Upsert(ctx context.Context, l Localization) error
}

type PostgresLocalizationRepository struct {
	db database.DB
}

func NewPostgresLocalizationRepository(db database.DB) *PostgresLocalizationRepository {
	return &PostgresLocalizationRepository{db: db}
}

func (r *PostgresLocalizationRepository) Get(ctx context.Context, applicationID uuid.UUID, lang string) (Localization, error) {
	out := Localization{ApplicationID: applicationID, LanguageCode: lang}
	err := r.db.QueryRow(ctx,
		`SELECT work_history_translated, education_translated, ai_summary_translated
		 FROM candidate_localizations
		 WHERE application_id = $1 AND language_code = $2`,
		applicationID, lang,
	).Scan(&out.WorkHistory, &out.Education, &out.Summary)
	if err != nil {
		return Localization{}, mapError(err)
	}
	return out, nil
}

func (r *PostgresLocalizationRepository) Upsert(ctx context.Context, l Localization) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO candidate_localizations
			(application_id, language_code, work_history_translated, education_translated, ai_summary_translated)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (application_id, language_code) DO UPDATE SET
			work_history_translated = EXCLUDED.work_history_translated,
			education_translated = EXCLUDED.education_translated,
			ai_summary_translated = EXCLUDED.ai_summary_translated,
			updated_at = now()`,
		l.ApplicationID, l.LanguageCode,
		SanitizeText(l.WorkHistory), SanitizeText(l.Education), SanitizeText(l.Summary),
	)
	return mapError(err)
}
