package usecase

import (
	"context"
	"log"

	"smart-hr/internal/domain/application"
	"smart-hr/internal/export"
	"smart-hr/internal/repository"
	"smart-hr/internal/store"
)

type Dashboard struct {
	Total    int                       `json:"total"`
	ByStatus []repository.StatusCount  `json:"by_status"`
	Scores   repository.ScoreSummary   `json:"scores"`
	Recent   []application.Application `json:"recent"`
}

type ReportUsecase interface {
	Dashboard(ctx context.Context, recent int) (Dashboard, error)
	ExportCSV(ctx context.Context, lang string) ([]byte, error)
	ExportXLSX(ctx context.Context, lang string) ([]byte, error)
}

type Reports struct {
	repo   repository.ReportRepository
	store  *store.Store
	logger *log.Logger
}

func NewReportUsecase(repo repository.ReportRepository, st *store.Store, logger *log.Logger) *Reports {
	if logger == nil {
		logger = log.Default()
	}
	return &Reports{repo: repo, store: st, logger: logger}
}

func (u *Reports) Dashboard(ctx context.Context, recent int) (Dashboard, error) {
	counts, err := u.repo.CountByStatus(ctx)
	if err != nil {
		u.logger.Printf("[Report] count by status failed err=%v", err)
		return Dashboard{}, ErrInternal
	}
	scores, err := u.repo.GetScoreSummary(ctx)
	if err != nil {
		u.logger.Printf("[Report] score summary failed err=%v", err)
		return Dashboard{}, ErrInternal
	}
	latest, err := u.repo.ListRecent(ctx, recent)
	if err != nil {
		u.logger.Printf("[Report] recent failed err=%v", err)
		return Dashboard{}, ErrInternal
	}

	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return Dashboard{Total: total, ByStatus: counts, Scores: scores, Recent: latest}, nil
}

// ExportCSV renders the applications currently held by the board.
func (u *Reports) ExportCSV(_ context.Context, lang string) ([]byte, error) {
	b, err := export.CSV(u.store.Applications(), lang)
	if err != nil {
		u.logger.Printf("[Report] csv export failed err=%v", err)
		return nil, ErrInternal
	}
	return b, nil
}

func (u *Reports) ExportXLSX(_ context.Context, lang string) ([]byte, error) {
	b, err := export.XLSX(u.store.Applications(), lang)
	if err != nil {
		u.logger.Printf("[Report] xlsx export failed err=%v", err)
		return nil, ErrInternal
	}
	return b, nil
}
