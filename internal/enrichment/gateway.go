package enrichment

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"smart-hr/internal/domain/application"
	"smart-hr/internal/domain/job"
	"smart-hr/internal/repository"
)

var (
	ErrNotConfigured = errors.New("ai enrichment not configured")
	ErrEmptyDocument = errors.New("no text could be extracted from the document")
)

// Fallback summaries written when scoring cannot run.
const (
	SummaryMissingKey    = "AI Error: Missing API Key"
	SummaryScoringFailed = "Manual Entry (AI Scoring Failed)"
	SummaryManualDefault = "Manual Entry Submitted."
)

type Completer interface {
	Configured() bool
	CompleteJSON(ctx context.Context, system, user string) ([]byte, error)
	Complete(ctx context.Context, system, user string) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
}

type TextExtractor interface {
	Extract(r io.Reader, mimeType string) (string, error)
}

type SharedCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	InvalidateApplication(ctx context.Context, applicationID string) error
}

type Options struct {
	AI        Completer
	Extractor TextExtractor
	// Localizations is the durable translation tier.
	Localizations repository.LocalizationRepository
	// Shared is an optional cross-instance tier between memory and Postgres.
	Shared   SharedCache
	CacheTTL time.Duration
	Company  string
	Logger   *log.Logger
}

// Gateway wraps every AI call the pipeline makes. Only ParseAndScoreCV
// reports failure; every other operation degrades to a usable default.
type Gateway struct {
	ai        Completer
	extractor TextExtractor
	locs      repository.LocalizationRepository
	shared    SharedCache
	local     *memoryCache
	ttl       time.Duration
	company   string
	logger    *log.Logger
}

func NewGateway(opts Options) *Gateway {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	extractor := opts.Extractor
	if extractor == nil {
		extractor = DocconvExtractor{}
	}
	company := opts.Company
	if company == "" {
		company = "Senglao Group"
	}
	return &Gateway{
		ai:        opts.AI,
		extractor: extractor,
		locs:      opts.Localizations,
		shared:    opts.Shared,
		local:     newMemoryCache(ttl, 2048),
		ttl:       ttl,
		company:   company,
		logger:    logger,
	}
}

func (g *Gateway) configured() bool {
	return g.ai != nil && g.ai.Configured()
}

// EmbedProfile returns nil when no embedding could be produced.
func (g *Gateway) EmbedProfile(ctx context.Context, c application.Candidate) []float32 {
	return g.embed(ctx, ProfileText(c))
}

func (g *Gateway) EmbedJob(ctx context.Context, j job.Job) []float32 {
	text := strings.Join([]string{j.Title, j.Department, j.Description, strings.Join(j.Requirements, ", ")}, "\n")
	return g.embed(ctx, text)
}

func (g *Gateway) embed(ctx context.Context, text string) []float32 {
	text = repository.SanitizeText(text)
	if !g.configured() || text == "" {
		return nil
	}
	v, err := g.ai.Embed(ctx, text)
	if err != nil {
		g.logger.Printf("[AI] embedding failed err=%v", err)
		return nil
	}
	return v
}

// ProfileText is the candidate text used for embeddings.
func ProfileText(c application.Candidate) string {
	var b strings.Builder
	b.WriteString("Position: " + c.AppliedPosition + "\n")
	b.WriteString("Skills: " + strings.Join(c.Skills, ", ") + "\n")
	b.WriteString("Experience: " + formatYears(c.ExperienceYears) + " years\n")
	b.WriteString("Education: " + c.Education + "\n")
	b.WriteString("Work History: " + c.WorkHistory)
	return b.String()
}
