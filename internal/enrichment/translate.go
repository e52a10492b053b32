package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"smart-hr/internal/domain/application"
	"smart-hr/internal/repository"

	"github.com/google/uuid"
)

// Localized is one application's profile text in one language.
type Localized struct {
	WorkHistory string `json:"work_history"`
	Education   string `json:"education"`
	Summary     string `json:"ai_summary"`
}

// IsRawSummary reports whether a summary still holds manually entered
// metadata instead of an executive summary.
func IsRawSummary(summary string) bool {
	return strings.Contains(summary, "Manual Entry Data") || strings.Contains(summary, "Extra Details")
}

func localKey(appID uuid.UUID, lang string) string {
	return appID.String() + "-" + lang
}

func sharedKey(appID uuid.UUID, lang string) string {
	return "loc:" + appID.String() + ":" + lang
}

// TranslateCandidateData localizes work history, education and summary.
// Lookups go through the in-process cache, the shared cache and the
// candidate_localizations table before the model is called; every hit
// back-fills the tiers above it. Failure returns the untranslated fields
// and caches nothing.
func (g *Gateway) TranslateCandidateData(ctx context.Context, appID uuid.UUID, c application.Candidate, summary, lang string) Localized {
	lang = application.NormalizeLanguage(lang)
	original := Localized{WorkHistory: c.WorkHistory, Education: c.Education, Summary: summary}
	lk := localKey(appID, lang)

	if v, ok := g.local.get(lk); ok {
		return v
	}

	if g.shared != nil {
		var v Localized
		ok, err := g.shared.GetJSON(ctx, sharedKey(appID, lang), &v)
		if err != nil {
			g.logger.Printf("[Cache] translation read failed app=%s lang=%s err=%v", appID, lang, err)
		}
		if ok {
			g.local.set(lk, v)
			return v
		}
	}

	if g.locs != nil {
		loc, err := g.locs.Get(ctx, appID, lang)
		switch {
		case err == nil:
			v := Localized{WorkHistory: loc.WorkHistory, Education: loc.Education, Summary: loc.Summary}
			g.local.set(lk, v)
			g.setShared(ctx, appID, lang, v)
			return v
		case !errors.Is(err, repository.ErrNotFound):
			g.logger.Printf("[Repo] localization read failed app=%s lang=%s err=%v", appID, lang, err)
		}
	}

	if !g.configured() {
		return original
	}

	v, err := g.translate(ctx, c, summary, lang)
	if err != nil {
		g.logger.Printf("[AI] translation failed app=%s lang=%s err=%v", appID, lang, err)
		return original
	}
	if v.WorkHistory == "" {
		v.WorkHistory = original.WorkHistory
	}
	if v.Education == "" {
		v.Education = original.Education
	}
	if v.Summary == "" {
		v.Summary = original.Summary
	}

	g.local.set(lk, v)
	g.setShared(ctx, appID, lang, v)
	if g.locs != nil {
		err := g.locs.Upsert(ctx, repository.Localization{
			ApplicationID: appID,
			LanguageCode:  lang,
			WorkHistory:   v.WorkHistory,
			Education:     v.Education,
			Summary:       v.Summary,
		})
		if err != nil {
			g.logger.Printf("[Repo] localization write failed app=%s lang=%s err=%v", appID, lang, err)
		}
	}
	return v
}

func (g *Gateway) translate(ctx context.Context, c application.Candidate, summary, lang string) (Localized, error) {
	target := application.LanguageName(lang)
	var prompt string
	if IsRawSummary(summary) {
		data, _ := json.Marshal(map[string]any{
			"work_history": c.WorkHistory,
			"education":    c.Education,
			"skills":       nonNil(c.Skills),
		})
		prompt = fmt.Sprintf(`You are an expert HR analyst. The following data was entered manually.

Task:
1. Translate work_history and education into %[1]s.
2. Ignore the current ai_summary, it holds raw metadata.
3. Generate a new professional executive summary (ai_summary) in %[1]s analysing the candidate's strengths from the work history and skills below.

Raw Data:
%[2]s

Return JSON {"work_history": string, "education": string, "ai_summary": string}.`, target, data)
	} else {
		data, _ := json.Marshal(map[string]any{
			"work_history": c.WorkHistory,
			"education":    c.Education,
			"ai_summary":   summary,
		})
		prompt = fmt.Sprintf(`Localize this CV data into %s.
1. Translate work_history, education and ai_summary.
2. Keep the bullet point formatting.

Data:
%s

Return JSON {"work_history": string, "education": string, "ai_summary": string}.`, target, data)
	}

	raw, err := g.ai.CompleteJSON(ctx, "", repository.SanitizeText(prompt))
	if err != nil {
		return Localized{}, err
	}
	var out Localized
	if err := decodeValidated(translationSchema, raw, &out); err != nil {
		return Localized{}, err
	}
	return out, nil
}

func (g *Gateway) setShared(ctx context.Context, appID uuid.UUID, lang string, v Localized) {
	if g.shared == nil {
		return
	}
	if err := g.shared.SetJSON(ctx, sharedKey(appID, lang), v, g.ttl); err != nil {
		g.logger.Printf("[Cache] translation write failed app=%s lang=%s err=%v", appID, lang, err)
	}
}

// ForgetTranslations drops cached translations of one application after its
// profile text changed. Durable rows are removed by the profile update.
func (g *Gateway) ForgetTranslations(ctx context.Context, appID uuid.UUID) {
	g.local.deletePrefix(appID.String() + "-")
	if g.shared == nil {
		return
	}
	if err := g.shared.InvalidateApplication(ctx, appID.String()); err != nil {
		g.logger.Printf("[Cache] translation invalidate failed app=%s err=%v", appID, err)
	}
}
