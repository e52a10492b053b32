package enrichment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"smart-hr/internal/domain/application"
	"smart-hr/internal/domain/job"
)

type Score struct {
	Value   int    `json:"match_score"`
	Summary string `json:"ai_summary"`
}

type scoreResponse struct {
	MatchScore float64 `json:"match_score"`
	Summary    string  `json:"ai_summary"`
}

// ScoreCandidateProfile rates typed candidate data against j. It never
// fails: errors are folded into a zero score with an explanatory summary.
func (g *Gateway) ScoreCandidateProfile(ctx context.Context, c application.Candidate, j job.Job, lang string) Score {
	if !g.configured() {
		return Score{Value: 0, Summary: SummaryMissingKey}
	}

	prompt := fmt.Sprintf(`Role: Expert HR Recruiter.
Task: Evaluate this candidate profile against the job description.

Job Title: %s
Job Department: %s
Job Requirements: %s
Job Description: %s

Candidate Profile:
- Skills: %s
- Education: %s
- Experience: %s
- Years of Exp: %s

Instructions:
1. Calculate a match_score (0-100) for how well the candidate fits the job.
2. Write a professional ai_summary (executive summary) in %s covering strengths and weaknesses.

Return JSON {"match_score": number, "ai_summary": string}.`,
		j.Title, j.Department, strings.Join(j.Requirements, ", "), j.Description,
		strings.Join(c.Skills, ", "), c.Education, c.WorkHistory, formatYears(c.ExperienceYears),
		application.LanguageName(lang))

	raw, err := g.ai.CompleteJSON(ctx, "", prompt)
	if err != nil {
		g.logger.Printf("[AI] scoring failed job=%s err=%v", j.ID, err)
		return Score{Value: 0, Summary: SummaryScoringFailed}
	}
	var resp scoreResponse
	if err := decodeValidated(scoreSchema, raw, &resp); err != nil {
		g.logger.Printf("[AI] scoring invalid job=%s err=%v", j.ID, err)
		return Score{Value: 0, Summary: SummaryScoringFailed}
	}

	out := Score{
		Value:   application.ClampScore(int(math.Round(resp.MatchScore))),
		Summary: strings.TrimSpace(resp.Summary),
	}
	if out.Summary == "" {
		out.Summary = SummaryManualDefault
	}
	return out
}
