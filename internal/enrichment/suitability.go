package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"smart-hr/internal/domain/application"
	"smart-hr/internal/domain/job"
)

const maxSuggestions = 3

type suggestionResponse struct {
	Suggestions []struct {
		JobID      string  `json:"jobId"`
		Title      string  `json:"title"`
		MatchScore float64 `json:"matchScore"`
		Reason     string  `json:"reason"`
	} `json:"suggestions"`
}

// AnalyzeJobSuitability ranks jobs for a candidate and returns at most three
// suggestions, best first. Any failure yields an empty list.
func (g *Gateway) AnalyzeJobSuitability(ctx context.Context, c application.Candidate, jobs []job.Job, lang string) []application.JobSuggestion {
	out := []application.JobSuggestion{}
	if !g.configured() || len(jobs) == 0 {
		return out
	}

	type jobBrief struct {
		ID    string   `json:"id"`
		Title string   `json:"title"`
		Dept  string   `json:"dept"`
		Reqs  []string `json:"reqs"`
	}
	briefs := make([]jobBrief, 0, len(jobs))
	byID := make(map[string]job.Job, len(jobs))
	for _, j := range jobs {
		id := j.ID.String()
		briefs = append(briefs, jobBrief{ID: id, Title: j.Title, Dept: j.Department, Reqs: j.Requirements})
		byID[id] = j
	}
	profile := map[string]any{
		"skills":  nonNil(c.Skills),
		"history": c.WorkHistory,
		"edu":     c.Education,
	}
	profileJSON, _ := json.Marshal(profile)
	jobsJSON, _ := json.Marshal(briefs)

	prompt := fmt.Sprintf(`Role: Expert HR Recruiter.
Task: Compare this candidate profile against the list of available jobs.

Input:
1. Candidate Profile: %s
2. Available Jobs: %s

Instruction:
- Identify the TOP 3 jobs that best match this candidate.
- If no strong match, suggest the closest ones with lower scores.
- Provide a reason in %s.
- Return JSON {"suggestions": [{"jobId": string, "title": string, "matchScore": 0-100, "reason": string}]}.`,
		profileJSON, jobsJSON, application.LanguageName(lang))

	raw, err := g.ai.CompleteJSON(ctx, "", prompt)
	if err != nil {
		g.logger.Printf("[AI] suitability failed err=%v", err)
		return out
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		raw = append(append([]byte(`{"suggestions":`), raw...), '}')
	}

	var resp suggestionResponse
	if err := decodeValidated(suggestionsSchema, raw, &resp); err != nil {
		g.logger.Printf("[AI] suitability invalid err=%v", err)
		return out
	}

	seen := make(map[string]bool, len(resp.Suggestions))
	for _, s := range resp.Suggestions {
		id := strings.TrimSpace(s.JobID)
		j, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, application.JobSuggestion{
			JobID:      id,
			Title:      j.Title,
			MatchScore: application.ClampScore(int(math.Round(s.MatchScore))),
			Reason:     strings.TrimSpace(s.Reason),
		})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].MatchScore > out[b].MatchScore })
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
