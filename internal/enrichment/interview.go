package enrichment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smart-hr/internal/domain/application"
	"smart-hr/internal/interview"
)

type InterviewDraft struct {
	CandidateName string
	Position      string
	At            time.Time
	Type          application.InterviewType
	Location      string
	Lang          string
}

// GenerateInterviewMessage drafts an invitation. Without a configured model,
// or when the call fails, the fixed template is returned instead.
func (g *Gateway) GenerateInterviewMessage(ctx context.Context, d InterviewDraft) string {
	fallback := interview.Fallback(d.CandidateName, d.Position, d.At, d.Location)
	if !g.configured() {
		return fallback
	}

	kind := "Face-to-Face Interview"
	if d.Type == application.InterviewOnline {
		kind = "Online Interview"
	}
	prompt := fmt.Sprintf(`Role: Professional HR Assistant for %q.
Task: Write a polite and professional interview invitation message in %s.

Context:
- Candidate: %s
- Job: %s
- Time: %s
- Type: %s
- Location/Link: %s

Requirements:
- Tone: professional, welcoming and clear.
- Include all details above.
- Output only the message body text, no preamble.`,
		g.company, application.LanguageName(d.Lang),
		d.CandidateName, d.Position, interview.FormatDate(d.At), kind, d.Location)

	msg, err := g.ai.Complete(ctx, "", prompt)
	if err != nil {
		g.logger.Printf("[AI] interview draft failed err=%v", err)
		return fallback
	}
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return fallback
	}
	return msg
}
