package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"

	"github.com/google/uuid"
)

type Type string

const (
	TypeReject    Type = "REJECT"
	TypeSyncError Type = "SYNC_ERROR"
)

type Notification struct {
	Type          Type      `json:"type"`
	ApplicationID uuid.UUID `json:"application_id"`
	CandidateName string    `json:"candidate_name"`
	Position      string    `json:"position"`
	Message       string    `json:"message"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Text renders n for chat channels. Values are HTML-escaped.
func (n Notification) Text() string {
	title := map[Type]string{
		TypeReject:    "❌ <b>Candidate rejected</b>",
		TypeSyncError: "⚠️ <b>Pipeline sync failed</b>",
	}[n.Type]
	if title == "" {
		title = "<b>" + html.EscapeString(string(n.Type)) + "</b>"
	}
	text := fmt.Sprintf("%s\n👤 %s\n💼 %s", title, html.EscapeString(n.CandidateName), html.EscapeString(n.Position))
	if n.Message != "" {
		text += "\n" + html.EscapeString(n.Message)
	}
	return text
}

// Log writes notifications to the application log; used when no chat
// channel is configured.
type Log struct {
	Logger *log.Logger
}

func (l Log) Notify(_ context.Context, n Notification) error {
	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("[Notify] type=%s application_id=%s candidate=%q position=%q", n.Type, n.ApplicationID, n.CandidateName, n.Position)
	return nil
}

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, it := range m {
		if it == nil {
			continue
		}
		if err := it.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
