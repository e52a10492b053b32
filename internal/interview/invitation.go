package interview

import (
	"net/url"
	"strings"
	"time"

	"smart-hr/internal/domain/application"
)

const (
	DefaultOnsiteLocation = "Senglao Group HQ (Office)"
	DefaultOnlineLocation = "Google Meet Link: ..."
)

// DefaultLocation is the location prefilled for an interview type.
func DefaultLocation(t application.InterviewType) string {
	if t == application.InterviewOnline {
		return DefaultOnlineLocation
	}
	return DefaultOnsiteLocation
}

// Normalize fills the type and location defaults.
func Normalize(iv application.Interview) application.Interview {
	if !iv.Type.Valid() {
		iv.Type = application.InterviewOnsite
	}
	iv.Location = strings.TrimSpace(iv.Location)
	if iv.Location == "" {
		iv.Location = DefaultLocation(iv.Type)
	}
	return iv
}

// LaoPhone rewrites a local mobile number into the international form used
// by wa.me: 020xxxxxxx and 20xxxxxxx both become 85620xxxxxxx. Other
// numbers keep their digits only.
func LaoPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	switch {
	case strings.HasPrefix(clean, "020"):
		return "856" + clean[1:]
	case strings.HasPrefix(clean, "20"):
		return "856" + clean
	default:
		return clean
	}
}

func WhatsAppLink(phone, message string) string {
	return "https://wa.me/" + LaoPhone(phone) + "?text=" + url.QueryEscape(message)
}

func Subject(position, company string) string {
	return "Interview Invitation: " + position + " - " + company
}

func MailtoLink(email, subject, body string) string {
	q := "subject=" + escape(subject) + "&body=" + escape(body)
	return "mailto:" + strings.TrimSpace(email) + "?" + q
}

// escape encodes spaces as %20, mail clients do not decode '+'.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// FormatDate renders the interview time for invitation text.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Monday, January 2, 2006 at 15:04")
}

// Fallback is the invitation used when no drafted message is available.
func Fallback(candidate, position string, at time.Time, location string) string {
	return "Dear " + candidate + ", you are invited for an interview for " + position +
		" on " + FormatDate(at) + ". Location: " + location
}

// Links bundles the outbound contact links for one invitation.
type Links struct {
	Subject  string `json:"subject"`
	WhatsApp string `json:"whatsapp_url,omitempty"`
	Mailto   string `json:"mailto_url,omitempty"`
}

func BuildLinks(c application.Candidate, company, message string) Links {
	subject := Subject(c.AppliedPosition, company)
	out := Links{Subject: subject}
	if LaoPhone(c.Phone) != "" {
		out.WhatsApp = WhatsAppLink(c.Phone, message)
	}
	if strings.TrimSpace(c.Email) != "" {
		out.Mailto = MailtoLink(c.Email, subject, message)
	}
	return out
}
