package repository

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Postgres rejects NUL in text columns, and AI output sometimes carries it
// either raw or as a JSON escape.
const escapedNUL = `\u0000`

func SanitizeText(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.ReplaceAll(s, escapedNUL, "")
	return strings.TrimSpace(norm.NFC.String(s))
}

func SanitizeStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if v := SanitizeText(s); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// SanitizeValue walks decoded JSON values and cleans every string in place
// of the original.
func SanitizeValue(v any) any {
	switch t := v.(type) {
	case string:
		return SanitizeText(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = SanitizeValue(t[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = SanitizeValue(val)
		}
		return out
	default:
		return v
	}
}
