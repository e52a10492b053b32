package export

import (
	"strconv"
	"strings"

	"smart-hr/internal/domain/application"
)

var headers = map[string][]string{
	application.LangEnglish: {"name", "position", "score", "status", "date", "phone", "email"},
	application.LangLao:     {"ຊື່", "ຕຳແໜ່ງ", "ຄະແນນ", "ສະຖານະ", "ວັນທີ", "ເບີໂທ", "ອີເມວ"},
	application.LangThai:    {"ชื่อ", "ตำแหน่ง", "คะแนน", "สถานะ", "วันที่", "โทรศัพท์", "อีเมล"},
}

// Header returns the column labels; unknown languages get English.
func Header(lang string) []string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if h, ok := headers[lang]; ok {
		return h
	}
	return headers[application.LangEnglish]
}

// Row flattens one application into the seven export fields.
func Row(a application.Application, lang string) []string {
	position := a.Candidate.AppliedPosition
	if position == "" {
		position = a.JobTitle
	}
	date := ""
	if !a.AppliedAt.IsZero() {
		date = a.AppliedAt.UTC().Format("2006-01-02")
	}
	return []string{
		oneLine(a.Candidate.TitledName(labelLang(lang))),
		oneLine(position),
		strconv.Itoa(a.Score()) + "%",
		a.Status.Label(labelLang(lang)),
		date,
		oneLine(a.Candidate.Phone),
		oneLine(a.Candidate.Email),
	}
}

// labelLang keeps English status labels for the default header.
func labelLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if _, ok := headers[lang]; ok {
		return lang
	}
	return application.LangEnglish
}

// oneLine keeps every record on a single physical line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func visible(apps []application.Application) []application.Application {
	out := make([]application.Application, 0, len(apps))
	for _, a := range apps {
		if !a.IsHidden {
			out = append(out, a)
		}
	}
	return out
}
