package application

import (
	"errors"
	"strings"
)

type Status string

const (
	StatusNew       Status = "NEW"
	StatusScreening Status = "SCREENING"
	StatusInterview Status = "INTERVIEW"
	StatusOffer     Status = "OFFER"
	StatusHired     Status = "HIRED"
	StatusRejected  Status = "REJECTED"
)

var ErrInvalidStatus = errors.New("invalid application status")

// Statuses is the fixed board column order. It is not a workflow order:
// any status may move to any other.
func Statuses() []Status {
	return []Status{
		StatusNew,
		StatusScreening,
		StatusInterview,
		StatusOffer,
		StatusHired,
		StatusRejected,
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusScreening, StatusInterview, StatusOffer, StatusHired, StatusRejected:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Index returns the column position of s, or -1.
func (s Status) Index() int {
	for i, it := range Statuses() {
		if it == s {
			return i
		}
	}
	return -1
}

var statusLabels = map[string]map[Status]string{
	"en": {
		StatusNew:       "New",
		StatusScreening: "Screening",
		StatusInterview: "Interview",
		StatusOffer:     "Offer",
		StatusHired:     "Hired",
		StatusRejected:  "Rejected",
	},
	"lo": {
		StatusNew:       "ໃໝ່",
		StatusScreening: "ຄັດກອງ",
		StatusInterview: "ສຳພາດ",
		StatusOffer:     "ສະເໜີວຽກ",
		StatusHired:     "ຮັບເຂົ້າວຽກ",
		StatusRejected:  "ປະຕິເສດ",
	},
	"th": {
		StatusNew:       "ใหม่",
		StatusScreening: "คัดกรอง",
		StatusInterview: "สัมภาษณ์",
		StatusOffer:     "เสนองาน",
		StatusHired:     "รับเข้าทำงาน",
		StatusRejected:  "ปฏิเสธ",
	},
}

// Label falls back to the raw status value for unknown languages.
func (s Status) Label(lang string) string {
	if m, ok := statusLabels[NormalizeLanguage(lang)]; ok {
		if l, ok := m[s]; ok {
			return l
		}
	}
	return string(s)
}

const (
	LangLao     = "lo"
	LangEnglish = "en"
	LangThai    = "th"
)

// NormalizeLanguage maps lang onto a supported language. Empty or
// unrecognized values are English.
func NormalizeLanguage(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case LangLao:
		return LangLao
	case LangThai:
		return LangThai
	default:
		return LangEnglish
	}
}

func LanguageName(lang string) string {
	switch NormalizeLanguage(lang) {
	case LangLao:
		return "Lao"
	case LangThai:
		return "Thai"
	default:
		return "English"
	}
}
