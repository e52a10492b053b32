package application

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinScore = 0
	MaxScore = 100
)

type InterviewType string

const (
	InterviewOnline InterviewType = "ONLINE"
	InterviewOnsite InterviewType = "ONSITE"
)

func (t InterviewType) Valid() bool {
	return t == InterviewOnline || t == InterviewOnsite
}

type Candidate struct {
	ID              uuid.UUID `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Address         string    `json:"address,omitempty"`
	Village         string    `json:"village,omitempty"`
	District        string    `json:"district,omitempty"`
	Province        string    `json:"province,omitempty"`
	Gender          string    `json:"gender,omitempty"`
	Age             int       `json:"age,omitempty"`
	ExperienceYears float64   `json:"experience_years"`
	WorkHistory     string    `json:"work_history,omitempty"`
	Skills          []string  `json:"skills"`
	Education       string    `json:"education"`
	ExpectedSalary  string    `json:"expected_salary,omitempty"`
	AppliedPosition string    `json:"applied_position"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	ResumeURL       string    `json:"resume_url,omitempty"`
	Embedding       []float32 `json:"-"`
}

func (c Candidate) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

var nameTitles = map[string][2]string{
	LangEnglish: {"Mr.", "Ms."},
	LangLao:     {"ທ້າວ", "ນາງ"},
	LangThai:    {"นาย", "นาง"},
}

// NameTitle is the honorific for the candidate's gender in lang, or "" when
// the gender is not recorded.
func (c Candidate) NameTitle(lang string) string {
	g := strings.ToLower(strings.TrimSpace(c.Gender))
	t := nameTitles[NormalizeLanguage(lang)]
	switch {
	case g == "":
		return ""
	case strings.Contains(g, "female"), strings.Contains(g, "ຍິງ"), strings.Contains(g, "หญิง"):
		return t[1]
	case strings.Contains(g, "male"), strings.Contains(g, "ຊາຍ"), strings.Contains(g, "ชาย"):
		return t[0]
	}
	return ""
}

// TitledName is FullName prefixed with NameTitle.
func (c Candidate) TitledName(lang string) string {
	name := c.FullName()
	if title := c.NameTitle(lang); title != "" && name != "" {
		return title + " " + name
	}
	return name
}

type JobSuggestion struct {
	JobID      string `json:"jobId"`
	Title      string `json:"title"`
	MatchScore int    `json:"matchScore"`
	Reason     string `json:"reason"`
}

type Interview struct {
	Date     time.Time     `json:"interview_date"`
	Type     InterviewType `json:"interview_type"`
	Location string        `json:"interview_location"`
}

type Application struct {
	ID          uuid.UUID `json:"id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	Candidate   Candidate `json:"candidate"`
	JobID       uuid.UUID `json:"job_id"`
	JobTitle    string    `json:"job_title"`
	Status      Status    `json:"status"`

	// MatchScore is nil until the application has been scored.
	MatchScore     *int            `json:"ai_match_score"`
	Summary        string          `json:"ai_summary"`
	JobSuggestions []JobSuggestion `json:"ai_job_suggestions,omitempty"`

	Interview *Interview `json:"interview,omitempty"`
	CVURL     string     `json:"cv_url,omitempty"`
	IsHidden  bool       `json:"-"`

	AppliedAt time.Time `json:"applied_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Score returns the match score with 0 standing in for "unscored".
func (a Application) Score() int {
	if a.MatchScore == nil {
		return 0
	}
	return *a.MatchScore
}

func (a Application) Scored() bool {
	return a.MatchScore != nil
}

func ClampScore(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

// ScorePtr clamps v and returns it as a set score.
func ScorePtr(v int) *int {
	s := ClampScore(v)
	return &s
}

// TransitionEvent is one row of the status audit log.
type TransitionEvent struct {
	ID            uuid.UUID `json:"id"`
	ApplicationID uuid.UUID `json:"application_id"`
	From          Status    `json:"from_status"`
	To            Status    `json:"to_status"`
	Actor         string    `json:"actor"`
	At            time.Time `json:"at"`
}
