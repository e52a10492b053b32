package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"smart-hr/internal/domain/application"
	"smart-hr/internal/domain/job"
	"smart-hr/internal/repository"
)

// maxCVChars bounds the resume text sent to the model.
const maxCVChars = 40000

// looseString accepts a JSON string or number.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}

type EducationEntry struct {
	Level       string      `json:"level"`
	Institution string      `json:"institution"`
	Year        looseString `json:"year"`
	Major       string      `json:"major"`
}

type EmploymentEntry struct {
	Company  string      `json:"company"`
	Position string      `json:"position"`
	Period   string      `json:"period"`
	Salary   looseString `json:"salary"`
}

// CandidateFields is the structured result of a CV parse.
type CandidateFields struct {
	FirstName       string            `json:"first_name"`
	LastName        string            `json:"last_name"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	Gender          string            `json:"gender"`
	Age             float64           `json:"age"`
	DOB             string            `json:"dob"`
	Nationality     string            `json:"nationality"`
	FamilyStatus    string            `json:"family_status"`
	ExperienceYears float64           `json:"experience_years"`
	Address         string            `json:"address"`
	ExpectedSalary  string            `json:"expected_salary"`
	EducationList   []EducationEntry  `json:"education_list,omitempty"`
	EmploymentList  []EmploymentEntry `json:"employment_list,omitempty"`
	Education       string            `json:"education"`
	WorkHistory     string            `json:"work_history"`
	Skills          []string          `json:"skills"`
	MatchScore      int               `json:"match_score"`
	Summary         string            `json:"ai_summary"`
}

// Candidate maps the parsed fields onto a candidate for the given position.
func (f CandidateFields) Candidate(position string) application.Candidate {
	return application.Candidate{
		FirstName:       f.FirstName,
		LastName:        f.LastName,
		Email:           f.Email,
		Phone:           f.Phone,
		Address:         f.Address,
		Gender:          f.Gender,
		Age:             int(f.Age),
		ExperienceYears: f.ExperienceYears,
		WorkHistory:     f.WorkHistory,
		Skills:          f.Skills,
		Education:       f.Education,
		ExpectedSalary:  f.ExpectedSalary,
		AppliedPosition: position,
	}
}

type cvResponse struct {
	CandidateFields
	MatchScore float64 `json:"match_score"`
}

// ParseAndScoreCV extracts candidate fields from a resume and scores them
// against j. Unlike the other gateway operations it reports failure so the
// caller can fall back to manual entry.
func (g *Gateway) ParseAndScoreCV(ctx context.Context, file io.Reader, mimeType string, j job.Job, lang string) (CandidateFields, error) {
	if !g.configured() {
		return CandidateFields{}, ErrNotConfigured
	}
	text, err := g.extractor.Extract(file, mimeType)
	if err != nil {
		return CandidateFields{}, fmt.Errorf("extract cv text: %w", err)
	}
	text = repository.SanitizeText(text)
	if text == "" {
		return CandidateFields{}, ErrEmptyDocument
	}
	if len(text) > maxCVChars {
		text = text[:maxCVChars]
	}

	raw, err := g.ai.CompleteJSON(ctx, g.cvSystemPrompt(j, lang), "Parse this CV. Ensure 'address' and 'experience_years' are populated.\n\nCV:\n"+text)
	if err != nil {
		g.logger.Printf("[AI] cv parse failed job=%s err=%v", j.ID, err)
		return CandidateFields{}, fmt.Errorf("ai cv parse: %w", err)
	}

	var resp cvResponse
	if err := decodeValidated(cvSchema, raw, &resp); err != nil {
		g.logger.Printf("[AI] cv parse invalid job=%s err=%v", j.ID, err)
		return CandidateFields{}, err
	}

	out := resp.CandidateFields
	out.MatchScore = application.ClampScore(int(math.Round(resp.MatchScore)))
	out.Age = math.Round(out.Age)
	out.ExperienceYears = math.Round(out.ExperienceYears*10) / 10
	if edu := EducationLines(out.EducationList); edu != "" {
		out.Education = edu
	}
	if work := EmploymentLines(out.EmploymentList); work != "" {
		out.WorkHistory = work
	}
	out.Gender = NormalizeGender(out.Gender)
	out.Skills = repository.SanitizeStrings(out.Skills)
	return out, nil
}

func (g *Gateway) cvSystemPrompt(j job.Job, lang string) string {
	return fmt.Sprintf(`You are an expert HR AI for %s.
Extract detailed candidate data from the CV for the job: %s.

Rules:
1. Address: extract the full current address from the header, personal details or contact info. If only a city or province is found, return that.
2. experience_years: total years of work experience computed from the employment date ranges, rounded to one decimal, as a number.
3. employment_list and education_list: structured lists.
4. Personal: gender (default Male if unsure), dob as YYYY-MM-DD, nationality, family_status.
5. expected_salary: look for "Expected Salary".
6. match_score: 0-100 fit for the job. ai_summary: executive summary of strengths and weaknesses.

Return one JSON object with the keys first_name, last_name, email, phone, gender, age, dob, nationality, family_status, experience_years, address, expected_salary, education_list[{level,institution,year,major}], employment_list[{company,position,period,salary}], skills[], match_score, ai_summary. Write text values in %s.`,
		g.company, j.Title, application.LanguageName(lang))
}

// EducationLines renders "• <year> <level> in <major> at <institution>"
// lines, skipping empty parts.
func EducationLines(list []EducationEntry) string {
	lines := make([]string, 0, len(list))
	for _, e := range list {
		parts := make([]string, 0, 4)
		if y := strings.TrimSpace(string(e.Year)); y != "" {
			parts = append(parts, y)
		}
		if l := strings.TrimSpace(e.Level); l != "" {
			parts = append(parts, l)
		}
		if m := strings.TrimSpace(e.Major); m != "" {
			parts = append(parts, "in "+m)
		}
		if i := strings.TrimSpace(e.Institution); i != "" {
			parts = append(parts, "at "+i)
		}
		if len(parts) == 0 {
			continue
		}
		lines = append(lines, "• "+strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n")
}

// EmploymentLines renders "• <period>: <position> at <company>" lines.
func EmploymentLines(list []EmploymentEntry) string {
	lines := make([]string, 0, len(list))
	for _, e := range list {
		period := strings.TrimSpace(e.Period)
		position := strings.TrimSpace(e.Position)
		company := strings.TrimSpace(e.Company)
		if period == "" && position == "" && company == "" {
			continue
		}
		lines = append(lines, "• "+period+": "+position+" at "+company)
	}
	return strings.Join(lines, "\n")
}

// NormalizeGender maps free text (English or Lao) to Female or Male.
func NormalizeGender(raw string) string {
	g := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(g, "female"), strings.Contains(g, "ຍິງ"):
		return "Female"
	default:
		return "Male"
	}
}

func formatYears(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
