package intake

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"smart-hr/internal/domain/application"
)

var (
	ErrMissingResume = errors.New("resume file is required")
	ErrMissingJob    = errors.New("job is required")
	ErrMissingFields = errors.New("first name and phone are required")
)

type Education struct {
	Level       string `json:"level"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	Major       string `json:"major"`
}

type Employment struct {
	Company  string `json:"company"`
	Position string `json:"position"`
	Period   string `json:"period"`
	Salary   string `json:"salary"`
}

// Form is the public application form as typed by the candidate.
type Form struct {
	FirstName      string       `json:"first_name"`
	LastName       string       `json:"last_name"`
	Email          string       `json:"email"`
	Phone          string       `json:"phone"`
	Gender         string       `json:"gender"`
	DOB            string       `json:"dob"`
	Nationality    string       `json:"nationality"`
	FamilyStatus   string       `json:"family_status"`
	IDCard         string       `json:"id_card"`
	Village        string       `json:"village"`
	District       string       `json:"district"`
	Province       string       `json:"province"`
	ExpectedSalary string       `json:"expected_salary"`
	Skills         string       `json:"skills"`
	JobID          string       `json:"job_id"`
	Education      []Education  `json:"education_list"`
	Employment     []Employment `json:"employment_list"`
}

// Validate checks what must be present before anything is uploaded.
func (f Form) Validate(hasResume bool) error {
	if !hasResume {
		return ErrMissingResume
	}
	if strings.TrimSpace(f.JobID) == "" {
		return ErrMissingJob
	}
	if strings.TrimSpace(f.FirstName) == "" || strings.TrimSpace(f.Phone) == "" {
		return ErrMissingFields
	}
	return nil
}

func Address(village, district, province string) string {
	return "B. " + strings.TrimSpace(village) + ", M. " + strings.TrimSpace(district) + ", P. " + strings.TrimSpace(province)
}

// EducationText renders one "• <year>: <level> in <major> at <institution>"
// line per entry, separated by a blank line.
func EducationText(list []Education) string {
	lines := make([]string, 0, len(list))
	for _, e := range list {
		lines = append(lines, "• "+e.Year+": "+e.Level+" in "+e.Major+" at "+e.Institution)
	}
	return strings.Join(lines, "\n\n")
}

func EmploymentText(list []Employment) string {
	lines := make([]string, 0, len(list))
	for _, e := range list {
		lines = append(lines, "• "+e.Period+": "+e.Position+" at "+e.Company+" (Salary: "+e.Salary+")")
	}
	return strings.Join(lines, "\n\n")
}

// SplitSkills splits a comma separated list, dropping empty items.
func SplitSkills(raw string) []string {
	out := make([]string, 0)
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ExtraDetails is the raw summary stored until the profile is analysed.
// Its "Manual Entry Data" marker makes translation regenerate the summary.
func (f Form) ExtraDetails() string {
	return "Manual Entry Data:\nDOB: " + f.DOB + "\nNationality: " + f.Nationality +
		"\nFamily: " + f.FamilyStatus + "\nID Card: " + f.IDCard
}

// Candidate builds the candidate record. experience_years is approximated
// by the number of employment entries.
func (f Form) Candidate(now time.Time) application.Candidate {
	return application.Candidate{
		FirstName:       strings.TrimSpace(f.FirstName),
		LastName:        strings.TrimSpace(f.LastName),
		Email:           strings.TrimSpace(f.Email),
		Phone:           strings.TrimSpace(f.Phone),
		Address:         Address(f.Village, f.District, f.Province),
		Village:         strings.TrimSpace(f.Village),
		District:        strings.TrimSpace(f.District),
		Province:        strings.TrimSpace(f.Province),
		Gender:          f.Gender,
		Age:             AgeFromDOB(f.DOB, now),
		ExperienceYears: float64(len(f.Employment)),
		WorkHistory:     EmploymentText(f.Employment),
		Skills:          SplitSkills(f.Skills),
		Education:       EducationText(f.Education),
		ExpectedSalary:  strings.TrimSpace(f.ExpectedSalary),
		AvatarURL:       AvatarURL(f.FirstName, now),
	}
}

// AgeFromDOB returns full years since a YYYY-MM-DD birth date, or 0.
func AgeFromDOB(dob string, now time.Time) int {
	birth, err := time.Parse("2006-01-02", strings.TrimSpace(dob))
	if err != nil {
		return 0
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

func AvatarURL(seed string, now time.Time) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + strings.TrimSpace(seed) + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}
