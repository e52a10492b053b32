package intake

import (
	"errors"
	"testing"
	"time"
)

func TestForm_Validate(t *testing.T) {
	ok := Form{FirstName: "Ann", Phone: "020", JobID: "j"}
	tests := []struct {
		name   string
		form   Form
		resume bool
		want   error
	}{
		{"no resume", ok, false, ErrMissingResume},
		{"no job", Form{FirstName: "Ann", Phone: "020"}, true, ErrMissingJob},
		{"no phone", Form{FirstName: "Ann", JobID: "j"}, true, ErrMissingFields},
		{"blank name", Form{FirstName: " ", Phone: "020", JobID: "j"}, true, ErrMissingFields},
		{"ok", ok, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.form.Validate(tt.resume); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestForm_Candidate(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	f := Form{
		FirstName: " Ann ",
		Phone:     "020 555",
		Village:   "Phonthan",
		District:  "Saysettha",
		Province:  "Vientiane",
		DOB:       "1996-06-02",
		Skills:    "Go, SQL,, ",
		Education: []Education{
			{Level: "Bachelor", Institution: "NUOL", Year: "2018", Major: "CS"},
			{Level: "Diploma", Institution: "LTC", Year: "2014", Major: "IT"},
		},
		Employment: []Employment{{Company: "LTC", Position: "Dev", Period: "2019-2023", Salary: "8M LAK"}},
	}
	c := f.Candidate(now)

	if c.Address != "B. Phonthan, M. Saysettha, P. Vientiane" {
		t.Fatalf("unexpected address %q", c.Address)
	}
	wantEdu := "• 2018: Bachelor in CS at NUOL\n\n• 2014: Diploma in IT at LTC"
	if c.Education != wantEdu {
		t.Fatalf("unexpected education %q", c.Education)
	}
	if c.WorkHistory != "• 2019-2023: Dev at LTC (Salary: 8M LAK)" {
		t.Fatalf("unexpected work history %q", c.WorkHistory)
	}
	if len(c.Skills) != 2 || c.Skills[0] != "Go" || c.Skills[1] != "SQL" {
		t.Fatalf("unexpected skills %v", c.Skills)
	}
	if c.FirstName != "Ann" || c.Age != 29 || c.ExperienceYears != 1 {
		t.Fatalf("unexpected candidate %+v", c)
	}
	if c.AvatarURL != "https://api.dicebear.com/7.x/avataaars/svg?seed=Ann-1780272000000" {
		t.Fatalf("unexpected avatar %q", c.AvatarURL)
	}
}

func TestExtraDetailsIsRawSummary(t *testing.T) {
	got := Form{DOB: "2000-01-01", Nationality: "Lao"}.ExtraDetails()
	want := "Manual Entry Data:\nDOB: 2000-01-01\nNationality: Lao\nFamily: \nID Card: "
	if got != want {
		t.Fatalf("got %q", got)
	}
}

func TestAgeFromDOB(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if AgeFromDOB("bad", now) != 0 || AgeFromDOB("2030-01-01", now) != 0 {
		t.Fatalf("expected zero for invalid or future dates")
	}
	if AgeFromDOB("2000-06-01", now) != 26 {
		t.Fatalf("birthday today must count")
	}
}
