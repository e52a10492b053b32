package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"smart-hr/internal/domain/application"
	"smart-hr/internal/domain/job"
	"smart-hr/internal/enrichment"
	"smart-hr/internal/intake"
	"smart-hr/internal/ws"
)

func newIntakeFixture(t *testing.T) (*Intake, *fakeAppRepo, *fakeEnricher, *recordedEvents) {
	t.Helper()
	apps := newAppRepo()
	ai := &fakeEnricher{}
	events := &recordedEvents{}
	uc := NewIntakeUsecase(apps, newJobRepo(job.Job{ID: itSupport, Title: "IT Support", Department: "IT"}), ai, &fakeUploader{}, newStore(t), events, nil)
	uc.now = func() time.Time { return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC) }
	return uc, apps, ai, events
}

func validForm() intake.Form {
	return intake.Form{
		FirstName:   "Kham",
		Phone:       "02099887766",
		DOB:         "1996-04-20",
		Nationality: "Lao",
		JobID:       itSupport.String(),
		Skills:      "Networking, Windows",
		Employment:  []intake.Employment{{Company: "LTC", Position: "Technician", Period: "2019-2023"}},
	}
}

func TestIntake_SubmitValidation(t *testing.T) {
	uc, apps, _, _ := newIntakeFixture(t)
	resume := &File{Name: "cv.pdf", Reader: strings.NewReader("%PDF")}

	tests := []struct {
		name   string
		form   func() intake.Form
		resume *File
	}{
		{"missing resume", validForm, nil},
		{"missing job", func() intake.Form { f := validForm(); f.JobID = ""; return f }, resume},
		{"unknown job", func() intake.Form { f := validForm(); f.JobID = "6f1c2d3e-0000-4000-8000-0000000000ff"; return f }, resume},
		{"missing phone", func() intake.Form { f := validForm(); f.Phone = " "; return f }, resume},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Submit(context.Background(), SubmitInput{Form: tt.form(), Resume: tt.resume})
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
	if len(apps.created) != 0 {
		t.Fatalf("nothing may be stored for an invalid form")
	}
}

func TestIntake_Submit(t *testing.T) {
	t.Run("scored", func(t *testing.T) {
		uc, apps, ai, events := newIntakeFixture(t)
		ai.score = enrichment.Score{Value: 58, Summary: "Some support experience."}

		created, err := uc.Submit(context.Background(), SubmitInput{Form: validForm(), Resume: &File{Name: "cv.pdf", Reader: strings.NewReader("%PDF")}})
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		in := apps.created[0]
		if in.Status != application.StatusNew || in.Candidate.ExperienceYears != 1 || in.Candidate.Age != 30 {
			t.Fatalf("unexpected candidate %+v", in)
		}
		if in.Candidate.AppliedPosition != "IT Support" || in.CVURL == "" {
			t.Fatalf("position and resume must be set, got %+v", in)
		}
		if created.Score() != 58 || events.count(ws.EventApplicationCreated) != 1 {
			t.Fatalf("unexpected %+v", created)
		}
	})

	t.Run("scoring fallback keeps the typed details", func(t *testing.T) {
		uc, apps, ai, _ := newIntakeFixture(t)
		ai.score = enrichment.Score{Summary: enrichment.SummaryScoringFailed}

		if _, err := uc.Submit(context.Background(), SubmitInput{Form: validForm(), Resume: &File{Name: "cv.pdf", Reader: strings.NewReader("%PDF")}}); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		in := apps.created[0]
		if in.MatchScore != nil || !enrichment.IsRawSummary(in.Summary) || !strings.Contains(in.Summary, "DOB: 1996-04-20") {
			t.Fatalf("expected raw entry data, got score=%v summary=%q", in.MatchScore, in.Summary)
		}
	})
}
