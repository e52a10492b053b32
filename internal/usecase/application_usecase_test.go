package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"smart-hr/internal/config"
	"smart-hr/internal/domain/application"
	"smart-hr/internal/domain/job"
	"smart-hr/internal/enrichment"
	"smart-hr/internal/interview"
	"smart-hr/internal/store"
	"smart-hr/internal/worker"
	"smart-hr/internal/ws"

	"github.com/google/uuid"
)

var itSupport = uuid.MustParse("6f1c2d3e-0000-4000-8000-000000000001")

type appFixture struct {
	st     *store.Store
	apps   *fakeAppRepo
	jobs   *fakeJobRepo
	ai     *fakeEnricher
	files  *fakeUploader
	events *recordedEvents
	uc     *Applications
}

func newApplicationsFixture(t *testing.T, pool *worker.Pool, policy string, apps ...application.Application) appFixture {
	t.Helper()
	f := appFixture{
		st:     newStore(t, apps...),
		apps:   newAppRepo(apps...),
		jobs:   newJobRepo(job.Job{ID: itSupport, Title: "IT Support", Department: "IT"}),
		ai:     &fakeEnricher{},
		files:  &fakeUploader{},
		events: &recordedEvents{},
	}
	f.uc = NewApplicationUsecase(ApplicationDeps{
		Store:       f.st,
		Apps:        f.apps,
		Jobs:        f.jobs,
		Transitions: &fakeAudit{},
		AI:          f.ai,
		Files:       f.files,
		Pool:        pool,
		Events:      f.events,
	}, config.PipelineConfig{FailurePolicy: policy, PersistTimeout: time.Second}, "Senglao Group")
	return f
}

func TestApplications_Create(t *testing.T) {
	candidate := application.Candidate{FirstName: "Noy", Email: "noy@example.com", Phone: "2055512345"}

	t.Run("requires name and email", func(t *testing.T) {
		f := newApplicationsFixture(t, nil, config.FailurePolicyRollback)
		_, err := f.uc.Create(context.Background(), CreateApplicationInput{Candidate: application.Candidate{FirstName: "Noy"}})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("zero score is computed against the job", func(t *testing.T) {
		f := newApplicationsFixture(t, nil, config.FailurePolicyRollback)
		f.ai.score = enrichment.Score{Value: 72, Summary: "Solid IT background."}

		created, err := f.uc.Create(context.Background(), CreateApplicationInput{
			Candidate:  candidate,
			JobID:      itSupport,
			MatchScore: application.ScorePtr(0),
			CV:         &File{Name: "cv.pdf", Reader: bytes.NewBufferString("%PDF")},
		})
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if created.Score() != 72 || created.Summary != "Solid IT background." {
			t.Fatalf("unexpected scoring %+v", created)
		}
		in := f.apps.created[0]
		if in.Candidate.AppliedPosition != "IT Support" || !strings.HasSuffix(in.CVURL, "cv.pdf") {
			t.Fatalf("unexpected insert %+v", in)
		}
		if in.Status != application.StatusNew {
			t.Fatalf("new applications start as NEW, got %s", in.Status)
		}
		if head := f.st.Applications(); len(head) != 1 || head[0].ID != created.ID {
			t.Fatalf("created application must be at the head of the list")
		}
		if f.events.count(ws.EventApplicationCreated) != 1 {
			t.Fatalf("expected a created event")
		}
	})

	t.Run("failed scoring stays unscored", func(t *testing.T) {
		f := newApplicationsFixture(t, nil, config.FailurePolicyRollback)
		f.ai.score = enrichment.Score{Value: 0, Summary: enrichment.SummaryMissingKey}

		created, err := f.uc.Create(context.Background(), CreateApplicationInput{Candidate: candidate, JobID: itSupport, Summary: "typed by recruiter"})
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if created.Scored() || created.Summary != "typed by recruiter" {
			t.Fatalf("expected unscored with the recruiter summary, got %+v", created)
		}
	})

	t.Run("given score is kept", func(t *testing.T) {
		f := newApplicationsFixture(t, nil, config.FailurePolicyRollback)
		f.ai.score = enrichment.Score{Value: 10, Summary: "should not be used"}
		created, _ := f.uc.Create(context.Background(), CreateApplicationInput{Candidate: candidate, JobID: itSupport, MatchScore: application.ScorePtr(85), Summary: "parsed"})
		if created.Score() != 85 || created.Summary != "parsed" {
			t.Fatalf("unexpected %+v", created)
		}
	})

	t.Run("unknown job", func(t *testing.T) {
		f := newApplicationsFixture(t, nil, config.FailurePolicyRollback)
		_, err := f.uc.Create(context.Background(), CreateApplicationInput{Candidate: candidate, JobID: uuid.New()})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestApplications_GetHidden(t *testing.T) {
	a := newApp(application.StatusNew)
	a.IsHidden = true
	f := newApplicationsFixture(t, nil, config.FailurePolicyRollback, a)
	if _, err := f.uc.Get(context.Background(), a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplications_Delete(t *testing.T) {
	t.Run("success hides at once", func(t *testing.T) {
		pool, wait := startPool()
		a := newApp(application.StatusNew)
		f := newApplicationsFixture(t, pool, config.FailurePolicyRollback, a)

		if err := f.uc.Delete(context.Background(), a.ID, "admin"); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if _, ok := f.st.Get(a.ID); ok {
			t.Fatalf("application must leave the list before persistence")
		}
		wait()
		if len(f.apps.deleted) != 1 || f.events.count(ws.EventApplicationDeleted) != 1 {
			t.Fatalf("expected one soft delete and one event")
		}
	})

	t.Run("rollback reinserts on failure", func(t *testing.T) {
		pool, wait := startPool()
		a := newApp(application.StatusNew)
		b := newApp(application.StatusOffer)
		f := newApplicationsFixture(t, pool, config.FailurePolicyRollback, a, b)
		f.apps.deleteErr = errDown

		if err := f.uc.Delete(context.Background(), b.ID, "admin"); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		wait()
		apps := f.st.Applications()
		if len(apps) != 2 || apps[1].ID != b.ID {
			t.Fatalf("expected b back at its position, got %v", apps)
		}
		if f.events.count(ws.EventSyncFailed) != 1 {
			t.Fatalf("expected a sync failure event")
		}
	})

	t.Run("mark dirty keeps it hidden", func(t *testing.T) {
		pool, wait := startPool()
		a := newApp(application.StatusNew)
		f := newApplicationsFixture(t, pool, config.FailurePolicyMarkDirty, a)
		f.apps.deleteErr = errDown

		_ = f.uc.Delete(context.Background(), a.ID, "admin")
		wait()
		if _, ok := f.st.Get(a.ID); ok {
			t.Fatalf("mark_dirty must not reinsert")
		}
	})
}

func TestApplications_ScheduleInterview(t *testing.T) {
	a := newApp(application.StatusInterview)
	f := newApplicationsFixture(t, nil, config.FailurePolicyRollback, a)
	at := time.Date(2026, 11, 2, 9, 30, 0, 0, time.UTC)

	res, err := f.uc.ScheduleInterview(context.Background(), a.ID, ScheduleInput{Date: at})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	iv := f.apps.interviews[a.ID]
	if iv.Type != application.InterviewOnsite || iv.Location != interview.DefaultOnsiteLocation {
		t.Fatalf("expected onsite defaults, got %+v", iv)
	}
	if got, _ := f.st.Get(a.ID); got.Interview == nil || !got.Interview.Date.Equal(at) {
		t.Fatalf("store must carry the interview")
	}
	if !strings.Contains(res.Message, "Somsak Vong") || !strings.HasPrefix(res.Links.WhatsApp, "https://wa.me/8562055512345") {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Links.Subject != "Interview Invitation: IT Support - Senglao Group" {
		t.Fatalf("unexpected subject %q", res.Links.Subject)
	}

	if _, err := f.uc.ScheduleInterview(context.Background(), a.ID, ScheduleInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing date must be rejected, got %v", err)
	}
}

func TestApplications_Suggestions(t *testing.T) {
	a := newApp(application.StatusNew)
	f := newApplicationsFixture(t, nil, config.FailurePolicyRollback, a)
	f.ai.suggestions = []application.JobSuggestion{{JobID: itSupport.String(), Title: "IT Support", MatchScore: 80, Reason: "fit"}}
	ctx := context.Background()

	out, err := f.uc.Suggestions(ctx, a.ID, "en", false)
	if err != nil || len(out) != 1 {
		t.Fatalf("unexpected %v err=%v", out, err)
	}
	if _, err := f.uc.Suggestions(ctx, a.ID, "en", false); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if f.ai.analyzed != 1 {
		t.Fatalf("stored suggestions must be reused, analyzed %d times", f.ai.analyzed)
	}
	if _, err := f.uc.Suggestions(ctx, a.ID, "en", true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if f.ai.analyzed != 2 {
		t.Fatalf("force must recompute")
	}
	if len(f.apps.suggestions[a.ID]) != 1 {
		t.Fatalf("suggestions must be persisted")
	}
}

func TestApplications_UpdateProfileForgetsTranslations(t *testing.T) {
	a := newApp(application.StatusScreening)
	f := newApplicationsFixture(t, nil, config.FailurePolicyRollback, a)

	c := a.Candidate
	c.WorkHistory = "• 2020-2024: Technician at Unitel"
	updated, err := f.uc.UpdateProfile(context.Background(), a.ID, ProfileInput{Candidate: c, Summary: "edited"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if updated.Summary != "edited" || len(f.ai.forgotten) != 1 {
		t.Fatalf("unexpected %+v forgotten=%v", updated, f.ai.forgotten)
	}
	if got, _ := f.st.Get(a.ID); got.Candidate.WorkHistory != c.WorkHistory {
		t.Fatalf("store must hold the edited profile")
	}
}

func TestApplications_ParseCV(t *testing.T) {
	f := newApplicationsFixture(t, nil, config.FailurePolicyRollback)
	f.ai.parseErr = enrichment.ErrNotConfigured
	_, err := f.uc.ParseCV(context.Background(), ParseCVInput{JobID: itSupport, File: File{Name: "cv.txt", Reader: strings.NewReader("x")}})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	f.ai.parseErr = nil
	f.ai.fields = enrichment.CandidateFields{FirstName: "Noy", MatchScore: 64}
	got, err := f.uc.ParseCV(context.Background(), ParseCVInput{JobID: itSupport, File: File{Name: "cv.txt", Reader: strings.NewReader("x")}})
	if err != nil || got.FirstName != "Noy" {
		t.Fatalf("unexpected %+v err=%v", got, err)
	}
}
