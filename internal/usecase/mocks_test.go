package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"smart-hr/internal/domain/application"
	"smart-hr/internal/domain/job"
	"smart-hr/internal/enrichment"
	"smart-hr/internal/infrastructure/notify"
	"smart-hr/internal/repository"
	"smart-hr/internal/store"
	"smart-hr/internal/worker"
	"smart-hr/internal/ws"

	"github.com/google/uuid"
)

var errDown = errors.New("db down")

type staticLoader struct {
	apps []application.Application
	jobs []job.Job
}

func (l staticLoader) ListVisibleApplications(context.Context) ([]application.Application, error) {
	return l.apps, nil
}
func (l staticLoader) ListJobs(context.Context) ([]job.Job, error) { return l.jobs, nil }

func newStore(t *testing.T, apps ...application.Application) *store.Store {
	t.Helper()
	st := store.New()
	if err := st.Load(context.Background(), staticLoader{apps: apps}); err != nil {
		t.Fatalf("load: %v", err)
	}
	return st
}

func newApp(status application.Status) application.Application {
	return application.Application{
		ID:     uuid.New(),
		Status: status,
		Candidate: application.Candidate{
			FirstName:       "Somsak",
			LastName:        "Vong",
			Email:           "somsak@example.com",
			Phone:           "02055512345",
			AppliedPosition: "IT Support",
		},
	}
}

// startPool returns a running pool and a func that closes it and waits for
// every queued task.
func startPool() (*worker.Pool, func()) {
	p := worker.NewPool(1, 16)
	results := p.Run(context.Background())
	return p, func() {
		p.Close()
		worker.Drain(results, nil)
	}
}

type fakeWriter struct {
	mu       sync.Mutex
	failN    int
	failCall int
	err      error
	statuses []application.Status
}

func (w *fakeWriter) UpdateStatus(_ context.Context, _ uuid.UUID, s application.Status) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.statuses = append(w.statuses, s)
	if w.failCall > 0 && len(w.statuses) == w.failCall {
		return errDown
	}
	if w.failN > 0 {
		w.failN--
		return errDown
	}
	return w.err
}

func (w *fakeWriter) written() []application.Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]application.Status(nil), w.statuses...)
}

type fakeAudit struct {
	mu     sync.Mutex
	events []application.TransitionEvent
}

func (a *fakeAudit) Record(_ context.Context, ev application.TransitionEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
	return nil
}

func (a *fakeAudit) ListByApplication(_ context.Context, id uuid.UUID, _ int) ([]application.TransitionEvent, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]application.TransitionEvent, 0)
	for _, ev := range a.events {
		if ev.ApplicationID == id {
			out = append(out, ev)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (n *fakeNotifier) Notify(_ context.Context, m notify.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, m)
	return nil
}

func (n *fakeNotifier) count(t notify.Type) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, m := range n.sent {
		if m.Type == t {
			c++
		}
	}
	return c
}

type recordedEvents struct {
	mu     sync.Mutex
	events []ws.Event
}

func (r *recordedEvents) Publish(evt ws.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recordedEvents) count(t ws.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := 0
	for _, e := range r.events {
		if e.Type == t {
			c++
		}
	}
	return c
}

type fakeAppRepo struct {
	mu          sync.Mutex
	byID        map[uuid.UUID]application.Application
	created     []repository.NewApplication
	deleteErr   error
	deleted     []uuid.UUID
	suggestions map[uuid.UUID][]application.JobSuggestion
	interviews  map[uuid.UUID]application.Interview
}

func newAppRepo(apps ...application.Application) *fakeAppRepo {
	r := &fakeAppRepo{
		byID:        map[uuid.UUID]application.Application{},
		suggestions: map[uuid.UUID][]application.JobSuggestion{},
		interviews:  map[uuid.UUID]application.Interview{},
	}
	for _, a := range apps {
		r.byID[a.ID] = a
	}
	return r
}

func (r *fakeAppRepo) ListVisibleApplications(context.Context) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]application.Application, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAppRepo) Search(context.Context, repository.ApplicationFilter) ([]application.Application, int, error) {
	apps, _ := r.ListVisibleApplications(context.Background())
	return apps, len(apps), nil
}

func (r *fakeAppRepo) GetByID(_ context.Context, id uuid.UUID) (application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return application.Application{}, repository.ErrNotFound
	}
	return a, nil
}

func (r *fakeAppRepo) Create(_ context.Context, in repository.NewApplication) (application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, in)
	a := application.Application{
		ID:          uuid.New(),
		CandidateID: uuid.New(),
		Candidate:   in.Candidate,
		JobID:       in.JobID,
		Status:      in.Status,
		MatchScore:  in.MatchScore,
		Summary:     in.Summary,
		CVURL:       in.CVURL,
	}
	r.byID[a.ID] = a
	return a, nil
}

func (r *fakeAppRepo) UpdateStatus(context.Context, uuid.UUID, application.Status) error { return nil }

func (r *fakeAppRepo) UpdateInterview(_ context.Context, id uuid.UUID, iv application.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interviews[id] = iv
	return nil
}

func (r *fakeAppRepo) UpdateAI(context.Context, uuid.UUID, repository.AIUpdate) error { return nil }

func (r *fakeAppRepo) UpdateSuggestions(_ context.Context, id uuid.UUID, s []application.JobSuggestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suggestions[id] = s
	return nil
}

func (r *fakeAppRepo) UpdateCandidateProfile(_ context.Context, id uuid.UUID, in repository.CandidateProfile) (application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return application.Application{}, repository.ErrNotFound
	}
	a.Candidate = in.Candidate
	a.Summary = in.Summary
	r.byID[id] = a
	return a, nil
}

func (r *fakeAppRepo) UpdateCandidateEmbedding(context.Context, uuid.UUID, []float32) error {
	return nil
}

func (r *fakeAppRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, id)
	return r.deleteErr
}

type fakeJobRepo struct {
	jobs       map[uuid.UUID]job.Job
	embeddings map[uuid.UUID][]float32
}

func newJobRepo(jobs ...job.Job) *fakeJobRepo {
	r := &fakeJobRepo{jobs: map[uuid.UUID]job.Job{}, embeddings: map[uuid.UUID][]float32{}}
	for _, j := range jobs {
		r.jobs[j.ID] = j
	}
	return r
}

func (r *fakeJobRepo) ListJobs(context.Context) ([]job.Job, error) {
	out := make([]job.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j)
	}
	return out, nil
}

func (r *fakeJobRepo) ListPublicJobs(ctx context.Context) ([]job.Job, error) { return r.ListJobs(ctx) }

func (r *fakeJobRepo) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return job.Job{}, repository.ErrNotFound
	}
	return j, nil
}

func (r *fakeJobRepo) Create(_ context.Context, d job.Draft) (job.Job, error) {
	j := job.Job{ID: uuid.New(), Title: d.Title, Department: d.Department, Description: d.Description, Requirements: d.Requirements}
	r.jobs[j.ID] = j
	return j, nil
}

func (r *fakeJobRepo) Update(_ context.Context, id uuid.UUID, d job.Draft) (job.Job, error) {
	if _, ok := r.jobs[id]; !ok {
		return job.Job{}, repository.ErrNotFound
	}
	j := job.Job{ID: id, Title: d.Title, Department: d.Department, Description: d.Description, Requirements: d.Requirements}
	r.jobs[id] = j
	return j, nil
}

func (r *fakeJobRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.jobs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *fakeJobRepo) UpdateEmbedding(_ context.Context, id uuid.UUID, emb []float32) error {
	r.embeddings[id] = emb
	return nil
}

type fakeEnricher struct {
	score       enrichment.Score
	fields      enrichment.CandidateFields
	parseErr    error
	suggestions []application.JobSuggestion
	analyzed    int
	forgotten   []uuid.UUID
	message     string
}

func (f *fakeEnricher) ParseAndScoreCV(context.Context, io.Reader, string, job.Job, string) (enrichment.CandidateFields, error) {
	return f.fields, f.parseErr
}

func (f *fakeEnricher) ScoreCandidateProfile(context.Context, application.Candidate, job.Job, string) enrichment.Score {
	return f.score
}

func (f *fakeEnricher) TranslateCandidateData(_ context.Context, _ uuid.UUID, c application.Candidate, summary, _ string) enrichment.Localized {
	return enrichment.Localized{WorkHistory: c.WorkHistory, Education: c.Education, Summary: summary}
}

func (f *fakeEnricher) AnalyzeJobSuitability(context.Context, application.Candidate, []job.Job, string) []application.JobSuggestion {
	f.analyzed++
	return f.suggestions
}

func (f *fakeEnricher) GenerateInterviewMessage(context.Context, enrichment.InterviewDraft) string {
	return f.message
}

func (f *fakeEnricher) EmbedProfile(context.Context, application.Candidate) []float32 { return nil }

func (f *fakeEnricher) EmbedJob(context.Context, job.Job) []float32 { return []float32{0.1, 0.2} }

func (f *fakeEnricher) ForgetTranslations(_ context.Context, id uuid.UUID) {
	f.forgotten = append(f.forgotten, id)
}

type fakeUploader struct {
	names []string
	err   error
}

func (u *fakeUploader) Upload(_ context.Context, name string, r io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	u.names = append(u.names, name)
	return "http://files.local/CV/" + name, nil
}
