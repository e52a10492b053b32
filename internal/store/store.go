package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"smart-hr/internal/domain/application"
	"smart-hr/internal/domain/job"

	"github.com/google/uuid"
)

var ErrNilLoader = errors.New("nil loader")

type Loader interface {
	ListVisibleApplications(ctx context.Context) ([]application.Application, error)
	ListJobs(ctx context.Context) ([]job.Job, error)
}

// Change describes one optimistic mutation: the entry before it and the
// version the entry carries after it.
type Change struct {
	Previous application.Application
	Current  application.Application
	Version  uint64
}

type Removal struct {
	App     application.Application
	Index   int
	Version uint64
}

type DirtyEntry struct {
	ApplicationID uuid.UUID `json:"application_id"`
	Reason        string    `json:"reason"`
	Since         time.Time `json:"since"`
}

// Store is the session list of applications and jobs. Lists are replaced
// wholesale on every mutation, so a slice handed out by Applications or Jobs
// is never written to afterwards.
type Store struct {
	mu sync.RWMutex

	apps     []application.Application
	jobs     []job.Job
	versions map[uuid.UUID]uint64
	dirty    map[uuid.UUID]DirtyEntry
	loadedAt time.Time

	// confirmed is the last status known to be stored remotely.
	confirmed map[uuid.UUID]application.Status

	now func() time.Time
}

func New() *Store {
	return &Store{
		apps:     make([]application.Application, 0),
		jobs:     make([]job.Job, 0),
		versions: make(map[uuid.UUID]uint64),
		dirty:    make(map[uuid.UUID]DirtyEntry),
		now:      time.Now,

		confirmed: make(map[uuid.UUID]application.Status),
	}
}

// Load replaces both lists from the loader. Hidden applications are
// discarded even if the loader returns them.
func (s *Store) Load(ctx context.Context, l Loader) error {
	if l == nil {
		return ErrNilLoader
	}

	var (
		apps    []application.Application
		jobs    []job.Job
		errApps error
		errJobs error
	)

	wg := sync.WaitGroup{}
	wg.Add(2)
	go func() {
		defer wg.Done()
		apps, errApps = l.ListVisibleApplications(ctx)
	}()
	go func() {
		defer wg.Done()
		jobs, errJobs = l.ListJobs(ctx)
	}()
	wg.Wait()

	if errApps != nil {
		return errApps
	}
	if errJobs != nil {
		return errJobs
	}

	visible := make([]application.Application, 0, len(apps))
	for _, a := range apps {
		if a.IsHidden {
			continue
		}
		visible = append(visible, a)
	}
	if jobs == nil {
		jobs = make([]job.Job, 0)
	}

	s.mu.Lock()
	s.apps = visible
	s.jobs = jobs
	s.dirty = make(map[uuid.UUID]DirtyEntry)
	s.loadedAt = s.now().UTC()
	s.confirmed = make(map[uuid.UUID]application.Status, len(visible))
	for _, a := range visible {
		s.versions[a.ID]++
		s.confirmed[a.ID] = a.Status
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

func (s *Store) Applications() []application.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apps
}

func (s *Store) Jobs() []job.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobs
}

func (s *Store) Get(id uuid.UUID) (application.Application, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.apps {
		if a.ID == id {
			return a, true
		}
	}
	return application.Application{}, false
}

func (s *Store) Job(id uuid.UUID) (job.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.jobs {
		if j.ID == id {
			return j, true
		}
	}
	return job.Job{}, false
}

func (s *Store) Version(id uuid.UUID) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[id]
}

// Update applies fn to a copy of the entry and swaps in a new list.
func (s *Store) Update(id uuid.UUID, fn func(*application.Application)) (Change, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Change{}, false
	}

	prev := s.apps[idx]
	cur := cloneApplication(prev)
	if fn != nil {
		fn(&cur)
	}
	cur.UpdatedAt = s.now().UTC()

	next := make([]application.Application, len(s.apps))
	copy(next, s.apps)
	next[idx] = cur
	s.apps = next
	s.versions[id]++

	return Change{Previous: prev, Current: cur, Version: s.versions[id]}, true
}

func (s *Store) SetStatus(id uuid.UUID, status application.Status) (Change, bool) {
	return s.Update(id, func(a *application.Application) { a.Status = status })
}

func (s *Store) SetInterview(id uuid.UUID, iv application.Interview) (Change, bool) {
	return s.Update(id, func(a *application.Application) {
		v := iv
		a.Interview = &v
	})
}

func (s *Store) SetAI(id uuid.UUID, score int, summary string, suggestions []application.JobSuggestion) (Change, bool) {
	return s.Update(id, func(a *application.Application) {
		a.MatchScore = application.ScorePtr(score)
		a.Summary = summary
		if suggestions != nil {
			a.JobSuggestions = suggestions
		}
	})
}

// Prepend puts app at the head of the list; an existing entry with the same
// id is replaced instead.
func (s *Store) Prepend(app application.Application) {
	if app.IsHidden {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(app.ID); idx >= 0 {
		next := make([]application.Application, len(s.apps))
		copy(next, s.apps)
		next[idx] = app
		s.apps = next
	} else {
		next := make([]application.Application, 0, len(s.apps)+1)
		next = append(next, app)
		next = append(next, s.apps...)
		s.apps = next
	}
	s.versions[app.ID]++
	s.confirmed[app.ID] = app.Status
}

func (s *Store) Replace(app application.Application) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(app.ID)
	if idx < 0 {
		return false
	}
	next := make([]application.Application, len(s.apps))
	copy(next, s.apps)
	next[idx] = app
	s.apps = next
	s.versions[app.ID]++
	s.confirmed[app.ID] = app.Status
	return true
}

func (s *Store) Remove(id uuid.UUID) (Removal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Removal{}, false
	}
	removed := s.apps[idx]

	next := make([]application.Application, 0, len(s.apps)-1)
	next = append(next, s.apps[:idx]...)
	next = append(next, s.apps[idx+1:]...)
	s.apps = next
	s.versions[id]++
	delete(s.dirty, id)

	return Removal{App: removed, Index: idx, Version: s.versions[id]}, true
}

// Confirm records status as the one the remote store now holds for id.
func (s *Store) Confirm(id uuid.UUID, status application.Status) {
	s.mu.Lock()
	s.confirmed[id] = status
	s.mu.Unlock()
}

func (s *Store) Confirmed(id uuid.UUID) (application.Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.confirmed[id]
	return st, ok
}

// RollbackStatus resets the entry to its last confirmed status, but only if
// no newer mutation touched it since the change that produced version. It
// returns the status the entry holds afterwards.
func (s *Store) RollbackStatus(id uuid.UUID, version uint64) (application.Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.versions[id] != version {
		return "", false
	}
	idx := s.indexOf(id)
	if idx < 0 {
		return "", false
	}
	target, ok := s.confirmed[id]
	if !ok {
		return "", false
	}
	if s.apps[idx].Status == target {
		return target, true
	}

	cur := cloneApplication(s.apps[idx])
	cur.Status = target
	cur.UpdatedAt = s.now().UTC()
	next := make([]application.Application, len(s.apps))
	copy(next, s.apps)
	next[idx] = cur
	s.apps = next
	s.versions[id]++
	return target, true
}

// Reinsert undoes a Remove under the same version rule as RollbackStatus.
func (s *Store) Reinsert(r Removal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.versions[r.App.ID] != r.Version || s.indexOf(r.App.ID) >= 0 {
		return false
	}
	idx := r.Index
	if idx < 0 || idx > len(s.apps) {
		idx = len(s.apps)
	}
	next := make([]application.Application, 0, len(s.apps)+1)
	next = append(next, s.apps[:idx]...)
	next = append(next, r.App)
	next = append(next, s.apps[idx:]...)
	s.apps = next
	s.versions[r.App.ID]++
	return true
}

func (s *Store) MarkDirty(id uuid.UUID, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(id) < 0 {
		return
	}
	if _, ok := s.dirty[id]; ok {
		return
	}
	s.dirty[id] = DirtyEntry{ApplicationID: id, Reason: reason, Since: s.now().UTC()}
}

func (s *Store) ClearDirty(id uuid.UUID) {
	s.mu.Lock()
	delete(s.dirty, id)
	s.mu.Unlock()
}

func (s *Store) Dirty() []DirtyEntry {
	s.mu.RLock()
	out := make([]DirtyEntry, 0, len(s.dirty))
	for _, d := range s.dirty {
		out = append(out, d)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Since.Before(out[j].Since) })
	return out
}

func (s *Store) SetJobs(jobs []job.Job) {
	if jobs == nil {
		jobs = make([]job.Job, 0)
	}
	s.mu.Lock()
	s.jobs = jobs
	s.mu.Unlock()
}

func (s *Store) PutJob(j job.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]job.Job, 0, len(s.jobs)+1)
	replaced := false
	for _, it := range s.jobs {
		if it.ID == j.ID {
			next = append(next, j)
			replaced = true
			continue
		}
		next = append(next, it)
	}
	if !replaced {
		next = append([]job.Job{j}, next...)
	}
	s.jobs = next
}

func (s *Store) RemoveJob(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]job.Job, 0, len(s.jobs))
	for _, it := range s.jobs {
		if it.ID != id {
			next = append(next, it)
		}
	}
	s.jobs = next
}

func (s *Store) indexOf(id uuid.UUID) int {
	for i, a := range s.apps {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func cloneApplication(a application.Application) application.Application {
	out := a
	if a.MatchScore != nil {
		v := *a.MatchScore
		out.MatchScore = &v
	}
	if a.Interview != nil {
		iv := *a.Interview
		out.Interview = &iv
	}
	if a.JobSuggestions != nil {
		out.JobSuggestions = append([]application.JobSuggestion(nil), a.JobSuggestions...)
	}
	if a.Candidate.Skills != nil {
		out.Candidate.Skills = append([]string(nil), a.Candidate.Skills...)
	}
	return out
}
