package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"smart-hr/internal/config"
	"smart-hr/internal/domain/application"
	"smart-hr/internal/infrastructure/notify"
	"smart-hr/internal/repository"
	"smart-hr/internal/store"
	"smart-hr/internal/worker"
	"smart-hr/internal/ws"

	"github.com/google/uuid"
)

// StatusWriter is the part of the persistence gateway a transition needs.
type StatusWriter interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status application.Status) error
}

type TransitionResult struct {
	Application application.Application `json:"application"`
	From        application.Status      `json:"from_status"`
	// InterviewFlow tells the caller to open interview scheduling for
	// Application.
	InterviewFlow bool `json:"interview_flow"`
}

type ResyncReport struct {
	Synced []uuid.UUID        `json:"synced"`
	Failed []store.DirtyEntry `json:"failed"`
}

type TransitionUsecase interface {
	Apply(ctx context.Context, id uuid.UUID, status application.Status, actor string) (TransitionResult, error)
	Resync(ctx context.Context) (ResyncReport, error)
}

// Transitions applies status changes optimistically: the store is updated
// first, persistence runs on the worker pool, and side effects fire without
// waiting for it.
type Transitions struct {
	store    *store.Store
	writer   StatusWriter
	audit    repository.TransitionRepository
	pool     *worker.Pool
	notifier notify.Notifier
	events   ws.Publisher
	policy   string
	timeout  time.Duration
	logger   *log.Logger
	now      func() time.Time
}

type TransitionDeps struct {
	Store    *store.Store
	Writer   StatusWriter
	Audit    repository.TransitionRepository
	Pool     *worker.Pool
	Notifier notify.Notifier
	Events   ws.Publisher
	Logger   *log.Logger
}

func NewTransitionUsecase(deps TransitionDeps, cfg config.PipelineConfig) *Transitions {
	u := &Transitions{
		store:    deps.Store,
		writer:   deps.Writer,
		audit:    deps.Audit,
		pool:     deps.Pool,
		notifier: deps.Notifier,
		events:   deps.Events,
		policy:   cfg.FailurePolicy,
		timeout:  cfg.PersistTimeout,
		logger:   deps.Logger,
		now:      time.Now,
	}
	if u.policy != config.FailurePolicyMarkDirty {
		u.policy = config.FailurePolicyRollback
	}
	if u.timeout <= 0 {
		u.timeout = 10 * time.Second
	}
	if u.notifier == nil {
		u.notifier = notify.Log{Logger: u.logger}
	}
	if u.events == nil {
		u.events = noopPublisher{}
	}
	if u.logger == nil {
		u.logger = log.Default()
	}
	return u
}

func (u *Transitions) Apply(ctx context.Context, id uuid.UUID, status application.Status, actor string) (TransitionResult, error) {
	if !status.Valid() {
		return TransitionResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, application.ErrInvalidStatus)
	}

	change, ok := u.store.SetStatus(id, status)
	if !ok {
		return TransitionResult{}, ErrNotFound
	}
	cur := change.Current
	from := change.Previous.Status
	u.logger.Printf("[Transition] applied app=%s from=%s to=%s actor=%s version=%d", id, from, status, actor, change.Version)

	u.persist(change, actor)

	res := TransitionResult{Application: cur, From: from}
	switch status {
	case application.StatusInterview:
		res.InterviewFlow = true
		u.events.Publish(ws.Event{Type: ws.EventInterviewFlowOpened, ApplicationID: id.String(), Data: cur})
	case application.StatusRejected:
		u.sendNotification(notify.Notification{
			Type:          notify.TypeReject,
			ApplicationID: id,
			CandidateName: cur.Candidate.FullName(),
			Position:      position(cur),
		})
	}

	u.events.Publish(ws.Event{
		Type:          ws.EventStatusChanged,
		ApplicationID: id.String(),
		Data:          map[string]any{"from": from, "to": status, "actor": actor},
	})
	return res, nil
}

// persist writes the latest local status of the application, not the
// status of this change, so remote state converges on the last intent when
// changes race. Every successful write is recorded as the confirmed status
// that a later rollback returns to.
func (u *Transitions) persist(change store.Change, actor string) {
	id := change.Current.ID
	ev := application.TransitionEvent{
		ApplicationID: id,
		From:          change.Previous.Status,
		To:            change.Current.Status,
		Actor:         actor,
		At:            u.now().UTC(),
	}

	task := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, u.timeout)
		defer cancel()

		latest, ok := u.store.Get(id)
		if !ok {
			return nil
		}
		if err := u.writer.UpdateStatus(ctx, id, latest.Status); err != nil {
			u.reconcile(change, err)
			return err
		}
		u.store.Confirm(id, latest.Status)
		u.store.ClearDirty(id)

		if u.audit != nil {
			if err := u.audit.Record(ctx, ev); err != nil {
				u.logger.Printf("[Transition] audit write failed app=%s err=%v", id, err)
			}
		}
		return nil
	}

	if err := u.pool.Submit("status:"+id.String(), task); err != nil {
		u.reconcile(change, err)
	}
}

func (u *Transitions) reconcile(change store.Change, cause error) {
	id := change.Current.ID
	u.logger.Printf("[Transition] persist failed app=%s status=%s policy=%s err=%v", id, change.Current.Status, u.policy, cause)

	data := map[string]any{"policy": u.policy, "status": change.Current.Status}
	if u.policy == config.FailurePolicyMarkDirty {
		u.store.MarkDirty(id, "status update failed: "+cause.Error())
	} else {
		status, restored := u.store.RollbackStatus(id, change.Version)
		data["restored"] = restored
		if restored {
			data["status"] = status
		}
	}

	u.events.Publish(ws.Event{Type: ws.EventSyncFailed, ApplicationID: id.String(), Data: data})
	u.sendNotification(notify.Notification{
		Type:          notify.TypeSyncError,
		ApplicationID: id,
		CandidateName: change.Current.Candidate.FullName(),
		Position:      position(change.Current),
		Message:       fmt.Sprintf("Status %s could not be saved (%s).", change.Current.Status, u.policy),
	})
}

func (u *Transitions) sendNotification(n notify.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), u.timeout)
	defer cancel()
	if err := u.notifier.Notify(ctx, n); err != nil {
		u.logger.Printf("[Transition] notification failed type=%s app=%s err=%v", n.Type, n.ApplicationID, err)
	}
}

// Resync pushes the local status of every dirty application again.
func (u *Transitions) Resync(ctx context.Context) (ResyncReport, error) {
	report := ResyncReport{Synced: []uuid.UUID{}, Failed: []store.DirtyEntry{}}
	for _, d := range u.store.Dirty() {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		latest, ok := u.store.Get(d.ApplicationID)
		if !ok {
			u.store.ClearDirty(d.ApplicationID)
			continue
		}
		wctx, cancel := context.WithTimeout(ctx, u.timeout)
		err := u.writer.UpdateStatus(wctx, d.ApplicationID, latest.Status)
		cancel()
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				u.store.ClearDirty(d.ApplicationID)
				continue
			}
			d.Reason = "resync failed: " + err.Error()
			report.Failed = append(report.Failed, d)
			continue
		}
		u.store.Confirm(d.ApplicationID, latest.Status)
		u.store.ClearDirty(d.ApplicationID)
		report.Synced = append(report.Synced, d.ApplicationID)
	}
	u.logger.Printf("[Transition] resync synced=%d failed=%d", len(report.Synced), len(report.Failed))
	return report, nil
}

func position(a application.Application) string {
	if a.Candidate.AppliedPosition != "" {
		return a.Candidate.AppliedPosition
	}
	return a.JobTitle
}

type noopPublisher struct{}

func (noopPublisher) Publish(ws.Event) {}
