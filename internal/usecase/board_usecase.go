package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"smart-hr/internal/board"
	"smart-hr/internal/domain/application"
	"smart-hr/internal/domain/job"
	"smart-hr/internal/store"
	"smart-hr/internal/ws"
)

// DropLock suppresses a resent drop: the same client gesture id arriving
// twice within the lock TTL is applied once.
type DropLock interface {
	Available() bool
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

type DropResult struct {
	Moved      bool              `json:"moved"`
	Duplicate  bool              `json:"duplicate,omitempty"`
	Intent     *board.Intent     `json:"intent,omitempty"`
	Transition *TransitionResult `json:"transition,omitempty"`
}

// DropRequest is one finished drag. OverID names the target directly; when
// it is empty a recorded Gesture is replayed against the server layout.
// GestureID is the client's id for the drag and only dedupes replays of it.
type DropRequest struct {
	ActiveID  string
	OverID    string
	GestureID string
	Gesture   *board.Gesture
	Actor     string
}

// BoardLayout is the geometry the server resolves gestures against.
type BoardLayout struct {
	Droppables []board.Droppable `json:"droppables"`
	Sensors    board.Sensors     `json:"sensors"`
}

type BoardUsecase interface {
	Columns(lang string) []board.Column
	Layout(lang string) BoardLayout
	Drop(ctx context.Context, req DropRequest) (DropResult, error)
	Reload(ctx context.Context) error
	Dirty() []store.DirtyEntry
	Resync(ctx context.Context) (ResyncReport, error)
}

type Board struct {
	store       *store.Store
	loader      store.Loader
	transitions TransitionUsecase
	lock        DropLock
	lockTTL     time.Duration
	layout      board.Layout
	sensors     board.Sensors
	events      ws.Publisher
	logger      *log.Logger
}

func NewBoardUsecase(st *store.Store, loader store.Loader, transitions TransitionUsecase, lock DropLock, events ws.Publisher, logger *log.Logger) *Board {
	if events == nil {
		events = noopPublisher{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Board{
		store:       st,
		loader:      loader,
		transitions: transitions,
		lock:        lock,
		lockTTL:     2 * time.Second,
		layout:      board.DefaultLayout(),
		sensors:     board.DefaultSensors(),
		events:      events,
		logger:      logger,
	}
}

func (u *Board) Columns(lang string) []board.Column {
	return board.Columns(u.store.Applications(), lang)
}

func (u *Board) Layout(lang string) BoardLayout {
	return BoardLayout{
		Droppables: u.layout.Droppables(u.Columns(lang)),
		Sensors:    u.sensors,
	}
}

// Drop resolves a finished drag against the current list and applies the
// resulting status change. Drops that resolve to nothing are not errors.
func (u *Board) Drop(ctx context.Context, req DropRequest) (DropResult, error) {
	apps := u.store.Applications()

	var (
		intent board.Intent
		ok     bool
	)
	if req.OverID == "" && req.Gesture != nil {
		g := *req.Gesture
		if g.ActiveID == "" {
			g.ActiveID = req.ActiveID
		}
		end, err := board.Replay(u.layout, u.sensors, board.Columns(apps, ""), g)
		if err != nil {
			return DropResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		intent, ok = board.ResolveDragEnd(apps, end)
	} else {
		intent, ok = board.ResolveDrop(apps, req.ActiveID, req.OverID)
	}
	if !ok {
		return DropResult{}, nil
	}

	if req.GestureID != "" && u.lock != nil && u.lock.Available() {
		acquired, err := u.lock.SetIfNotExists(ctx, "drop:"+req.GestureID, req.Actor, u.lockTTL)
		if err != nil {
			u.logger.Printf("[Board] drop lock unavailable gesture=%s err=%v", req.GestureID, err)
		} else if !acquired {
			return DropResult{Duplicate: true, Intent: &intent}, nil
		}
	}

	res, err := u.transitions.Apply(ctx, intent.ApplicationID, intent.To, req.Actor)
	if err != nil {
		return DropResult{}, err
	}
	return DropResult{Moved: true, Intent: &intent, Transition: &res}, nil
}

func (u *Board) Reload(ctx context.Context) error {
	start := time.Now()
	if err := u.store.Load(ctx, u.loader); err != nil {
		u.logger.Printf("[Board] reload failed err=%v", err)
		return err
	}
	n := len(u.store.Applications())
	u.logger.Printf("[Board] reloaded applications=%d jobs=%d elapsed_ms=%d", n, len(u.store.Jobs()), time.Since(start).Milliseconds())
	u.events.Publish(ws.Event{Type: ws.EventBoardReloaded, Data: map[string]int{"applications": n}})
	return nil
}

func (u *Board) Dirty() []store.DirtyEntry {
	return u.store.Dirty()
}

func (u *Board) Resync(ctx context.Context) (ResyncReport, error) {
	return u.transitions.Resync(ctx)
}

// ApplicationLister and JobLister are the two reads a store reload needs.
type ApplicationLister interface {
	ListVisibleApplications(ctx context.Context) ([]application.Application, error)
}

type JobLister interface {
	ListJobs(ctx context.Context) ([]job.Job, error)
}

// StoreLoader feeds the store from the application and job repositories.
type StoreLoader struct {
	Applications ApplicationLister
	Jobs         JobLister
}

func (l StoreLoader) ListVisibleApplications(ctx context.Context) ([]application.Application, error) {
	return l.Applications.ListVisibleApplications(ctx)
}

func (l StoreLoader) ListJobs(ctx context.Context) ([]job.Job, error) {
	return l.Jobs.ListJobs(ctx)
}
