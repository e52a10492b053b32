package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"smart-hr/internal/board"
	"smart-hr/internal/config"
	"smart-hr/internal/domain/application"
	"smart-hr/internal/ws"

	"github.com/google/uuid"
)

type fakeTransitions struct {
	applied []application.Status
}

func (f *fakeTransitions) Apply(_ context.Context, id uuid.UUID, s application.Status, _ string) (TransitionResult, error) {
	f.applied = append(f.applied, s)
	return TransitionResult{Application: application.Application{ID: id, Status: s}}, nil
}

func (f *fakeTransitions) Resync(context.Context) (ResyncReport, error) { return ResyncReport{}, nil }

type fakeLock struct {
	taken map[string]bool
}

func (l *fakeLock) Available() bool { return true }

func (l *fakeLock) SetIfNotExists(_ context.Context, key, _ string, _ time.Duration) (bool, error) {
	if l.taken[key] {
		return false, nil
	}
	l.taken[key] = true
	return true, nil
}

func TestBoard_Drop(t *testing.T) {
	a := newApp(application.StatusNew)
	b := newApp(application.StatusOffer)
	st := newStore(t, a, b)
	tr := &fakeTransitions{}
	uc := NewBoardUsecase(st, nil, tr, &fakeLock{taken: map[string]bool{}}, nil, nil)
	ctx := context.Background()

	res, err := uc.Drop(ctx, DropRequest{ActiveID: a.ID.String(), OverID: string(application.StatusInterview), Actor: "admin"})
	if err != nil || !res.Moved || res.Intent.To != application.StatusInterview {
		t.Fatalf("unexpected column drop %+v err=%v", res, err)
	}

	res, err = uc.Drop(ctx, DropRequest{ActiveID: a.ID.String(), OverID: b.ID.String(), Actor: "admin"})
	if err != nil || !res.Moved || res.Intent.To != application.StatusOffer {
		t.Fatalf("drop on a card must take its status, got %+v err=%v", res, err)
	}

	res, err = uc.Drop(ctx, DropRequest{ActiveID: a.ID.String(), OverID: string(application.StatusNew), Actor: "admin"})
	if err != nil || res.Moved {
		t.Fatalf("same-status drop must be a no-op, got %+v err=%v", res, err)
	}

	res, err = uc.Drop(ctx, DropRequest{ActiveID: a.ID.String(), Actor: "admin"})
	if err != nil || res.Moved {
		t.Fatalf("drop outside any column must be a no-op, got %+v err=%v", res, err)
	}

	if len(tr.applied) != 2 {
		t.Fatalf("expected two transitions, got %v", tr.applied)
	}
}

func TestBoard_DropResentGestureIsSuppressed(t *testing.T) {
	a := newApp(application.StatusNew)
	tr := &fakeTransitions{}
	uc := NewBoardUsecase(newStore(t, a), nil, tr, &fakeLock{taken: map[string]bool{}}, nil, nil)
	req := DropRequest{ActiveID: a.ID.String(), OverID: string(application.StatusRejected), GestureID: "g-1", Actor: "admin"}

	first, _ := uc.Drop(context.Background(), req)
	second, _ := uc.Drop(context.Background(), req)
	if !first.Moved || second.Moved || !second.Duplicate {
		t.Fatalf("expected the resent gesture to be suppressed, got %+v / %+v", first, second)
	}
	if len(tr.applied) != 1 {
		t.Fatalf("expected one transition, got %v", tr.applied)
	}
}

func TestBoard_DropBackAndForthAlwaysMoves(t *testing.T) {
	pool, wait := startPool()
	a := newApp(application.StatusNew)
	f := newTransitionFixture(t, pool, config.FailurePolicyRollback, a)
	uc := NewBoardUsecase(f.st, nil, f.uc, &fakeLock{taken: map[string]bool{}}, nil, nil)
	ctx := context.Background()

	moves := []application.Status{
		application.StatusScreening,
		application.StatusOffer,
		application.StatusScreening,
		application.StatusOffer,
	}
	for i, to := range moves {
		req := DropRequest{ActiveID: a.ID.String(), OverID: string(to), GestureID: fmt.Sprintf("g-%d", i), Actor: "admin"}
		res, err := uc.Drop(ctx, req)
		if err != nil || !res.Moved || res.Duplicate {
			t.Fatalf("drop %d to %s was not applied: %+v err=%v", i, to, res, err)
		}
		if got, _ := f.st.Get(a.ID); got.Status != to {
			t.Fatalf("drop %d: local status %s, want %s", i, got.Status, to)
		}
	}
	wait()

	got, _ := f.st.Get(a.ID)
	if got.Status != application.StatusOffer {
		t.Fatalf("expected OFFER after the last drop, got %s", got.Status)
	}
	written := f.writer.written()
	if len(written) == 0 || written[len(written)-1] != application.StatusOffer {
		t.Fatalf("expected the last write to be OFFER, got %v", written)
	}
}

func TestBoard_DropReplaysGesture(t *testing.T) {
	a := newApp(application.StatusNew)
	tr := &fakeTransitions{}
	uc := NewBoardUsecase(newStore(t, a), nil, tr, nil, nil, nil)
	l := board.DefaultLayout()
	step := l.ColumnWidth + l.ColumnGap

	res, err := uc.Drop(context.Background(), DropRequest{
		ActiveID: a.ID.String(),
		Gesture: &board.Gesture{
			Input: board.InputPointer,
			Steps: []board.GestureStep{
				{DX: 20, AfterMS: 16},
				{DX: step, AfterMS: 120},
			},
		},
		Actor: "admin",
	})
	if err != nil || !res.Moved || res.Intent.To != application.StatusScreening {
		t.Fatalf("expected the replayed drag to land on SCREENING, got %+v err=%v", res, err)
	}

	res, err = uc.Drop(context.Background(), DropRequest{
		ActiveID: a.ID.String(),
		Gesture:  &board.Gesture{Input: board.InputPointer, Steps: []board.GestureStep{{DX: 3, AfterMS: 80}}},
	})
	if err != nil || res.Moved {
		t.Fatalf("a press that never activates must not move, got %+v err=%v", res, err)
	}

	_, err = uc.Drop(context.Background(), DropRequest{ActiveID: a.ID.String(), Gesture: &board.Gesture{}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for an empty gesture, got %v", err)
	}
}

func TestBoard_Layout(t *testing.T) {
	a := newApp(application.StatusNew)
	uc := NewBoardUsecase(newStore(t, a), nil, &fakeTransitions{}, nil, nil, nil)

	got := uc.Layout("en")
	if len(got.Droppables) != len(application.Statuses())+1 {
		t.Fatalf("expected one droppable per column plus the card, got %d", len(got.Droppables))
	}
	last := got.Droppables[len(got.Droppables)-1]
	if last.Kind != board.KindCard || last.ID != a.ID.String() {
		t.Fatalf("expected the card last, got %+v", last)
	}
	if got.Sensors != board.DefaultSensors() {
		t.Fatalf("unexpected sensors %+v", got.Sensors)
	}
}

func TestBoard_ReloadPublishes(t *testing.T) {
	a := newApp(application.StatusNew)
	hidden := newApp(application.StatusNew)
	hidden.IsHidden = true
	events := &recordedEvents{}
	uc := NewBoardUsecase(newStore(t), staticLoader{apps: []application.Application{a, hidden}}, &fakeTransitions{}, nil, events, nil)

	if err := uc.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	cols := uc.Columns("en")
	if len(cols) != len(application.Statuses()) || cols[0].Count != 1 {
		t.Fatalf("unexpected columns %+v", cols)
	}
	if events.count(ws.EventBoardReloaded) != 1 {
		t.Fatalf("expected a reload event")
	}
}
