package board

import (
	"testing"
	"time"

	"smart-hr/internal/domain/application"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleApps() (application.Application, application.Application) {
	a1 := application.Application{ID: uuid.New(), Status: application.StatusNew}
	a2 := application.Application{ID: uuid.New(), Status: application.StatusInterview}
	return a1, a2
}

func TestColumns_GroupsInBoardOrder(t *testing.T) {
	a1, a2 := sampleApps()
	a3 := application.Application{ID: uuid.New(), Status: application.StatusNew}
	bogus := application.Application{ID: uuid.New(), Status: "ARCHIVED"}

	cols := Columns([]application.Application{a1, a2, a3, bogus}, "en")

	require.Len(t, cols, 6)
	assert.Equal(t, application.StatusNew, cols[0].Status)
	assert.Equal(t, "New", cols[0].Label)
	assert.Equal(t, 2, cols[0].Count)
	assert.Equal(t, a1.ID, cols[0].Cards[0].ID)
	assert.Equal(t, a3.ID, cols[0].Cards[1].ID)
	assert.Equal(t, 1, cols[2].Count)
	assert.Equal(t, application.StatusRejected, cols[5].Status)
	assert.Empty(t, cols[5].Cards)
}

func TestClosestCorners_RanksByMeanCornerDistance(t *testing.T) {
	active := Rect{Left: 0, Top: 0, Width: 10, Height: 10}
	got := ClosestCorners(active, []Droppable{
		{ID: "far", Kind: KindColumn, Rect: Rect{Left: 100, Top: 0, Width: 10, Height: 10}},
		{ID: "near", Kind: KindCard, Rect: Rect{Left: 3, Top: 4, Width: 10, Height: 10}},
		{ID: "same", Kind: KindCard, Rect: active},
	})

	require.Len(t, got, 3)
	assert.Equal(t, "same", got[0].ID)
	assert.Equal(t, 0.0, got[0].Value)
	assert.Equal(t, "near", got[1].ID)
	assert.Equal(t, 5.0, got[1].Value)
	assert.Equal(t, "far", got[2].ID)
}

func TestClosestCorners_PrefersCornersOverOverlap(t *testing.T) {
	// A small card sitting inside a wide column overlaps the column fully,
	// yet a card-sized droppable nearby is closer by corners.
	active := Rect{Left: 10, Top: 10, Width: 20, Height: 20}
	got := ClosestCorners(active, []Droppable{
		{ID: "column", Kind: KindColumn, Rect: Rect{Left: 0, Top: 0, Width: 300, Height: 600}},
		{ID: "card", Kind: KindCard, Rect: Rect{Left: 15, Top: 40, Width: 20, Height: 20}},
	})
	require.NotEmpty(t, got)
	assert.Equal(t, "card", got[0].ID)
}

func TestActivationConstraint(t *testing.T) {
	s := DefaultSensors()
	origin := Point{X: 0, Y: 0}

	tests := []struct {
		name    string
		c       ActivationConstraint
		to      Point
		elapsed time.Duration
		want    Activation
	}{
		{"pointer below distance", s.Pointer, Point{X: 7}, 0, ActivationPending},
		{"pointer at distance", s.Pointer, Point{X: 8}, 0, ActivationActive},
		{"pointer diagonal", s.Pointer, Point{X: 6, Y: 6}, 0, ActivationActive},
		{"touch held too short", s.Touch, Point{X: 2}, 100 * time.Millisecond, ActivationPending},
		{"touch held long enough", s.Touch, Point{X: 2}, 250 * time.Millisecond, ActivationActive},
		{"touch scroll aborts", s.Touch, Point{Y: 6}, 100 * time.Millisecond, ActivationAborted},
		{"touch scroll after delay still aborts", s.Touch, Point{Y: 6}, time.Second, ActivationAborted},
		{"no constraint", ActivationConstraint{}, origin, 0, ActivationActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.Evaluate(origin, tt.to, tt.elapsed))
		})
	}
}

func TestResolveDrop(t *testing.T) {
	a1, a2 := sampleApps()
	apps := []application.Application{a1, a2}

	tests := []struct {
		name   string
		active string
		over   string
		want   application.Status
		ok     bool
	}{
		{"column with other status", a1.ID.String(), "HIRED", application.StatusHired, true},
		{"card with other status inherits", a1.ID.String(), a2.ID.String(), application.StatusInterview, true},
		{"own column", a1.ID.String(), "NEW", "", false},
		{"onto itself", a1.ID.String(), a1.ID.String(), "", false},
		{"no target", a1.ID.String(), "", "", false},
		{"unknown card", a1.ID.String(), uuid.NewString(), "", false},
		{"unknown active", uuid.NewString(), "HIRED", "", false},
		{"garbage target", a1.ID.String(), "not-a-status", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, ok := ResolveDrop(apps, tt.active, tt.over)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, a1.ID, in.ApplicationID)
				assert.Equal(t, application.StatusNew, in.From)
				assert.Equal(t, tt.want, in.To)
			}
		})
	}
}

func TestResolveDrop_CardAndColumnAgree(t *testing.T) {
	a1, a2 := sampleApps()
	apps := []application.Application{a1, a2}

	viaCard, ok1 := ResolveDrop(apps, a1.ID.String(), a2.ID.String())
	viaColumn, ok2 := ResolveDrop(apps, a1.ID.String(), a2.Status.String())
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, viaColumn, viaCard)
}

type recorder struct {
	starts []DragStart
	overs  []DragOver
	ends   []DragEnd
	clicks []string
}

func (r *recorder) handlers() Handlers {
	return Handlers{
		OnDragStart: func(e DragStart) { r.starts = append(r.starts, e) },
		OnDragOver:  func(e DragOver) { r.overs = append(r.overs, e) },
		OnDragEnd:   func(e DragEnd) { r.ends = append(r.ends, e) },
		OnClick:     func(id string) { r.clicks = append(r.clicks, id) },
	}
}

func newTestController(t *testing.T, apps []application.Application) (*Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	cols := Columns(apps, "en")
	return NewController(DefaultSensors(), DefaultLayout().Droppables(cols), rec.handlers()), rec
}

func TestController_PointerDragOntoColumn(t *testing.T) {
	a1, a2 := sampleApps()
	apps := []application.Application{a1, a2}
	c, rec := newTestController(t, apps)
	now := time.Now()

	require.NoError(t, c.Press(a1.ID.String(), InputPointer, Point{X: 100, Y: 100}, now))
	c.Move(Point{X: 104, Y: 100}, now)
	assert.Equal(t, PhasePending, c.Phase())
	assert.Empty(t, rec.starts)

	// HIRED is the fifth column; shift the card by four column pitches.
	c.Move(Point{X: 100 + 4*344, Y: 100}, now)
	require.Len(t, rec.starts, 1)
	require.NotEmpty(t, rec.overs)

	c.Release(Point{X: 100 + 4*344, Y: 100}, now)
	require.Len(t, rec.ends, 1)
	require.NotNil(t, rec.ends[0].Over)
	assert.Equal(t, "HIRED", rec.ends[0].Over.ID)
	assert.Equal(t, KindColumn, rec.ends[0].Over.Kind)
	assert.Equal(t, PhaseIdle, c.Phase())

	in, ok := ResolveDragEnd(apps, rec.ends[0])
	require.True(t, ok)
	assert.Equal(t, Intent{ApplicationID: a1.ID, From: application.StatusNew, To: application.StatusHired}, in)
}

func TestController_PointerDropOntoCardInheritsStatus(t *testing.T) {
	a1, a2 := sampleApps()
	apps := []application.Application{a1, a2}
	c, rec := newTestController(t, apps)
	now := time.Now()

	require.NoError(t, c.Press(a1.ID.String(), InputPointer, Point{X: 50, Y: 120}, now))
	c.Release(Point{X: 50 + 2*344, Y: 120}, now)

	require.Len(t, rec.ends, 1)
	require.NotNil(t, rec.ends[0].Over)
	assert.Equal(t, a2.ID.String(), rec.ends[0].Over.ID)

	in, ok := ResolveDragEnd(apps, rec.ends[0])
	require.True(t, ok)
	assert.Equal(t, application.StatusInterview, in.To)
}

func TestController_ShortPressIsClick(t *testing.T) {
	a1, a2 := sampleApps()
	c, rec := newTestController(t, []application.Application{a1, a2})
	now := time.Now()

	require.NoError(t, c.Press(a1.ID.String(), InputPointer, Point{X: 100, Y: 100}, now))
	c.Release(Point{X: 103, Y: 101}, now)

	assert.Equal(t, []string{a1.ID.String()}, rec.clicks)
	assert.Empty(t, rec.starts)
	assert.Empty(t, rec.ends)
}

func TestController_TouchDelayAndScroll(t *testing.T) {
	a1, a2 := sampleApps()
	apps := []application.Application{a1, a2}
	t0 := time.Now()

	t.Run("held press activates", func(t *testing.T) {
		c, rec := newTestController(t, apps)
		require.NoError(t, c.Press(a1.ID.String(), InputTouch, Point{X: 100, Y: 100}, t0))
		c.Move(Point{X: 103, Y: 100}, t0.Add(100*time.Millisecond))
		assert.Equal(t, PhasePending, c.Phase())
		c.Tick(t0.Add(260 * time.Millisecond))
		assert.Equal(t, PhaseDragging, c.Phase())
		require.Len(t, rec.starts, 1)
		assert.Equal(t, InputTouch, rec.starts[0].Input)
	})

	t.Run("early movement is a scroll", func(t *testing.T) {
		c, rec := newTestController(t, apps)
		require.NoError(t, c.Press(a1.ID.String(), InputTouch, Point{X: 100, Y: 100}, t0))
		c.Move(Point{X: 100, Y: 130}, t0.Add(50*time.Millisecond))
		assert.Equal(t, PhaseIdle, c.Phase())
		assert.Empty(t, rec.starts)
		c.Release(Point{X: 100, Y: 130}, t0.Add(80*time.Millisecond))
		assert.Empty(t, rec.ends)
		assert.Empty(t, rec.clicks)
	})
}

func TestController_CancelEmitsNoTarget(t *testing.T) {
	a1, a2 := sampleApps()
	apps := []application.Application{a1, a2}
	c, rec := newTestController(t, apps)
	now := time.Now()

	require.NoError(t, c.Press(a1.ID.String(), InputPointer, Point{X: 0, Y: 0}, now))
	c.Move(Point{X: 500, Y: 0}, now)
	c.Cancel()

	require.Len(t, rec.ends, 1)
	assert.True(t, rec.ends[0].Canceled)
	assert.Nil(t, rec.ends[0].Over)
	_, ok := ResolveDragEnd(apps, rec.ends[0])
	assert.False(t, ok)
}

func TestController_RejectsUnknownAndConcurrentPress(t *testing.T) {
	a1, a2 := sampleApps()
	c, _ := newTestController(t, []application.Application{a1, a2})
	now := time.Now()

	assert.ErrorIs(t, c.Press(uuid.NewString(), InputPointer, Point{}, now), ErrUnknownDraggable)
	require.NoError(t, c.Press(a1.ID.String(), InputPointer, Point{}, now))
	assert.ErrorIs(t, c.Press(a2.ID.String(), InputPointer, Point{}, now), ErrGestureActive)
}

func TestReplay(t *testing.T) {
	a := application.Application{ID: uuid.New(), Status: application.StatusNew}
	cols := Columns([]application.Application{a}, "en")
	l := DefaultLayout()
	next := l.ColumnWidth + l.ColumnGap

	tests := []struct {
		name  string
		g     Gesture
		over  string
		noEnd bool
	}{
		{
			name: "pointer drag to the next column",
			g:    Gesture{Input: InputPointer, Steps: []GestureStep{{DX: 10, AfterMS: 16}, {DX: next, AfterMS: 200}}},
			over: string(application.StatusScreening),
		},
		{
			name: "touch held past the delay then dragged",
			g:    Gesture{Input: InputTouch, Steps: []GestureStep{{AfterMS: 300}, {DX: 2 * next, AfterMS: 600}}},
			over: string(application.StatusInterview),
		},
		{
			name:  "touch that scrolls before the delay never drags",
			g:     Gesture{Input: InputTouch, Steps: []GestureStep{{DY: 30, AfterMS: 50}, {DX: next, AfterMS: 400}}},
			noEnd: true,
		},
		{
			name:  "short pointer press is a click",
			g:     Gesture{Input: InputPointer, Steps: []GestureStep{{DX: 2, AfterMS: 90}}},
			noEnd: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.g.ActiveID = a.ID.String()
			end, err := Replay(l, DefaultSensors(), cols, tt.g)
			require.NoError(t, err)
			if tt.noEnd {
				assert.Nil(t, end.Over)
				_, ok := ResolveDragEnd([]application.Application{a}, end)
				assert.False(t, ok)
				return
			}
			require.NotNil(t, end.Over)
			assert.Equal(t, tt.over, end.Over.ID)
			assert.Equal(t, KindColumn, end.Over.Kind)
		})
	}
}

func TestReplay_RejectsBadGestures(t *testing.T) {
	a := application.Application{ID: uuid.New(), Status: application.StatusNew}
	cols := Columns([]application.Application{a}, "en")

	_, err := Replay(DefaultLayout(), DefaultSensors(), cols, Gesture{ActiveID: a.ID.String()})
	assert.ErrorIs(t, err, ErrEmptyGesture)

	_, err = Replay(DefaultLayout(), DefaultSensors(), cols, Gesture{ActiveID: uuid.NewString(), Steps: []GestureStep{{DX: 40}}})
	assert.ErrorIs(t, err, ErrUnknownDraggable)
}
