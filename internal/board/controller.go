package board

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrGestureActive    = errors.New("a gesture is already in progress")
	ErrUnknownDraggable = errors.New("unknown draggable")
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseDragging
)

type DragStart struct {
	ActiveID string
	Input    Input
}

type DragOver struct {
	ActiveID   string
	Over       *Collision
	Candidates []Collision
}

// DragEnd carries the final target. Over is nil when the drop had no
// target or the gesture was cancelled.
type DragEnd struct {
	ActiveID string
	Over     *Collision
	Canceled bool
}

type Handlers struct {
	OnDragStart func(DragStart)
	OnDragOver  func(DragOver)
	OnDragEnd   func(DragEnd)
	OnClick     func(id string)
}

// Controller turns raw press/move/release events into drag lifecycle
// events. It is safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	sensors    Sensors
	droppables []Droppable
	h          Handlers

	phase     Phase
	input     Input
	activeID  string
	origin    Point
	startedAt time.Time
	rect      Rect
	over      *Collision
}

func NewController(sensors Sensors, droppables []Droppable, h Handlers) *Controller {
	return &Controller{sensors: sensors, droppables: droppables, h: h}
}

func (c *Controller) SetDroppables(d []Droppable) {
	c.mu.Lock()
	c.droppables = d
	c.mu.Unlock()
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller) Press(id string, in Input, at Point, now time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseIdle {
		return ErrGestureActive
	}
	rect, ok := c.cardRect(id)
	if !ok {
		return ErrUnknownDraggable
	}

	c.phase = PhasePending
	c.input = in
	c.activeID = id
	c.origin = at
	c.startedAt = now
	c.rect = rect
	c.over = nil
	return nil
}

func (c *Controller) Move(at Point, now time.Time) {
	c.mu.Lock()
	var emit []func()
	switch c.phase {
	case PhasePending:
		emit = c.tryActivate(at, now)
		if c.phase == PhaseDragging {
			emit = append(emit, c.track(at)...)
		}
	case PhaseDragging:
		emit = c.track(at)
	}
	c.mu.Unlock()
	run(emit)
}

// Tick lets a held touch press activate once its delay elapses without
// further movement.
func (c *Controller) Tick(now time.Time) {
	c.mu.Lock()
	var emit []func()
	if c.phase == PhasePending {
		emit = c.tryActivate(c.origin, now)
		if c.phase == PhaseDragging {
			emit = append(emit, c.track(c.origin)...)
		}
	}
	c.mu.Unlock()
	run(emit)
}

func (c *Controller) Release(at Point, now time.Time) {
	c.mu.Lock()
	var emit []func()
	switch c.phase {
	case PhasePending:
		emit = c.tryActivate(at, now)
		if c.phase == PhaseDragging {
			emit = append(emit, c.track(at)...)
			emit = append(emit, c.finish(false)...)
			break
		}
		if c.phase == PhasePending {
			id := c.activeID
			if fn := c.h.OnClick; fn != nil {
				emit = append(emit, func() { fn(id) })
			}
		}
		c.reset()
	case PhaseDragging:
		emit = c.track(at)
		emit = append(emit, c.finish(false)...)
	}
	c.mu.Unlock()
	run(emit)
}

func (c *Controller) Cancel() {
	c.mu.Lock()
	var emit []func()
	switch c.phase {
	case PhaseDragging:
		emit = c.finish(true)
	case PhasePending:
		c.reset()
	}
	c.mu.Unlock()
	run(emit)
}

func (c *Controller) tryActivate(at Point, now time.Time) []func() {
	switch c.sensors.For(c.input).Evaluate(c.origin, at, now.Sub(c.startedAt)) {
	case ActivationActive:
		c.phase = PhaseDragging
		ev := DragStart{ActiveID: c.activeID, Input: c.input}
		if fn := c.h.OnDragStart; fn != nil {
			return []func(){func() { fn(ev) }}
		}
	case ActivationAborted:
		c.reset()
	}
	return nil
}

func (c *Controller) track(at Point) []func() {
	moved := c.rect.Translate(at.Sub(c.origin))
	candidates := ClosestCorners(moved, c.droppables)
	c.over = nil
	if len(candidates) > 0 {
		first := candidates[0]
		c.over = &first
	}
	ev := DragOver{ActiveID: c.activeID, Over: c.over, Candidates: candidates}
	if fn := c.h.OnDragOver; fn != nil {
		return []func(){func() { fn(ev) }}
	}
	return nil
}

func (c *Controller) finish(canceled bool) []func() {
	ev := DragEnd{ActiveID: c.activeID, Over: c.over, Canceled: canceled}
	if canceled {
		ev.Over = nil
	}
	c.reset()
	if fn := c.h.OnDragEnd; fn != nil {
		return []func(){func() { fn(ev) }}
	}
	return nil
}

func (c *Controller) reset() {
	c.phase = PhaseIdle
	c.activeID = ""
	c.over = nil
	c.rect = Rect{}
}

func (c *Controller) cardRect(id string) (Rect, bool) {
	for _, d := range c.droppables {
		if d.Kind == KindCard && d.ID == id {
			return d.Rect, true
		}
	}
	return Rect{}, false
}

func run(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
