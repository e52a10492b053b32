package board

import (
	"errors"
	"time"
)

var ErrEmptyGesture = errors.New("gesture has no steps")

// GestureStep is one pointer sample relative to the press point.
type GestureStep struct {
	DX      float64 `json:"dx"`
	DY      float64 `json:"dy"`
	AfterMS int64   `json:"after_ms"`
}

// Gesture is a recorded drag: the card pressed, the input kind, and the
// samples up to release. The last step is the release point.
type Gesture struct {
	ActiveID string        `json:"active_id"`
	Input    Input         `json:"input"`
	Steps    []GestureStep `json:"steps"`
}

// Replay runs g through a Controller over the server's layout of cols, so
// the drop target is decided by the same collision rules the client uses.
// A gesture that never activates ends without a target.
func Replay(layout Layout, sensors Sensors, cols []Column, g Gesture) (DragEnd, error) {
	if len(g.Steps) == 0 {
		return DragEnd{}, ErrEmptyGesture
	}

	var end DragEnd
	c := NewController(sensors, layout.Droppables(cols), Handlers{
		OnDragEnd: func(ev DragEnd) { end = ev },
	})

	rect, ok := c.cardRect(g.ActiveID)
	if !ok {
		return DragEnd{}, ErrUnknownDraggable
	}
	origin := Point{X: rect.Left + rect.Width/2, Y: rect.Top + rect.Height/2}

	start := time.Unix(0, 0)
	if err := c.Press(g.ActiveID, g.Input, origin, start); err != nil {
		return DragEnd{}, err
	}
	last := len(g.Steps) - 1
	for i, s := range g.Steps {
		at := Point{X: origin.X + s.DX, Y: origin.Y + s.DY}
		now := start.Add(time.Duration(s.AfterMS) * time.Millisecond)
		if i == last {
			c.Release(at, now)
			break
		}
		c.Tick(now)
		c.Move(at, now)
	}
	return end, nil
}
