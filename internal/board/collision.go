package board

import (
	"math"
	"sort"
)

type DroppableKind string

const (
	KindColumn DroppableKind = "column"
	KindCard   DroppableKind = "card"
)

type Droppable struct {
	ID   string        `json:"id"`
	Kind DroppableKind `json:"kind"`
	Rect Rect          `json:"rect"`
}

type Collision struct {
	ID    string        `json:"id"`
	Kind  DroppableKind `json:"kind"`
	Value float64       `json:"value"`
}

// ClosestCorners ranks droppables by the mean distance between the four
// corners of the dragged rect and the matching corners of each droppable.
// Ties keep the droppable registration order.
func ClosestCorners(active Rect, droppables []Droppable) []Collision {
	if len(droppables) == 0 {
		return nil
	}

	ac := active.Corners()
	out := make([]Collision, 0, len(droppables))
	for _, d := range droppables {
		dc := d.Rect.Corners()
		sum := 0.0
		for i := range dc {
			sum += ac[i].DistanceTo(dc[i])
		}
		out = append(out, Collision{ID: d.ID, Kind: d.Kind, Value: round4(sum / 4)})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
