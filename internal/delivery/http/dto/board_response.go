package dto

import (
	"smart-hr/internal/board"
	"smart-hr/internal/domain/application"
	"smart-hr/internal/usecase"
)

type ColumnResponse struct {
	Status application.Status    `json:"status"`
	Label  string                `json:"label"`
	Count  int                   `json:"count"`
	Cards  []ApplicationResponse `json:"cards"`
}

func NewColumns(cols []board.Column, lang string) []ColumnResponse {
	out := make([]ColumnResponse, 0, len(cols))
	for _, c := range cols {
		out = append(out, ColumnResponse{
			Status: c.Status,
			Label:  c.Label,
			Count:  c.Count,
			Cards:  NewApplicationList(c.Cards, lang),
		})
	}
	return out
}

type SensorResponse struct {
	Distance  float64 `json:"distance"`
	DelayMS   int64   `json:"delay_ms"`
	Tolerance float64 `json:"tolerance"`
}

type LayoutResponse struct {
	Droppables []board.Droppable              `json:"droppables"`
	Sensors    map[board.Input]SensorResponse `json:"sensors"`
}

func newSensor(c board.ActivationConstraint) SensorResponse {
	return SensorResponse{Distance: c.Distance, DelayMS: c.Delay.Milliseconds(), Tolerance: c.Tolerance}
}

func NewLayout(l usecase.BoardLayout) LayoutResponse {
	return LayoutResponse{
		Droppables: l.Droppables,
		Sensors: map[board.Input]SensorResponse{
			board.InputPointer: newSensor(l.Sensors.Pointer),
			board.InputTouch:   newSensor(l.Sensors.Touch),
		},
	}
}
