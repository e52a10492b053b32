package board

import (
	"smart-hr/internal/domain/application"
)

type Column struct {
	Status application.Status        `json:"status"`
	Label  string                    `json:"label"`
	Count  int                       `json:"count"`
	Cards  []application.Application `json:"cards"`
}

// Columns groups apps into one column per status in board order. Cards keep
// their input order; unknown statuses are dropped.
func Columns(apps []application.Application, lang string) []Column {
	statuses := application.Statuses()
	cols := make([]Column, len(statuses))
	for i, s := range statuses {
		cols[i] = Column{Status: s, Label: s.Label(lang), Cards: make([]application.Application, 0)}
	}
	for _, a := range apps {
		idx := a.Status.Index()
		if idx < 0 {
			continue
		}
		cols[idx].Cards = append(cols[idx].Cards, a)
	}
	for i := range cols {
		cols[i].Count = len(cols[i].Cards)
	}
	return cols
}

// Layout describes the board geometry used to place droppables.
type Layout struct {
	ColumnWidth  float64
	ColumnGap    float64
	PaddingLeft  float64
	PaddingTop   float64
	HeaderHeight float64
	BodyPadding  float64
	CardHeight   float64
	CardGap      float64
	MinBody      float64
}

func DefaultLayout() Layout {
	return Layout{
		ColumnWidth:  320,
		ColumnGap:    24,
		PaddingLeft:  24,
		PaddingTop:   24,
		HeaderHeight: 56,
		BodyPadding:  12,
		CardHeight:   140,
		CardGap:      12,
		MinBody:      100,
	}
}

func (l Layout) columnLeft(i int) float64 {
	return l.PaddingLeft + float64(i)*(l.ColumnWidth+l.ColumnGap)
}

func (l Layout) cardTop(i int) float64 {
	return l.PaddingTop + l.HeaderHeight + l.BodyPadding + float64(i)*(l.CardHeight+l.CardGap)
}

func (l Layout) columnHeight(maxCards int) float64 {
	body := float64(maxCards)*(l.CardHeight+l.CardGap) + 2*l.BodyPadding
	if body < l.MinBody {
		body = l.MinBody
	}
	return l.HeaderHeight + body
}

// Droppables returns every column followed by every card, columns first so
// that equal distances resolve to the column.
func (l Layout) Droppables(cols []Column) []Droppable {
	maxCards := 0
	for _, c := range cols {
		if len(c.Cards) > maxCards {
			maxCards = len(c.Cards)
		}
	}
	h := l.columnHeight(maxCards)

	out := make([]Droppable, 0, len(cols))
	for i, c := range cols {
		out = append(out, Droppable{
			ID:   c.Status.String(),
			Kind: KindColumn,
			Rect: Rect{Left: l.columnLeft(i), Top: l.PaddingTop, Width: l.ColumnWidth, Height: h},
		})
	}
	for i, c := range cols {
		for j, card := range c.Cards {
			out = append(out, Droppable{
				ID:   card.ID.String(),
				Kind: KindCard,
				Rect: Rect{
					Left:   l.columnLeft(i) + l.BodyPadding,
					Top:    l.cardTop(j),
					Width:  l.ColumnWidth - 2*l.BodyPadding,
					Height: l.CardHeight,
				},
			})
		}
	}
	return out
}
