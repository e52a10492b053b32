package board

import "math"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Point) DistanceTo(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Right() float64  { return r.Left + r.Width }
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Corners are returned top-left, top-right, bottom-left, bottom-right.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.Left, Y: r.Top},
		{X: r.Right(), Y: r.Top},
		{X: r.Left, Y: r.Bottom()},
		{X: r.Right(), Y: r.Bottom()},
	}
}

func (r Rect) Translate(delta Point) Rect {
	r.Left += delta.X
	r.Top += delta.Y
	return r
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right() && p.Y >= r.Top && p.Y <= r.Bottom()
}
