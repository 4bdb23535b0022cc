package layout

// Rect is an axis-aligned rectangle in lane or canvas coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Intersects reports whether r and o share any area. Rectangles that only
// touch along an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.MaxX() && o.X < r.MaxX() && r.Y < o.MaxY() && o.Y < r.MaxY()
}

// Contains reports whether the point lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.MaxX() && y >= r.Y && y <= r.MaxY()
}

// Bounds is the published position of one item. Valid is false until the
// current layout pass has placed the item.
type Bounds struct {
	X, Y, Width, Height float64
	Row, Column         int
	Valid               bool
}

// Rect returns the rectangle part of b.
func (b Bounds) Rect() Rect { return Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height} }

// MaxX returns the right edge.
func (b Bounds) MaxX() float64 { return b.X + b.Width }

// MaxY returns the bottom edge.
func (b Bounds) MaxY() float64 { return b.Y + b.Height }

// Intersects reports whether b overlaps r.
func (b Bounds) Intersects(r Rect) bool { return b.Rect().Intersects(r) }

// Contains reports whether the point lies inside b.
func (b Bounds) Contains(x, y float64) bool { return b.Rect().Contains(x, y) }

// Translate returns a copy of b moved by (dx, dy).
func (b Bounds) Translate(dx, dy float64) Bounds {
	b.X += dx
	b.Y += dy
	return b
}
