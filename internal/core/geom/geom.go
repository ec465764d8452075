// Package geom provides the integer screen geometry used by the pet,
// the speech bubble and the walk kinematics. Coordinates are virtual
// desktop pixels with the origin at the top-left of the primary monitor.
package geom

// Point is a position in virtual-desktop coordinates.
type Point struct {
	X int
	Y int
}

// Size is a width/height pair in pixels.
type Size struct {
	W int
	H int
}

// Rect is an axis-aligned rectangle. Right and Bottom are exclusive.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// ContainsRect reports whether inner lies fully inside r.
func (r Rect) ContainsRect(inner Rect) bool {
	return inner.X >= r.X && inner.Y >= r.Y &&
		inner.Right() <= r.Right() && inner.Bottom() <= r.Bottom()
}

// ClampInto returns the top-left position that keeps a window of the given
// size fully inside bounds, moving pos as little as possible. Both axes are
// clamped independently.
func ClampInto(pos Point, size Size, bounds Rect) Point {
	return Point{
		X: clampAxis(pos.X, size.W, bounds.X, bounds.Right()),
		Y: clampAxis(pos.Y, size.H, bounds.Y, bounds.Bottom()),
	}
}

// SnapToEdges pulls pos onto any bounds edge within margin pixels,
// each axis independently.
func SnapToEdges(pos Point, size Size, bounds Rect, margin int) Point {
	snapped := pos
	if abs(snapped.X-bounds.X) <= margin {
		snapped.X = bounds.X
	}
	if abs(snapped.X+size.W-bounds.Right()) <= margin {
		snapped.X = bounds.Right() - size.W
	}
	if abs(snapped.Y-bounds.Y) <= margin {
		snapped.Y = bounds.Y
	}
	if abs(snapped.Y+size.H-bounds.Bottom()) <= margin {
		snapped.Y = bounds.Bottom() - size.H
	}
	return snapped
}

// ManhattanDistance returns |dx| + |dy| between two points.
func ManhattanDistance(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func clampAxis(pos, extent, lo, hi int) int {
	max := hi - extent
	if pos > max {
		pos = max
	}
	if pos < lo {
		pos = lo
	}
	return pos
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
