package geom

import "testing"

func TestClampInto(t *testing.T) {
	bounds := Rect{X: 0, Y: 0, W: 1920, H: 1080}
	size := Size{W: 100, H: 80}

	tests := []struct {
		name string
		pos  Point
		want Point
	}{
		{"already inside", Point{X: 500, Y: 400}, Point{X: 500, Y: 400}},
		{"off left", Point{X: -30, Y: 400}, Point{X: 0, Y: 400}},
		{"off right", Point{X: 1900, Y: 400}, Point{X: 1820, Y: 400}},
		{"off top", Point{X: 500, Y: -10}, Point{X: 500, Y: 0}},
		{"off bottom", Point{X: 500, Y: 1070}, Point{X: 500, Y: 1000}},
		{"both corners", Point{X: -5, Y: 2000}, Point{X: 0, Y: 1000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampInto(tt.pos, size, bounds); got != tt.want {
				t.Errorf("ClampInto(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestClampIntoSecondaryMonitor(t *testing.T) {
	bounds := Rect{X: 1920, Y: 0, W: 2560, H: 1440}
	size := Size{W: 120, H: 120}

	got := ClampInto(Point{X: 100, Y: 100}, size, bounds)
	want := Point{X: 1920, Y: 100}
	if got != want {
		t.Errorf("ClampInto = %v, want %v", got, want)
	}
}

func TestSnapToEdges(t *testing.T) {
	bounds := Rect{X: 0, Y: 0, W: 1920, H: 1080}
	size := Size{W: 100, H: 80}
	const margin = 18

	tests := []struct {
		name string
		pos  Point
		want Point
	}{
		{"far from edges", Point{X: 500, Y: 400}, Point{X: 500, Y: 400}},
		{"near left", Point{X: 10, Y: 400}, Point{X: 0, Y: 400}},
		{"near right", Point{X: 1810, Y: 400}, Point{X: 1820, Y: 400}},
		{"near top", Point{X: 500, Y: 12}, Point{X: 500, Y: 0}},
		{"near bottom", Point{X: 500, Y: 990}, Point{X: 500, Y: 1000}},
		{"just outside margin", Point{X: 19, Y: 400}, Point{X: 19, Y: 400}},
		{"corner snaps both axes", Point{X: 5, Y: 10}, Point{X: 0, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SnapToEdges(tt.pos, size, bounds, margin); got != tt.want {
				t.Errorf("SnapToEdges(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestManhattanDistance(t *testing.T) {
	tests := []struct {
		a, b Point
		want int
	}{
		{Point{0, 0}, Point{0, 0}, 0},
		{Point{0, 0}, Point{3, 4}, 7},
		{Point{10, 10}, Point{4, 13}, 9},
		{Point{-5, 0}, Point{5, 0}, 10},
	}
	for _, tt := range tests {
		if got := ManhattanDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("ManhattanDistance(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRectContains(t *testing.T) {
	rect := Rect{X: 10, Y: 10, W: 100, H: 50}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"inside", Point{50, 30}, true},
		{"top-left corner inclusive", Point{10, 10}, true},
		{"right edge exclusive", Point{110, 30}, false},
		{"bottom edge exclusive", Point{50, 60}, false},
		{"outside", Point{0, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rect.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}
