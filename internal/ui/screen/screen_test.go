package screen

import (
	"testing"

	"doei/internal/core/geom"
)

func TestAvailableRectPicksContainingMonitor(t *testing.T) {
	geometry := Detect()
	geometry.SetRects([]geom.Rect{
		{X: 0, Y: 0, W: 1920, H: 1080},
		{X: 1920, Y: 0, W: 2560, H: 1440},
	})

	tests := []struct {
		name string
		near geom.Point
		want geom.Rect
	}{
		{"primary", geom.Point{X: 500, Y: 500}, geom.Rect{X: 0, Y: 0, W: 1920, H: 1080}},
		{"secondary", geom.Point{X: 2500, Y: 700}, geom.Rect{X: 1920, Y: 0, W: 2560, H: 1440}},
		{"boundary belongs right", geom.Point{X: 1920, Y: 100}, geom.Rect{X: 1920, Y: 0, W: 2560, H: 1440}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := geometry.AvailableRect(tt.near); got != tt.want {
				t.Errorf("AvailableRect(%v) = %v, want %v", tt.near, got, tt.want)
			}
		})
	}
}

func TestAvailableRectOffScreenFallsBackToNearest(t *testing.T) {
	geometry := Detect()
	geometry.SetRects([]geom.Rect{
		{X: 0, Y: 0, W: 1920, H: 1080},
		{X: 1920, Y: 0, W: 2560, H: 1440},
	})

	got := geometry.AvailableRect(geom.Point{X: -500, Y: -500})
	want := geom.Rect{X: 0, Y: 0, W: 1920, H: 1080}
	if got != want {
		t.Errorf("AvailableRect off-screen = %v, want nearest %v", got, want)
	}
}

func TestDetectDefaultsToSingleMonitor(t *testing.T) {
	t.Setenv("DOEI_SCREENS", "")
	geometry := Detect()
	got := geometry.AvailableRect(geom.Point{X: 10, Y: 10})
	want := geom.Rect{X: 0, Y: 0, W: 1920, H: 1080}
	if got != want {
		t.Errorf("default geometry = %v, want %v", got, want)
	}
}

func TestParseScreensEnv(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"empty", "", 0},
		{"single", "0,0,1920x1080", 1},
		{"dual", "0,0,1920x1080;1920,0,2560x1440", 2},
		{"bad entry skipped", "0,0,1920x1080;garbage", 1},
		{"zero size rejected", "0,0,0x0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(parseScreens(tt.value)); got != tt.want {
				t.Errorf("parseScreens(%q) yielded %d rects, want %d", tt.value, got, tt.want)
			}
		})
	}
}
