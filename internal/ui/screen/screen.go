// Package screen resolves monitor geometry for window placement.
package screen

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"doei/internal/core/geom"
)

const (
	defaultScreenWidth  = 1920
	defaultScreenHeight = 1080
)

// envScreens overrides detection, e.g. "0,0,1920x1080;1920,0,2560x1440".
const envScreens = "DOEI_SCREENS"

// Geometry holds the known monitor rectangles and answers placement queries.
// The toolkit exposes no monitor API, so the set comes from the environment
// override or falls back to a single default-sized monitor at the origin.
type Geometry struct {
	mu    sync.Mutex
	rects []geom.Rect
}

// Detect builds the geometry from the environment or the fallback monitor.
func Detect() *Geometry {
	rects := parseScreens(os.Getenv(envScreens))
	if len(rects) == 0 {
		rects = []geom.Rect{{X: 0, Y: 0, W: defaultScreenWidth, H: defaultScreenHeight}}
	}
	return &Geometry{rects: rects}
}

// SetRects replaces the monitor set.
func (geometry *Geometry) SetRects(rects []geom.Rect) {
	geometry.mu.Lock()
	defer geometry.mu.Unlock()
	if len(rects) > 0 {
		geometry.rects = append([]geom.Rect(nil), rects...)
	}
}

// AvailableRect returns the monitor containing the point, or the nearest
// monitor by center distance when the point is off every screen.
func (geometry *Geometry) AvailableRect(near geom.Point) geom.Rect {
	geometry.mu.Lock()
	defer geometry.mu.Unlock()

	for _, rect := range geometry.rects {
		if rect.Contains(near) {
			return rect
		}
	}

	best := geometry.rects[0]
	bestDistance := centerDistance(best, near)
	for _, rect := range geometry.rects[1:] {
		if distance := centerDistance(rect, near); distance < bestDistance {
			best = rect
			bestDistance = distance
		}
	}
	return best
}

func centerDistance(rect geom.Rect, point geom.Point) int {
	return geom.ManhattanDistance(rect.Center(), point)
}

func parseScreens(value string) []geom.Rect {
	var rects []geom.Rect
	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ",")
		if len(fields) != 3 {
			continue
		}
		dims := strings.Split(fields[2], "x")
		if len(dims) != 2 {
			continue
		}
		x, errX := strconv.Atoi(strings.TrimSpace(fields[0]))
		y, errY := strconv.Atoi(strings.TrimSpace(fields[1]))
		w, errW := strconv.Atoi(strings.TrimSpace(dims[0]))
		h, errH := strconv.Atoi(strings.TrimSpace(dims[1]))
		if errX != nil || errY != nil || errW != nil || errH != nil || w <= 0 || h <= 0 {
			continue
		}
		rects = append(rects, geom.Rect{X: x, Y: y, W: w, H: h})
	}
	return rects
}
