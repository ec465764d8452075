package model

// RoundtripWalk tracks an edge-to-edge walk: the pet walks to one screen
// edge, reverses, walks to the opposite edge, then stops. EdgeHitsRemaining
// starts at 2 and decrements only on verified edge contact inside the walk
// tick.
type RoundtripWalk struct {
	Direction         int
	EdgeHitsRemaining int
	Active            bool
}

// NewRoundtrip returns a freshly started roundtrip in the given direction.
func NewRoundtrip(direction int) RoundtripWalk {
	if direction >= 0 {
		direction = +1
	} else {
		direction = -1
	}
	return RoundtripWalk{Direction: direction, EdgeHitsRemaining: 2, Active: true}
}

// Clear deactivates the roundtrip, used on completion and on preemption.
func (trip *RoundtripWalk) Clear() {
	trip.Active = false
	trip.EdgeHitsRemaining = 0
	trip.Direction = 0
}
