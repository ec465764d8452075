package model

import "time"

// Flags are the process-wide behavior toggles. They are persisted in the
// settings store and read by every scheduled behavior's guard predicate.
type Flags struct {
	Locked               bool
	ChatterEnabled       bool
	RestEnabled          bool
	AutoRoundtripEnabled bool
	AutostartEnabled     bool
	RestInterval         time.Duration
}

// DefaultFlags returns the out-of-the-box toggle values.
func DefaultFlags() Flags {
	return Flags{
		Locked:               false,
		ChatterEnabled:       true,
		RestEnabled:          true,
		AutoRoundtripEnabled: true,
		AutostartEnabled:     false,
		RestInterval:         50 * time.Minute,
	}
}
