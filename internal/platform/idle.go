package platform

import (
	"errors"
	"time"
)

// ErrIdleUnsupported indicates idle detection is not available here.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleChecker reports the duration of user inactivity. The chatter guard
// uses it to stay quiet when nobody is at the keyboard.
type IdleChecker interface {
	IdleDuration() (time.Duration, error)
}

// NewIdleChecker returns the platform idle checker.
func NewIdleChecker() IdleChecker {
	return newIdleChecker()
}
