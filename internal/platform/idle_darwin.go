package platform

import "time"

type unsupportedIdleChecker struct{}

func newIdleChecker() IdleChecker {
	return unsupportedIdleChecker{}
}

func (unsupportedIdleChecker) IdleDuration() (time.Duration, error) {
	return 0, ErrIdleUnsupported
}
