package platform

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

type x11IdleChecker struct {
	xprintidlePath string
}

type unsupportedIdleChecker struct{}

func newIdleChecker() IdleChecker {
	path, err := exec.LookPath("xprintidle")
	if err != nil {
		return unsupportedIdleChecker{}
	}
	return &x11IdleChecker{xprintidlePath: path}
}

func (checker *x11IdleChecker) IdleDuration() (time.Duration, error) {
	output, err := exec.Command(checker.xprintidlePath).Output()
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	idleMillis, err := strconv.ParseInt(strings.TrimSpace(string(output)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	if idleMillis < 0 {
		idleMillis = 0
	}
	return time.Duration(idleMillis) * time.Millisecond, nil
}

func (unsupportedIdleChecker) IdleDuration() (time.Duration, error) {
	return 0, ErrIdleUnsupported
}
