package model

import "time"

// Action is a labeled button shown inside a speech bubble.
type Action struct {
	Label  string
	Invoke func()
}

// Notice describes one speech-bubble notification.
//
// Duration 0 keeps the bubble up until it is closed explicitly (pomodoro
// countdown, rest prompts). Dynamic, when set, is polled every Refresh and
// rendered as an extra line; a poll error leaves the previous text in place.
type Notice struct {
	Title    string
	Message  string
	Duration time.Duration
	Buttons  []Action
	Dynamic  func() (string, error)
	Refresh  time.Duration
}

// Notifier surfaces notices to the user.
type Notifier interface {
	Notify(notice Notice)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notice)

// Notify calls the wrapped function.
func (fn NotifierFunc) Notify(notice Notice) {
	fn(notice)
}
