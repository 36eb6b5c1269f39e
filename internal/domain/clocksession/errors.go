package clocksession

import "errors"

var (
	ErrAlreadyClockedIn = errors.New("already clocked in, clock out first")
	ErrSessionNotFound  = errors.New("clock session not found")
	ErrNotAuthorized    = errors.New("not authorized for this clock session")
	ErrAlreadyClosed    = errors.New("already clocked out")
	ErrSessionNotActive = errors.New("clock session is not active")
)
