package domain

import "errors"

const MaxSessionIDLen = 256

var (
	ErrSessionIDEmpty   = errors.New("session id empty")
	ErrSessionIDTooLong = errors.New("session id too long")
)

// SessionID is the caller-supplied token that scopes routing.
type SessionID string

func ParseSessionID(raw string) (SessionID, error) {
	if raw == "" {
		return "", ErrSessionIDEmpty
	}
	if len(raw) > MaxSessionIDLen {
		return "", ErrSessionIDTooLong
	}
	return SessionID(raw), nil
}

// Session has no state beyond its id; membership lives in the room.
type Session struct {
	ID SessionID
}
