package repository

import "errors"

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrUnknownOutcome = errors.New("unknown match outcome")
)
