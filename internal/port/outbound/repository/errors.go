package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity is not found.
	ErrNotFound = errors.New("entity not found")

	// ErrLimitExceeded is returned by IssueSession when the per-player
	// session ceiling would be exceeded.
	ErrLimitExceeded = errors.New("session limit exceeded")

	// ErrAlreadyTerminal is returned when a conditional state transition
	// found the entity already in a terminal state.
	ErrAlreadyTerminal = errors.New("entity already in terminal state")
)
