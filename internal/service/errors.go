package service

import "errors"

// Domain errors surfaced to the API layer. Handlers translate these to
// HTTP statuses; none of them are retried.
var (
	ErrUnauthenticated  = errors.New("not authenticated")
	ErrUnauthorized     = errors.New("insufficient permissions")
	ErrNotFound         = errors.New("not found")
	ErrInvalidAssignee  = errors.New("assignee must hold the lead role")
	ErrInvalidState     = errors.New("operation not allowed in the current state")
	ErrTokenAlreadyUsed = errors.New("action token already used")
	ErrTokenExpired     = errors.New("action token expired")
	ErrEmailExists      = errors.New("email already registered")
)
