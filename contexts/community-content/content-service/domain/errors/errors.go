package errors

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrContentNotFound    = errors.New("content not found")
	ErrForbidden          = errors.New("actor is not permitted to modify this content")
	ErrInvariantViolation = errors.New("content counter does not match its ledger")
)
