package errors

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrActorNotFound  = errors.New("actor not found")
	ErrForbidden      = errors.New("actor is not permitted to perform this action")
)
