package errors

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrContentNotFound = errors.New("content not found")
	ErrForbidden       = errors.New("actor is not permitted to interact")
)
