package errors

import "errors"

var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrForbidden            = errors.New("notification belongs to another recipient")
)
