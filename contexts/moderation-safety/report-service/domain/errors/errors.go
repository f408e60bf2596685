package errors

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrReportNotFound  = errors.New("report not found")
	ErrContentNotFound = errors.New("reported content not found")
	ErrForbidden       = errors.New("actor is not permitted to act on this report")
	ErrDuplicateReport = errors.New("reporter already holds an open report on this target")
	ErrAlreadyReviewed = errors.New("report has already been reviewed")
)
