package schedule

import "errors"

var (
	ErrAccessDenied     = errors.New("access denied")
	ErrBlackoutNotFound = errors.New("blackout range not found")
	ErrOverrideNotFound = errors.New("capacity override not found")
	ErrDuplicateWindow  = errors.New("capacity override for this window already exists")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInternal         = errors.New("internal error")
)
