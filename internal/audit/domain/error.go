package domain

import "errors"

var (
	ErrInvalidAction    = errors.New("audit: action is required")
	ErrInvalidTenant    = errors.New("audit: tenant is required")
	ErrInvalidTimeRange = errors.New("audit: start must not be after end")
)
