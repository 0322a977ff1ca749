package domain

import "errors"

var (
	ErrNotFound           = errors.New("tenant not found")
	ErrDuplicateSubdomain = errors.New("subdomain already registered")
	ErrInvalidName        = errors.New("invalid tenant name")
	ErrInvalidSubdomain   = errors.New("invalid subdomain")
)
