package domain

import "errors"

var (
	// ErrInvalidCredentials deliberately conflates unknown email and
	// wrong password so failed logins cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account inactive")
	ErrTenantInactive     = errors.New("tenant inactive")
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password too short")
	ErrUnauthorized       = errors.New("unauthorized")
)
