package entity

import "errors"

// Every checkout operation resolves to a success value or exactly one of
// these sentinels (possibly wrapped). Handlers map them to HTTP statuses
// with errors.Is.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrInvalidSignature   = errors.New("invalid payment signature")
	ErrBadCallback        = errors.New("malformed payment callback")
	ErrPersistence        = errors.New("order persistence failed")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflicting concurrent update")
)
