package services

import "errors"

// Common service errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrInvalidAccount  = errors.New("invalid account")
	ErrInvalidPeriod   = errors.New("period exceeds useful life")
	ErrInvalidMethod   = errors.New("unrecognized depreciation method")
	ErrInvalidState    = errors.New("invalid state transition")
	ErrImmutableSource = errors.New("transaction source forbids this mutation")
	ErrUnauthorized    = errors.New("unauthorized")
)
