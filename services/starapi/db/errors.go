package db

import "errors"

// Errors for db module.
var (
	ErrInvalidIdentity        = errors.New("missing or malformed telegram id")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidAmount          = errors.New("amount must be a positive number of stars")
	ErrInsufficientStars      = errors.New("not enough stars")
	ErrSessionNotFound        = errors.New("survey session not found")
	ErrSessionAlreadyComplete = errors.New("survey session has already been completed")
	ErrStepMismatch           = errors.New("submitted step does not match the current question")
	ErrMissingIdempotencyKey  = errors.New("redemption debits require an idempotency key")
	ErrNonceInUse             = errors.New("redemption nonce belongs to another account")
)
