package errorvalues

import (
	"errors"
	"fmt"
)

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong email or password")
	ErrInvalidToken     = errors.New("invalid token")
)

var (
	ErrHabitNotFound       = errors.New("habit doesn't exist")
	ErrOwnerNotFound       = errors.New("habit owner doesn't exist")
	ErrUserHasHabit        = errors.New("user already has habit with such name")
	ErrWrongOwner          = errors.New("habit belongs to another user")
	ErrCheckInNotFound     = errors.New("check-in doesn't exist")
	ErrCheckDateNotAllowed = errors.New("check-in date is in the future")
)

// Client-side input errors. Everything below wraps ErrInvalidInput.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidQuestion  = fmt.Errorf("%w: invalid question", ErrInvalidInput)
	ErrInvalidDateRange = fmt.Errorf("%w: invalid date range", ErrInvalidInput)
	ErrValidation       = fmt.Errorf("%w: validation failed", ErrInvalidInput)
)

// Language model failures. ErrAIQuota also matches ErrAIUpstream.
var (
	ErrAIUnavailable   = errors.New("ai service unavailable")
	ErrAIEmptyResponse = errors.New("empty response from model")
	ErrAIUpstream      = errors.New("ai upstream error")
	ErrAIQuota         = fmt.Errorf("%w: quota or billing limit reached", ErrAIUpstream)
)
