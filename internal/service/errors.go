package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every service error unwraps to exactly one of these.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalid      = errors.New("invalid request")
	ErrUnauthorized = errors.New("unauthorized")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func invalidf(format string, args ...any) error {
	return &kindError{kind: ErrInvalid, msg: fmt.Sprintf(format, args...)}
}

var (
	ErrEmployeeNotFound     = newError(ErrNotFound, "employee not found or inactive")
	ErrMealTypeNotFound     = newError(ErrNotFound, "meal type not found")
	ErrMealCategoryNotFound = newError(ErrNotFound, "meal category not found")
	ErrMealItemNotFound     = newError(ErrNotFound, "meal item not found")
	ErrMealRecordNotFound   = newError(ErrNotFound, "meal record not found")
	ErrUserNotFound         = newError(ErrNotFound, "user not found")
	ErrSupportConfigMissing = newError(ErrNotFound, "no active support config")

	ErrDuplicateRedemption = newError(ErrConflict, "employee has already redeemed this meal type today")
	ErrEmployeeIDTaken     = newError(ErrConflict, "employee id already exists")
	ErrCardIDTaken         = newError(ErrConflict, "card id already used as another employee's card id or short code")
	ErrShortCodeTaken      = newError(ErrConflict, "short code already used as another employee's card id or short code")
	ErrAmbiguousKey        = newError(ErrConflict, "card id or short code matches more than one employee")
	ErrMealTypeIDTaken     = newError(ErrConflict, "meal type id already exists")
	ErrUsernameTaken       = newError(ErrConflict, "username already exists")
	ErrEmailTaken          = newError(ErrConflict, "email already exists")
	ErrEmployeeHasRecords  = newError(ErrConflict, "employee has meal records; deactivate instead")
	ErrMealTypeInUse       = newError(ErrConflict, "meal type still has categories")
	ErrMealCategoryInUse   = newError(ErrConflict, "meal category still has items")

	ErrInvalidQuantity = newError(ErrInvalid, "quantity must be positive")
	ErrMissingCardID   = newError(ErrInvalid, "card id is required")

	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid username or password")
	ErrInvalidToken       = newError(ErrUnauthorized, "invalid token")
	ErrTokenExpired       = newError(ErrUnauthorized, "token expired")
)
