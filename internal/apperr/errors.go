// Package apperr holds the recoverable, user-facing error conditions the
// services report. Controllers translate them to HTTP statuses with
// errors.Is; anything not in this set is treated as an internal failure.
package apperr

import "errors"

var (
	ErrAlreadyEnrolled   = errors.New("student is already enrolled in this course")
	ErrNoContent         = errors.New("course has no modules yet")
	ErrNotEnrolled       = errors.New("student is not enrolled in this course")
	ErrRoleForbidden     = errors.New("operation not permitted for this role")
	ErrQuestionNotFound  = errors.New("question does not belong to this quiz")
	ErrInvalidChoice     = errors.New("choice does not belong to this question")
	ErrPaymentInvalid    = errors.New("payment could not be verified")
	ErrStudentUnresolved = errors.New("payment verified but no matching student account")
	ErrNotFound          = errors.New("record not found")
	ErrEmailTaken        = errors.New("email is already registered")
	ErrBadCredentials    = errors.New("invalid email or password")
)
