package user

import "github.com/pkg/errors"

var (
	ErrNotFound            = errors.New("user not found")
	ErrDuplicateEmail      = errors.New("Email sudah terdaftar. Silakan gunakan email lain atau masuk.")
	ErrNoRoleSelected      = errors.New("Peran tidak valid. Silakan coba lagi.")
	ErrUnknownCategory     = errors.New("unknown consultation category")
	ErrInvalidRegistration = errors.New("invalid registration")
)

// FieldError reports one rejected form field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) FieldErrors() any { return e.Fields }
