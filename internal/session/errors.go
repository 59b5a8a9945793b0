package session

import "github.com/pkg/errors"

var (
	// ErrAuthFailed carries the alert shown on the login page.
	ErrAuthFailed = errors.New("Login gagal. Email, NIM/NIP, atau peran tidak cocok.")
	ErrForbidden  = errors.New("peran Anda tidak diizinkan melakukan tindakan ini")
	ErrBadToken   = errors.New("invalid token")
)
