package chat

import "github.com/pkg/errors"

var (
	ErrNotFound            = errors.New("chat not found")
	ErrEmptyMessage        = errors.New("message needs text or a file")
	ErrInvalidParticipants = errors.New("invalid chat participants")
)
