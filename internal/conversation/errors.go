package conversation

import "github.com/pkg/errors"

var (
	ErrNotParticipant      = errors.New("you are not a participant of this chat")
	ErrEmptyGroupName      = errors.New("nama grup tidak boleh kosong")
	ErrNoMembers           = errors.New("pilih minimal satu anggota grup")
	ErrInvalidParticipants = errors.New("a consultation needs one student and one lecturer")
	ErrThrottled           = errors.New("too many messages, slow down")
)
