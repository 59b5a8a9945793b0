package session

import "campus-chat/internal/user"

// Intent is an action a signed-in user asks for.
type Intent int

const (
	SendMessage Intent = iota
	ReadChats
	ManageProfile
	StartConsultation
	ManageGroup
	PostAnnouncement
)

var allowed = map[Intent][]user.Role{
	SendMessage:       {user.RoleStudent, user.RoleLecturer, user.RoleStaff},
	ReadChats:         {user.RoleStudent, user.RoleLecturer, user.RoleStaff},
	ManageProfile:     {user.RoleStudent, user.RoleLecturer, user.RoleStaff},
	StartConsultation: {user.RoleStudent},
	ManageGroup:       {user.RoleStudent, user.RoleLecturer},
	PostAnnouncement:  {user.RoleStaff},
}

// Authorize reports ErrForbidden when the role may not perform the intent.
func Authorize(role user.Role, intent Intent) error {
	for _, r := range allowed[intent] {
		if r == role {
			return nil
		}
	}
	return ErrForbidden
}
