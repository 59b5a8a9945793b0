package user

import (
	"strings"

	"github.com/pkg/errors"
)

type Role string

const (
	RoleStudent  Role = "Mahasiswa"
	RoleLecturer Role = "Dosen"
	RoleStaff    Role = "Staf / Admin Kampus"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.TrimSpace(s)); r {
	case RoleStudent, RoleLecturer, RoleStaff:
		return r, nil
	case "":
		return "", ErrNoRoleSelected
	}
	return "", errors.Wrapf(ErrNoRoleSelected, "unknown role %q", s)
}

// StaffRole is the secondary role attribute carried by staff accounts only.
type StaffRole string

const (
	StaffAcademic       StaffRole = "Akademik"
	StaffStudentAffairs StaffRole = "Kemahasiswaan"
	StaffCurriculum     StaffRole = "Kurikulum"
	StaffAlumni         StaffRole = "Alumni"
)

// Category is a consultation category. Lecturers list the categories they
// cover in their expertise and private chats are tagged with one.
type Category string

const (
	CategoryAcademic       Category = "Akademik"
	CategoryCareer         Category = "Karir & Magang"
	CategoryScholarship    Category = "Beasiswa"
	CategoryStudentAffairs Category = "Kemahasiswaan"
	CategoryGeneral        Category = "Umum"
)

var Categories = []Category{
	CategoryAcademic,
	CategoryCareer,
	CategoryScholarship,
	CategoryStudentAffairs,
	CategoryGeneral,
}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownCategory, "%q", s)
}

type User struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Role            Role       `json:"role"`
	StaffRole       StaffRole  `json:"staff_role,omitempty"`
	InstitutionalID string     `json:"nim_nip"`
	AvatarURL       string     `json:"avatar_url,omitempty"`
	Faculty         string     `json:"faculty,omitempty"`
	Expertise       []Category `json:"expertise,omitempty"`
	PasswordHash    []byte     `json:"-"`
}

func (u User) IsStudent() bool  { return u.Role == RoleStudent }
func (u User) IsLecturer() bool { return u.Role == RoleLecturer }
func (u User) IsStaff() bool    { return u.Role == RoleStaff }

func (u User) HasExpertise(c Category) bool {
	for _, e := range u.Expertise {
		if e == c {
			return true
		}
	}
	return false
}

// clone returns a copy that does not share the expertise slice or the hash.
func (u User) clone() User {
	if u.Expertise != nil {
		u.Expertise = append([]Category(nil), u.Expertise...)
	}
	if u.PasswordHash != nil {
		u.PasswordHash = append([]byte(nil), u.PasswordHash...)
	}
	return u
}

// FirstLecturer returns the first participant holding the lecturer role.
func FirstLecturer(users []User) (User, bool) {
	for _, u := range users {
		if u.IsLecturer() {
			return u, true
		}
	}
	return User{}, false
}

// Registration is what the register form submits.
type Registration struct {
	Name            string `json:"name" validate:"required"`
	InstitutionalID string `json:"nim_nip" validate:"required,numeric"`
	Email           string `json:"email" validate:"required,email"`
	Role            Role   `json:"role"`
	Password        string `json:"password" validate:"omitempty,min=6"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

// Profile builds the stored user for one role. Each role has its own variant
// so role-specific defaults are set in exactly one place.
type Profile interface {
	user(base User) User
}

type StudentProfile struct {
	Faculty string
}

func (p StudentProfile) user(base User) User {
	base.Role = RoleStudent
	base.Faculty = p.Faculty
	return base
}

type LecturerProfile struct {
	Faculty   string
	Expertise []Category
}

func (p LecturerProfile) user(base User) User {
	base.Role = RoleLecturer
	base.Faculty = p.Faculty
	base.Expertise = append([]Category(nil), p.Expertise...)
	return base
}

type StaffProfile struct {
	StaffRole StaffRole
}

func (p StaffProfile) user(base User) User {
	base.Role = RoleStaff
	base.StaffRole = p.StaffRole
	return base
}

const defaultFaculty = "FASILKOM"

// Profile returns the role variant with the defaults a new account gets.
func (r Registration) Profile() (Profile, error) {
	switch r.Role {
	case RoleStudent:
		return StudentProfile{Faculty: defaultFaculty}, nil
	case RoleLecturer:
		return LecturerProfile{Faculty: defaultFaculty, Expertise: []Category{CategoryAcademic}}, nil
	case RoleStaff:
		return StaffProfile{StaffRole: StaffAcademic}, nil
	case "":
		return nil, ErrNoRoleSelected
	}
	return nil, errors.Wrapf(ErrNoRoleSelected, "unknown role %q", r.Role)
}

// ProfileUpdate holds the account settings a user may change. Empty fields
// keep their current value.
type ProfileUpdate struct {
	Name            string `json:"name"`
	InstitutionalID string `json:"nim_nip" validate:"omitempty,numeric"`
	Email           string `json:"email" validate:"omitempty,email"`
	AvatarURL       string `json:"avatar_url"`
	Faculty         string `json:"faculty"`
	Password        string `json:"password" validate:"omitempty,min=6"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

type RegisterResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
