package user

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"campus-chat/internal/logging"
)

type Service struct {
	dir      *Directory
	validate *validator.Validate
}

func NewService(dir *Directory) *Service {
	v := validator.New()
	// report JSON field names instead of Go ones
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{dir: dir, validate: v}
}

func (s *Service) Directory() *Directory { return s.dir }

func (s *Service) Register(ctx context.Context, req *Registration) (*RegisterResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.InstitutionalID = strings.TrimSpace(req.InstitutionalID)

	profile, err := req.Profile()
	if err != nil {
		return nil, err
	}
	if err := s.check(req); err != nil {
		return nil, err
	}

	base := User{
		Name:            req.Name,
		Email:           req.Email,
		InstitutionalID: req.InstitutionalID,
	}
	if req.Password != "" {
		if base.PasswordHash, err = bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost); err != nil {
			return nil, errors.Wrap(err, "hashing password")
		}
	}

	u, err := s.dir.Register(base, profile)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("user registered", "user_id", u.ID, "role", u.Role)
	return &RegisterResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}, nil
}

// UpdateProfile applies account settings. The new state is visible in every
// chat at once because chats only hold participant ids.
func (s *Service) UpdateProfile(ctx context.Context, id string, req *ProfileUpdate) (User, error) {
	if err := s.check(req); err != nil {
		return User{}, err
	}

	u, err := s.dir.Get(id)
	if err != nil {
		return User{}, err
	}
	if v := strings.TrimSpace(req.Name); v != "" {
		u.Name = v
	}
	if v := strings.TrimSpace(req.Email); v != "" {
		u.Email = v
	}
	if v := strings.TrimSpace(req.InstitutionalID); v != "" {
		u.InstitutionalID = v
	}
	if v := strings.TrimSpace(req.AvatarURL); v != "" {
		u.AvatarURL = v
	}
	if v := strings.TrimSpace(req.Faculty); v != "" {
		u.Faculty = v
	}
	if req.Password != "" {
		if u.PasswordHash, err = bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost); err != nil {
			return User{}, errors.Wrap(err, "hashing password")
		}
	}

	if err := s.dir.updateUnique(u); err != nil {
		return User{}, err
	}

	logging.FromContext(ctx).Info("profile updated", "user_id", u.ID)
	return u, nil
}

func (s *Service) check(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validating request")
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Error: fieldMessage(fe)})
	}
	return &ValidationError{Err: ErrInvalidRegistration, Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_with":
		return "wajib diisi"
	case "numeric":
		return "harus berupa angka"
	case "email":
		return "format email tidak valid"
	case "eqfield":
		return "password tidak cocok"
	case "min":
		return "minimal " + fe.Param() + " karakter"
	}
	return "tidak valid"
}

// CheckPassword reports whether pwd matches the stored hash. Users without a
// hash (seeded accounts) have no password to check.
func CheckPassword(u User, pwd string) bool {
	if len(u.PasswordHash) == 0 {
		return true
	}
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd)) == nil
}
