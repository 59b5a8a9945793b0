package session

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"campus-chat/internal/logging"
	"campus-chat/internal/user"
)

const (
	Issuer     = "campus-chat"
	DefaultTTL = 24 * time.Hour
)

type Credentials struct {
	Email           string `json:"email"`
	InstitutionalID string `json:"nim_nip"`
	Role            string `json:"role"`
	Password        string `json:"password,omitempty"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        user.User `json:"user"`
}

type Claims struct {
	Role user.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service signs in users against the directory and issues session tokens.
type Service struct {
	dir    *user.Directory
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(dir *user.Directory, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		dir:    dir,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Login matches e-mail, NIM/NIP and role exactly like the portal's sign-in
// form. Accounts registered with a password must also present it.
func (s *Service) Login(ctx context.Context, c Credentials) (*LoginResponse, error) {
	role, err := user.ParseRole(c.Role)
	if err != nil {
		return nil, ErrAuthFailed
	}

	u, err := s.dir.LookupByCredentials(strings.TrimSpace(c.Email), strings.TrimSpace(c.InstitutionalID), role)
	if err != nil {
		return nil, ErrAuthFailed
	}
	if !user.CheckPassword(u, c.Password) {
		return nil, ErrAuthFailed
	}

	expires := s.now().Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})

	ss, err := token.SignedString(s.secret)
	if err != nil {
		return nil, errors.Wrap(err, "signing token")
	}

	logging.FromContext(ctx).Info("user signed in", "user_id", u.ID, "role", u.Role)
	return &LoginResponse{AccessToken: ss, ExpiresAt: expires, User: u}, nil
}

// ValidateToken returns the user id and role carried by a session token.
func (s *Service) ValidateToken(tokenString string) (string, string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", "", errors.Wrap(ErrBadToken, err.Error())
	}
	if !token.Valid || claims.Subject == "" {
		return "", "", ErrBadToken
	}
	return claims.Subject, string(claims.Role), nil
}
