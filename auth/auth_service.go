// Package auth is the credential side of the mock API: password login, refresh token
// rotation and logout. HTTP concerns stay in the server package.
package auth

import (
	"strings"
	"time"

	"github.com/jrsteele09/go-admin-console/internal/errors"
	"github.com/jrsteele09/go-admin-console/token"
	"github.com/jrsteele09/go-admin-console/token/refresh"
	"github.com/jrsteele09/go-admin-console/users"
)

// Repos holds the repository dependencies of the Service
type Repos struct {
	Users users.UserRepo
	Roles users.RoleRepo
}

// Grant is the outcome of a login or refresh. RefreshToken is always the token the
// client must present next.
type Grant struct {
	Account      *users.Account
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	ExpiresIn    int
}

type Service struct {
	repos   Repos
	tokens  *token.Manager
	refresh *refresh.Manager
	nowTime func() time.Time
}

type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(repos Repos, tokens *token.Manager, refreshTokens *refresh.Manager, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[auth.NewService] Users repo is required")
	}
	if repos.Roles == nil {
		return nil, errors.New("[auth.NewService] Roles repo is required")
	}
	if tokens == nil {
		return nil, errors.New("[auth.NewService] token manager is required")
	}
	if refreshTokens == nil {
		return nil, errors.New("[auth.NewService] refresh token manager is required")
	}

	s := &Service{
		repos:   repos,
		tokens:  tokens,
		refresh: refreshTokens,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Login checks the password and, when userType is set, that the account belongs to that
// portal. The checks run in that order so a wrong password never reveals the type.
func (s *Service) Login(email, password string, userType users.UserType) (*Grant, error) {
	acc, err := s.repos.Users.GetByEmail(strings.TrimSpace(email))
	if err != nil || !users.CheckPasswordHash(password, acc.PasswordHash) {
		return nil, errors.ErrInvalidCredentials
	}
	if !acc.IsActive {
		return nil, errors.ErrUserInactive
	}
	if userType != "" && userType != acc.UserType {
		return nil, errors.ErrWrongUserType
	}
	s.loadRole(acc)

	now := s.nowTime()
	if err := s.repos.Users.SetLastLogin(acc.ID, now); err != nil {
		return nil, errors.Wrapf(err, "[Login] record last login")
	}
	acc.LastLoginAt = &now

	refreshToken, err := s.refresh.Create(acc.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "[Login] create refresh token")
	}
	return s.grant(acc, refreshToken)
}

// Refresh exchanges a refresh token for a new access token and a rotated refresh token.
// The presented token stops working. Deactivated accounts lose their refresh token.
func (s *Service) Refresh(refreshToken string) (*Grant, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, errors.ErrInvalidRefreshToken
	}
	next, userID, err := s.refresh.Rotate(refreshToken)
	if err != nil {
		return nil, err
	}
	acc, err := s.repos.Users.GetByID(userID)
	if err != nil || !acc.IsActive {
		_ = s.refresh.Revoke(userID)
		return nil, errors.ErrInvalidRefreshToken
	}
	s.loadRole(acc)
	return s.grant(acc, next)
}

// Logout revokes the presented access token and the user's refresh token. Both steps
// are best effort; an already invalid token is not an error.
func (s *Service) Logout(accessToken string, userID int64) error {
	var firstErr error
	if accessToken != "" {
		firstErr = s.tokens.Revoke(accessToken)
	}
	if userID > 0 {
		if err := s.refresh.Revoke(userID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Account loads a user with its current role.
func (s *Service) Account(userID int64) (*users.Account, error) {
	acc, err := s.repos.Users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	s.loadRole(acc)
	return acc, nil
}

// RevokeUser signs a user out everywhere, e.g. after deactivation or deletion: access
// tokens already issued stop validating and the refresh token is dropped.
func (s *Service) RevokeUser(userID int64) error {
	s.tokens.RevokeUser(userID)
	return s.refresh.Revoke(userID)
}

func (s *Service) loadRole(acc *users.Account) {
	if role, err := s.repos.Roles.GetByID(acc.RoleID); err == nil {
		acc.Role = *role
	}
}

func (s *Service) grant(acc *users.Account, refreshToken string) (*Grant, error) {
	access, exp, err := s.tokens.Issue(acc)
	if err != nil {
		return nil, errors.Wrapf(err, "[grant] issue access token")
	}
	return &Grant{
		Account:      acc,
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresAt:    exp,
		ExpiresIn:    int(exp.Sub(s.nowTime()).Seconds()),
	}, nil
}
