// Package token issues and validates the mock API's access tokens and reads their claims
// on the client side.
package token

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-admin-console/internal/errors"
	"github.com/jrsteele09/go-admin-console/users"
)

// Claims carried by an access token.
type Claims struct {
	Email       string         `json:"email,omitempty"`
	UserType    users.UserType `json:"user_type,omitempty"`
	Permissions []string       `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject back into a user id.
func (c *Claims) UserID() (int64, error) {
	if c == nil {
		return 0, errors.Wrapf(errors.ErrInvalidToken, "no claims")
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidToken, "subject %q", c.Subject)
	}
	return id, nil
}

type Manager struct {
	signer            Signer
	issuer            string
	accessTokenExpiry time.Duration
	revocations       Revocations
	nowFunc           func() time.Time
}

type ManagerOption func(*Manager)

func WithAccessTokenExpiry(expiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessTokenExpiry = expiry
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func WithIssuer(issuer string) ManagerOption {
	return func(m *Manager) {
		m.issuer = issuer
	}
}

func WithRevocations(r Revocations) ManagerOption {
	return func(m *Manager) {
		m.revocations = r
	}
}

func New(signer Signer, options ...ManagerOption) *Manager {
	m := &Manager{
		signer: signer,
		issuer: "admin-mockapi",
	}
	for _, opt := range options {
		opt(m)
	}
	if m.accessTokenExpiry == 0 {
		m.accessTokenExpiry = 15 * time.Minute
	}
	if m.revocations == nil {
		m.revocations = NewRevocationList(m.accessTokenExpiry)
	}
	if m.nowFunc == nil {
		m.nowFunc = time.Now
	}
	return m
}

// Issue signs an access token for acc and returns it with its expiry.
func (m *Manager) Issue(acc *users.Account) (string, time.Time, error) {
	now := m.nowFunc()
	exp := now.Add(m.accessTokenExpiry)
	claims := &Claims{
		Email:       acc.Email,
		UserType:    acc.UserType,
		Permissions: acc.Role.PermissionNames(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   strconv.FormatInt(acc.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.New().String(),
		},
	}
	signed, err := m.signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Validate verifies the signature, expiry and revocation state of raw.
func (m *Manager) Validate(raw string) (*Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "empty token")
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, m.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{m.signer.GetSigningMethod().Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.nowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Wrapf(errors.ErrTokenExpired, "%v", err)
		}
		return nil, errors.Wrapf(errors.ErrInvalidToken, "%v", err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	var issuedAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}
	if m.revocations.IsRevoked(claims.ID, userID, issuedAt) {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "token revoked")
	}
	return claims, nil
}

// Revoke blocks raw until it expires. Tokens that no longer validate need no revoking.
func (m *Manager) Revoke(raw string) error {
	claims, err := m.Validate(raw)
	if err != nil {
		return nil
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return fmt.Errorf("token missing jti or exp claim")
	}
	m.revocations.Prune(m.nowFunc())
	m.revocations.RevokeToken(claims.ID, claims.ExpiresAt.Time)
	return nil
}

// RevokeUser cuts off every access token already issued to userID, e.g. when the account
// is deleted or deactivated. Tokens issued later are unaffected.
func (m *Manager) RevokeUser(userID int64) {
	now := m.nowFunc()
	m.revocations.Prune(now)
	m.revocations.RevokeUser(userID, now)
}

// Inspect reads the claims of raw without verifying its signature. It is for display only,
// e.g. showing who a stored session belongs to and when its access token runs out.
func Inspect(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "%v", err)
	}
	return claims, nil
}
