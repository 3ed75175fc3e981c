package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jrsteele09/go-admin-console/users"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Keys under which the session is persisted. Other tooling reads these names.
const (
	KeyAccessToken  = "admin_token"
	KeyRefreshToken = "admin_refresh_token"
	KeyUser         = "admin_user"
	KeyPermissions  = "admin_permissions"
	KeyUserType     = "admin_user_type"
)

var allKeys = []string{KeyAccessToken, KeyRefreshToken, KeyUser, KeyPermissions, KeyUserType}

// KV is the persistence backend. SetMany and DeleteMany must apply all keys or none.
// GetMany omits keys that are not present.
type KV interface {
	GetMany(ctx context.Context, keys []string) (map[string]string, error)
	SetMany(ctx context.Context, values map[string]string) error
	DeleteMany(ctx context.Context, keys []string) error
}

// Record is everything persisted for one authenticated session.
type Record struct {
	Token       *oauth2.Token
	User        *users.User
	Permissions []string
	UserType    users.UserType
}

func (r Record) AccessToken() string {
	if r.Token == nil {
		return ""
	}
	return r.Token.AccessToken
}

func (r Record) RefreshToken() string {
	if r.Token == nil {
		return ""
	}
	return r.Token.RefreshToken
}

// Reader is the read-only view handed to components that must not mutate the session.
type Reader interface {
	Load(ctx context.Context) Record
	AccessToken(ctx context.Context) string
	RefreshToken(ctx context.Context) string
}

var _ Reader = (*Store)(nil)

type Store struct {
	kv     KV
	logger zerolog.Logger
}

type Option func(*Store)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func New(kv KV, opts ...Option) *Store {
	s := &Store{kv: kv, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save writes all five keys in a single backend call.
func (s *Store) Save(ctx context.Context, rec Record) error {
	if rec.AccessToken() == "" {
		return fmt.Errorf("save session: access token is required")
	}
	userJSON, err := json.Marshal(rec.User)
	if err != nil {
		return fmt.Errorf("save session: encode user: %w", err)
	}
	perms := rec.Permissions
	if perms == nil {
		perms = []string{}
	}
	permsJSON, err := json.Marshal(perms)
	if err != nil {
		return fmt.Errorf("save session: encode permissions: %w", err)
	}

	values := map[string]string{
		KeyAccessToken:  rec.Token.AccessToken,
		KeyRefreshToken: rec.Token.RefreshToken,
		KeyUser:         string(userJSON),
		KeyPermissions:  string(permsJSON),
		KeyUserType:     string(rec.UserType),
	}
	if err := s.kv.SetMany(ctx, values); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load never fails. Missing or unreadable values come back empty.
func (s *Store) Load(ctx context.Context) Record {
	values, err := s.kv.GetMany(ctx, allKeys)
	if err != nil {
		s.logger.Warn().Err(err).Msg("token store unreadable, treating session as empty")
		return Record{Permissions: []string{}}
	}

	rec := Record{Permissions: []string{}}
	if access, refresh := values[KeyAccessToken], values[KeyRefreshToken]; access != "" || refresh != "" {
		rec.Token = &oauth2.Token{AccessToken: access, RefreshToken: refresh, TokenType: "Bearer"}
	}
	if raw := values[KeyUser]; raw != "" {
		var u users.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			s.logger.Warn().Err(err).Str("key", KeyUser).Msg("discarding unparseable value")
		} else if raw != "null" {
			rec.User = &u
		}
	}
	if raw := values[KeyPermissions]; raw != "" {
		var perms []string
		if err := json.Unmarshal([]byte(raw), &perms); err != nil {
			s.logger.Warn().Err(err).Str("key", KeyPermissions).Msg("discarding unparseable value")
		} else if perms != nil {
			rec.Permissions = perms
		}
	}
	if ut, err := users.ParseUserType(values[KeyUserType]); err == nil {
		rec.UserType = ut
	}
	return rec
}

// Clear removes every key in a single backend call.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.DeleteMany(ctx, allKeys); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) AccessToken(ctx context.Context) string {
	return s.get(ctx, KeyAccessToken)
}

func (s *Store) RefreshToken(ctx context.Context) string {
	return s.get(ctx, KeyRefreshToken)
}

// UpdateTokens replaces the access token, and the refresh token when refresh is non-empty.
func (s *Store) UpdateTokens(ctx context.Context, access, refresh string) error {
	if access == "" {
		return fmt.Errorf("update tokens: access token is required")
	}
	values := map[string]string{KeyAccessToken: access}
	if refresh != "" {
		values[KeyRefreshToken] = refresh
	}
	if err := s.kv.SetMany(ctx, values); err != nil {
		return fmt.Errorf("update tokens: %w", err)
	}
	return nil
}

// UpdateUser replaces the persisted profile only.
func (s *Store) UpdateUser(ctx context.Context, u *users.User) error {
	userJSON, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if err := s.kv.SetMany(ctx, map[string]string{KeyUser: string(userJSON)}); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) string {
	values, err := s.kv.GetMany(ctx, []string{key})
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("token store read failed")
		return ""
	}
	return values[key]
}
