package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jrsteele09/go-admin-console/gateway"
	"github.com/jrsteele09/go-admin-console/users"
)

// LoginResult is what a successful login hands back.
type LoginResult struct {
	User         users.User
	AccessToken  string
	RefreshToken string
	UserType     users.UserType
	Permissions  []string
	ExpiresAt    *time.Time
}

// AuthAPI is the server side of the session transitions.
type AuthAPI interface {
	Login(ctx context.Context, creds users.Credentials) (LoginResult, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (users.User, error)
}

var _ AuthAPI = (*HTTPAuthAPI)(nil)

// Auth endpoints, relative to the API base URL.
const (
	PathLogin   = "/auth/login"
	PathLogout  = "/auth/logout"
	PathRefresh = "/auth/refresh"
	PathMe      = "/auth/me"
)

type HTTPAuthAPI struct {
	gw *gateway.Client
}

func NewHTTPAuthAPI(gw *gateway.Client) *HTTPAuthAPI {
	return &HTTPAuthAPI{gw: gw}
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type loginData struct {
	User         users.User `json:"user"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	UserType     string     `json:"user_type"`
	Permissions  []string   `json:"permissions"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

func (a *HTTPAuthAPI) Login(ctx context.Context, creds users.Credentials) (LoginResult, error) {
	var resp envelope[loginData]
	err := a.gw.Do(ctx, gateway.Request{
		Method:          http.MethodPost,
		Path:            PathLogin,
		Body:            creds,
		SkipAuthRefresh: true,
	}, &resp)
	if err != nil {
		return LoginResult{}, err
	}
	if resp.Data.AccessToken == "" {
		msg := resp.Message
		if msg == "" {
			msg = "login response carried no access token"
		}
		return LoginResult{}, fmt.Errorf("login: %s", msg)
	}

	userType, err := users.ParseUserType(resp.Data.UserType)
	if err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}
	perms := resp.Data.Permissions
	if perms == nil {
		perms = resp.Data.User.Role.PermissionNames()
	}
	return LoginResult{
		User:         resp.Data.User,
		AccessToken:  resp.Data.AccessToken,
		RefreshToken: resp.Data.RefreshToken,
		UserType:     userType,
		Permissions:  perms,
		ExpiresAt:    resp.Data.ExpiresAt,
	}, nil
}

// Logout is quiet: the session is torn down locally whatever the server says.
func (a *HTTPAuthAPI) Logout(ctx context.Context) error {
	return a.gw.Do(ctx, gateway.Request{
		Method:          http.MethodPost,
		Path:            PathLogout,
		SkipAuthRefresh: true,
		Silent:          true,
	}, nil)
}

func (a *HTTPAuthAPI) Me(ctx context.Context) (users.User, error) {
	var resp envelope[users.User]
	if err := a.gw.Get(ctx, PathMe, nil, &resp); err != nil {
		return users.User{}, err
	}
	return resp.Data, nil
}
