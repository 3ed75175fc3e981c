package server

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-admin-console/internal/errors"
	"github.com/jrsteele09/go-admin-console/users"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
}

type loginResponse struct {
	User         users.User     `json:"user"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int            `json:"expires_in"`
	ExpiresAt    time.Time      `json:"expires_at"`
	UserType     users.UserType `json:"user_type"`
	Permissions  []string       `json:"permissions"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// loginFailures maps credential errors to the messages the console shows. All of them
// are 401s.
var loginFailures = map[error]string{
	errors.ErrInvalidCredentials: "Invalid credentials",
	errors.ErrUserInactive:       "Account is inactive.",
	errors.ErrWrongUserType:      "These credentials do not have access to this portal.",
}

// LoginHandler exchanges credentials for an access and refresh token. When user_type is
// given the account must be of that type.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeBody(w, r, &req) {
			return
		}
		verrs := validationErrors{}
		verrs.required("email", req.Email)
		verrs.required("password", req.Password)
		userType, err := users.ParseUserType(req.UserType)
		if err != nil {
			verrs.add("user_type", "The selected user type is invalid.")
		}
		if verrs.write(w) {
			return
		}

		grant, err := s.auth.Login(req.Email, req.Password, userType)
		if err != nil {
			for target, msg := range loginFailures {
				if errors.Is(err, target) {
					writeError(w, http.StatusUnauthorized, msg)
					return
				}
			}
			s.logger.Error().Err(err).Msg("login failed")
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}

		acc := grant.Account
		writeData(w, http.StatusOK, "Login successful", loginResponse{
			User:         acc.User,
			AccessToken:  grant.AccessToken,
			RefreshToken: grant.RefreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    grant.ExpiresIn,
			ExpiresAt:    grant.ExpiresAt,
			UserType:     acc.UserType,
			Permissions:  acc.Role.PermissionNames(),
		})
	}
}

// RefreshHandler rotates the refresh token: the presented one stops working.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if !decodeBody(w, r, &req) {
			return
		}
		grant, err := s.auth.Refresh(req.RefreshToken)
		if err != nil {
			if errors.Is(err, errors.ErrInvalidRefreshToken) || errors.Is(err, errors.ErrRefreshTokenExpired) {
				writeError(w, http.StatusUnauthorized, "Invalid refresh token")
				return
			}
			s.logger.Error().Err(err).Msg("refresh failed")
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}
		writeJSON(w, http.StatusOK, refreshResponse{
			AccessToken:  grant.AccessToken,
			RefreshToken: grant.RefreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    grant.ExpiresIn,
		})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, _ := r.Context().Value(ContextKeyAccessToken).(string)
		id, _ := claimsFrom(r.Context()).UserID()
		if err := s.auth.Logout(raw, id); err != nil {
			s.logger.Warn().Err(err).Msg("failed to revoke tokens")
		}
		writeData(w, http.StatusOK, "Logged out successfully", nil)
	}
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, ok := s.currentAccount(w, r)
		if !ok {
			return
		}
		writeData(w, http.StatusOK, "", acc.User)
	}
}

// currentAccount loads the caller's account with its current role.
func (s *Server) currentAccount(w http.ResponseWriter, r *http.Request) (*users.Account, bool) {
	id, err := claimsFrom(r.Context()).UserID()
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthenticated.")
		return nil, false
	}
	acc, err := s.auth.Account(id)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthenticated.")
		return nil, false
	}
	return acc, true
}
