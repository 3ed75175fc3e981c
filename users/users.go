package users

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/jrsteele09/go-admin-console/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

// UserType selects which login surface and dashboard a session belongs to.
type UserType string

const (
	TypeAdmin      UserType = "admin"
	TypeSuperAdmin UserType = "superadmin"
)

// ParseUserType accepts the wire spelling of a user type. The empty string parses to ""
// so a missing value can be told apart from an unknown one.
func ParseUserType(s string) (UserType, error) {
	switch UserType(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return "", nil
	case TypeAdmin:
		return TypeAdmin, nil
	case TypeSuperAdmin:
		return TypeSuperAdmin, nil
	}
	return "", fmt.Errorf("unknown user type %q", s)
}

func (t UserType) Valid() bool {
	return t == TypeAdmin || t == TypeSuperAdmin
}

// Permission names issued by the API.
const (
	PermManageUsers      = "manage_users"
	PermViewReports      = "view_reports"
	PermManageSettings   = "manage_settings"
	PermViewDashboard    = "view_dashboard"
	PermManageProducts   = "manage_products"
	PermViewProducts     = "view_products"
	PermManageCategories = "manage_categories"
)

type Permission struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Role struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Permissions []Permission `json:"permissions"`
}

// PermissionNames flattens the role's permissions to their names.
func (r Role) PermissionNames() []string {
	names := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		names = append(names, p.Name)
	}
	return names
}

// User is the authenticated operator's profile as returned by the API.
type User struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	Phone           *string    `json:"phone"`
	RoleID          int64      `json:"role_id"`
	IsActive        bool       `json:"is_active"`
	LastLoginAt     *time.Time `json:"last_login_at"`
	OrganizationID  int64      `json:"organization_id"`
	Onboarded       bool       `json:"onboarded"`
	Role            Role       `json:"role"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Credentials are held only for the duration of a login call.
type Credentials struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	UserType UserType `json:"user_type,omitempty"`
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return errors.Wrapf(errors.ErrInvalidCredentials, "email and password are required")
	}
	if c.UserType != "" && !c.UserType.Valid() {
		return errors.Wrapf(errors.ErrWrongUserType, "user type %q", c.UserType)
	}
	return nil
}

// String keeps the password out of logs.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{Email:%s UserType:%s}", c.Email, c.UserType)
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
