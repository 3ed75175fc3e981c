package users

import "time"

type RoleSummary struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ListItem is one row of the users listing.
type ListItem struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        RoleSummary `json:"role"`
	Onboarded   bool        `json:"onboarded"`
	IsActive    bool        `json:"is_active"`
	LastLoginAt *time.Time  `json:"last_login_at"`
	CreatedAt   time.Time   `json:"created_at"`
}

type CreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RoleID   int64  `json:"role_id"`
	Phone    string `json:"phone,omitempty"`
}

type UpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	RoleID   *int64  `json:"role_id,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// OnboardRequest is the store onboarding payload. The API expects camelCase keys here.
type OnboardRequest struct {
	StoreName    string `json:"storeName"`
	Subdomain    string `json:"subdomain"`
	OwnerName    string `json:"ownerName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Country      string `json:"country"`
	BusinessType string `json:"businessType"`
	Theme        string `json:"theme"`
}
