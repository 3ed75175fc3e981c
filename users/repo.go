package users

import "time"

// Account is the server-side record behind a User.
type Account struct {
	User
	PasswordHash string   `json:"-"`
	UserType     UserType `json:"user_type"`
}

// Item projects an account onto the listing row.
func (a *Account) Item() ListItem {
	return ListItem{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Role:        RoleSummary{Name: a.Role.Name, Slug: a.Role.Slug},
		Onboarded:   a.Onboarded,
		IsActive:    a.IsActive,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
	}
}

type UserRepo interface {
	Upsert(account *Account) error
	Delete(id int64) error
	GetByEmail(email string) (*Account, error)
	GetByID(id int64) (*Account, error)
	List() ([]*Account, error)
	SetLastLogin(id int64, at time.Time) error
}

type RoleRepo interface {
	GetByID(id int64) (*Role, error)
}
