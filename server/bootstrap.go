package server

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-admin-console/internal/errors"
	"github.com/jrsteele09/go-admin-console/resources"
	"github.com/jrsteele09/go-admin-console/server/catalogrepo"
	"github.com/jrsteele09/go-admin-console/users"
)

// Seeded accounts. All share SeedPassword.
const (
	SeedSuperAdminEmail = "superadmin@example.com"
	SeedAdminEmail      = "admin@example.com"
	SeedEditorEmail     = "editor@example.com"
	SeedPassword        = "Password123"
)

const (
	RoleSuperAdmin int64 = iota + 1
	RoleAdmin
	RoleCatalogEditor
)

var permissionIDs = map[string]int64{
	users.PermManageUsers:      1,
	users.PermViewReports:      2,
	users.PermManageSettings:   3,
	users.PermViewDashboard:    4,
	users.PermManageProducts:   5,
	users.PermViewProducts:     6,
	users.PermManageCategories: 7,
}

func permissions(names ...string) []users.Permission {
	perms := make([]users.Permission, 0, len(names))
	for _, name := range names {
		perms = append(perms, users.Permission{ID: permissionIDs[name], Name: name, Slug: name})
	}
	return perms
}

// DefaultRoles are the roles every mock API starts with.
func DefaultRoles() []users.Role {
	return []users.Role{
		{
			ID: RoleSuperAdmin, Name: "Super Admin", Slug: "super-admin",
			Description: "Full platform access",
			Permissions: permissions(users.PermManageUsers, users.PermViewReports, users.PermManageSettings,
				users.PermViewDashboard, users.PermManageProducts, users.PermViewProducts, users.PermManageCategories),
		},
		{
			ID: RoleAdmin, Name: "Admin", Slug: "admin",
			Description: "Store administrator",
			Permissions: permissions(users.PermManageUsers, users.PermViewReports, users.PermViewDashboard,
				users.PermManageProducts, users.PermViewProducts, users.PermManageCategories),
		},
		{
			ID: RoleCatalogEditor, Name: "Catalog Editor", Slug: "catalog-editor",
			Description: "Maintains categories and products",
			Permissions: permissions(users.PermManageCategories, users.PermManageProducts, users.PermViewProducts),
		},
	}
}

// InitialiseSystem seeds the default accounts and a sample catalogue. Existing data is
// left alone.
func (s *Server) InitialiseSystem(ctx context.Context) error {
	seeds := []struct {
		name     string
		email    string
		roleID   int64
		userType users.UserType
	}{
		{"Super Admin", SeedSuperAdminEmail, RoleSuperAdmin, users.TypeSuperAdmin},
		{"Store Admin", SeedAdminEmail, RoleAdmin, users.TypeAdmin},
		{"Catalog Editor", SeedEditorEmail, RoleCatalogEditor, users.TypeAdmin},
	}
	for _, seed := range seeds {
		if _, err := s.repos.Users.GetByEmail(seed.email); err == nil {
			continue
		} else if !errors.Is(err, errors.ErrUserNotFound) {
			return fmt.Errorf("failed to look up %s: %w", seed.email, err)
		}
		if err := s.createUser(seed.name, seed.email, SeedPassword, seed.roleID, seed.userType); err != nil {
			return fmt.Errorf("failed to seed %s: %w", seed.email, err)
		}
	}

	if len(s.repos.Catalog.ListCategories(catalogrepo.CategoryFilter{})) == 0 {
		if err := s.seedCatalog(); err != nil {
			return fmt.Errorf("failed to seed catalogue: %w", err)
		}
	}

	if s.env == "DEV" {
		s.logger.Info().Msg("👤 Seeded accounts (password " + SeedPassword + "):")
		for _, seed := range seeds {
			s.logger.Info().Msgf("   %-11s %s", seed.userType, seed.email)
		}
	}
	return nil
}

func (s *Server) createUser(name, email, password string, roleID int64, userType users.UserType) error {
	role, err := s.repos.Roles.GetByID(roleID)
	if err != nil {
		return err
	}
	hash, err := users.HashPassword(password)
	if err != nil {
		return err
	}
	now := s.nowFunc()
	return s.repos.Users.Upsert(&users.Account{
		User: users.User{
			Name:      name,
			Email:     email,
			RoleID:    roleID,
			Role:      *role,
			IsActive:  true,
			Onboarded: userType == users.TypeSuperAdmin,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: hash,
		UserType:     userType,
	})
}

func (s *Server) seedCatalog() error {
	type seedCategory struct {
		name     string
		parent   string
		featured bool
		active   bool
	}
	categories := []seedCategory{
		{"Electronics", "", true, true},
		{"Phones", "Electronics", false, true},
		{"Laptops", "Electronics", false, true},
		{"Clothing", "", true, true},
		{"Men", "Clothing", false, true},
		{"Women", "Clothing", false, true},
		{"Home & Garden", "", false, true},
		{"Kitchen", "Home & Garden", false, true},
		{"Garden Tools", "Home & Garden", false, false},
		{"Books", "", false, false},
		{"Toys", "", false, true},
		{"Sports", "", false, true},
	}
	ids := map[string]int64{}
	for _, sc := range categories {
		c := &resources.Category{Name: sc.name, Featured: sc.featured, Active: sc.active}
		if sc.parent != "" {
			parentID := ids[sc.parent]
			c.ParentID = &parentID
		}
		if err := s.repos.Catalog.UpsertCategory(c); err != nil {
			return err
		}
		ids[sc.name] = c.ID
	}

	products := []resources.Product{
		{Name: "Smartphone X", Category: "Phones", Price: 799, Stock: 25, SKU: "PH-001", Status: resources.StatusActive},
		{Name: "Budget Phone", Category: "Phones", Price: 149.5, Stock: 120, SKU: "PH-002", Status: resources.StatusActive},
		{Name: "Ultrabook 14", Category: "Laptops", Price: 1299, Stock: 8, SKU: "LT-001", Status: resources.StatusActive},
		{Name: "Denim Jacket", Category: "Men", Price: 89, Stock: 40, SKU: "CL-001", Status: resources.StatusActive},
		{Name: "Summer Dress", Category: "Women", Price: 59, Stock: 0, SKU: "CL-002", Status: resources.StatusInactive},
		{Name: "Go in Practice", Category: "Books", Price: 39.99, Stock: 15, SKU: "BK-001", Status: resources.StatusActive},
	}
	for i := range products {
		if err := s.repos.Catalog.UpsertProduct(&products[i]); err != nil {
			return err
		}
	}
	return nil
}
