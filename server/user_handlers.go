package server

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/jrsteele09/go-admin-console/onboarding"
	"github.com/jrsteele09/go-admin-console/tenants"
	"github.com/jrsteele09/go-admin-console/users"
)

const defaultUserLimit = 10

// ListUsersHandler pages with page/limit and wraps the paginator in data.
func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accounts, err := s.repos.Users.List()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}
		rows := make([]users.ListItem, 0, len(accounts))
		for _, acc := range accounts {
			if role, err := s.repos.Roles.GetByID(acc.RoleID); err == nil {
				acc.Role = *role
			}
			rows = append(rows, acc.Item())
		}
		items, meta := paginate(rows, intParam(r, "page", 1), intParam(r, "limit", defaultUserLimit))
		writeData(w, http.StatusOK, "", struct {
			Data []users.ListItem `json:"data"`
			paginationMeta
		}{items, meta})
	}
}

func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		acc, err := s.repos.Users.GetByID(id)
		if err != nil {
			writeRepoError(w, err, "id")
			return
		}
		writeData(w, http.StatusOK, "", acc.Item())
	}
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (s *Server) CreateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req users.CreateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.Name, req.Email = strings.TrimSpace(req.Name), strings.TrimSpace(req.Email)
		verrs := validationErrors{}
		verrs.required("name", req.Name)
		verrs.required("email", req.Email)
		if req.Email != "" && !validEmail(req.Email) {
			verrs.add("email", "The email must be a valid email address.")
		}
		if err := users.ValidatePasswordStrength(req.Password); err != nil {
			verrs.add("password", capitalise(err.Error())+".")
		}
		role, err := s.repos.Roles.GetByID(req.RoleID)
		if err != nil {
			verrs.add("role_id", "The selected role is invalid.")
		}
		if verrs.write(w) {
			return
		}

		hash, err := users.HashPassword(req.Password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}
		now := s.nowFunc()
		acc := &users.Account{
			User: users.User{
				Name:      req.Name,
				Email:     req.Email,
				RoleID:    role.ID,
				Role:      *role,
				IsActive:  true,
				CreatedAt: now,
				UpdatedAt: now,
			},
			PasswordHash: hash,
			UserType:     users.TypeAdmin,
		}
		if req.Phone != "" {
			acc.Phone = &req.Phone
		}
		if err := s.repos.Users.Upsert(acc); err != nil {
			writeRepoError(w, err, "email")
			return
		}
		writeData(w, http.StatusCreated, "User created successfully", acc.Item())
	}
}

func (s *Server) UpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req users.UpdateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		acc, err := s.repos.Users.GetByID(id)
		if err != nil {
			writeRepoError(w, err, "id")
			return
		}

		verrs := validationErrors{}
		if req.Name != nil {
			acc.Name = strings.TrimSpace(*req.Name)
			verrs.required("name", acc.Name)
		}
		if req.Email != nil {
			acc.Email = strings.TrimSpace(*req.Email)
			if !validEmail(acc.Email) {
				verrs.add("email", "The email must be a valid email address.")
			}
		}
		if req.RoleID != nil {
			role, err := s.repos.Roles.GetByID(*req.RoleID)
			if err != nil {
				verrs.add("role_id", "The selected role is invalid.")
			} else {
				acc.RoleID, acc.Role = role.ID, *role
			}
		}
		if req.Phone != nil {
			acc.Phone = req.Phone
		}
		if req.IsActive != nil {
			acc.IsActive = *req.IsActive
		}
		if verrs.write(w) {
			return
		}
		acc.UpdatedAt = s.nowFunc()
		if err := s.repos.Users.Upsert(acc); err != nil {
			writeRepoError(w, err, "email")
			return
		}
		if !acc.IsActive {
			_ = s.auth.RevokeUser(acc.ID)
		}
		writeData(w, http.StatusOK, "User updated successfully", acc.Item())
	}
}

func (s *Server) DeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if self, err := claimsFrom(r.Context()).UserID(); err == nil && self == id {
			validationErrors{"id": {"You cannot delete your own account."}}.write(w)
			return
		}
		if err := s.repos.Users.Delete(id); err != nil {
			writeRepoError(w, err, "id")
			return
		}
		_ = s.auth.RevokeUser(id)
		writeData(w, http.StatusOK, "User deleted successfully", nil)
	}
}

// OnboardStoreHandler validates the onboarding form with the same field rules the
// console uses, records the store and marks the caller onboarded. Onboarding again
// updates the caller's existing store.
func (s *Server) OnboardStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req users.OnboardRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if validationErrors(onboarding.Validate(onboarding.Values(req))).write(w) {
			return
		}
		acc, ok := s.currentAccount(w, r)
		if !ok {
			return
		}
		req = onboarding.Request(onboarding.Values(req))
		now := s.nowFunc()

		tnt, err := s.repos.Tenants.GetByOwner(acc.ID)
		if err != nil {
			tnt = &tenants.Tenant{OwnerID: acc.ID, CreatedAt: now}
		}
		tnt.Name = req.StoreName
		tnt.Subdomain = req.Subdomain
		tnt.OwnerName = req.OwnerName
		tnt.Email = req.Email
		tnt.Phone = req.Phone
		tnt.Address = req.Address
		tnt.City = req.City
		tnt.Country = req.Country
		tnt.BusinessType = req.BusinessType
		tnt.Theme = req.Theme
		tnt.UpdatedAt = now
		if err := s.repos.Tenants.Upsert(tnt); err != nil {
			writeRepoError(w, err, "subdomain")
			return
		}

		acc.Onboarded = true
		acc.UpdatedAt = now
		if err := s.repos.Users.Upsert(acc); err != nil {
			writeRepoError(w, err, "email")
			return
		}
		writeData(w, http.StatusOK, "Store onboarded successfully", map[string]any{
			"user":  acc.User,
			"store": tnt,
		})
	}
}
