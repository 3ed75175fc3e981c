package resources

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/jrsteele09/go-admin-console/gateway"
	"github.com/jrsteele09/go-admin-console/query"
	"github.com/jrsteele09/go-admin-console/users"
)

const (
	UsersPath   = "/users"
	OnboardPath = "/admin/onboard-store"
)

const (
	msgOnboarded     = "User onboarded successfully"
	msgOnboardFailed = "Failed to onboard user"
)

// UserFilters pages with page and limit.
type UserFilters struct {
	Page  int
	Limit int
}

func (f UserFilters) Query() query.Query {
	filters := map[string]string{}
	if f.Limit > 0 {
		filters["limit"] = strconv.Itoa(f.Limit)
	}
	return query.Query{Filters: filters, Page: f.Page}
}

type Users struct {
	*query.Resource[users.ListItem]
}

func NewUsers(gw query.Doer, cache *query.Cache, staleTime time.Duration, opts ...query.Option) *Users {
	return &Users{
		Resource: query.NewResource[users.ListItem](gw, cache, query.Config{
			Name:      "users",
			Path:      UsersPath,
			StaleTime: staleTime,
			Messages:  query.DefaultMessages("User", "users"),
		}, opts...),
	}
}

// Onboard submits the store onboarding form. The returned profile is nil when the
// response did not carry one.
func (u *Users) Onboard(ctx context.Context, req users.OnboardRequest) (*users.User, error) {
	var raw json.RawMessage
	err := u.Mutate(ctx, gateway.Request{Method: http.MethodPost, Path: OnboardPath, Body: req}, &raw, msgOnboarded, msgOnboardFailed)
	if err != nil {
		return nil, err
	}
	return findUser(raw), nil
}

// findUser walks nested {"data": ...} envelopes looking for a user object.
func findUser(raw json.RawMessage) *users.User {
	for depth := 0; depth < 3; depth++ {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			return nil
		}
		var probe struct {
			ID    int64           `json:"id"`
			Email string          `json:"email"`
			Data  json.RawMessage `json:"data"`
			User  json.RawMessage `json:"user"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil
		}
		if probe.ID != 0 && probe.Email != "" {
			var u users.User
			if err := json.Unmarshal(raw, &u); err != nil {
				return nil
			}
			return &u
		}
		switch {
		case len(probe.User) > 0:
			raw = probe.User
		case len(probe.Data) > 0:
			raw = probe.Data
		default:
			return nil
		}
	}
	return nil
}
