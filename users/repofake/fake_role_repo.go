package fakeuserrepo

import (
	"sort"
	"sync"

	"github.com/jrsteele09/go-admin-console/internal/errors"
	"github.com/jrsteele09/go-admin-console/users"
)

var _ users.RoleRepo = (*FakeRoleRepo)(nil)

type FakeRoleRepo struct {
	roles map[int64]users.Role
	lock  sync.RWMutex
}

func NewFakeRoleRepo(roles ...users.Role) *FakeRoleRepo {
	r := &FakeRoleRepo{roles: make(map[int64]users.Role)}
	for _, role := range roles {
		r.roles[role.ID] = role
	}
	return r
}

func (rr *FakeRoleRepo) Upsert(role users.Role) {
	rr.lock.Lock()
	defer rr.lock.Unlock()
	rr.roles[role.ID] = role
}

func (rr *FakeRoleRepo) GetByID(id int64) (*users.Role, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()
	role, ok := rr.roles[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "role %d", id)
	}
	role.Permissions = append([]users.Permission(nil), role.Permissions...)
	return &role, nil
}

// List returns roles ordered by id.
func (rr *FakeRoleRepo) List() []users.Role {
	rr.lock.RLock()
	defer rr.lock.RUnlock()
	roles := make([]users.Role, 0, len(rr.roles))
	for _, role := range rr.roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles
}
