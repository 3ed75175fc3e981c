package tenantrepofakes

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-admin-console/internal/errors"
	"github.com/jrsteele09/go-admin-console/tenants"
)

var _ tenants.Repo = (*FakeTenantRepo)(nil)

type FakeTenantRepo struct {
	tenants    map[string]*tenants.Tenant
	subdomains map[string]string
	lock       sync.RWMutex
}

func NewFakeTenantRepo() *FakeTenantRepo {
	return &FakeTenantRepo{
		tenants:    make(map[string]*tenants.Tenant),
		subdomains: make(map[string]string),
	}
}

func (tr *FakeTenantRepo) Upsert(tenantData *tenants.Tenant) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	sub := strings.ToLower(tenantData.Subdomain)
	if id, ok := tr.subdomains[sub]; ok && id != tenantData.ID {
		return errors.Wrapf(errors.ErrDuplicate, "subdomain %s", tenantData.Subdomain)
	}
	if tenantData.ID == "" {
		tenantData.ID = uuid.New().String()
	}
	if existing, ok := tr.tenants[tenantData.ID]; ok {
		delete(tr.subdomains, strings.ToLower(existing.Subdomain))
	}
	stored := *tenantData
	tr.tenants[tenantData.ID] = &stored
	tr.subdomains[sub] = tenantData.ID
	return nil
}

func (tr *FakeTenantRepo) Delete(tenantID string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	existing, ok := tr.tenants[tenantID]
	if !ok {
		return errors.ErrNotFound
	}
	delete(tr.subdomains, strings.ToLower(existing.Subdomain))
	delete(tr.tenants, tenantID)
	return nil
}

func (tr *FakeTenantRepo) Get(tenantID string) (*tenants.Tenant, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	t, ok := tr.tenants[tenantID]
	if !ok {
		return nil, errors.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (tr *FakeTenantRepo) GetBySubdomain(subdomain string) (*tenants.Tenant, error) {
	tr.lock.RLock()
	id, ok := tr.subdomains[strings.ToLower(subdomain)]
	tr.lock.RUnlock()
	if !ok {
		return nil, errors.ErrNotFound
	}
	return tr.Get(id)
}

func (tr *FakeTenantRepo) GetByOwner(ownerID int64) (*tenants.Tenant, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	for _, t := range tr.tenants {
		if t.OwnerID == ownerID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, errors.ErrNotFound
}

// List pages through tenants ordered by subdomain.
func (tr *FakeTenantRepo) List(offset, limit int) ([]*tenants.Tenant, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	all := make([]*tenants.Tenant, 0, len(tr.tenants))
	for _, t := range tr.tenants {
		cp := *t
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Subdomain < all[j].Subdomain
	})

	if offset < 0 || offset >= len(all) {
		return nil, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}
