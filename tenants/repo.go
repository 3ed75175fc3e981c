package tenants

// Repo stores tenants. Upsert fails with errors.ErrDuplicate when the subdomain belongs
// to another tenant; lookups fail with errors.ErrNotFound.
type Repo interface {
	Upsert(tenantData *Tenant) error
	Delete(tenantID string) error
	Get(tenantID string) (*Tenant, error)
	GetBySubdomain(subdomain string) (*Tenant, error)
	GetByOwner(ownerID int64) (*Tenant, error)
	List(offset, limit int) ([]*Tenant, error)
}
