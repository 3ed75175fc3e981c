package catalogrepo

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-admin-console/internal/errors"
	"github.com/jrsteele09/go-admin-console/resources"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface.
// Stored values are copies; derived category fields (level, full path, parent,
// children count) are computed on read.
type InMemoryRepo struct {
	mu         sync.RWMutex
	categories map[int64]resources.Category
	products   map[int64]resources.Product
	nextCatID  int64
	nextProdID int64
	nowFunc    func() time.Time
}

func NewInMemoryRepo(now func() time.Time) *InMemoryRepo {
	if now == nil {
		now = time.Now
	}
	return &InMemoryRepo{
		categories: make(map[int64]resources.Category),
		products:   make(map[int64]resources.Product),
		nowFunc:    now,
	}
}

func (r *InMemoryRepo) ListCategories(f CategoryFilter) []resources.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	list := make([]resources.Category, 0, len(r.categories))
	for _, c := range r.categories {
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) && !strings.Contains(c.Slug, search) {
			continue
		}
		if f.ParentID != nil && (c.ParentID == nil || *c.ParentID != *f.ParentID) {
			continue
		}
		if f.Active != nil && c.Active != *f.Active {
			continue
		}
		if f.Featured != nil && c.Featured != *f.Featured {
			continue
		}
		list = append(list, r.decorate(c))
	}
	sortCategories(list, f.SortField, f.SortDirection)
	return list
}

func sortCategories(list []resources.Category, field, direction string) {
	desc := strings.EqualFold(direction, "desc")
	slices.SortStableFunc(list, func(a, b resources.Category) int {
		var c int
		switch field {
		case "name":
			c = cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case "slug":
			c = cmp.Compare(a.Slug, b.Slug)
		case "created_at":
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if desc {
			return -c
		}
		return c
	})
}

func (r *InMemoryRepo) GetCategory(id int64) (*resources.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "category %d", id)
	}
	d := r.decorate(c)
	return &d, nil
}

// UpsertCategory stores c, assigning an id and slug when missing.
func (r *InMemoryRepo) UpsertCategory(c *resources.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	for _, other := range r.categories {
		if other.ID != c.ID && other.Slug == c.Slug {
			return errors.Wrapf(errors.ErrDuplicate, "slug %s", c.Slug)
		}
	}
	if c.ParentID != nil {
		if _, ok := r.categories[*c.ParentID]; !ok {
			return errors.Wrapf(ErrUnknownParent, "id %d", *c.ParentID)
		}
		if c.ID != 0 && r.isAncestorOrSelf(c.ID, *c.ParentID) {
			return ErrInvalidParent
		}
	}

	now := r.nowFunc()
	if c.ID == 0 {
		r.nextCatID++
		c.ID = r.nextCatID
		c.CreatedAt = now
	} else if existing, ok := r.categories[c.ID]; ok {
		c.CreatedAt = existing.CreatedAt
	}
	if c.ID > r.nextCatID {
		r.nextCatID = c.ID
	}
	c.UpdatedAt = now

	stored := *c
	stored.Parent, stored.Children = nil, nil
	r.categories[c.ID] = stored
	*c = r.decorate(stored)
	return nil
}

// isAncestorOrSelf reports whether id sits on the parent chain starting at node.
func (r *InMemoryRepo) isAncestorOrSelf(id, node int64) bool {
	for seen := 0; seen <= len(r.categories); seen++ {
		if node == id {
			return true
		}
		c, ok := r.categories[node]
		if !ok || c.ParentID == nil {
			return false
		}
		node = *c.ParentID
	}
	return true
}

func (r *InMemoryRepo) DeleteCategory(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.deletable(id); err != nil {
		return err
	}
	delete(r.categories, id)
	return nil
}

func (r *InMemoryRepo) deletable(id int64) error {
	c, ok := r.categories[id]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "category %d", id)
	}
	if r.childCount(id) > 0 {
		return errors.Wrapf(errors.ErrInUse, "category %q has subcategories", c.Name)
	}
	for _, p := range r.products {
		if p.CategoryID == id {
			return errors.Wrapf(errors.ErrInUse, "category %q has products", c.Name)
		}
	}
	return nil
}

func (r *InMemoryRepo) childCount(id int64) int {
	n := 0
	for _, c := range r.categories {
		if c.ParentID != nil && *c.ParentID == id {
			n++
		}
	}
	return n
}

// decorate fills the derived fields. Callers hold the lock.
func (r *InMemoryRepo) decorate(c resources.Category) resources.Category {
	c.ChildrenCount = r.childCount(c.ID)
	names := []string{c.Name}
	level := 0
	for parentID := c.ParentID; parentID != nil && level < len(r.categories); level++ {
		parent, ok := r.categories[*parentID]
		if !ok {
			break
		}
		if c.Parent == nil {
			p := parent
			p.Parent, p.Children = nil, nil
			c.Parent = &p
		}
		names = append([]string{parent.Name}, names...)
		parentID = parent.ParentID
	}
	c.Level = level
	c.FullPath = strings.Join(names, " > ")
	return c
}

// CategoryTree nests categories under their parents, roots first, each level by name.
func (r *InMemoryRepo) CategoryTree(activeOnly bool) []resources.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.subtree(nil, activeOnly, 0)
}

func (r *InMemoryRepo) subtree(parentID *int64, activeOnly bool, depth int) []resources.Category {
	if depth > len(r.categories) {
		return nil
	}
	var level []resources.Category
	for _, c := range r.categories {
		if activeOnly && !c.Active {
			continue
		}
		if (parentID == nil) != (c.ParentID == nil) || (parentID != nil && *parentID != *c.ParentID) {
			continue
		}
		node := r.decorate(c)
		node.Parent = nil
		node.Children = r.subtree(&node.ID, activeOnly, depth+1)
		level = append(level, node)
	}
	sortCategories(level, "name", "asc")
	return level
}

// CategoryOptions flattens the tree into picker entries, dropping excluded ids and their
// descendants.
func (r *InMemoryRepo) CategoryOptions(activeOnly bool, exclude []int64) []resources.CategoryOption {
	r.mu.RLock()
	defer r.mu.RUnlock()

	options := []resources.CategoryOption{}
	var walk func(nodes []resources.Category)
	walk = func(nodes []resources.Category) {
		for _, n := range nodes {
			if slices.Contains(exclude, n.ID) {
				continue
			}
			options = append(options, resources.CategoryOption{
				Value: n.ID,
				Label: strings.Repeat("— ", n.Level) + n.Name,
				Level: n.Level,
			})
			walk(n.Children)
		}
	}
	walk(r.subtree(nil, activeOnly, 0))
	return options
}

func (r *InMemoryRepo) SetCategoriesActive(ids []int64, active bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if _, ok := r.categories[id]; !ok {
			return 0, errors.Wrapf(errors.ErrNotFound, "category %d", id)
		}
	}
	now := r.nowFunc()
	for _, id := range ids {
		c := r.categories[id]
		c.Active = active
		c.UpdatedAt = now
		r.categories[id] = c
	}
	return len(ids), nil
}

// DeleteCategories removes every id or none of them. Ids deleted together may be each
// other's parents.
func (r *InMemoryRepo) DeleteCategories(ids []int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doomed := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if _, ok := r.categories[id]; !ok {
			return 0, errors.Wrapf(errors.ErrNotFound, "category %d", id)
		}
		doomed[id] = true
	}
	for _, c := range r.categories {
		if c.ParentID != nil && doomed[*c.ParentID] && !doomed[c.ID] {
			return 0, errors.Wrapf(errors.ErrInUse, "category %d has subcategories", *c.ParentID)
		}
	}
	for _, p := range r.products {
		if doomed[p.CategoryID] {
			return 0, errors.Wrapf(errors.ErrInUse, "category %d has products", p.CategoryID)
		}
	}
	for id := range doomed {
		delete(r.categories, id)
	}
	return len(doomed), nil
}

func (r *InMemoryRepo) ListProducts(f ProductFilter) []resources.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	list := make([]resources.Product, 0, len(r.products))
	for _, p := range r.products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		list = append(list, p)
	}

	desc := strings.EqualFold(f.SortOrder, "desc")
	slices.SortStableFunc(list, func(a, b resources.Product) int {
		var c int
		switch f.SortBy {
		case "name":
			c = cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case "price":
			c = cmp.Compare(a.Price, b.Price)
		case "stock":
			c = cmp.Compare(a.Stock, b.Stock)
		case "created_at":
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if desc {
			return -c
		}
		return c
	})
	return list
}

func (r *InMemoryRepo) GetProduct(id int64) (*resources.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "product %d", id)
	}
	return &p, nil
}

// UpsertProduct stores p. SKUs are unique; a category name that matches a stored
// category links the product to it.
func (r *InMemoryRepo) UpsertProduct(p *resources.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, other := range r.products {
		if other.ID != p.ID && p.SKU != "" && strings.EqualFold(other.SKU, p.SKU) {
			return errors.Wrapf(errors.ErrDuplicate, "sku %s", p.SKU)
		}
	}
	p.CategoryID = 0
	for _, c := range r.categories {
		if strings.EqualFold(c.Name, p.Category) {
			p.CategoryID = c.ID
			break
		}
	}

	now := r.nowFunc()
	if p.ID == 0 {
		r.nextProdID++
		p.ID = r.nextProdID
		p.CreatedAt = now
	} else if existing, ok := r.products[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	}
	if p.ID > r.nextProdID {
		r.nextProdID = p.ID
	}
	p.UpdatedAt = now
	r.products[p.ID] = *p
	return nil
}

func (r *InMemoryRepo) DeleteProduct(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "product %d", id)
	}
	delete(r.products, id)
	return nil
}

// Slugify lower-cases name and joins its words with hyphens.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
