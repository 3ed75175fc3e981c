package catalogrepo_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-admin-console/internal/errors"
	"github.com/jrsteele09/go-admin-console/internal/utils"
	"github.com/jrsteele09/go-admin-console/resources"
	"github.com/jrsteele09/go-admin-console/server/catalogrepo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*catalogrepo.InMemoryRepo, map[string]int64) {
	t.Helper()
	repo := catalogrepo.NewInMemoryRepo(func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) })
	ids := map[string]int64{}
	add := func(name string, parent string, active bool) {
		c := &resources.Category{Name: name, Active: active}
		if parent != "" {
			c.ParentID = utils.Ptr(ids[parent])
		}
		require.NoError(t, repo.UpsertCategory(c))
		ids[name] = c.ID
	}
	add("Electronics", "", true)
	add("Phones", "Electronics", true)
	add("Android", "Phones", false)
	add("Books", "", true)
	return repo, ids
}

func TestDerivedCategoryFields(t *testing.T) {
	repo, ids := setupRepo(t)

	android, err := repo.GetCategory(ids["Android"])
	require.NoError(t, err)
	assert.Equal(t, "android", android.Slug)
	assert.Equal(t, 2, android.Level)
	assert.Equal(t, "Electronics > Phones > Android", android.FullPath)
	require.NotNil(t, android.Parent)
	assert.Equal(t, "Phones", android.Parent.Name)

	electronics, err := repo.GetCategory(ids["Electronics"])
	require.NoError(t, err)
	assert.Equal(t, 1, electronics.ChildrenCount)
}

func TestListCategoriesFiltersAndSorts(t *testing.T) {
	repo, ids := setupRepo(t)

	list := repo.ListCategories(catalogrepo.CategoryFilter{SortField: "name", SortDirection: "desc"})
	require.Len(t, list, 4)
	assert.Equal(t, "Phones", list[0].Name)

	list = repo.ListCategories(catalogrepo.CategoryFilter{Active: utils.Ptr(false)})
	require.Len(t, list, 1)
	assert.Equal(t, "Android", list[0].Name)

	list = repo.ListCategories(catalogrepo.CategoryFilter{ParentID: utils.Ptr(ids["Electronics"])})
	require.Len(t, list, 1)
	assert.Equal(t, "Phones", list[0].Name)

	list = repo.ListCategories(catalogrepo.CategoryFilter{Search: "BOO"})
	require.Len(t, list, 1)
}

func TestUpsertCategoryRejects(t *testing.T) {
	repo, ids := setupRepo(t)

	err := repo.UpsertCategory(&resources.Category{Name: "Books"})
	assert.True(t, errors.Is(err, errors.ErrDuplicate))

	electronics, err := repo.GetCategory(ids["Electronics"])
	require.NoError(t, err)
	electronics.ParentID = utils.Ptr(ids["Android"])
	assert.ErrorIs(t, repo.UpsertCategory(electronics), catalogrepo.ErrInvalidParent)

	err = repo.UpsertCategory(&resources.Category{Name: "Orphan", ParentID: utils.Ptr(int64(99))})
	assert.ErrorIs(t, err, catalogrepo.ErrUnknownParent)
}

func TestTreeAndOptions(t *testing.T) {
	repo, ids := setupRepo(t)

	tree := repo.CategoryTree(false)
	require.Len(t, tree, 2)
	assert.Equal(t, "Books", tree[0].Name)
	require.Len(t, tree[1].Children, 1)
	require.Len(t, tree[1].Children[0].Children, 1)

	active := repo.CategoryTree(true)
	assert.Empty(t, active[1].Children[0].Children)

	options := repo.CategoryOptions(false, []int64{ids["Phones"]})
	labels := []string{}
	for _, o := range options {
		labels = append(labels, o.Label)
	}
	assert.Equal(t, []string{"Books", "Electronics"}, labels)
}

func TestDeleteCategoriesIsAllOrNothing(t *testing.T) {
	repo, ids := setupRepo(t)
	require.NoError(t, repo.UpsertProduct(&resources.Product{Name: "Novel", Category: "Books", SKU: "BK-1"}))

	_, err := repo.DeleteCategories([]int64{ids["Phones"], ids["Books"]})
	assert.True(t, errors.Is(err, errors.ErrInUse))
	assert.Len(t, repo.ListCategories(catalogrepo.CategoryFilter{}), 4)

	n, err := repo.DeleteCategories([]int64{ids["Phones"], ids["Android"]})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, repo.ListCategories(catalogrepo.CategoryFilter{}), 2)

	err = repo.DeleteCategory(ids["Books"])
	assert.True(t, errors.Is(err, errors.ErrInUse))
}

func TestSetCategoriesActive(t *testing.T) {
	repo, ids := setupRepo(t)
	n, err := repo.SetCategoriesActive([]int64{ids["Books"], ids["Android"]}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, repo.ListCategories(catalogrepo.CategoryFilter{Active: utils.Ptr(false)}), 2)

	_, err = repo.SetCategoriesActive([]int64{404}, true)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestProducts(t *testing.T) {
	repo, ids := setupRepo(t)
	require.NoError(t, repo.UpsertProduct(&resources.Product{Name: "Pixel", Category: "android", SKU: "PX-1", Price: 599, Status: "active"}))
	require.NoError(t, repo.UpsertProduct(&resources.Product{Name: "Cable", Category: "Electronics", SKU: "CB-1", Price: 9, Status: "inactive"}))

	err := repo.UpsertProduct(&resources.Product{Name: "Dup", SKU: "px-1"})
	assert.True(t, errors.Is(err, errors.ErrDuplicate))

	list := repo.ListProducts(catalogrepo.ProductFilter{SortBy: "price", SortOrder: "desc"})
	require.Len(t, list, 2)
	assert.Equal(t, "Pixel", list[0].Name)
	assert.Equal(t, ids["Android"], list[0].CategoryID)

	list = repo.ListProducts(catalogrepo.ProductFilter{MaxPrice: utils.Ptr(10.0)})
	require.Len(t, list, 1)
	assert.Equal(t, "Cable", list[0].Name)

	require.NoError(t, repo.DeleteProduct(list[0].ID))
	_, err = repo.GetProduct(list[0].ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "home-garden", catalogrepo.Slugify("  Home & Garden! "))
}
