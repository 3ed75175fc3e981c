package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jrsteele09/go-admin-console/internal/utils"
	"github.com/jrsteele09/go-admin-console/query"
	"github.com/jrsteele09/go-admin-console/resources"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func newFlagSet(c *cli, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

// visited reports which flags were given on the command line.
func visited(fs *flag.FlagSet) map[string]bool {
	seen := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { seen[f.Name] = true })
	return seen
}

func parseIDs(args []string) ([]int64, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: at least one id is required", errUsage)
	}
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid id %q", errUsage, a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseID(args []string) (int64, []string, error) {
	if len(args) < 1 {
		return 0, nil, fmt.Errorf("%w: an id is required", errUsage)
	}
	ids, err := parseIDs(args[:1])
	if err != nil {
		return 0, nil, err
	}
	return ids[0], args[1:], nil
}

func printPageFooter[T any](w io.Writer, page query.Page[T]) {
	fmt.Fprintf(w, "page %d of %d, %d total\n", page.CurrentPage, page.LastPage, page.TotalCount)
}

// Categories

func (c *cli) categories(ctx context.Context, args []string) error {
	sub, rest, err := subcommand(args, "adminctl categories <list|get|create|update|delete|tree|options|bulk-status|bulk-delete>")
	if err != nil {
		return err
	}
	switch sub {
	case "list":
		return c.listCategories(ctx, rest)
	case "get":
		id, _, err := parseID(rest)
		if err != nil {
			return err
		}
		cat, err := c.app.Categories.Get(ctx, id)
		if err != nil {
			return err
		}
		c.printCategories([]resources.Category{cat})
		return nil
	case "create":
		return c.createCategory(ctx, rest)
	case "update":
		return c.updateCategory(ctx, rest)
	case "delete":
		id, _, err := parseID(rest)
		if err != nil {
			return err
		}
		return c.app.Categories.Delete(ctx, id)
	case "tree":
		return c.categoryTree(ctx, rest)
	case "options":
		return c.categoryOptions(ctx, rest)
	case "bulk-status":
		fs := newFlagSet(c, "bulk-status")
		status := fs.String("status", resources.StatusActive, "active or inactive")
		if err := parse(fs, rest); err != nil {
			return err
		}
		ids, err := parseIDs(fs.Args())
		if err != nil {
			return err
		}
		return c.app.Categories.BulkUpdateStatus(ctx, ids, *status)
	case "bulk-delete":
		ids, err := parseIDs(rest)
		if err != nil {
			return err
		}
		return c.app.Categories.BulkDelete(ctx, ids)
	}
	return fmt.Errorf("%w: unknown categories command %q", errUsage, sub)
}

func (c *cli) listCategories(ctx context.Context, args []string) error {
	fs := newFlagSet(c, "categories list")
	search := fs.String("search", "", "name contains")
	status := fs.String("status", "", "active or inactive")
	parent := fs.Int64("parent", 0, "parent category id")
	featured := fs.Bool("featured", false, "featured only")
	sortField := fs.String("sort", "", "sort field")
	sortDir := fs.String("dir", "", "asc or desc")
	page := fs.Int("page", 1, "page number")
	perPage := fs.Int("per-page", 15, "rows per page")
	refresh := fs.Bool("refresh", false, "bypass the cache")
	if err := parse(fs, args); err != nil {
		return err
	}

	filters := resources.CategoryFilters{
		Search:        *search,
		Status:        *status,
		SortField:     *sortField,
		SortDirection: *sortDir,
		Page:          *page,
		PerPage:       *perPage,
	}
	set := visited(fs)
	if set["parent"] {
		filters.ParentID = parent
	}
	if set["featured"] {
		filters.Featured = featured
	}

	list := c.app.Categories.List
	if *refresh {
		list = c.app.Categories.Refetch
	}
	result, err := list(ctx, filters.Query())
	if err != nil {
		return err
	}
	c.printCategories(result.Items)
	printPageFooter(c.out, result)
	return nil
}

func (c *cli) printCategories(cats []resources.Category) {
	w := newTable(c.out)
	fmt.Fprintln(w, "ID\tNAME\tSLUG\tPATH\tACTIVE\tFEATURED")
	for _, cat := range cats {
		path := cat.FullPath
		if path == "" {
			path = cat.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\t%t\n", cat.ID, cat.Name, cat.Slug, path, cat.Active, cat.Featured)
	}
	w.Flush()
}

func (c *cli) createCategory(ctx context.Context, args []string) error {
	fs := newFlagSet(c, "categories create")
	name := fs.String("name", "", "category name")
	slug := fs.String("slug", "", "url slug, derived from the name when empty")
	parent := fs.Int64("parent", 0, "parent category id")
	featured := fs.Bool("featured", false, "mark as featured")
	inactive := fs.Bool("inactive", false, "create inactive")
	if err := parse(fs, args); err != nil {
		return err
	}

	req := resources.CreateCategoryRequest{
		Name:     *name,
		Slug:     *slug,
		Featured: featured,
		Active:   utils.Ptr(!*inactive),
	}
	if visited(fs)["parent"] {
		req.ParentID = parent
	}
	cat, err := c.app.Categories.Create(ctx, req)
	if err != nil {
		return err
	}
	c.printCategories([]resources.Category{cat})
	return nil
}

func (c *cli) updateCategory(ctx context.Context, args []string) error {
	id, rest, err := parseID(args)
	if err != nil {
		return err
	}
	fs := newFlagSet(c, "categories update")
	name := fs.String("name", "", "category name")
	slug := fs.String("slug", "", "url slug")
	parent := fs.Int64("parent", 0, "parent category id, 0 moves it to the top level")
	featured := fs.Bool("featured", false, "featured")
	active := fs.Bool("active", true, "active")
	if err := parse(fs, rest); err != nil {
		return err
	}

	set := visited(fs)
	req := resources.UpdateCategoryRequest{}
	if set["name"] {
		req.Name = name
	}
	if set["slug"] {
		req.Slug = slug
	}
	if set["parent"] {
		req.ParentID = parent
	}
	if set["featured"] {
		req.Featured = featured
	}
	if set["active"] {
		req.Active = active
	}
	cat, err := c.app.Categories.Update(ctx, id, req)
	if err != nil {
		return err
	}
	c.printCategories([]resources.Category{cat})
	return nil
}

func (c *cli) categoryTree(ctx context.Context, args []string) error {
	fs := newFlagSet(c, "categories tree")
	activeOnly := fs.Bool("active", false, "active categories only")
	if err := parse(fs, args); err != nil {
		return err
	}
	tree, err := c.app.Categories.Tree(ctx, *activeOnly)
	if err != nil {
		return err
	}
	var walk func(nodes []resources.Category, depth int)
	walk = func(nodes []resources.Category, depth int) {
		for _, n := range nodes {
			fmt.Fprintf(c.out, "%s%s (%d)\n", strings.Repeat("  ", depth), n.Name, n.ID)
			walk(n.Children, depth+1)
		}
	}
	walk(tree, 0)
	return nil
}

func (c *cli) categoryOptions(ctx context.Context, args []string) error {
	fs := newFlagSet(c, "categories options")
	activeOnly := fs.Bool("active", false, "active categories only")
	if err := parse(fs, args); err != nil {
		return err
	}
	var exclude []int64
	if fs.NArg() > 0 {
		ids, err := parseIDs(fs.Args())
		if err != nil {
			return err
		}
		exclude = ids
	}
	opts, err := c.app.Categories.Options(ctx, *activeOnly, exclude)
	if err != nil {
		return err
	}
	w := newTable(c.out)
	fmt.Fprintln(w, "VALUE\tLABEL")
	for _, o := range opts {
		fmt.Fprintf(w, "%d\t%s\n", o.Value, o.Label)
	}
	return w.Flush()
}

// Products

func (c *cli) products(ctx context.Context, args []string) error {
	sub, rest, err := subcommand(args, "adminctl products <list|get|create|update|delete>")
	if err != nil {
		return err
	}
	switch sub {
	case "list":
		return c.listProducts(ctx, rest)
	case "get":
		id, _, err := parseID(rest)
		if err != nil {
			return err
		}
		p, err := c.app.Products.Get(ctx, id)
		if err != nil {
			return err
		}
		c.printProducts([]resources.Product{p})
		return nil
	case "create":
		return c.createProduct(ctx, rest)
	case "update":
		return c.updateProduct(ctx, rest)
	case "delete":
		id, _, err := parseID(rest)
		if err != nil {
			return err
		}
		return c.app.Products.Delete(ctx, id)
	}
	return fmt.Errorf("%w: unknown products command %q", errUsage, sub)
}

func (c *cli) listProducts(ctx context.Context, args []string) error {
	fs := newFlagSet(c, "products list")
	search := fs.String("search", "", "name or sku contains")
	category := fs.String("category", "", "category name")
	status := fs.String("status", "", "active or inactive")
	minPrice := fs.Float64("min-price", 0, "minimum price")
	maxPrice := fs.Float64("max-price", 0, "maximum price")
	sortBy := fs.String("sort", "", "sort field")
	sortOrder := fs.String("order", "", "asc or desc")
	page := fs.Int("page", 1, "page number")
	perPage := fs.Int("per-page", 15, "rows per page")
	if err := parse(fs, args); err != nil {
		return err
	}

	filters := resources.ProductFilters{
		Search:    *search,
		Category:  *category,
		Status:    *status,
		SortBy:    *sortBy,
		SortOrder: *sortOrder,
		Page:      *page,
		PerPage:   *perPage,
	}
	set := visited(fs)
	if set["min-price"] {
		filters.MinPrice = minPrice
	}
	if set["max-price"] {
		filters.MaxPrice = maxPrice
	}
	result, err := c.app.Products.List(ctx, filters.Query())
	if err != nil {
		return err
	}
	c.printProducts(result.Items)
	printPageFooter(c.out, result)
	return nil
}

func (c *cli) printProducts(products []resources.Product) {
	w := newTable(c.out)
	fmt.Fprintln(w, "ID\tSKU\tNAME\tCATEGORY\tPRICE\tSTOCK\tSTATUS")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%d\t%s\n", p.ID, p.SKU, p.Name, p.Category, p.Price, p.Stock, p.Status)
	}
	w.Flush()
}

func (c *cli) createProduct(ctx context.Context, args []string) error {
	fs := newFlagSet(c, "products create")
	req := resources.CreateProductRequest{}
	fs.StringVar(&req.Name, "name", "", "product name")
	fs.StringVar(&req.Description, "description", "", "description")
	fs.Float64Var(&req.Price, "price", 0, "price")
	fs.StringVar(&req.Category, "category", "", "category name")
	fs.IntVar(&req.Stock, "stock", 0, "units in stock")
	fs.StringVar(&req.SKU, "sku", "", "stock keeping unit")
	fs.StringVar(&req.Status, "status", resources.StatusActive, "active or inactive")
	if err := parse(fs, args); err != nil {
		return err
	}
	p, err := c.app.Products.Create(ctx, req)
	if err != nil {
		return err
	}
	c.printProducts([]resources.Product{p})
	return nil
}

func (c *cli) updateProduct(ctx context.Context, args []string) error {
	id, rest, err := parseID(args)
	if err != nil {
		return err
	}
	fs := newFlagSet(c, "products update")
	name := fs.String("name", "", "product name")
	description := fs.String("description", "", "description")
	price := fs.Float64("price", 0, "price")
	category := fs.String("category", "", "category name")
	stock := fs.Int("stock", 0, "units in stock")
	sku := fs.String("sku", "", "stock keeping unit")
	status := fs.String("status", "", "active or inactive")
	if err := parse(fs, rest); err != nil {
		return err
	}

	set := visited(fs)
	req := resources.UpdateProductRequest{}
	if set["name"] {
		req.Name = name
	}
	if set["description"] {
		req.Description = description
	}
	if set["price"] {
		req.Price = price
	}
	if set["category"] {
		req.Category = category
	}
	if set["stock"] {
		req.Stock = stock
	}
	if set["sku"] {
		req.SKU = sku
	}
	if set["status"] {
		req.Status = status
	}
	p, err := c.app.Products.Update(ctx, id, req)
	if err != nil {
		return err
	}
	c.printProducts([]resources.Product{p})
	return nil
}
