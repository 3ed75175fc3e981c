package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jrsteele09/go-admin-console/onboarding"
	"github.com/jrsteele09/go-admin-console/resources"
	"github.com/jrsteele09/go-admin-console/users"
)

func (c *cli) users(ctx context.Context, args []string) error {
	sub, rest, err := subcommand(args, "adminctl users <list|get|create|update|delete>")
	if err != nil {
		return err
	}
	switch sub {
	case "list":
		fs := newFlagSet(c, "users list")
		page := fs.Int("page", 1, "page number")
		limit := fs.Int("limit", 10, "rows per page")
		if err := parse(fs, rest); err != nil {
			return err
		}
		result, err := c.app.Users.List(ctx, resources.UserFilters{Page: *page, Limit: *limit}.Query())
		if err != nil {
			return err
		}
		c.printUsers(result.Items)
		printPageFooter(c.out, result)
		return nil
	case "get":
		id, _, err := parseID(rest)
		if err != nil {
			return err
		}
		u, err := c.app.Users.Get(ctx, id)
		if err != nil {
			return err
		}
		c.printUsers([]users.ListItem{u})
		return nil
	case "create":
		fs := newFlagSet(c, "users create")
		req := users.CreateRequest{}
		fs.StringVar(&req.Name, "name", "", "full name")
		fs.StringVar(&req.Email, "email", "", "email")
		fs.StringVar(&req.Password, "password", "", "initial password")
		fs.Int64Var(&req.RoleID, "role", 0, "role id")
		fs.StringVar(&req.Phone, "phone", "", "phone")
		if err := parse(fs, rest); err != nil {
			return err
		}
		u, err := c.app.Users.Create(ctx, req)
		if err != nil {
			return err
		}
		c.printUsers([]users.ListItem{u})
		return nil
	case "update":
		return c.updateUser(ctx, rest)
	case "delete":
		id, _, err := parseID(rest)
		if err != nil {
			return err
		}
		return c.app.Users.Delete(ctx, id)
	}
	return fmt.Errorf("%w: unknown users command %q", errUsage, sub)
}

func (c *cli) updateUser(ctx context.Context, args []string) error {
	id, rest, err := parseID(args)
	if err != nil {
		return err
	}
	fs := newFlagSet(c, "users update")
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email")
	role := fs.Int64("role", 0, "role id")
	phone := fs.String("phone", "", "phone")
	active := fs.Bool("active", true, "account active")
	if err := parse(fs, rest); err != nil {
		return err
	}

	set := visited(fs)
	req := users.UpdateRequest{}
	if set["name"] {
		req.Name = name
	}
	if set["email"] {
		req.Email = email
	}
	if set["role"] {
		req.RoleID = role
	}
	if set["phone"] {
		req.Phone = phone
	}
	if set["active"] {
		req.IsActive = active
	}
	u, err := c.app.Users.Update(ctx, id, req)
	if err != nil {
		return err
	}
	c.printUsers([]users.ListItem{u})
	return nil
}

func (c *cli) printUsers(list []users.ListItem) {
	w := newTable(c.out)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tACTIVE\tONBOARDED")
	for _, u := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\t%t\n", u.ID, u.Name, u.Email, u.Role.Name, u.IsActive, u.Onboarded)
	}
	w.Flush()
}

// onboard exposes one flag per form field, named after the field.
func (c *cli) onboard(ctx context.Context, args []string) error {
	fs := newFlagSet(c, "onboard")
	values := map[string]*string{}
	for _, step := range onboarding.Steps() {
		for _, f := range step.Fields {
			usage := f.Label
			switch {
			case len(f.Options) > 0:
				usage += " (" + strings.Join(f.Options, ", ") + ")"
			case len(f.Themes) > 0:
				names := make([]string, 0, len(f.Themes))
				for _, t := range f.Themes {
					names = append(names, t.Name)
				}
				usage += " (" + strings.Join(names, ", ") + ")"
			}
			values[f.Name] = fs.String(f.Name, "", usage)
		}
	}
	if err := parse(fs, args); err != nil {
		return err
	}

	form := make(map[string]string, len(values))
	for name, v := range values {
		form[name] = *v
	}
	fieldErrs, err := c.app.Onboarding.Submit(ctx, form)
	if len(fieldErrs) > 0 {
		names := make([]string, 0, len(fieldErrs))
		for name := range fieldErrs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			for _, msg := range fieldErrs[name] {
				fmt.Fprintf(c.errOut, "  -%s: %s\n", name, msg)
			}
		}
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Store onboarded")
	return nil
}
