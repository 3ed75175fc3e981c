package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/jrsteele09/go-admin-console/console"
	"github.com/jrsteele09/go-admin-console/token"
	"github.com/jrsteele09/go-admin-console/users"
)

func (c *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	userType := fs.String("type", string(users.TypeAdmin), "admin or superadmin")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	t, err := users.ParseUserType(*userType)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	view, err := c.app.Login(ctx, users.Credentials{Email: *email, Password: *password, UserType: t})
	if err != nil {
		return err
	}
	s := c.app.Session.Snapshot()
	fmt.Fprintf(c.out, "Logged in as %s (%s)\n", s.User.Email, s.UserType)
	c.printView(view)
	return nil
}

func (c *cli) logout(ctx context.Context) error {
	if !c.app.Session.Snapshot().IsAuthenticated {
		fmt.Fprintln(c.out, "Not logged in")
		return nil
	}
	c.printView(c.app.Logout(ctx))
	fmt.Fprintln(c.out, "Logged out")
	return nil
}

func (c *cli) whoami() error {
	s := c.app.Session.Snapshot()
	if !s.IsAuthenticated {
		fmt.Fprintln(c.out, "Not logged in")
		return nil
	}
	name, email := "", ""
	if s.User != nil {
		name, email = s.User.Name, s.User.Email
	}
	w := newTable(c.out)
	fmt.Fprintf(w, "NAME\t%s\n", name)
	fmt.Fprintf(w, "EMAIL\t%s\n", email)
	fmt.Fprintf(w, "TYPE\t%s\n", s.UserType)
	fmt.Fprintf(w, "PERMISSIONS\t%s\n", strings.Join(s.Permissions, ", "))

	// the token is read without verification, only to show when it lapses
	if claims, err := token.Inspect(s.AccessToken); err == nil && claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		state := "valid"
		if time.Now().After(exp) {
			state = "expired, will refresh on next request"
		}
		fmt.Fprintf(w, "TOKEN EXPIRES\t%s (%s)\n", exp.Local().Format(time.RFC1123), state)
	}
	return w.Flush()
}

func (c *cli) open(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: adminctl open <path>", errUsage)
	}
	c.printView(c.app.Navigate(args[0]))
	return nil
}

func (c *cli) printView(v console.View) {
	for _, r := range v.Redirects {
		fmt.Fprintf(c.out, "-> %s\n", r)
	}
	fmt.Fprintf(c.out, "%s [%s] %s\n", v.Path, v.Outcome, v.Screen)
	if v.Message != "" {
		fmt.Fprintln(c.out, v.Message)
	}
}
