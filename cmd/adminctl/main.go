package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-admin-console/console"
	"github.com/jrsteele09/go-admin-console/gateway"
	"github.com/jrsteele09/go-admin-console/internal/config"
	"github.com/jrsteele09/go-admin-console/internal/logging"
	"github.com/jrsteele09/go-admin-console/internal/tracing"
	"github.com/jrsteele09/go-admin-console/notify"
)

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type cli struct {
	app    *console.App
	out    io.Writer
	errOut io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 || args[0] == "help" {
		printUsage(stdout)
		return 0
	}

	c, err := config.New()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	logger := logging.New(c.GetLogLevel(), c.GetEnv(), stderr)

	shutdownTracing, err := tracing.Init(ctx, logger, c.GetOTLPEndpoint(), "adminctl", c.GetEnv())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer shutdownTracing(context.Background())

	kv, closeKV, err := console.OpenKV(ctx, c)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closeKV()

	printer := notify.NewPrinter(stderr, strings.EqualFold(c.GetEnv(), "DEV"))
	app := console.New(c, kv, console.WithLogger(logger), console.WithNotifier(printer))
	defer app.Close()

	cl := &cli{app: app, out: stdout, errOut: stderr}
	if err := cl.dispatch(ctx, args[0], args[1:]); err != nil {
		// gateway failures have already been printed as notifications
		if gateway.KindOf(err) == 0 {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

func (c *cli) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return c.login(ctx, args)
	case "logout":
		return c.logout(ctx)
	case "whoami":
		return c.whoami()
	case "open":
		return c.open(args)
	case "categories":
		return c.categories(ctx, args)
	case "products":
		return c.products(ctx, args)
	case "users":
		return c.users(ctx, args)
	case "onboard":
		return c.onboard(ctx, args)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, command)
}

// subcommand splits "<sub> [args]" and fails with the usage line when sub is missing.
func subcommand(args []string, usage string) (string, []string, error) {
	if len(args) < 1 {
		return "", nil, fmt.Errorf("%w: %s", errUsage, usage)
	}
	return args[0], args[1:], nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, figure.NewFigure("adminctl", "cybermedium", true).String())
	fmt.Fprint(w, `Usage:
  adminctl <command> [options]

Commands:
  login       Sign in (-email, -password, -type admin|superadmin)
  logout      Sign out and clear the stored session
  whoami      Show the stored session
  open        Render a console route, e.g. adminctl open /admin/dashboard
  categories  list | get | create | update | delete | tree | options | bulk-status | bulk-delete
  products    list | get | create | update | delete
  users       list | get | create | update | delete
  onboard     Submit the store onboarding form
  help        Show this help message

Environment Variables:
  API_BASE_URL   API endpoint (default: http://localhost:8080/api)
  TOKEN_STORE    file | redis | sqlite | memory (default: file)
  STATE_DIR      Session directory (default: ~/.admin-console)

Examples:
  adminctl login -email admin@example.com -password Password123
  adminctl categories list -status active -sort name
  adminctl categories bulk-delete 8 11 12
`)
}
