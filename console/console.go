// Package console is the application shell. It wires the token store, gateway, session,
// query cache and resources together and renders guarded routes.
package console

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-admin-console/gateway"
	"github.com/jrsteele09/go-admin-console/guard"
	"github.com/jrsteele09/go-admin-console/internal/config"
	"github.com/jrsteele09/go-admin-console/internal/metrics"
	"github.com/jrsteele09/go-admin-console/nav"
	"github.com/jrsteele09/go-admin-console/notify"
	"github.com/jrsteele09/go-admin-console/onboarding"
	"github.com/jrsteele09/go-admin-console/query"
	"github.com/jrsteele09/go-admin-console/resources"
	"github.com/jrsteele09/go-admin-console/session"
	"github.com/jrsteele09/go-admin-console/tokenstore"
	"github.com/jrsteele09/go-admin-console/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// maxRedirects bounds how many guard redirects one navigation follows.
const maxRedirects = 5

// View is the result of a navigation: the route that ended up rendered and how the
// guard decided.
type View struct {
	Path      string
	Screen    Screen
	Outcome   guard.Outcome
	Message   string
	Redirects []string
}

// App is one running console.
type App struct {
	Store      *tokenstore.Store
	Gateway    *gateway.Client
	Session    *session.Manager
	Cache      *query.Cache
	Categories *resources.Categories
	Products   *query.Resource[resources.Product]
	Users      *resources.Users
	Onboarding *onboarding.Service

	history *nav.History
	logger  zerolog.Logger

	mu      sync.RWMutex
	current View

	unsubscribe func()
}

type options struct {
	notifier notify.Notifier
	logger   zerolog.Logger
	registry prometheus.Registerer
	gwOpts   []gateway.Option
}

type Option func(*options)

func WithNotifier(n notify.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegistry records client metrics on reg.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithGatewayOptions passes extra options to the gateway, e.g. a custom HTTP client.
func WithGatewayOptions(opts ...gateway.Option) Option {
	return func(o *options) {
		o.gwOpts = append(o.gwOpts, opts...)
	}
}

// New builds an App on top of kv. The session is hydrated from kv, so a previously
// persisted login is picked up immediately.
func New(cfg config.Config, kv tokenstore.KV, opts ...Option) *App {
	o := options{
		notifier: notify.Nop{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	var m *metrics.Client
	if o.registry != nil {
		m = metrics.NewClient(o.registry)
	}

	history := nav.NewHistory(nav.RouteRoot)
	store := tokenstore.New(kv, tokenstore.WithLogger(o.logger))
	gw := gateway.New(cfg.GetAPIBaseURL(), store, append([]gateway.Option{
		gateway.WithNotifier(o.notifier),
		gateway.WithNavigator(history),
		gateway.WithLogger(o.logger),
		gateway.WithMetrics(m),
	}, o.gwOpts...)...)
	sess := session.NewManager(store, session.NewHTTPAuthAPI(gw), session.WithLogger(o.logger))

	cache := query.NewCache(cfg.GetQueryCacheSize(), cfg.GetLookupStaleTime(), query.WithCacheMetrics(m))
	qopts := []query.Option{query.WithNotifier(o.notifier), query.WithLogger(o.logger)}
	userResource := resources.NewUsers(gw, cache, cfg.GetQueryStaleTime(), qopts...)

	a := &App{
		Store:      store,
		Gateway:    gw,
		Session:    sess,
		Cache:      cache,
		Categories: resources.NewCategories(gw, cache, cfg.GetQueryStaleTime(), cfg.GetLookupStaleTime(), qopts...),
		Products:   resources.NewProducts(gw, cache, cfg.GetQueryStaleTime(), qopts...),
		Users:      userResource,
		Onboarding: onboarding.NewService(userResource, sess, o.logger),
		history:    history,
		logger:     o.logger,
	}

	gw.OnTokensRefreshed(sess.TokensRefreshed)
	gw.OnAuthExpired(func() {
		sess.ForceLogout()
		a.Navigate(nav.LoginRouteFor(a.Current().requiredType()))
	})
	a.unsubscribe = sess.Subscribe(func(s session.Session) {
		if !s.IsAuthenticated {
			cache.Clear()
		}
	})
	return a
}

// Close detaches the App from its session.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

// Current is the last rendered view.
func (a *App) Current() View {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// History lists every route the console has been sent to, redirects included.
func (a *App) History() []string {
	return a.history.Visits()
}

// Navigate resolves path, runs the guard and follows redirects until a screen renders.
// A redirect back to a route already visited in this navigation renders access denied.
func (a *App) Navigate(path string) View {
	view := a.resolve(path)
	a.mu.Lock()
	a.current = view
	a.mu.Unlock()
	a.logger.Debug().Str("path", view.Path).Str("screen", string(view.Screen)).Str("outcome", view.Outcome.String()).Msg("navigate")
	return view
}

func (a *App) resolve(path string) View {
	s := a.Session.Snapshot()
	p := cleanPath(path)
	seen := map[string]bool{}
	var redirects []string

	for hop := 0; ; hop++ {
		a.history.Navigate(p)
		seen[p] = true

		r, ok := Lookup(p)
		if !ok {
			return View{Path: p, Screen: ScreenNotFound, Outcome: guard.Allow, Redirects: redirects}
		}

		next := r.RedirectTo
		if next == "" {
			d := decide(s, r)
			switch d.Outcome {
			case guard.Loading:
				return View{Path: p, Screen: ScreenLoading, Outcome: guard.Loading, Redirects: redirects}
			case guard.Denied:
				return View{Path: p, Screen: ScreenAccessDenied, Outcome: guard.Denied, Message: d.Message, Redirects: redirects}
			case guard.Allow:
				return View{Path: p, Screen: r.Screen, Outcome: guard.Allow, Redirects: redirects}
			}
			next = d.RedirectTo
		}

		if seen[next] || hop >= maxRedirects {
			a.logger.Warn().Str("path", p).Str("redirect", next).Msg("redirect loop")
			return View{Path: p, Screen: ScreenAccessDenied, Outcome: guard.Denied, Message: guard.MsgAccessDenied, Redirects: redirects}
		}
		redirects = append(redirects, next)
		p = next
	}
}

func decide(s session.Session, r Route) guard.Decision {
	switch {
	case r.Guest:
		return guard.EvaluateGuest(s)
	case r.Require != nil:
		return guard.Evaluate(s, *r.Require)
	}
	return guard.Decision{Outcome: guard.Allow}
}

// requiredType is the user type the view's route demands, if any.
func (v View) requiredType() users.UserType {
	switch v.Screen {
	case ScreenSuperAdminLogin:
		return users.TypeSuperAdmin
	}
	if r, ok := Lookup(v.Path); ok && r.Require != nil {
		return r.Require.UserType
	}
	return ""
}

// Login signs in and renders the dashboard for the session's user type. On failure the
// current view is left alone and the session carries the error message.
func (a *App) Login(ctx context.Context, creds users.Credentials) (View, error) {
	s, err := a.Session.Login(ctx, creds)
	if err != nil {
		return a.Current(), err
	}
	return a.Navigate(nav.DashboardFor(s.UserType)), nil
}

// Logout ends the session and renders the login screen matching the old user type.
func (a *App) Logout(ctx context.Context) View {
	t := a.Session.Snapshot().UserType
	a.Session.Logout(ctx)
	return a.Navigate(nav.LoginRouteFor(t))
}
