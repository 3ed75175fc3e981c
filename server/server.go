// Package server is an in-memory implementation of the admin REST API. It backs local
// runs of the console and its integration tests.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-admin-console/auth"
	"github.com/jrsteele09/go-admin-console/internal/ansi"
	"github.com/jrsteele09/go-admin-console/internal/config"
	"github.com/jrsteele09/go-admin-console/internal/metrics"
	"github.com/jrsteele09/go-admin-console/server/catalogrepo"
	"github.com/jrsteele09/go-admin-console/tenants"
	tenantrepofakes "github.com/jrsteele09/go-admin-console/tenants/repofakes"
	"github.com/jrsteele09/go-admin-console/token"
	"github.com/jrsteele09/go-admin-console/token/refresh"
	refreshrepofake "github.com/jrsteele09/go-admin-console/token/refresh/repofake"
	"github.com/jrsteele09/go-admin-console/users"
	fakeuserrepo "github.com/jrsteele09/go-admin-console/users/repofake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Repos groups the stores the API serves from.
type Repos struct {
	Users   users.UserRepo
	Roles   users.RoleRepo
	Catalog catalogrepo.Repo
	Refresh refresh.Repo
	Tenants tenants.Repo
}

// NewInMemoryRepos returns empty in-memory stores with the default roles loaded.
func NewInMemoryRepos() Repos {
	return Repos{
		Users:   fakeuserrepo.NewFakeUserRepo(),
		Roles:   fakeuserrepo.NewFakeRoleRepo(DefaultRoles()...),
		Catalog: catalogrepo.NewInMemoryRepo(nil),
		Refresh: refreshrepofake.NewFakeRefreshTokenRepo(),
		Tenants: tenantrepofakes.NewFakeTenantRepo(),
	}
}

type Server struct {
	env     string
	mux     *http.ServeMux
	routes  []string
	config  config.Config
	repos   Repos
	tokens  *token.Manager
	auth    *auth.Service
	metrics *metrics.Server
	logger  zerolog.Logger
	nowFunc func() time.Time
}

type Option func(*Server)

// WithRegistry instruments every route on reg.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(s *Server) {
		s.metrics = metrics.NewServer(reg)
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithNowFunc(now func() time.Time) Option {
	return func(s *Server) {
		s.nowFunc = now
	}
}

func New(cfg config.Config, repos Repos, opts ...Option) (*Server, error) {
	s := &Server{
		env:     cfg.GetEnv(),
		mux:     http.NewServeMux(),
		config:  cfg,
		repos:   repos,
		logger:  log.Logger,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tokens = token.New(token.NewHMACSigner(cfg.GetJWTSecret()),
		token.WithAccessTokenExpiry(cfg.GetAccessTokenExpiry()),
		token.WithNowFunc(s.nowFunc),
	)
	authService, err := auth.NewService(auth.Repos{Users: repos.Users, Roles: repos.Roles},
		s.tokens, refresh.NewManager(repos.Refresh, cfg), auth.WithNowTime(s.nowFunc))
	if err != nil {
		return nil, fmt.Errorf("[Server New] %w", err)
	}
	s.auth = authService

	if err := s.InitialiseSystem(context.Background()); err != nil {
		return nil, fmt.Errorf("[Server New] Failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Tokens exposes the access token manager, e.g. to mint tokens in tests.
func (s *Server) Tokens() *token.Manager {
	return s.tokens
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			s.logRoute(parts[0], parts[1])
		} else {
			s.logRoute("", parts[0])
		}
	}
}

func (s *Server) logRoute(method, path string) {
	colour, ok := ansi.MethodColors[method]
	if !ok {
		colour = ansi.Gray
	}
	s.logger.Info().Msgf("[%s] %s", ansi.Paint(colour, fmt.Sprintf(" %-7s", method)), path)
}
