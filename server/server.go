package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-clinic-console/auth"
	"github.com/jrsteele09/go-clinic-console/internal/config"
	"github.com/jrsteele09/go-clinic-console/router"
	"github.com/jrsteele09/go-clinic-console/stores"
	"github.com/rs/zerolog/log"
)

// Deps are the collaborators the console server is built from. All are required except
// Metrics.
type Deps struct {
	State   *auth.State
	Guard   *router.Guard
	Stores  *stores.Set
	Metrics http.Handler
}

type Option func(*Server)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Server) {
		s.nowTime = nowFunc
	}
}

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	appName string
	mux     *http.ServeMux
	routes  []string
	state   *auth.State
	guard   *router.Guard
	stores  *stores.Set
	metrics http.Handler
	nowTime func() time.Time
}

func New(cfg config.EnvConfig, deps Deps, options ...Option) (*Server, error) {
	if deps.State == nil || deps.Guard == nil || deps.Stores == nil {
		return nil, errors.New("[Server New] session state, guard and stores are required")
	}

	s := &Server{
		env:     cfg.GetEnv(),
		appName: cfg.GetAppName(),
		mux:     http.NewServeMux(),
		state:   deps.State,
		guard:   deps.Guard,
		stores:  deps.Stores,
		metrics: deps.Metrics,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
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
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	displayMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + displayMethod + ResetColor
	} else {
		displayMethod = Gray + displayMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
