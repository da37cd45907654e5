package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dearpower/dearpower-go/internal/constants"
	"github.com/dearpower/dearpower-go/internal/domain"
	"github.com/dearpower/dearpower-go/internal/service/draft"
	"github.com/dearpower/dearpower-go/internal/service/geocode"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type RepresentativeResolver interface {
	ResolveRepresentative(ctx context.Context, addressOrPostcode string) (*domain.RepresentativeRecord, error)
}

type PostcodeSuggester interface {
	Autocomplete(ctx context.Context, partial string) []string
}

type Geocoder interface {
	Configured() bool
	Search(ctx context.Context, query string) ([]geocode.Feature, error)
	Reverse(ctx context.Context, lng, lat float64) (*geocode.Feature, error)
	Nearby(ctx context.Context, lng, lat float64) ([]geocode.Feature, error)
}

type Drafter interface {
	Generate(ctx context.Context, req domain.DraftRequest) (*draft.Result, error)
}

// HealthCheck reports whether one optional dependency is reachable.
type HealthCheck func(ctx context.Context) bool

// Dependencies bundles what the HTTP layer serves.
type Dependencies struct {
	Addr            string
	StaticDir       string
	MapboxToken     string
	Representatives RepresentativeResolver
	Postcodes       PostcodeSuggester
	Geocoder        Geocoder
	Drafter         Drafter
	HealthChecks    map[string]HealthCheck
	Logger          *zap.Logger
}

// Server is the HTTP relay in front of the lookup and drafting services.
type Server struct {
	deps       Dependencies
	logger     *zap.Logger
	router     *mux.Router
	httpServer *http.Server
}

func New(deps Dependencies) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if deps.Representatives == nil || deps.Postcodes == nil || deps.Drafter == nil {
		return nil, fmt.Errorf("server dependencies not initialized")
	}

	s := &Server{
		deps:   deps,
		logger: deps.Logger,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.recoverMiddleware, s.logMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/config", s.handleConfig).Methods(http.MethodGet)
	api.HandleFunc("/representative", s.handleRepresentative).Methods(http.MethodGet)
	api.HandleFunc("/postcodes/{partial}/autocomplete", s.handleAutocomplete).Methods(http.MethodGet)
	api.HandleFunc("/geocode/search", s.handleGeocodeSearch).Methods(http.MethodGet)
	api.HandleFunc("/geocode/reverse", s.handleGeocodeReverse).Methods(http.MethodGet)
	api.HandleFunc("/geocode/nearby", s.handleGeocodeNearby).Methods(http.MethodGet)
	api.HandleFunc("/topics", s.handleTopics).Methods(http.MethodGet)
	api.HandleFunc("/generate-email", s.handleGenerateEmail).Methods(http.MethodPost)
	api.PathPrefix("/").HandlerFunc(s.handleAPINotFound)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.PathPrefix("/").Handler(newSPAHandler(s.deps.StaticDir))

	return r
}

// Start serves until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.deps.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: constants.ServerConfig.ReadHeaderTimeout,
		WriteTimeout:      constants.ServerConfig.WriteTimeout,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.logger.Info("HTTP server starting",
		zap.String("addr", s.deps.Addr),
		zap.String("static_dir", s.deps.StaticDir),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
