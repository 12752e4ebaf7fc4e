package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sharekit/internal/config"
	"sharekit/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Users    domain.UserService
	Items    domain.ItemService
	Bookings domain.BookingService
	Requests domain.RequestService
}

// HTTPServer exposes the REST API.
type HTTPServer struct {
	cfg       config.ServerConfig
	rateCfg   config.RateLimitConfig
	services  Services
	rateLimit domain.RateLimitRepository
	server    *http.Server
	log       zerolog.Logger
}

func NewHTTPServer(cfg config.ServerConfig, rateCfg config.RateLimitConfig, services Services, rateLimit domain.RateLimitRepository, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:       cfg,
		rateCfg:   rateCfg,
		services:  services,
		rateLimit: rateLimit,
	}
	if logger != nil {
		srv.log = logger.With().Str("component", "http").Logger()
	}

	r := chi.NewRouter()
	r.Use(srv.requestIDMiddleware)
	r.Use(srv.loggingMiddleware)
	r.Use(srv.metricsMiddleware)
	r.Use(srv.rateLimitMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", srv.handleCreateUser)
		r.Get("/", srv.handleListUsers)
		r.Get("/{id}", srv.handleGetUser)
		r.Patch("/{id}", srv.handleUpdateUser)
		r.Delete("/{id}", srv.handleDeleteUser)
	})

	r.Route("/items", func(r chi.Router) {
		r.Post("/", srv.handleCreateItem)
		r.Get("/", srv.handleListOwnerItems)
		r.Get("/search", srv.handleSearchItems)
		r.Get("/{id}", srv.handleGetItem)
		r.Patch("/{id}", srv.handleUpdateItem)
		r.Post("/{id}/comment", srv.handleAddComment)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", srv.handleCreateBooking)
		r.Get("/", srv.handleListBookerBookings)
		r.Get("/owner", srv.handleListOwnerBookings)
		r.Get("/{id}", srv.handleGetBooking)
		r.Patch("/{id}", srv.handleDecideBooking)
	})

	r.Route("/requests", func(r chi.Router) {
		r.Post("/", srv.handleCreateRequest)
		r.Get("/", srv.handleListOwnRequests)
		r.Get("/all", srv.handleListOtherRequests)
		r.Get("/{id}", srv.handleGetRequest)
	})

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

// Handler отдает корневой http.Handler, удобно для httptest.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
