// Package server is the composition root: it builds the store, services and
// handlers, mounts the routes and runs the HTTP server with graceful shutdown.
//
// DEPENDENCY FLOW:
//
//	config.Config → Store (memory | sqlite)
//	             → AuthService, DirectoryService, MessageService,
//	               CampaignService, CollaborationService, SeedService
//	             → handlers → chi routes
//
// All process-wide state lives in the Store owned by Server. Nothing in the
// repository holds package-level mutable state.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/collabhub/internal/auth"
	"github.com/sakif/collabhub/internal/config"
	"github.com/sakif/collabhub/internal/handler"
	"github.com/sakif/collabhub/internal/metrics"
	"github.com/sakif/collabhub/internal/middleware"
	"github.com/sakif/collabhub/internal/repository"
	"github.com/sakif/collabhub/internal/repository/memory"
	sqliteRepo "github.com/sakif/collabhub/internal/repository/sqlite"
	"github.com/sakif/collabhub/internal/service"
)

// Server represents the HTTP server and everything it owns.
type Server struct {
	router  *chi.Mux
	config  *config.Config
	logger  *slog.Logger
	store   repository.Store
	metrics *metrics.Metrics
	tokens  *auth.TokenService
}

// New wires the dependency graph. When Store.SeedOnStart is set the demo
// data is loaded before New returns.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	store, err := openStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenServiceWithTTL(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		store:   store,
		metrics: metrics.New(),
		tokens:  tokens,
	}

	seed := s.setupRoutes()

	if cfg.Store.SeedOnStart {
		if err := seed.Reset(context.Background()); err != nil {
			store.Close()
			return nil, fmt.Errorf("seeding demo data: %w", err)
		}
	}

	return s, nil
}

func openStore(cfg config.StoreConfig) (repository.Store, error) {
	switch cfg.Driver {
	case config.StoreSQLite:
		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return db, nil
	case config.StoreMemory, "":
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// setupRoutes configures middleware and routes and returns the seed service
// so New can run the initial reset.
//
// ROUTES (all JSON):
//
//	POST /api/auth/register              public
//	POST /api/auth/login                 public
//	GET  /api/me                         auth
//	GET  /api/creators?niche&q&age       public
//	GET  /api/brands                     public
//	GET  /api/users/{id}                 public
//	POST /api/messages                   auth
//	GET  /api/messages                   auth
//	GET  /api/messages/threads           auth
//	GET  /api/messages/threads/{userId}  auth
//	POST /api/campaigns                  auth, brand
//	GET  /api/campaigns                  public
//	GET  /api/campaigns/visible?niche    optional auth
//	GET  /api/campaigns/{id}/matches     public
//	POST /api/campaigns/{id}/close       auth, owning brand
//	POST /api/collaborations             auth, brand
//	POST /api/collaborations/{id}/accept auth, named creator
//	GET  /api/collaborations             auth
//	POST /api/seed                       public
//	GET  /api/health                     public
//	GET  /metrics                        prometheus
//
// MIDDLEWARE ORDER:
// RequestID → RealIP → Logger → Recoverer → metrics → CORS. Recoverer sits
// inside Logger so a recovered panic is still logged with its 500.
func (s *Server) setupRoutes() *service.SeedService {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(s.metrics.Instrument)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	passwords := auth.NewPasswordServiceWithCost(s.config.Auth.BcryptCost)
	users := s.store.Users()

	authService := service.NewAuthService(users, s.tokens, passwords, s.metrics, s.logger)
	directoryService := service.NewDirectoryService(users)
	messageService := service.NewMessageService(s.store.Messages(), users, s.metrics, s.logger)
	campaignService := service.NewCampaignService(s.store.Campaigns(), directoryService, s.metrics, s.logger)
	collabService := service.NewCollaborationService(s.store.Collaborations(), users, s.store.Campaigns(), s.metrics, s.logger)
	seedService := service.NewSeedService(s.store, passwords, s.metrics, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	directoryHandler := handler.NewDirectoryHandler(directoryService, s.logger)
	messageHandler := handler.NewMessageHandler(messageService, s.logger)
	campaignHandler := handler.NewCampaignHandler(campaignService, s.logger)
	collabHandler := handler.NewCollaborationHandler(collabService, s.logger)
	systemHandler := handler.NewSystemHandler(seedService, s.logger)

	requireAuth := auth.RequireAuth(s.tokens, users)
	optionalAuth := auth.OptionalAuth(s.tokens, users)

	s.router.Handle("/metrics", s.metrics.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)

		r.Get("/creators", directoryHandler.HandleListCreators)
		r.Get("/brands", directoryHandler.HandleListBrands)
		r.Get("/users/{id}", directoryHandler.HandleGetUser)

		r.Get("/campaigns", campaignHandler.HandleList)
		r.With(optionalAuth).Get("/campaigns/visible", campaignHandler.HandleVisible)
		r.Get("/campaigns/{id}/matches", campaignHandler.HandleMatches)

		r.Post("/seed", systemHandler.HandleSeed)
		r.Get("/health", systemHandler.HandleHealth)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/me", authHandler.HandleMe)

			r.Post("/messages", messageHandler.HandleSend)
			r.Get("/messages", messageHandler.HandleList)
			r.Get("/messages/threads", messageHandler.HandleThreads)
			r.Get("/messages/threads/{userId}", messageHandler.HandleConversation)

			r.Post("/campaigns", campaignHandler.HandleCreate)
			r.Post("/campaigns/{id}/close", campaignHandler.HandleClose)

			r.Post("/collaborations", collabHandler.HandlePropose)
			r.Post("/collaborations/{id}/accept", collabHandler.HandleAccept)
			r.Get("/collaborations", collabHandler.HandleList)
		})
	})

	return seedService
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the store.
func (s *Server) Close() error {
	return s.store.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds and closes the store.
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Server.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Server.Port)),
			slog.String("store", s.config.Store.Driver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
