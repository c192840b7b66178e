package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"lapor/internal/api/handlers/http/reports"
	"lapor/internal/api/handlers/http/suggestions"
	"lapor/internal/api/handlers/http/system"
	"lapor/internal/api/handlers/http/users"
	"lapor/internal/config"
	"lapor/internal/domain"
	"lapor/internal/metrics"
	"lapor/internal/middleware"
)

type Handlers struct {
	Reports     *reports.Handler
	Suggestions *suggestions.Handler
	Users       *users.Handler
	System      *system.Handler
}

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger, h Handlers, identity middleware.IdentityResolver, m *metrics.Metrics) *Server {
	return &Server{
		logger: logger,
		router: InitRouter(ctx, cfg, h, identity, m, logger),
		cfg:    *cfg,
	}
}

func InitRouter(ctx context.Context, cfg *config.Config, h Handlers, identity middleware.IdentityResolver, m *metrics.Metrics, logger *slog.Logger) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Use(m.Middleware)

	r.Handle("/metrics", m.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		// SYSTEM
		api.Get("/health", h.System.SystemHealth)
		api.Get("/ready", h.System.SystemReady)

		api.Group(func(ar chi.Router) {
			ar.Use(middleware.Limit(ctx, cfg.Http.RateLimitRPS, cfg.Http.RateLimitBurst, 10*time.Minute, logger))
			ar.Use(middleware.Authenticate([]byte(cfg.Auth.JWTSecret), cfg.Auth.Issuer, identity, logger))

			ar.Route("/reports", func(rr chi.Router) {
				rr.With(middleware.BindJSON[domain.CreateReportRequest]()).Post("/", h.Reports.ReportCreate)
				rr.Get("/", h.Reports.ReportList)

				rr.Route("/{id}", func(ir chi.Router) {
					ir.Get("/", h.Reports.ReportGet)
					ir.Get("/transitions", h.Reports.ReportTransitions)
					ir.With(middleware.BindJSON[domain.ReportTransitionRequest]()).Patch("/status", h.Reports.ReportTransition)
					ir.Get("/history", h.Reports.ReportHistory)
				})
			})

			ar.Route("/suggestions", func(sr chi.Router) {
				sr.With(middleware.BindJSON[domain.CreateSuggestionRequest]()).Post("/", h.Suggestions.SuggestionCreate)
				sr.Get("/", h.Suggestions.SuggestionList)

				sr.Route("/{id}", func(ir chi.Router) {
					ir.Get("/", h.Suggestions.SuggestionGet)
					ir.Get("/transitions", h.Suggestions.SuggestionTransitions)
					ir.With(middleware.BindJSON[domain.SuggestionTransitionRequest]()).Patch("/status", h.Suggestions.SuggestionTransition)
					ir.Get("/history", h.Suggestions.SuggestionHistory)
				})
			})

			ar.Route("/profile", func(pr chi.Router) {
				pr.Get("/", h.Users.ProfileGet)
				pr.With(middleware.BindJSON[domain.UpdateProfileRequest]()).Patch("/", h.Users.ProfileUpdate)
			})

			// ADMIN
			ar.Route("/admin/users", func(ur chi.Router) {
				ur.Get("/", h.Users.UserList)
				ur.With(middleware.BindJSON[domain.ChangeRoleRequest]()).Put("/{id}/role", h.Users.UserChangeRole)
			})
		})
	})

	return r
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
