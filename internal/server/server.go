package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"receipt-reconciliation/internal/engine"
)

const defaultShutdownTimeout = 10 * time.Second

// WebAPI is the HTTP server for the reconciliation API.
type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

// Dependencies are the services the handlers call into.
type Dependencies struct {
	Validator ReceiptValidator
	Engine    *engine.Engine
}

// Config holds the listen address, shutdown deadline and dependencies.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

// NewWebAPI builds the router and HTTP server. A non-positive shutdown timeout falls back to ten seconds.
func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := NewRouter(&logger, NewHandler(config.Dependencies.Validator, config.Dependencies.Engine))

	shutdownTimeout := config.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

// NewRouter wires the API routes.
func NewRouter(logger *zerolog.Logger, h *Handler) *chi.Mux {
	router := chi.NewRouter()

	router.Use(Logger(logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", h.Health)
	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/validate", h.Validate)
		r.Post("/receipts/{receiptID}/validations", h.RunValidation)
		r.Get("/receipts/{receiptID}/validations", h.GetValidation)
	})

	return router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (w *WebAPI) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(shutdownCtx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	return nil
}
