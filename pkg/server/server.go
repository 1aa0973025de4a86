package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	reporthandlers "github.com/de-tools/stock-reports/pkg/handlers/report"
	stockreportsmiddleware "github.com/de-tools/stock-reports/pkg/server/middleware"
	"github.com/de-tools/stock-reports/pkg/services/report"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Reports report.Service
	Logger  zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) http.Handler {
	logger := config.Dependencies.Logger
	reportHandler := reporthandlers.NewHandler(config.Dependencies.Reports)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(stockreportsmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/", reportHandler.ListReports)
	router.Route("/reports", func(r chi.Router) {
		r.Get("/", reportHandler.ListReports)
		r.Post("/create", reportHandler.CreateReport)
		r.Get("/{reportID}", reportHandler.GetReport)
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	logger := config.Dependencies.Logger
	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		logger:          &logger,
		shutdownTimeout: timeout,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           ConfigureRouter(config),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start serves until ctx is done, then drains in-flight requests for at most
// the shutdown timeout.
func (w *WebAPI) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
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

		if err != nil {
			return err
		}
	}

	return nil
}
