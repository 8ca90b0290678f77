package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"jsoncompare/internal/auth"
	"jsoncompare/internal/config"
	"jsoncompare/internal/routes"
)

type Server struct {
	config *config.Config
	echo   *echo.Echo
}

func NewServer(cfg *config.Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = auth.NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				slog.Error("request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			slog.Info("request", attrs...)
			return nil
		},
	}))

	routes.SetupRoutes(e.Group("/api"), cfg)

	return &Server{config: cfg, echo: e}
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	slog.Info("Starting HTTP server", "addr", s.config.HTTPAddr)
	if err := s.echo.Start(s.config.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}
