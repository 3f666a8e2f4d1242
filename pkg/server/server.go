// Package server exposes the file, share and account operations over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"stashfs/pkg/account"
	"stashfs/pkg/fileservice"
	"stashfs/pkg/log"
	"stashfs/pkg/metadata"
	"stashfs/pkg/share"
)

// ownerHeader carries the opaque, already-verified owner identifier
// supplied by the external identity provider.
const ownerHeader = "X-Owner-Id"

// Server is the HTTP front for the file, share and account services.
type Server struct {
	echo            *echo.Echo
	files           *fileservice.Service
	shares          *share.Issuer
	accounts        *account.Service
	shutdownTimeout time.Duration
	version         string
}

// New creates a server wired to the given services.
func New(files *fileservice.Service, shares *share.Issuer, accounts *account.Service, shutdownTimeout time.Duration, version string) *Server {
	return &Server{
		echo:            echo.New(),
		files:           files,
		shares:          shares,
		accounts:        accounts,
		shutdownTimeout: shutdownTimeout,
		version:         version,
	}
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start(addr string) error {
	s.setupRoutes()

	// Start server in a goroutine
	go func() {
		log.Info().
			Str("addr", addr).
			Str("version", s.version).
			Msg("Starting stashd server")

		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server startup failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return s.Shutdown()
}

// Shutdown stops the echo server within the configured timeout.
func (s *Server) Shutdown() error {
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
		return err
	}

	log.Info().Msg("Server gracefully stopped")
	return nil
}

func (s *Server) setupRoutes() {
	// Echo configuration
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} ${status} ${method} ${uri} (${latency_human})\n",
	}))
	s.echo.Use(middleware.Recover())

	// File operations
	s.echo.POST("/files", s.uploadFile)
	s.echo.GET("/files", s.listFiles)
	s.echo.DELETE("/files/:id", s.deleteFile)
	s.echo.GET("/files/:id/download", s.downloadFile)
	s.echo.POST("/files/:id/share", s.createShareLink)

	// Public share resolution
	s.echo.GET("/share/:token", s.resolveShare)

	// Account operations
	s.echo.POST("/accounts", s.createAccount)
	s.echo.GET("/accounts/me", s.getAccount)
	s.echo.POST("/accounts/me/share-token", s.regenerateShareToken)
	s.echo.DELETE("/accounts/me", s.deleteAccount)

	s.echo.GET("/healthz", s.health)
}

// ownerID extracts the pre-verified owner identity from the request.
func ownerID(ctx echo.Context) string {
	return ctx.Request().Header.Get(ownerHeader)
}

func (s *Server) health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

// errorStatus maps service errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, fileservice.ErrAuthenticationRequired),
		errors.Is(err, account.ErrAuthenticationRequired),
		errors.Is(err, share.ErrAuthenticationRequired):
		return http.StatusUnauthorized
	case errors.Is(err, fileservice.ErrEmptyFile),
		errors.Is(err, share.ErrInvalidExpiry):
		return http.StatusBadRequest
	case errors.Is(err, fileservice.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, fileservice.ErrStorageUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, fileservice.ErrStorageTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, fileservice.ErrNetwork):
		return http.StatusBadGateway
	case errors.Is(err, fileservice.ErrNotFound),
		errors.Is(err, share.ErrShareNotFound),
		errors.Is(err, share.ErrFileNotFound),
		errors.Is(err, metadata.ErrFileNotFound),
		errors.Is(err, metadata.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, share.ErrShareExpired):
		return http.StatusGone
	case errors.Is(err, metadata.ErrAccountExists):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// jsonError writes the standard error payload.
func jsonError(ctx echo.Context, err error) error {
	return ctx.JSON(errorStatus(err), map[string]string{
		"error": err.Error(),
	})
}
