package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stashfs/pkg/log"
)

// listFiles handles GET /files requests.
func (s *Server) listFiles(ctx echo.Context) error {
	records, err := s.files.ListFiles(ctx.Request().Context(), ownerID(ctx))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list files")
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, records)
}
