package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"stashfs/pkg/log"
)

// downloadFile handles GET /files/:id/download requests.
func (s *Server) downloadFile(ctx echo.Context) error {
	fileID := ctx.Param("id")
	owner := ownerID(ctx)

	record, err := s.files.GetFile(ctx.Request().Context(), owner, fileID)
	if err != nil {
		log.Error().Err(err).Str("file_id", fileID).Msg("Failed to look up file for download")
		return jsonError(ctx, err)
	}

	data, err := s.files.DownloadFile(ctx.Request().Context(), owner, record.StoragePath, record.Name)
	if err != nil {
		log.Error().Err(err).Str("file_id", fileID).Msg("Download failed")
		return jsonError(ctx, err)
	}

	ctx.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.Name))
	return ctx.Blob(http.StatusOK, record.MimeType, data)
}
