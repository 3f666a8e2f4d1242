package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"stashfs/pkg/fileservice"
	"stashfs/pkg/log"
)

// deleteFile handles DELETE /files/:id requests. The blob locator can be
// passed as the "path" query parameter; otherwise it is looked up from the
// metadata record. A missing record is still a success: delete is idempotent.
func (s *Server) deleteFile(ctx echo.Context) error {
	fileID := ctx.Param("id")
	owner := ownerID(ctx)

	storagePath := ctx.QueryParam("path")
	if storagePath == "" {
		record, err := s.files.GetFile(ctx.Request().Context(), owner, fileID)
		switch {
		case err == nil:
			storagePath = record.StoragePath
		case errors.Is(err, fileservice.ErrNotFound):
			// Record already gone; proceed so repeated deletes stay no-ops.
		default:
			log.Error().Err(err).Str("file_id", fileID).Msg("Failed to look up file for delete")
			return jsonError(ctx, err)
		}
	}

	if err := s.files.DeleteFile(ctx.Request().Context(), owner, fileID, storagePath); err != nil {
		log.Error().Err(err).Str("file_id", fileID).Msg("Delete failed")
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		"message": "file deleted",
		"id":      fileID,
	})
}
