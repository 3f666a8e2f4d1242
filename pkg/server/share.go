package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"stashfs/pkg/log"
)

type shareRequest struct {
	ExpiryHours int `json:"expiry_hours"`
}

// createShareLink handles POST /files/:id/share requests.
func (s *Server) createShareLink(ctx echo.Context) error {
	fileID := ctx.Param("id")

	req := shareRequest{}
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	link, err := s.shares.CreateShareLink(ctx.Request().Context(), ownerID(ctx), fileID, req.ExpiryHours)
	if err != nil {
		log.Error().Err(err).Str("file_id", fileID).Msg("Failed to create share link")
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, link)
}

// resolveShare handles GET /share/:token requests. This is the public,
// owner-independent path: the token is resolved through the privileged
// index, expiry is enforced, and the bytes are streamed back.
func (s *Server) resolveShare(ctx echo.Context) error {
	token := ctx.Param("token")

	record, err := s.shares.ResolveShareToken(ctx.Request().Context(), token)
	if err != nil {
		log.Warn().Err(err).Msg("Share token resolution failed")
		return jsonError(ctx, err)
	}

	data, err := s.files.DownloadFile(ctx.Request().Context(), record.OwnerID, record.StoragePath, record.Name)
	if err != nil {
		log.Error().Err(err).Str("file_id", record.ID).Msg("Shared file download failed")
		return jsonError(ctx, err)
	}

	ctx.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.Name))
	return ctx.Blob(http.StatusOK, record.MimeType, data)
}
