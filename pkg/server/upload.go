package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stashfs/pkg/log"
)

// uploadFile handles POST /files requests with a multipart "file" part.
func (s *Server) uploadFile(ctx echo.Context) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		log.Error().Err(err).Msg("File parameter is required")
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "file parameter is required",
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to open uploaded file",
		})
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close source file")
		}
	}()

	record, err := s.files.UploadFile(
		ctx.Request().Context(),
		ownerID(ctx),
		src,
		file.Filename,
		file.Header.Get("Content-Type"),
		file.Size,
	)
	if err != nil {
		log.Error().Err(err).Str("name", file.Filename).Msg("Failed to upload file")
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, record)
}
