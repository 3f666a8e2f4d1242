package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stashfs/pkg/log"
)

type createAccountRequest struct {
	Email string `json:"email"`
}

// createAccount handles POST /accounts requests, provisioning the account
// record for a freshly registered owner.
func (s *Server) createAccount(ctx echo.Context) error {
	req := createAccountRequest{}
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	acct, err := s.accounts.CreateAccount(ctx.Request().Context(), ownerID(ctx), req.Email)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create account")
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, acct)
}

// getAccount handles GET /accounts/me requests.
func (s *Server) getAccount(ctx echo.Context) error {
	acct, err := s.accounts.GetAccount(ctx.Request().Context(), ownerID(ctx))
	if err != nil {
		log.Error().Err(err).Msg("Failed to get account")
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, acct)
}

// regenerateShareToken handles POST /accounts/me/share-token requests.
func (s *Server) regenerateShareToken(ctx echo.Context) error {
	token, err := s.accounts.RegenerateShareToken(ctx.Request().Context(), ownerID(ctx))
	if err != nil {
		log.Error().Err(err).Msg("Failed to regenerate share token")
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		"share_token": token,
	})
}

// deleteAccount handles DELETE /accounts/me requests.
func (s *Server) deleteAccount(ctx echo.Context) error {
	if err := s.accounts.DeleteAccount(ctx.Request().Context(), ownerID(ctx)); err != nil {
		log.Error().Err(err).Msg("Failed to delete account")
		return jsonError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		"message": "account deleted",
	})
}
