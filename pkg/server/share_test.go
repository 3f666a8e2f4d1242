package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// ShareTestSuite tests share link creation and public resolution.
type ShareTestSuite struct {
	baseSuite
}

func (s *ShareTestSuite) createLink(fileID, payload string) (*httptest.ResponseRecorder, map[string]interface{}) {
	ctx, rec := s.newContext(http.MethodPost, "/files/"+fileID+"/share", strings.NewReader(payload))
	ctx.Request().Header.Set("Content-Type", "application/json")
	ctx.SetPath("/files/:id/share")
	ctx.SetParamNames("id")
	ctx.SetParamValues(fileID)

	s.Require().NoError(s.server.createShareLink(ctx))

	var response map[string]interface{}
	if rec.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	}
	return rec, response
}

// TestCreateShareLink tests issuing a 24 hour link over HTTP.
func (s *ShareTestSuite) TestCreateShareLink() {
	uploaded := s.uploadViaHandler("report.pdf", "pdf bytes here")
	fileID, ok := uploaded["id"].(string)
	s.Require().True(ok)

	rec, response := s.createLink(fileID, `{"expiry_hours": 24}`)
	s.Equal(http.StatusOK, rec.Code)

	token, ok := response["token"].(string)
	s.Require().True(ok)
	s.Len(token, 22)
	s.Equal("https://stash.example.com/share/"+token, response["url"])
}

// TestCreateShareLinkMissingOwner tests issuance without the identity
// header: 401, not a not-found.
func (s *ShareTestSuite) TestCreateShareLinkMissingOwner() {
	uploaded := s.uploadViaHandler("report.pdf", "pdf bytes here")
	fileID, ok := uploaded["id"].(string)
	s.Require().True(ok)

	ctx, rec := s.newContext(http.MethodPost, "/files/"+fileID+"/share", strings.NewReader(`{"expiry_hours": 24}`))
	ctx.Request().Header.Set("Content-Type", "application/json")
	ctx.Request().Header.Del(ownerHeader)
	ctx.SetPath("/files/:id/share")
	ctx.SetParamNames("id")
	ctx.SetParamValues(fileID)

	s.Require().NoError(s.server.createShareLink(ctx))
	s.Equal(http.StatusUnauthorized, rec.Code)
}

// TestCreateShareLinkInvalidExpiry tests a non-positive expiry.
func (s *ShareTestSuite) TestCreateShareLinkInvalidExpiry() {
	uploaded := s.uploadViaHandler("report.pdf", "pdf bytes here")
	fileID, ok := uploaded["id"].(string)
	s.Require().True(ok)

	rec, _ := s.createLink(fileID, `{"expiry_hours": 0}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

// TestCreateShareLinkUnknownFile tests sharing an absent file.
func (s *ShareTestSuite) TestCreateShareLinkUnknownFile() {
	rec, _ := s.createLink("ghost", `{"expiry_hours": 24}`)
	s.Equal(http.StatusNotFound, rec.Code)
}

// TestResolveShare tests the public download path end to end: upload,
// share, then fetch through the token without the owner header.
func (s *ShareTestSuite) TestResolveShare() {
	uploaded := s.uploadViaHandler("shared.txt", "shared file content")
	fileID, ok := uploaded["id"].(string)
	s.Require().True(ok)

	_, response := s.createLink(fileID, `{"expiry_hours": 1}`)
	token, ok := response["token"].(string)
	s.Require().True(ok)

	ctx, rec := s.newContext(http.MethodGet, "/share/"+token, nil)
	ctx.Request().Header.Del(ownerHeader)
	ctx.SetPath("/share/:token")
	ctx.SetParamNames("token")
	ctx.SetParamValues(token)

	s.Require().NoError(s.server.resolveShare(ctx))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("shared file content", rec.Body.String())
}

// TestResolveShareExpired tests that an expired link answers 410 instead
// of serving the file.
func (s *ShareTestSuite) TestResolveShareExpired() {
	uploaded := s.uploadViaHandler("stale.txt", "stale content")
	fileID, ok := uploaded["id"].(string)
	s.Require().True(ok)

	// Bind a token whose expiry already passed.
	const token = "expired-token"
	s.Require().NoError(s.meta.SetShare(context.Background(), testOwner, fileID, token, time.Now().Add(-time.Hour)))

	ctx, rec := s.newContext(http.MethodGet, "/share/"+token, nil)
	ctx.Request().Header.Del(ownerHeader)
	ctx.SetPath("/share/:token")
	ctx.SetParamNames("token")
	ctx.SetParamValues(token)

	s.Require().NoError(s.server.resolveShare(ctx))
	s.Equal(http.StatusGone, rec.Code)
	s.NotContains(rec.Body.String(), "stale content")
}

// TestResolveShareUnknownToken tests resolution of a token nobody issued.
func (s *ShareTestSuite) TestResolveShareUnknownToken() {
	ctx, rec := s.newContext(http.MethodGet, "/share/bogus", nil)
	ctx.Request().Header.Del(ownerHeader)
	ctx.SetPath("/share/:token")
	ctx.SetParamNames("token")
	ctx.SetParamValues("bogus")

	s.Require().NoError(s.server.resolveShare(ctx))
	s.Equal(http.StatusNotFound, rec.Code)
}

func TestShareTestSuite(t *testing.T) {
	suite.Run(t, new(ShareTestSuite))
}
