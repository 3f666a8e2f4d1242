package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"stashfs/pkg/account"
	"stashfs/pkg/blob"
	"stashfs/pkg/fileservice"
	"stashfs/pkg/metadata"
	"stashfs/pkg/quota"
	"stashfs/pkg/share"
)

const testOwner = "u1"

// baseSuite wires a full server over a memory blob store and a temp SQLite
// metadata store. Handler suites embed it.
type baseSuite struct {
	suite.Suite
	tempDir string
	dbPath  string
	server  *Server
	meta    *metadata.Store
	blobs   *blob.MemoryStore
}

// SetupSuite runs once before all tests.
func (s *baseSuite) SetupSuite() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "server-test-*")
	s.Require().NoError(err)
}

// TearDownSuite runs once after all tests.
func (s *baseSuite) TearDownSuite() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

// SetupTest runs before each test.
func (s *baseSuite) SetupTest() {
	s.dbPath = filepath.Join(s.tempDir, "test.db")
	var err error
	s.meta, err = metadata.NewStore(s.dbPath)
	s.Require().NoError(err)

	s.blobs = blob.NewMemoryStore()
	accountant := quota.NewAccountant(s.meta)
	files := fileservice.NewService(s.blobs, s.meta, accountant)
	shares := share.NewIssuer(s.meta, "https://stash.example.com")
	accounts := account.NewService(s.meta, s.blobs)

	s.server = New(files, shares, accounts, 10*time.Second, "test-v1.0.0")
	s.server.setupRoutes()

	acct, err := accounts.CreateAccount(context.Background(), testOwner, "u1@example.com")
	s.Require().NoError(err)
	s.Require().NotNil(acct)
}

// TearDownTest runs after each test.
func (s *baseSuite) TearDownTest() {
	if s.meta != nil {
		s.meta.Close()
	}
	os.Remove(s.dbPath)
}

// newContext builds an echo context with the owner header set.
func (s *baseSuite) newContext(method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(ownerHeader, testOwner)
	rec := httptest.NewRecorder()
	return s.server.echo.NewContext(req, rec), rec
}

// multipartBody builds a multipart request body with one "file" part.
func (s *baseSuite) multipartBody(filename, contentType, content string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	header["Content-Type"] = []string{contentType}
	part, err := writer.CreatePart(header)
	s.Require().NoError(err)
	_, err = part.Write([]byte(content))
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	return body, writer.FormDataContentType()
}

// uploadViaHandler uploads content through the HTTP handler and returns the
// decoded record payload.
func (s *baseSuite) uploadViaHandler(filename, content string) map[string]interface{} {
	body, contentType := s.multipartBody(filename, "text/plain", content)

	ctx, rec := s.newContext(http.MethodPost, "/files", body)
	ctx.Request().Header.Set("Content-Type", contentType)

	s.Require().NoError(s.server.uploadFile(ctx))
	s.Require().Equal(http.StatusCreated, rec.Code)

	var response map[string]interface{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	return response
}
