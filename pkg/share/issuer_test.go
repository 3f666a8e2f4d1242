package share

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"stashfs/pkg/metadata"
	"stashfs/pkg/models"
)

const testOrigin = "https://stash.example.com"

// IssuerTestSuite tests share link issuance and resolution.
type IssuerTestSuite struct {
	suite.Suite
	tempDir string
	dbPath  string
	store   *metadata.Store
	issuer  *Issuer
	ctx     context.Context
}

// SetupSuite runs once before all tests.
func (s *IssuerTestSuite) SetupSuite() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "share-issuer-test-*")
	s.Require().NoError(err)
	s.ctx = context.Background()
}

// TearDownSuite runs once after all tests.
func (s *IssuerTestSuite) TearDownSuite() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

// SetupTest runs before each test.
func (s *IssuerTestSuite) SetupTest() {
	s.dbPath = filepath.Join(s.tempDir, "test.db")
	var err error
	s.store, err = metadata.NewStore(s.dbPath)
	s.Require().NoError(err)

	s.issuer = NewIssuer(s.store, testOrigin)

	record := &models.FileRecord{
		ID:          "f1",
		OwnerID:     "u1",
		Name:        "report.pdf",
		Size:        2097152,
		MimeType:    "application/pdf",
		UploadedAt:  time.Now(),
		StoragePath: "users/u1/1700000000000_report.pdf",
	}
	s.Require().NoError(s.store.PutFile(s.ctx, record))
}

// TearDownTest runs after each test.
func (s *IssuerTestSuite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
	}
	os.Remove(s.dbPath)
}

// TestNewToken tests token shape and uniqueness.
func (s *IssuerTestSuite) TestNewToken() {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := NewToken()
		s.Require().NoError(err)
		s.Len(token, 22)
		s.NotContains(token, "+")
		s.NotContains(token, "/")
		s.NotContains(token, "=")
		s.False(seen[token], "token collision")
		seen[token] = true
	}
}

// TestCreateShareLink tests issuing a 24 hour share link.
func (s *IssuerTestSuite) TestCreateShareLink() {
	link, err := s.issuer.CreateShareLink(s.ctx, "u1", "f1", 24)
	s.Require().NoError(err)

	s.Len(link.Token, 22)
	s.Equal(testOrigin+"/share/"+link.Token, link.URL)
	s.WithinDuration(time.Now().Add(24*time.Hour), link.ExpiresAt, time.Second)

	record, err := s.store.GetFile(s.ctx, "u1", "f1")
	s.Require().NoError(err)
	s.True(record.IsShared)
	s.Equal(link.Token, record.ShareToken)
	s.Require().NotNil(record.ShareExpiry)
	s.WithinDuration(link.ExpiresAt, *record.ShareExpiry, time.Second)
}

// TestCreateShareLinkMissingOwner tests that an empty owner id fails the
// authentication precondition before any store access.
func (s *IssuerTestSuite) TestCreateShareLinkMissingOwner() {
	_, err := s.issuer.CreateShareLink(s.ctx, "", "f1", 24)
	s.ErrorIs(err, ErrAuthenticationRequired)

	_, err = s.issuer.CreateShareLink(s.ctx, "   ", "f1", 24)
	s.ErrorIs(err, ErrAuthenticationRequired)

	// The record must stay private.
	record, err := s.store.GetFile(s.ctx, "u1", "f1")
	s.Require().NoError(err)
	s.False(record.IsShared)
}

// TestCreateShareLinkInvalidExpiry tests rejection of non-positive hours.
func (s *IssuerTestSuite) TestCreateShareLinkInvalidExpiry() {
	_, err := s.issuer.CreateShareLink(s.ctx, "u1", "f1", 0)
	s.ErrorIs(err, ErrInvalidExpiry)

	_, err = s.issuer.CreateShareLink(s.ctx, "u1", "f1", -5)
	s.ErrorIs(err, ErrInvalidExpiry)
}

// TestCreateShareLinkMissingFile tests sharing an absent record.
func (s *IssuerTestSuite) TestCreateShareLinkMissingFile() {
	_, err := s.issuer.CreateShareLink(s.ctx, "u1", "nope", 24)
	s.ErrorIs(err, ErrFileNotFound)
}

// TestCreateShareLinkWrongOwner tests that the (owner, file) access path
// holds: another owner cannot share u1's file.
func (s *IssuerTestSuite) TestCreateShareLinkWrongOwner() {
	_, err := s.issuer.CreateShareLink(s.ctx, "u2", "f1", 24)
	s.ErrorIs(err, ErrFileNotFound)
}

// TestResolveShareToken tests the owner-independent resolution path.
func (s *IssuerTestSuite) TestResolveShareToken() {
	link, err := s.issuer.CreateShareLink(s.ctx, "u1", "f1", 24)
	s.Require().NoError(err)

	record, err := s.issuer.ResolveShareToken(s.ctx, link.Token)
	s.Require().NoError(err)
	s.Equal("f1", record.ID)
	s.Equal("u1", record.OwnerID)
	s.Equal("users/u1/1700000000000_report.pdf", record.StoragePath)
}

// TestResolveShareTokenUnknown tests resolution of a token nobody issued.
func (s *IssuerTestSuite) TestResolveShareTokenUnknown() {
	_, err := s.issuer.ResolveShareToken(s.ctx, "no-such-token")
	s.ErrorIs(err, ErrShareNotFound)
}

// TestResolveShareTokenExpired tests that expiry is enforced at access time.
func (s *IssuerTestSuite) TestResolveShareTokenExpired() {
	link, err := s.issuer.CreateShareLink(s.ctx, "u1", "f1", 1)
	s.Require().NoError(err)

	// Move the issuer's clock past the expiry.
	s.issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = s.issuer.ResolveShareToken(s.ctx, link.Token)
	s.ErrorIs(err, ErrShareExpired)
}

func TestIssuerTestSuite(t *testing.T) {
	suite.Run(t, new(IssuerTestSuite))
}
