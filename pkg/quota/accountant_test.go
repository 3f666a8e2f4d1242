package quota

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"stashfs/pkg/metadata"
	"stashfs/pkg/models"
)

// AccountantTestSuite tests storage accounting recomputation.
type AccountantTestSuite struct {
	suite.Suite
	tempDir    string
	dbPath     string
	store      *metadata.Store
	accountant *Accountant
	ctx        context.Context
}

// SetupSuite runs once before all tests.
func (s *AccountantTestSuite) SetupSuite() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "quota-test-*")
	s.Require().NoError(err)
	s.ctx = context.Background()
}

// TearDownSuite runs once after all tests.
func (s *AccountantTestSuite) TearDownSuite() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

// SetupTest runs before each test.
func (s *AccountantTestSuite) SetupTest() {
	s.dbPath = filepath.Join(s.tempDir, "test.db")
	var err error
	s.store, err = metadata.NewStore(s.dbPath)
	s.Require().NoError(err)

	s.accountant = NewAccountant(s.store)

	account := &models.Account{
		ID:           "u1",
		Email:        "u1@example.com",
		Plan:         models.PlanFree,
		StorageLimit: models.FreePlanLimit,
		ShareToken:   "t",
		CreatedAt:    time.Now(),
	}
	s.Require().NoError(s.store.CreateAccount(s.ctx, account))
}

// TearDownTest runs after each test.
func (s *AccountantTestSuite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
	}
	os.Remove(s.dbPath)
}

func (s *AccountantTestSuite) putFile(id string, size int64) {
	record := &models.FileRecord{
		ID:          id,
		OwnerID:     "u1",
		Name:        id + ".bin",
		Size:        size,
		MimeType:    "application/octet-stream",
		UploadedAt:  time.Now(),
		StoragePath: "users/u1/1700000000000_" + id + ".bin",
	}
	s.Require().NoError(s.store.PutFile(s.ctx, record))
}

// TestRecomputeEmpty tests recomputation for an owner with no files.
func (s *AccountantTestSuite) TestRecomputeEmpty() {
	total, err := s.accountant.RecomputeStorageUsed(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(int64(0), total)
}

// TestRecomputeSumsAllFiles tests the full re-derivation.
func (s *AccountantTestSuite) TestRecomputeSumsAllFiles() {
	s.putFile("f1", 1000)
	s.putFile("f2", 2500)

	total, err := s.accountant.RecomputeStorageUsed(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(int64(3500), total)

	account, err := s.store.GetAccount(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(int64(3500), account.StorageUsed)
}

// TestRecomputeSelfCorrects tests that a recompute after deletion rebuilds
// the total from scratch rather than decrementing.
func (s *AccountantTestSuite) TestRecomputeSelfCorrects() {
	s.putFile("f1", 1000)
	s.putFile("f2", 2500)

	_, err := s.accountant.RecomputeStorageUsed(s.ctx, "u1")
	s.Require().NoError(err)

	s.Require().NoError(s.store.DeleteFile(s.ctx, "u1", "f1"))

	total, err := s.accountant.RecomputeStorageUsed(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(int64(2500), total)
}

// TestRecomputeMissingAccount tests that recomputation surfaces a missing
// account to its caller (who, by policy, only logs it).
func (s *AccountantTestSuite) TestRecomputeMissingAccount() {
	_, err := s.accountant.RecomputeStorageUsed(s.ctx, "ghost")
	s.Require().Error(err)
	s.True(errors.Is(err, metadata.ErrAccountNotFound))
}

func TestAccountantTestSuite(t *testing.T) {
	suite.Run(t, new(AccountantTestSuite))
}
