// Package account provisions and manages per-owner account records.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stashfs/pkg/blob"
	"stashfs/pkg/log"
	"stashfs/pkg/models"
	"stashfs/pkg/share"
)

// ErrAuthenticationRequired is returned when the owner id is missing or empty.
var ErrAuthenticationRequired = errors.New("authentication required")

// MetadataStore is the slice of the metadata store the account service needs.
type MetadataStore interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, ownerID string) (*models.Account, error)
	UpdateAccountShareToken(ctx context.Context, ownerID, token string) error
	DeleteAccount(ctx context.Context, ownerID string) error
	ListFiles(ctx context.Context, ownerID string) ([]models.FileRecord, error)
}

// Service provisions accounts at registration and handles the
// account-level share token and account teardown.
type Service struct {
	meta  MetadataStore
	blobs blob.Store
	now   func() time.Time
}

// NewService creates an account service over the given stores.
func NewService(meta MetadataStore, blobs blob.Store) *Service {
	return &Service{meta: meta, blobs: blobs, now: time.Now}
}

// CreateAccount provisions a new account on the free plan with zero
// storage used and a fresh account-level share token.
func (s *Service) CreateAccount(ctx context.Context, ownerID, email string) (*models.Account, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrAuthenticationRequired
	}

	token, err := share.NewToken()
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:           ownerID,
		Email:        email,
		Plan:         models.PlanFree,
		StorageLimit: models.LimitFor(models.PlanFree),
		StorageUsed:  0,
		ShareToken:   token,
		CreatedAt:    s.now(),
	}

	if err := s.meta.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	log.Info().Str("owner_id", ownerID).Str("plan", string(account.Plan)).Msg("Account created")
	return account, nil
}

// GetAccount fetches the account record for an owner.
func (s *Service) GetAccount(ctx context.Context, ownerID string) (*models.Account, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrAuthenticationRequired
	}
	return s.meta.GetAccount(ctx, ownerID)
}

// RegenerateShareToken replaces the account-level share token and returns
// the new value. Per-file share tokens are unaffected.
func (s *Service) RegenerateShareToken(ctx context.Context, ownerID string) (string, error) {
	if strings.TrimSpace(ownerID) == "" {
		return "", ErrAuthenticationRequired
	}

	token, err := share.NewToken()
	if err != nil {
		return "", err
	}

	if err := s.meta.UpdateAccountShareToken(ctx, ownerID, token); err != nil {
		return "", err
	}
	return token, nil
}

// DeleteAccount removes the owner's blobs best-effort, then the account and
// all file records. A blob that cannot be deleted is logged and skipped;
// orphaned blobs are garbage-collectable.
func (s *Service) DeleteAccount(ctx context.Context, ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return ErrAuthenticationRequired
	}

	records, err := s.meta.ListFiles(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to list files for account deletion: %w", err)
	}

	for _, record := range records {
		if err := s.blobs.Delete(ctx, record.StoragePath); err != nil && !errors.Is(err, blob.ErrObjectNotFound) {
			log.Warn().Err(err).Str("storage_path", record.StoragePath).Msg("Could not delete blob during account teardown")
		}
	}

	if err := s.meta.DeleteAccount(ctx, ownerID); err != nil {
		return err
	}

	log.Info().Str("owner_id", ownerID).Int("files_removed", len(records)).Msg("Account deleted")
	return nil
}
