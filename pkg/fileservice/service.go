// Package fileservice orchestrates uploads, listing, deletion and download
// of files across the blob store and the metadata store.
package fileservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"stashfs/pkg/blob"
	"stashfs/pkg/log"
	"stashfs/pkg/metadata"
	"stashfs/pkg/models"
)

// whitespacePattern matches whitespace runs replaced during filename
// sanitization.
var whitespacePattern = regexp.MustCompile(`\s+`)

// MetadataStore is the slice of the metadata store the file service needs.
type MetadataStore interface {
	PutFile(ctx context.Context, record *models.FileRecord) error
	GetFile(ctx context.Context, ownerID, fileID string) (*models.FileRecord, error)
	ListFiles(ctx context.Context, ownerID string) ([]models.FileRecord, error)
	DeleteFile(ctx context.Context, ownerID, fileID string) error
}

// QuotaRecomputer triggers storage accounting after mutations.
type QuotaRecomputer interface {
	RecomputeStorageUsed(ctx context.Context, ownerID string) (int64, error)
}

// Service mediates between the blob store and the metadata store, enforcing
// validation and the delete-idempotence rule. Construct with NewService and
// inject the collaborators; the service holds no global state.
type Service struct {
	blobs blob.Store
	meta  MetadataStore
	quota QuotaRecomputer
	now   func() time.Time
}

// NewService creates a file service over the given stores.
func NewService(blobs blob.Store, meta MetadataStore, quota QuotaRecomputer) *Service {
	return &Service{
		blobs: blobs,
		meta:  meta,
		quota: quota,
		now:   time.Now,
	}
}

// UploadFile validates the upload, writes the blob, then the metadata
// record, and triggers a quota recompute. Validation failures are raised
// before any store I/O. A metadata write failure deletes the now-orphaned
// blob so no record ever points at missing content.
func (s *Service) UploadFile(ctx context.Context, ownerID string, reader io.Reader, filename, mimeType string, size int64) (*models.FileRecord, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrAuthenticationRequired
	}
	if size <= 0 {
		return nil, ErrEmptyFile
	}
	if size > models.MaxFileSize {
		return nil, ErrFileTooLarge
	}

	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	uploadedAt := s.now()
	storagePath := fmt.Sprintf("users/%s/%d_%s",
		ownerID, uploadedAt.UnixMilli(), whitespacePattern.ReplaceAllString(filename, "_"))

	log.Info().
		Str("owner_id", ownerID).
		Str("storage_path", storagePath).
		Str("size", humanize.Bytes(uint64(size))).
		Msg("Starting upload")

	if err := s.blobs.Put(ctx, storagePath, reader, size, mimeType); err != nil {
		return nil, mapBlobError(err)
	}

	// Best effort; a store that cannot mint a URL yet falls back to the
	// raw locator.
	downloadURL, err := s.blobs.URL(ctx, storagePath)
	if err != nil {
		log.Warn().Err(err).Str("storage_path", storagePath).Msg("Could not get download URL")
		downloadURL = storagePath
	}

	record := &models.FileRecord{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        filename,
		Size:        size,
		MimeType:    mimeType,
		UploadedAt:  uploadedAt,
		StoragePath: storagePath,
		DownloadURL: downloadURL,
		IsShared:    false,
	}

	if err := s.meta.PutFile(ctx, record); err != nil {
		// Compensate: remove the orphaned blob before surfacing the failure.
		if delErr := s.blobs.Delete(ctx, storagePath); delErr != nil {
			log.Error().Err(delErr).Str("storage_path", storagePath).Msg("Failed to clean up orphaned blob")
		}
		return nil, mapMetadataError(err)
	}

	s.triggerRecompute(ownerID)

	log.Info().Str("owner_id", ownerID).Str("file_id", record.ID).Msg("Upload complete")
	return record, nil
}

// ListFiles returns every file record for the owner, in the metadata
// store's natural order. Zero files is a success with an empty slice.
func (s *Service) ListFiles(ctx context.Context, ownerID string) ([]models.FileRecord, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrAuthenticationRequired
	}

	records, err := s.meta.ListFiles(ctx, ownerID)
	if err != nil {
		return nil, mapMetadataError(err)
	}
	return records, nil
}

// DeleteFile removes the blob first, then the metadata record. An already
// absent blob is not an error; deletion is idempotent and the metadata
// record is removed regardless. Any other blob error aborts before metadata
// removal. Quota is recomputed afterward either way.
func (s *Service) DeleteFile(ctx context.Context, ownerID, fileID, storagePath string) error {
	if strings.TrimSpace(ownerID) == "" {
		return ErrAuthenticationRequired
	}

	if storagePath != "" {
		if err := s.blobs.Delete(ctx, storagePath); err != nil {
			if !errors.Is(err, blob.ErrObjectNotFound) {
				return mapBlobError(err)
			}
			log.Warn().Str("storage_path", storagePath).Msg("Blob already absent, removing metadata anyway")
		}
	}

	if err := s.meta.DeleteFile(ctx, ownerID, fileID); err != nil {
		if !errors.Is(err, metadata.ErrFileNotFound) {
			return mapMetadataError(err)
		}
	}

	s.triggerRecompute(ownerID)

	log.Info().Str("owner_id", ownerID).Str("file_id", fileID).Msg("File deleted")
	return nil
}

// DownloadFile returns the raw bytes stored at the given path for the
// caller to persist locally.
func (s *Service) DownloadFile(ctx context.Context, ownerID, storagePath, filename string) ([]byte, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrAuthenticationRequired
	}

	data, err := s.blobs.Get(ctx, storagePath)
	if err != nil {
		return nil, mapBlobError(err)
	}

	log.Info().
		Str("owner_id", ownerID).
		Str("name", filename).
		Str("size", humanize.Bytes(uint64(len(data)))).
		Msg("File downloaded")
	return data, nil
}

// GetFile fetches a single file record for the owner.
func (s *Service) GetFile(ctx context.Context, ownerID, fileID string) (*models.FileRecord, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrAuthenticationRequired
	}

	record, err := s.meta.GetFile(ctx, ownerID, fileID)
	if err != nil {
		return nil, mapMetadataError(err)
	}
	return record, nil
}

// triggerRecompute runs a quota recompute in the background. Failures are
// logged and never surfaced: accounting drift is tolerated and corrected by
// the next recompute.
func (s *Service) triggerRecompute(ownerID string) {
	go func() {
		if _, err := s.quota.RecomputeStorageUsed(context.Background(), ownerID); err != nil {
			log.Error().Err(err).Str("owner_id", ownerID).Msg("Quota recompute failed")
		}
	}()
}

// mapBlobError translates blob store failures to the service taxonomy.
func mapBlobError(err error) error {
	switch {
	case errors.Is(err, blob.ErrObjectNotFound):
		return ErrNotFound
	case errors.Is(err, blob.ErrUnauthorized):
		return ErrStorageUnauthorized
	case errors.Is(err, blob.ErrTimeout):
		return ErrStorageTimeout
	case errors.Is(err, context.DeadlineExceeded):
		return ErrStorageTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	return fmt.Errorf("%w: %w", ErrUnknown, err)
}

// mapMetadataError translates metadata store failures to the service taxonomy.
func mapMetadataError(err error) error {
	switch {
	case errors.Is(err, metadata.ErrFileNotFound):
		return ErrNotFound
	case errors.Is(err, metadata.ErrDatabaseError):
		return fmt.Errorf("%w: %w", ErrUnknown, err)
	}
	return fmt.Errorf("%w: %w", ErrUnknown, err)
}
