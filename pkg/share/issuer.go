// Package share mints and resolves time-bounded public share links.
package share

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stashfs/pkg/log"
	"stashfs/pkg/metadata"
	"stashfs/pkg/models"
)

// MetadataStore is the slice of the metadata store the issuer needs.
type MetadataStore interface {
	SetShare(ctx context.Context, ownerID, fileID, token string, expiry time.Time) error
	GetFileByShareToken(ctx context.Context, token string) (*models.FileRecord, error)
}

// ShareLink is the result of issuing a share token for a file.
type ShareLink struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Issuer binds share tokens to file records and resolves them back.
// Once shared, a file never returns to private; an expired link simply
// stops resolving.
type Issuer struct {
	store  MetadataStore
	origin string
	now    func() time.Time
}

// NewIssuer creates a share token issuer. origin is the public base URL
// embedded in share links, e.g. "https://stash.example.com".
func NewIssuer(store MetadataStore, origin string) *Issuer {
	return &Issuer{store: store, origin: origin, now: time.Now}
}

// CreateShareLink generates a token, binds it to the file record with an
// expiry of now + expiryHours, and returns the public URL. Ownership is
// enforced by the metadata store's (owner, file) access path, not
// re-validated here.
func (i *Issuer) CreateShareLink(ctx context.Context, ownerID, fileID string, expiryHours int) (*ShareLink, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrAuthenticationRequired
	}
	if expiryHours <= 0 {
		return nil, ErrInvalidExpiry
	}

	token, err := NewToken()
	if err != nil {
		return nil, err
	}

	expiry := i.now().Add(time.Duration(expiryHours) * time.Hour)

	if err := i.store.SetShare(ctx, ownerID, fileID, token, expiry); err != nil {
		if errors.Is(err, metadata.ErrFileNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to bind share token: %w", err)
	}

	log.Info().
		Str("owner_id", ownerID).
		Str("file_id", fileID).
		Time("expires_at", expiry).
		Msg("Share link created")

	return &ShareLink{
		Token:     token,
		URL:       fmt.Sprintf("%s/share/%s", i.origin, token),
		ExpiresAt: expiry,
	}, nil
}

// ResolveShareToken finds the file record a token points at, without the
// owner's identity, and enforces expiry before permitting any download.
func (i *Issuer) ResolveShareToken(ctx context.Context, token string) (*models.FileRecord, error) {
	record, err := i.store.GetFileByShareToken(ctx, token)
	if err != nil {
		if errors.Is(err, metadata.ErrShareTokenNotFound) {
			return nil, ErrShareNotFound
		}
		return nil, fmt.Errorf("failed to resolve share token: %w", err)
	}

	if record.ShareExpired(i.now()) {
		return nil, ErrShareExpired
	}

	return record, nil
}
