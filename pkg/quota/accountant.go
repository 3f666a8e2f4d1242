// Package quota rebuilds per-owner storage accounting from file records.
package quota

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"stashfs/pkg/log"
)

// MetadataStore is the slice of the metadata store the accountant needs.
type MetadataStore interface {
	SumFileSizes(ctx context.Context, ownerID string) (int64, error)
	UpdateStorageUsed(ctx context.Context, ownerID string, used int64) error
}

// Accountant recomputes an owner's total stored bytes from the file
// records and persists the result on the account. Each recompute is a full
// re-derivation, never an increment, so concurrent recomputes converge:
// the last writer wins and a stale total is corrected by the next run.
type Accountant struct {
	store MetadataStore
}

// NewAccountant creates a quota accountant backed by the given metadata store.
func NewAccountant(store MetadataStore) *Accountant {
	return &Accountant{store: store}
}

// RecomputeStorageUsed sums the size of every file record for the owner and
// writes the total to the account. No locking; not transactional with the
// mutation that triggered it.
func (a *Accountant) RecomputeStorageUsed(ctx context.Context, ownerID string) (int64, error) {
	total, err := a.store.SumFileSizes(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum file sizes: %w", err)
	}

	if err := a.store.UpdateStorageUsed(ctx, ownerID, total); err != nil {
		return 0, fmt.Errorf("failed to persist storage used: %w", err)
	}

	log.Debug().
		Str("owner_id", ownerID).
		Str("storage_used", humanize.Bytes(uint64(total))).
		Msg("Recomputed storage used")

	return total, nil
}
