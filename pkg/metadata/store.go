package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"stashfs/pkg/models"

	_ "modernc.org/sqlite"
)

// Store manages file and account records in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex

	subMu  sync.Mutex
	subs   map[string]map[int]func(ChangeEvent)
	nextID int
}

// NewStore creates a new metadata store with the given database path.
func NewStore(dbPath string) (*Store, error) {
	database, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", ErrDatabaseError, err)
	}

	ctx := context.Background()

	// Enable foreign keys
	if _, err := database.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("%w: failed to enable foreign keys: %w", ErrDatabaseError, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := database.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("%w: failed to enable WAL mode: %w", ErrDatabaseError, err)
	}

	store := &Store{
		db:   database,
		subs: make(map[string]map[int]func(ChangeEvent)),
	}
	if err := store.Initialize(); err != nil {
		_ = database.Close()
		return nil, err
	}

	return store, nil
}

// Initialize creates the database schema.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(context.Background(), Schema)
	if err != nil {
		return fmt.Errorf("%w: failed to initialize schema: %w", ErrDatabaseError, err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutFile inserts a new file record.
func (s *Store) PutFile(ctx context.Context, record *models.FileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO files (id, owner_id, name, size, mime_type, uploaded_at, storage_path, download_url, is_shared, share_token, share_expiry)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, NULL)`,
		record.ID, record.OwnerID, record.Name, record.Size, record.MimeType,
		record.UploadedAt, record.StoragePath, record.DownloadURL, record.IsShared,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	s.notify(ChangeEvent{OwnerID: record.OwnerID, Kind: FileCreated, FileID: record.ID})
	return nil
}

// GetFile retrieves a file record by owner and id.
func (s *Store) GetFile(ctx context.Context, ownerID, fileID string) (*models.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, size, mime_type, uploaded_at, storage_path, download_url, is_shared, share_token, share_expiry
		 FROM files WHERE owner_id = ? AND id = ?`,
		ownerID, fileID,
	)

	record, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	return record, nil
}

// ListFiles returns all file records for an owner in the store's natural
// order. Returns an empty slice when the owner has no files.
func (s *Store) ListFiles(ctx context.Context, ownerID string) ([]models.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, size, mime_type, uploaded_at, storage_path, download_url, is_shared, share_token, share_expiry
		 FROM files WHERE owner_id = ?`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	defer func() { _ = rows.Close() }()

	records := []models.FileRecord{}
	for rows.Next() {
		record, scanErr := scanFile(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabaseError, scanErr)
		}
		records = append(records, *record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return records, nil
}

// DeleteFile removes a file record. Returns ErrFileNotFound when no record
// matches, so callers can decide whether absence is benign.
func (s *Store) DeleteFile(ctx context.Context, ownerID, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE owner_id = ? AND id = ?`, ownerID, fileID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrFileNotFound
	}

	s.notify(ChangeEvent{OwnerID: ownerID, Kind: FileDeleted, FileID: fileID})
	return nil
}

// SetShare marks a file record as shared and binds the token and expiry.
func (s *Store) SetShare(ctx context.Context, ownerID, fileID, token string, expiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		`UPDATE files SET is_shared = TRUE, share_token = ?, share_expiry = ? WHERE owner_id = ? AND id = ?`,
		token, expiry, ownerID, fileID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: share token collision", ErrDatabaseError)
		}
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrFileNotFound
	}

	s.notify(ChangeEvent{OwnerID: ownerID, Kind: FileShared, FileID: fileID})
	return nil
}

// GetFileByShareToken looks up a file record by its share token, without
// requiring the owner's identity. This is the privileged index behind
// public share-link resolution.
func (s *Store) GetFileByShareToken(ctx context.Context, token string) (*models.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, size, mime_type, uploaded_at, storage_path, download_url, is_shared, share_token, share_expiry
		 FROM files WHERE share_token = ?`,
		token,
	)

	record, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShareTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	return record, nil
}

// SumFileSizes returns the total size in bytes of all file records for an owner.
func (s *Store) SumFileSizes(ctx context.Context, ownerID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(size), 0) FROM files WHERE owner_id = ?`,
		ownerID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	return total, nil
}

// CreateAccount inserts a new account record.
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, plan, storage_limit, storage_used, share_token, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		account.ID, account.Email, string(account.Plan), account.StorageLimit,
		account.StorageUsed, account.ShareToken, account.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrAccountExists
		}
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	s.notify(ChangeEvent{OwnerID: account.ID, Kind: AccountUpdated})
	return nil
}

// GetAccount retrieves an account by owner id.
func (s *Store) GetAccount(ctx context.Context, ownerID string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account := &models.Account{}
	var plan string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, plan, storage_limit, storage_used, share_token, created_at
		 FROM accounts WHERE id = ?`,
		ownerID,
	).Scan(&account.ID, &account.Email, &plan, &account.StorageLimit,
		&account.StorageUsed, &account.ShareToken, &account.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	account.Plan = models.Plan(plan)
	return account, nil
}

// UpdateStorageUsed writes the recomputed storage total for an owner.
// Last writer wins; there is no compare-and-swap.
func (s *Store) UpdateStorageUsed(ctx context.Context, ownerID string, used int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET storage_used = ? WHERE id = ?`,
		used, ownerID,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrAccountNotFound
	}

	s.notify(ChangeEvent{OwnerID: ownerID, Kind: AccountUpdated})
	return nil
}

// UpdateAccountShareToken replaces the account-level share token.
func (s *Store) UpdateAccountShareToken(ctx context.Context, ownerID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET share_token = ? WHERE id = ?`,
		token, ownerID,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrAccountNotFound
	}

	s.notify(ChangeEvent{OwnerID: ownerID, Kind: AccountUpdated})
	return nil
}

// DeleteAccount removes an account and all of its file records.
func (s *Store) DeleteAccount(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE owner_id = ?`, ownerID); err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, ownerID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrAccountNotFound
	}

	s.notify(ChangeEvent{OwnerID: ownerID, Kind: AccountUpdated})
	return nil
}

// scanner abstracts sql.Row and sql.Rows for file record scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanFile(row scanner) (*models.FileRecord, error) {
	record := &models.FileRecord{}
	var (
		mimeType    sql.NullString
		downloadURL sql.NullString
		shareToken  sql.NullString
		shareExpiry sql.NullTime
	)

	err := row.Scan(&record.ID, &record.OwnerID, &record.Name, &record.Size,
		&mimeType, &record.UploadedAt, &record.StoragePath, &downloadURL,
		&record.IsShared, &shareToken, &shareExpiry)
	if err != nil {
		return nil, err
	}

	if mimeType.Valid {
		record.MimeType = mimeType.String
	}
	if downloadURL.Valid {
		record.DownloadURL = downloadURL.String
	}
	if shareToken.Valid {
		record.ShareToken = shareToken.String
	}
	if shareExpiry.Valid {
		expiry := shareExpiry.Time
		record.ShareExpiry = &expiry
	}

	return record, nil
}
