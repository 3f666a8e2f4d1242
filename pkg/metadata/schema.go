package metadata

// Schema contains the SQL statements to create the metadata store schema.
const Schema = `
-- Accounts table: one row per owner
CREATE TABLE IF NOT EXISTS accounts (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL,
    plan          TEXT NOT NULL DEFAULT 'free',
    storage_limit INTEGER NOT NULL,
    storage_used  INTEGER NOT NULL DEFAULT 0,
    share_token   TEXT NOT NULL,
    created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Files table: file records keyed by (owner_id, id)
CREATE TABLE IF NOT EXISTS files (
    id           TEXT NOT NULL,
    owner_id     TEXT NOT NULL,
    name         TEXT NOT NULL,
    size         INTEGER NOT NULL,
    mime_type    TEXT,
    uploaded_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
    storage_path TEXT NOT NULL,
    download_url TEXT,
    is_shared    BOOLEAN DEFAULT FALSE,
    share_token  TEXT,
    share_expiry DATETIME,
    PRIMARY KEY (owner_id, id)
);

-- Indexes for performance
CREATE INDEX IF NOT EXISTS idx_files_owner ON files(owner_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_files_share_token ON files(share_token) WHERE share_token IS NOT NULL;
`
