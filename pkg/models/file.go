package models

import "time"

// MaxFileSize is the absolute per-file upload cap: 5 GiB.
const MaxFileSize = 5 * 1024 * 1024 * 1024

// FileRecord represents one uploaded file owned by a single account.
// Share fields are either both set or both empty.
type FileRecord struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Name        string     `json:"name"`
	Size        int64      `json:"size"`
	MimeType    string     `json:"mime_type"`
	UploadedAt  time.Time  `json:"uploaded_at"`
	StoragePath string     `json:"storage_path"`
	DownloadURL string     `json:"download_url,omitempty"`
	IsShared    bool       `json:"is_shared"`
	ShareToken  string     `json:"share_token,omitempty"`
	ShareExpiry *time.Time `json:"share_expiry,omitempty"`
}

// ShareExpired reports whether the record carries a share token whose
// expiry has passed. Expiry is only ever detected at access time.
func (f *FileRecord) ShareExpired(now time.Time) bool {
	return f.IsShared && f.ShareExpiry != nil && !now.Before(*f.ShareExpiry)
}
