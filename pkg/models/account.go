package models

import "time"

// Plan identifies the storage plan an account is provisioned on.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// Storage limits per plan, in bytes.
const (
	FreePlanLimit = 1 * 1024 * 1024 * 1024
	ProPlanLimit  = 20 * 1024 * 1024 * 1024
)

// Account holds the per-owner account record. StorageUsed is a cached
// aggregate rebuilt from the file records, not a transactional counter.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Plan         Plan      `json:"plan"`
	StorageLimit int64     `json:"storage_limit"`
	StorageUsed  int64     `json:"storage_used"`
	ShareToken   string    `json:"share_token"`
	CreatedAt    time.Time `json:"created_at"`
}

// LimitFor returns the storage limit for a plan. Unknown plans fall back
// to the free tier.
func LimitFor(plan Plan) int64 {
	if plan == PlanPro {
		return ProPlanLimit
	}
	return FreePlanLimit
}
