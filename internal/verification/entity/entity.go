package entity

import (
	"time"

	"github.com/moolaigym/gymcore/internal/pkg/valueobject"
)

// Code is one issued verification code row. The plain code never reaches
// storage; only its HMAC digest is kept.
type Code struct {
	ID          int64
	Contact     string
	ContactType ContactType
	Purpose     Purpose
	CodeHash    string
	UserID      *int64
	Metadata    valueobject.JSONMap
	IsUsed      bool
	IsExpired   bool
	ExpiresAt   time.Time
	UsedAt      *time.Time
	CreatedAt   time.Time
}

// NewCode carries the fields needed to persist a freshly issued code.
// UserID is nil for flows with no account yet (registration); Metadata is an
// opaque payload handed back to the caller on successful redemption.
type NewCode struct {
	ID          int64
	Contact     string
	ContactType ContactType
	Purpose     Purpose
	CodeHash    string
	UserID      *int64
	Metadata    valueobject.JSONMap
	ExpiresAt   time.Time
}

// ClaimResult is what one redeem attempt resolved to. UserID and Metadata
// are only populated on the redeemed outcome.
type ClaimResult struct {
	Outcome  RedeemOutcome
	UserID   *int64
	Metadata valueobject.JSONMap
}
