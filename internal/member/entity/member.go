package entity

import "time"

// Member is the profile view of an account.
type Member struct {
	ID        int64
	Email     string
	Phone     string
	FullName  string
	Status    MemberStatus
	HasPin    bool
	CreatedAt time.Time
}

// NewMember carries the fields needed to persist a freshly registered member.
type NewMember struct {
	ID       int64
	Email    string
	Phone    string
	FullName string
	Status   MemberStatus
}

// Credential is the login view of an account: the password digest plus the
// lockout counters and the token version guarding issued sessions.
type Credential struct {
	ID                  int64
	Email               string
	FullName            string
	Status              MemberStatus
	Password            string
	HasPin              bool
	FailedLoginAttempts int32
	LockedUntil         *time.Time
	TokenVersion        int32
}

// PinCredential is the PIN view of an account. Pin is empty until the member
// sets one.
type PinCredential struct {
	ID                int64
	Email             string
	FullName          string
	Status            MemberStatus
	Pin               string
	FailedPinAttempts int32
	PinLockedUntil    *time.Time
	PinVersion        int32
}

// VersionInfo is the minimal record needed to re-check a presented token
// against current account state.
type VersionInfo struct {
	ID           int64
	Status       MemberStatus
	TokenVersion int32
	PinVersion   int32
}

// LockoutResult reports the counter state after a recorded failure.
type LockoutResult struct {
	Attempts    int32
	LockedUntil *time.Time
}

// Locked reports whether the result left the account locked at the given time.
func (r LockoutResult) Locked(now time.Time) bool {
	return r.LockedUntil != nil && r.LockedUntil.After(now)
}
