package event

import "time"

const MemberAccountLockedDestination string = "member_account_locked"
const MemberAccountLockedDestinationConsumerNotification string = "member_account_locked_notification"

type MemberAccountLockedMessage struct {
	MemberID    int64     `json:"member_id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	Scope       string    `json:"scope"`
	Attempts    int32     `json:"attempts"`
	LockedUntil time.Time `json:"locked_until"`
}
