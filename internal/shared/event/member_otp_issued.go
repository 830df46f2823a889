package event

import "time"

const MemberOTPIssuedDestination string = "member_otp_issued"
const MemberOTPIssuedDestinationConsumerNotification string = "member_otp_issued_notification"

type MemberOTPIssuedMessage struct {
	MemberID  int64     `json:"member_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Purpose   string    `json:"purpose"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}
