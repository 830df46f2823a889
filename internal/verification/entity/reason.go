package entity

// Stable rejection reasons returned to clients on redeem failures. Clients
// branch on these instead of parsing messages.
const (
	ReasonInvalidOTP     = "INVALID_OTP"
	ReasonOTPAlreadyUsed = "OTP_ALREADY_USED"
	ReasonOTPSuperseded  = "OTP_SUPERSEDED"
	ReasonOTPTimeExpired = "OTP_TIME_EXPIRED"
)
