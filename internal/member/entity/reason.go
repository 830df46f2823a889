package entity

// Stable rejection reasons for credential and PIN policy failures. Clients
// branch on these instead of parsing messages.
const (
	ReasonAccountLocked      = "ACCOUNT_LOCKED"
	ReasonAccountInactive    = "ACCOUNT_INACTIVE"
	ReasonInvalidCredentials = "INVALID_CREDENTIALS"
	ReasonInvalidOldPassword = "INVALID_OLD_PASSWORD"

	ReasonPinNotSet     = "PIN_NOT_SET"
	ReasonPinAlreadySet = "PIN_ALREADY_SET"
	ReasonPinLocked     = "PIN_LOCKED"
	ReasonInvalidPin    = "INVALID_PIN"
	ReasonInvalidOldPin = "INVALID_OLD_PIN"
	ReasonSamePin       = "SAME_PIN"
)

// Lockout scopes used when publishing account-locked events.
const (
	LockScopeLogin = "login"
	LockScopePin   = "pin"
)
