package entity

// Purpose scopes a verification code to one workflow. Codes issued for one
// purpose can never be redeemed for another.
type Purpose string

const (
	// PurposeUnknown means the purpose is not known / not set.
	PurposeUnknown Purpose = ""

	// PurposeRegistration verifies contact ownership before account creation.
	PurposeRegistration Purpose = "registration_verification"

	// PurposePasswordReset authorizes a password reset for an existing account.
	PurposePasswordReset Purpose = "password_reset"

	// PurposeEmailVerification confirms a new or changed email address.
	PurposeEmailVerification Purpose = "email_verification"

	// PurposePhoneVerification confirms a new or changed phone number.
	PurposePhoneVerification Purpose = "phone_verification"

	// PurposeTwoFactorAuth is a second factor on top of the password.
	PurposeTwoFactorAuth Purpose = "two_factor_auth"

	// PurposeTransactionVerification confirms a sensitive POS transaction.
	PurposeTransactionVerification Purpose = "transaction_verification"

	// PurposeLoginVerification confirms a sign-in from a new device.
	PurposeLoginVerification Purpose = "login_verification"
)

func PurposeFromString(s string) Purpose {
	switch p := Purpose(s); p {
	case PurposeRegistration, PurposePasswordReset,
		PurposeEmailVerification, PurposePhoneVerification,
		PurposeTwoFactorAuth, PurposeTransactionVerification, PurposeLoginVerification:
		return p
	default:
		return PurposeUnknown
	}
}

func (p Purpose) String() string {
	return string(p)
}

func (p Purpose) IsUnknown() bool {
	return PurposeFromString(string(p)) == PurposeUnknown
}

// ContactType says which kind of address a code was delivered to.
type ContactType string

const (
	ContactTypeUnknown ContactType = ""
	ContactTypeEmail   ContactType = "email"
	ContactTypePhone   ContactType = "phone"
)

func ContactTypeFromString(s string) ContactType {
	switch c := ContactType(s); c {
	case ContactTypeEmail, ContactTypePhone:
		return c
	default:
		return ContactTypeUnknown
	}
}

func (c ContactType) String() string {
	return string(c)
}

func (c ContactType) IsUnknown() bool {
	return ContactTypeFromString(string(c)) == ContactTypeUnknown
}

// RedeemOutcome is the storage-level result of a redeem attempt. The state
// transition happens inside one transaction; the usecase only maps the
// outcome to a client-facing rejection.
type RedeemOutcome int16

const (
	// RedeemOutcomeNotFound means no row matches contact, purpose and digest.
	RedeemOutcomeNotFound RedeemOutcome = 0

	// RedeemOutcomeRedeemed means the code was live and is now consumed.
	RedeemOutcomeRedeemed RedeemOutcome = 1

	// RedeemOutcomeAlreadyUsed means the code was consumed by an earlier attempt.
	RedeemOutcomeAlreadyUsed RedeemOutcome = 2

	// RedeemOutcomeSuperseded means a newer code for the same contact and
	// purpose replaced this one.
	RedeemOutcomeSuperseded RedeemOutcome = 3

	// RedeemOutcomeTimeExpired means the code's validity window has passed.
	RedeemOutcomeTimeExpired RedeemOutcome = 4
)

func (o RedeemOutcome) String() string {
	switch o {
	case RedeemOutcomeRedeemed:
		return "Redeemed"
	case RedeemOutcomeAlreadyUsed:
		return "AlreadyUsed"
	case RedeemOutcomeSuperseded:
		return "Superseded"
	case RedeemOutcomeTimeExpired:
		return "TimeExpired"
	default:
		return "NotFound"
	}
}
