package entity

type MemberStatus int16

const (
	// MemberStatusUnknown is mean status is not known / not set.
	MemberStatusUnknown MemberStatus = 0

	// MemberStatusActive mean the member may log in and use the app.
	MemberStatusActive MemberStatus = 1

	// MemberStatusInactive mean the membership is deactivated (expired,
	// frozen, or closed by the front desk).
	MemberStatusInactive MemberStatus = 2
)

func (ms MemberStatus) String() string {
	switch ms {
	case MemberStatusActive:
		return "Active"
	case MemberStatusInactive:
		return "Inactive"
	default:
		return "Unknown"
	}
}

func (ms MemberStatus) Ensure() MemberStatus {
	switch ms {
	case MemberStatusActive:
		return MemberStatusActive
	case MemberStatusInactive:
		return MemberStatusInactive
	default:
		return MemberStatusUnknown
	}
}
