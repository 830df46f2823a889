package inbound

type CleanupResponse struct {
	Deleted int64 `json:"deleted"`
}

func (CleanupResponse) Message() string {
	return "Verification code cleanup finished."
}
