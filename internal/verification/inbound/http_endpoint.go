package inbound

import (
	"github.com/moolaigym/gymcore/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for verification code maintenance.
type HTTPEndpoint struct {
	uc uc
}

// Cleanup purges verification codes past the retention window.
// @Summary Purge old verification codes
// @Description Deletes codes whose validity ended before the retention window. Intended to be called by a scheduler.
// @Tags Verification
// @Produce json
// @Success 200 {object} router.successResponse{data=CleanupResponse} "Cleanup result"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/verifications/cleanup [post]
func (h *HTTPEndpoint) Cleanup(r *router.Request) (any, error) {
	resp, err := h.uc.Cleanup(r.Context())
	if err != nil {
		return nil, err
	}

	return CleanupResponse{Deleted: resp.Deleted}, nil
}
