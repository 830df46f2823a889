package inbound

import (
	"context"

	"github.com/moolaigym/gymcore/internal/pkg/router"
	"github.com/moolaigym/gymcore/internal/verification/usecase"
)

type uc interface {
	Cleanup(ctx context.Context) (*usecase.CleanupOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Maintenance (need authenticated); intended for schedulers and operators.
	r.POST("/api/v1/verifications/cleanup", end.Cleanup)
}
