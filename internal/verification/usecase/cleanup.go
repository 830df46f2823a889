package usecase

import (
	"context"
	"log/slog"

	"github.com/moolaigym/gymcore/internal/pkg/goerror"
)

type CleanupOutput struct {
	Deleted int64
}

// Cleanup deletes codes whose validity deadline passed more than the
// configured retention window ago. Recently expired rows are kept so redeem
// attempts still get a precise rejection instead of a generic mismatch.
func (s *Usecase) Cleanup(ctx context.Context) (*CleanupOutput, error) {
	ctx, span := s.startSpan(ctx, "Cleanup")
	defer span.End()

	cutoff := s.clock.Now().Add(-s.cfg.GetHour("modules.verification.retention_hours"))

	deleted, err := s.repoDB.DeleteCodesExpiredBefore(ctx, cutoff)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete expired verification codes", "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "verification code cleanup finished", "deleted", deleted, "cutoff", cutoff)

	return &CleanupOutput{Deleted: deleted}, nil
}
