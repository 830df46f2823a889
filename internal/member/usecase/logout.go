package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/moolaigym/gymcore/internal/pkg/goerror"
)

// Logout bumps the token version, which kills every access token issued for
// the account, including the one used to call this.
func (s *Usecase) Logout(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return err
	}

	if _, err := s.repoDB.BumpTokenVersion(ctx, clm.UserID); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			slog.WarnContext(ctx, "member account not found on logout", "member_id", clm.UserID)
			return goerror.NewBusiness("account not found", goerror.CodeUnauthorized)
		}
		slog.ErrorContext(ctx, "failed to repo bump token version", "member_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
