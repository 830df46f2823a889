package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/moolaigym/gymcore/internal/member/entity"
	"github.com/moolaigym/gymcore/internal/pkg/goerror"
	"github.com/moolaigym/gymcore/internal/pkg/jwt"
)

// CheckSession re-validates parsed token claims against current account
// state. The version inside the token must match the stored one: a later
// login, logout or credential change bumps the stored version and every
// older token dies here, regardless of its expiry.
func (s *Usecase) CheckSession(ctx context.Context, clm jwt.Claims) (context.Context, error) {
	info, err := s.repoDB.GetVersionInfo(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "member account not found for session", "member_id", clm.UserID)
		return ctx, goerror.NewBusiness("Invalid or expired token", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get member version info", "member_id", clm.UserID, "error", err)
		return ctx, goerror.NewServer(err)
	}

	if info.Status.Ensure() != entity.MemberStatusActive {
		slog.WarnContext(ctx, "member account is not active for session", "member_id", clm.UserID)
		return ctx, goerror.NewPolicy(entity.ReasonAccountInactive, "account is inactive, contact the front desk", goerror.CodeUnauthorized)
	}

	switch clm.Kind {
	case jwt.KindPinSession:
		if clm.Version != info.PinVersion {
			slog.WarnContext(ctx, "pin session token version mismatch", "member_id", clm.UserID)
			return ctx, goerror.NewBusiness("PIN verification required", goerror.CodeUnauthorized)
		}

	default:
		if clm.Version != info.TokenVersion {
			slog.WarnContext(ctx, "access token version mismatch", "member_id", clm.UserID)
			return ctx, goerror.NewBusiness("Invalid or expired token", goerror.CodeUnauthorized)
		}
	}

	return ctx, nil
}
