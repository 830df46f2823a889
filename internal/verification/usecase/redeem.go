package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/moolaigym/gymcore/internal/pkg/goerror"
	"github.com/moolaigym/gymcore/internal/pkg/valueobject"
	"github.com/moolaigym/gymcore/internal/verification/entity"
)

type RedeemInput struct {
	Contact string `validate:"required"`
	Purpose string `validate:"required"`
	Code    string `validate:"required,otp"`
}

// RedeemOutput hands back what was stored at issue time so the caller can
// act on it (create the account, permit the password change).
type RedeemOutput struct {
	UserID   *int64
	Metadata valueobject.JSONMap
}

// Redeem consumes a code. The storage layer decides the outcome under a row
// lock; this layer only translates the outcome into a client rejection.
//
// A wrong-code attempt never reveals whether a code exists for the contact,
// and the rejection reasons are ordered most-specific first: a consumed code
// reports reuse, a replaced code reports supersession, and only a live code
// past its deadline reports time expiry.
func (s *Usecase) Redeem(ctx context.Context, in RedeemInput) (*RedeemOutput, error) {
	ctx, span := s.startSpan(ctx, "Redeem")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	purpose := entity.PurposeFromString(in.Purpose)
	if purpose.IsUnknown() {
		return nil, goerror.NewInvalidInput(nil, "purpose", "purpose is not recognized")
	}

	codeHash, err := s.hmac.Hash(in.Code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash verification code", "error", err)
		return nil, goerror.NewServer(err)
	}

	contact := strings.TrimSpace(in.Contact)
	res, err := s.repoDB.ClaimCode(ctx, contact, purpose, string(codeHash), s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo claim verification code", "purpose", purpose.String(), "error", err)
		return nil, goerror.NewServer(err)
	}

	switch res.Outcome {
	case entity.RedeemOutcomeRedeemed:
		return &RedeemOutput{UserID: res.UserID, Metadata: res.Metadata}, nil

	case entity.RedeemOutcomeAlreadyUsed:
		slog.WarnContext(ctx, "verification code already used", "purpose", purpose.String())
		return nil, goerror.NewPolicy(entity.ReasonOTPAlreadyUsed, "code has already been used", goerror.CodeConflict)

	case entity.RedeemOutcomeSuperseded:
		slog.WarnContext(ctx, "verification code superseded by a newer one", "purpose", purpose.String())
		return nil, goerror.NewPolicy(entity.ReasonOTPSuperseded, "a newer code was requested, use the latest one", goerror.CodeConflict)

	case entity.RedeemOutcomeTimeExpired:
		slog.WarnContext(ctx, "verification code expired", "purpose", purpose.String())
		return nil, goerror.NewPolicy(entity.ReasonOTPTimeExpired, "code has expired, request a new one", goerror.CodeGone)

	default:
		slog.WarnContext(ctx, "verification code does not match", "purpose", purpose.String())
		return nil, goerror.NewPolicy(entity.ReasonInvalidOTP, "invalid verification code", goerror.CodeUnauthorized)
	}
}
