package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/moolaigym/gymcore/internal/member/entity"
	"github.com/moolaigym/gymcore/internal/pkg/goerror"
	ventity "github.com/moolaigym/gymcore/internal/verification/entity"
)

type PasswordForgotInput struct {
	Email string `validate:"required,email"`
}

// PasswordForgot issues a password-reset code for the account. The response
// is identical whether or not the email exists, so the endpoint cannot be
// used to enumerate members.
func (s *Usecase) PasswordForgot(ctx context.Context, in PasswordForgotInput) error {
	ctx, span := s.startSpan(ctx, "PasswordForgot")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	email := strings.TrimSpace(in.Email)
	member, err := s.repoDB.GetMemberByEmail(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "password forgot for unknown email", "email", email)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get member by email", "email", email, "error", err)
		return goerror.NewServer(err)
	}

	if member.Status.Ensure() != entity.MemberStatusActive {
		slog.WarnContext(ctx, "password forgot for inactive member", "member_id", member.ID)
		return nil
	}

	return s.requestOTP(ctx, ventity.PurposePasswordReset.String()+":"+email, func(ctx context.Context) error {
		code, expiresAt, err := s.otp.Issue(ctx, email, ventity.PurposePasswordReset.String(), &member.ID)
		if err != nil {
			return err
		}

		if err := s.repoMessaging.PublishOTPIssued(ctx, OTPIssuedEvent{
			MemberID:  member.ID,
			Email:     member.Email,
			FullName:  member.FullName,
			Purpose:   ventity.PurposePasswordReset.String(),
			Code:      code,
			ExpiresAt: expiresAt,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to publish otp issued event", "member_id", member.ID, "error", err)
			return goerror.NewServer(err)
		}

		return nil
	})
}
