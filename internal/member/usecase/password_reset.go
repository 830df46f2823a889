package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/moolaigym/gymcore/internal/pkg/goerror"
	ventity "github.com/moolaigym/gymcore/internal/verification/entity"
)

type PasswordResetInput struct {
	Email       string `validate:"required,email"`
	Code        string `validate:"required,otp"`
	NewPassword string `validate:"required,password"`
}

// PasswordReset redeems the reset code and replaces the password. The token
// version bump inside the update kills every live session for the account.
func (s *Usecase) PasswordReset(ctx context.Context, in PasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "PasswordReset")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	email := strings.TrimSpace(in.Email)
	if err := s.otp.Redeem(ctx, email, ventity.PurposePasswordReset.String(), in.Code); err != nil {
		return err
	}

	member, err := s.repoDB.GetMemberByEmail(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "password reset for unknown email", "email", email)
		return goerror.NewBusiness("account not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get member by email", "email", email, "error", err)
		return goerror.NewServer(err)
	}

	pwdHash, err := s.bcrypt.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "member_id", member.ID, "error", err)
		return goerror.NewServer(err)
	}

	if _, err := s.repoDB.UpdatePassword(ctx, member.ID, string(pwdHash)); err != nil {
		slog.ErrorContext(ctx, "failed to repo update password", "member_id", member.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
