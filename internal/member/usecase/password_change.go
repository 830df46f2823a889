package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/moolaigym/gymcore/internal/member/entity"
	"github.com/moolaigym/gymcore/internal/pkg/goerror"
	"github.com/moolaigym/gymcore/internal/pkg/jwt"
)

type PasswordChangeInput struct {
	CurrentPassword string `validate:"required"`
	NewPassword     string `validate:"required,password"`
}

type PasswordChangeOutput struct {
	AccessToken string
}

// PasswordChange replaces the password after re-proving the current one.
// Every other session dies with the token version bump; the caller gets a
// fresh token carrying the new version so they stay logged in.
func (s *Usecase) PasswordChange(ctx context.Context, in PasswordChangeInput) (*PasswordChangeOutput, error) {
	ctx, span := s.startSpan(ctx, "PasswordChange")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	cred, err := s.repoDB.GetCredentialByID(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "member account not found", "member_id", clm.UserID)
		return nil, goerror.NewBusiness("account not found", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get member credential", "member_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.ensureMemberStatusAllowed(ctx, cred.ID, cred.Status); err != nil {
		return nil, err
	}

	if !s.bcrypt.Verify(cred.Password, in.CurrentPassword) {
		slog.WarnContext(ctx, "current password not match", "member_id", cred.ID)
		return nil, goerror.NewPolicy(entity.ReasonInvalidOldPassword, "current password is incorrect", goerror.CodeUnauthorized)
	}

	pwdHash, err := s.bcrypt.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "member_id", cred.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	tokenVersion, err := s.repoDB.UpdatePassword(ctx, cred.ID, string(pwdHash))
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update password", "member_id", cred.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	acToken, err := s.jwt.Generate(cred.ID, cred.Email, jwt.KindAccess, tokenVersion)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "member_id", cred.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &PasswordChangeOutput{AccessToken: acToken}, nil
}
