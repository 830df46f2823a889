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

type RegisterRequestOTPInput struct {
	Email string `validate:"required,email"`
}

// RegisterRequestOTP issues a registration code for a yet-unregistered email
// and hands it to the notification pipeline for delivery. Re-requesting
// supersedes the previous code.
func (s *Usecase) RegisterRequestOTP(ctx context.Context, in RegisterRequestOTPInput) error {
	ctx, span := s.startSpan(ctx, "RegisterRequestOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	email := strings.TrimSpace(in.Email)
	_, err := s.repoDB.GetMemberByEmail(ctx, email)
	if err == nil {
		slog.WarnContext(ctx, "registration otp requested for registered email", "email", email)
		return goerror.NewBusiness("email is already registered", goerror.CodeConflict)
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get member by email", "email", email, "error", err)
		return goerror.NewServer(err)
	}

	return s.requestOTP(ctx, ventity.PurposeRegistration.String()+":"+email, func(ctx context.Context) error {
		code, expiresAt, err := s.otp.Issue(ctx, email, ventity.PurposeRegistration.String(), nil)
		if err != nil {
			return err
		}

		if err := s.repoMessaging.PublishOTPIssued(ctx, OTPIssuedEvent{
			Email:     email,
			Purpose:   ventity.PurposeRegistration.String(),
			Code:      code,
			ExpiresAt: expiresAt,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to publish otp issued event", "email", email, "error", err)
			return goerror.NewServer(err)
		}

		return nil
	})
}

type RegisterInput struct {
	Email    string `validate:"required,email"`
	FullName string `validate:"required,min=2,max=100"`
	Phone    string `validate:"omitempty,e164"`
	Password string `validate:"required,password"`
	Code     string `validate:"required,otp"`
}

// Register redeems the registration code and creates the account. The code
// is single-use, so a replayed registration request fails on the redeem.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) error {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	email := strings.TrimSpace(in.Email)
	if err := s.otp.Redeem(ctx, email, ventity.PurposeRegistration.String(), in.Code); err != nil {
		return err
	}

	pwdHash, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return goerror.NewServer(err)
	}

	err = s.repoDB.CreateMember(ctx, entity.NewMember{
		ID:       s.uid.Generate(),
		Email:    email,
		Phone:    strings.TrimSpace(in.Phone),
		FullName: strings.TrimSpace(in.FullName),
		Status:   entity.MemberStatusActive,
	}, string(pwdHash))
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "registration hit an already registered email", "email", email)
		return goerror.NewBusiness("email is already registered", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create member", "email", email, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
