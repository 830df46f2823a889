package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/moolaigym/gymcore/internal/pkg/goerror"
	"github.com/moolaigym/gymcore/internal/pkg/mail"
	ventity "github.com/moolaigym/gymcore/internal/verification/entity"
	"github.com/samber/lo"
)

type ConsumeOTPIssuedInput struct {
	MemberID  int64
	Email     string `validate:"required,email"`
	FullName  string
	Purpose   string `validate:"required"`
	Code      string `validate:"required"`
	ExpiresAt time.Time
}

// ConsumeOTPIssued delivers a verification code by email. MemberID is zero
// for registration codes, where no account exists yet.
func (s *Usecase) ConsumeOTPIssued(ctx context.Context, in ConsumeOTPIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOTPIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	reason := "verification"
	subject := "Your verification code"
	if ventity.PurposeFromString(in.Purpose) == ventity.PurposePasswordReset {
		reason = "password reset"
		subject = "Your password reset code"
	}

	data := s.baseEmailTemplateData()
	data["full_name"] = lo.CoalesceOrEmpty(in.FullName, "there")
	data["reason"] = reason
	data["code"] = in.Code
	data["minutes"] = int(in.ExpiresAt.Sub(s.clock.Now()).Minutes())

	body, err := s.renderTemplate("otp_issued", otpIssuedEmailTemplate, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render otp email template", "error", err)
		return nil
	}

	if err := s.sendEmail(ctx, mail.Message{
		To:       []string{in.Email},
		Subject:  subject,
		HTMLBody: body,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send otp email", "member_id", in.MemberID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
