package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/moolaigym/gymcore/internal/member/entity"
	"github.com/moolaigym/gymcore/internal/pkg/goerror"
	"github.com/moolaigym/gymcore/internal/pkg/mail"
	"github.com/samber/lo"
)

type ConsumeAccountLockedInput struct {
	MemberID    int64     `validate:"required,gt=0"`
	Email       string    `validate:"required,email"`
	FullName    string
	Scope       string    `validate:"required"`
	Attempts    int32     `validate:"required,gt=0"`
	LockedUntil time.Time `validate:"required"`
}

// ConsumeAccountLocked sends the security notice after repeated failures
// locked the account's password or PIN.
func (s *Usecase) ConsumeAccountLocked(ctx context.Context, in ConsumeAccountLockedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeAccountLocked")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	scope := "sign-in"
	if in.Scope == entity.LockScopePin {
		scope = "PIN"
	}

	data := s.baseEmailTemplateData()
	data["full_name"] = lo.CoalesceOrEmpty(in.FullName, "there")
	data["scope"] = scope
	data["attempts"] = in.Attempts
	data["locked_until"] = in.LockedUntil.Format("15:04 MST, 2 Jan 2006")

	body, err := s.renderTemplate("account_locked", accountLockedEmailTemplate, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render account locked email template", "error", err)
		return nil
	}

	if err := s.sendEmail(ctx, mail.Message{
		To:       []string{in.Email},
		Subject:  "Security alert: account temporarily locked",
		HTMLBody: body,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send account locked email", "member_id", in.MemberID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
