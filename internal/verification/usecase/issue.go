package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/moolaigym/gymcore/internal/pkg/goerror"
	"github.com/moolaigym/gymcore/internal/pkg/valueobject"
	"github.com/moolaigym/gymcore/internal/verification/entity"
)

type IssueInput struct {
	Contact     string `validate:"required"`
	ContactType string `validate:"required"`
	Purpose     string `validate:"required"`

	// UserID links the code to an account when one exists; registration has
	// none yet.
	UserID *int64

	// Metadata is stored opaquely and returned to whoever redeems the code.
	Metadata valueobject.JSONMap
}

type IssueOutput struct {
	Code      string
	ExpiresAt time.Time
}

// Issue generates a fresh code for the contact and purpose. Any still-live
// code for the same pair is expired in the same transaction, so at most one
// redeemable code exists per (contact, purpose) at any time.
func (s *Usecase) Issue(ctx context.Context, in IssueInput) (*IssueOutput, error) {
	ctx, span := s.startSpan(ctx, "Issue")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	purpose := entity.PurposeFromString(in.Purpose)
	if purpose.IsUnknown() {
		return nil, goerror.NewInvalidInput(nil, "purpose", "purpose is not recognized")
	}

	contactType := entity.ContactTypeFromString(in.ContactType)
	if contactType.IsUnknown() {
		return nil, goerror.NewInvalidInput(nil, "contact_type", "contact type is not recognized")
	}

	code, err := s.code.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate verification code", "error", err)
		return nil, goerror.NewServer(err)
	}

	codeHash, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash verification code", "error", err)
		return nil, goerror.NewServer(err)
	}

	contact := strings.TrimSpace(in.Contact)
	expiresAt := s.clock.Now().Add(s.cfg.GetMinute("modules.verification.code_ttl_minutes"))

	superseded, err := s.repoDB.CreateCodeSuperseding(ctx, entity.NewCode{
		ID:          s.uid.Generate(),
		Contact:     contact,
		ContactType: contactType,
		Purpose:     purpose,
		CodeHash:    string(codeHash),
		UserID:      in.UserID,
		Metadata:    in.Metadata,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create verification code", "purpose", purpose.String(), "error", err)
		return nil, goerror.NewServer(err)
	}

	if superseded > 0 {
		slog.InfoContext(ctx, "superseded previous verification codes",
			"purpose", purpose.String(), "count", superseded)
	}

	return &IssueOutput{Code: code, ExpiresAt: expiresAt}, nil
}
