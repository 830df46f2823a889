package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/moolaigym/gymcore/internal/pkg/goerror"
)

type ProfileOutput struct {
	ID       int64
	Email    string
	Phone    string
	FullName string
	Status   string
	HasPin   bool
	JoinedAt time.Time
}

// Profile returns the authenticated member's account view.
func (s *Usecase) Profile(ctx context.Context) (*ProfileOutput, error) {
	ctx, span := s.startSpan(ctx, "Profile")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	member, err := s.repoDB.GetMemberByID(ctx, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "member account not found", "member_id", clm.UserID)
		return nil, goerror.NewBusiness("account not found", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get member", "member_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.ensureMemberStatusAllowed(ctx, member.ID, member.Status); err != nil {
		return nil, err
	}

	return &ProfileOutput{
		ID:       member.ID,
		Email:    member.Email,
		Phone:    member.Phone,
		FullName: member.FullName,
		Status:   member.Status.String(),
		HasPin:   member.HasPin,
		JoinedAt: member.CreatedAt,
	}, nil
}
