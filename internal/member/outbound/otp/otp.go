package otp

import (
	"context"
	"time"

	"github.com/moolaigym/gymcore/internal/verification/entity"
	"github.com/moolaigym/gymcore/internal/verification/usecase"
)

type verifier interface {
	Issue(ctx context.Context, in usecase.IssueInput) (*usecase.IssueOutput, error)
	Redeem(ctx context.Context, in usecase.RedeemInput) (*usecase.RedeemOutput, error)
}

// Manager adapts the verification module's usecase to the flat contract the
// member module programs against. Member contacts are always email; the
// redeemed payload is dropped because member flows resolve the account from
// the contact themselves.
type Manager struct {
	uc verifier
}

func NewManager(uc verifier) *Manager {
	return &Manager{uc: uc}
}

func (m *Manager) Issue(ctx context.Context, contact, purpose string, userID *int64) (string, time.Time, error) {
	out, err := m.uc.Issue(ctx, usecase.IssueInput{
		Contact:     contact,
		ContactType: entity.ContactTypeEmail.String(),
		Purpose:     purpose,
		UserID:      userID,
	})
	if err != nil {
		return "", time.Time{}, err
	}

	return out.Code, out.ExpiresAt, nil
}

func (m *Manager) Redeem(ctx context.Context, contact, purpose, code string) error {
	_, err := m.uc.Redeem(ctx, usecase.RedeemInput{Contact: contact, Purpose: purpose, Code: code})
	return err
}
