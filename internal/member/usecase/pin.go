package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/moolaigym/gymcore/internal/member/entity"
	"github.com/moolaigym/gymcore/internal/pkg/goerror"
	"github.com/moolaigym/gymcore/internal/pkg/jwt"
)

func (s *Usecase) getPinCredential(ctx context.Context, memberID int64) (*entity.PinCredential, error) {
	cred, err := s.repoDB.GetPinCredential(ctx, memberID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "member account not found", "member_id", memberID)
		return nil, goerror.NewBusiness("account not found", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get member pin credential", "member_id", memberID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return cred, nil
}

// recordPinFailure bumps the PIN counter and translates the result into the
// rejection for this attempt: PIN_LOCKED when this failure armed the lock,
// otherwise the caller-supplied mismatch reason.
func (s *Usecase) recordPinFailure(ctx context.Context, cred *entity.PinCredential, reason string, now time.Time) error {
	threshold := s.cfg.GetInt32("modules.member.max_pin_attempts")
	lockUntil := now.Add(s.cfg.GetMinute("modules.member.pin_lock_minutes"))

	res, err := s.repoDB.RecordPinFailure(ctx, cred.ID, threshold, lockUntil)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo record pin failure", "member_id", cred.ID, "error", err)
		return goerror.NewServer(err)
	}

	if res.Locked(now) {
		slog.WarnContext(ctx, "member pin locked after repeated failures",
			"member_id", cred.ID, "attempts", res.Attempts)
		s.publishAccountLocked(ctx, AccountLockedEvent{
			MemberID:    cred.ID,
			Email:       cred.Email,
			FullName:    cred.FullName,
			Scope:       entity.LockScopePin,
			Attempts:    res.Attempts,
			LockedUntil: *res.LockedUntil,
		})
		return goerror.NewPolicy(entity.ReasonPinLocked,
			fmt.Sprintf("PIN is temporarily locked, try again in %d minutes", remainingMinutes(*res.LockedUntil, now)),
			goerror.CodeLocked)
	}

	slog.WarnContext(ctx, "pin member account not match", "member_id", cred.ID, "attempts", res.Attempts)
	return goerror.NewPolicy(reason,
		fmt.Sprintf("PIN is incorrect, %d attempts remaining", threshold-res.Attempts),
		goerror.CodeUnauthorized)
}

type PinSetInput struct {
	Pin string `validate:"required,pin"`
}

// PinSet stores the first PIN for the account. Replacing an existing PIN
// goes through PinChange, which requires the old one.
func (s *Usecase) PinSet(ctx context.Context, in PinSetInput) error {
	ctx, span := s.startSpan(ctx, "PinSet")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	cred, err := s.getPinCredential(ctx, clm.UserID)
	if err != nil {
		return err
	}

	if err := s.ensureMemberStatusAllowed(ctx, cred.ID, cred.Status); err != nil {
		return err
	}

	if cred.Pin != "" {
		slog.WarnContext(ctx, "pin already set for member", "member_id", cred.ID)
		return goerror.NewPolicy(entity.ReasonPinAlreadySet, "a PIN is already set, use change instead", goerror.CodeConflict)
	}

	pinHash, err := s.bcrypt.Hash(in.Pin)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash pin", "member_id", cred.ID, "error", err)
		return goerror.NewServer(err)
	}

	ok, err := s.repoDB.SetPinIfUnset(ctx, cred.ID, string(pinHash))
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo set pin", "member_id", cred.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !ok {
		slog.WarnContext(ctx, "pin already set for member", "member_id", cred.ID)
		return goerror.NewPolicy(entity.ReasonPinAlreadySet, "a PIN is already set, use change instead", goerror.CodeConflict)
	}

	return nil
}

type PinVerifyInput struct {
	Pin string `validate:"required,pin"`
}

type PinVerifyOutput struct {
	PinToken string
}

// PinVerify checks the PIN under its own lockout policy and returns a
// short-lived PIN session token. Verifying does not rotate the PIN, so the
// PIN version is embedded as-is.
func (s *Usecase) PinVerify(ctx context.Context, in PinVerifyInput) (*PinVerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "PinVerify")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	cred, err := s.getPinCredential(ctx, clm.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureMemberStatusAllowed(ctx, cred.ID, cred.Status); err != nil {
		return nil, err
	}

	if cred.Pin == "" {
		slog.WarnContext(ctx, "pin not set for member", "member_id", cred.ID)
		return nil, goerror.NewPolicy(entity.ReasonPinNotSet, "no PIN is set for this account", goerror.CodeInvalidFormat)
	}

	now := s.clock.Now()
	if cred.PinLockedUntil != nil && cred.PinLockedUntil.After(now) {
		slog.WarnContext(ctx, "member pin is locked", "member_id", cred.ID, "locked_until", cred.PinLockedUntil)
		return nil, goerror.NewPolicy(entity.ReasonPinLocked,
			fmt.Sprintf("PIN is temporarily locked, try again in %d minutes", remainingMinutes(*cred.PinLockedUntil, now)),
			goerror.CodeLocked)
	}

	if !s.bcrypt.Verify(cred.Pin, in.Pin) {
		return nil, s.recordPinFailure(ctx, cred, entity.ReasonInvalidPin, now)
	}

	if err := s.repoDB.RecordPinSuccess(ctx, cred.ID); err != nil {
		slog.ErrorContext(ctx, "failed to repo record pin success", "member_id", cred.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	pinToken, err := s.jwt.Generate(cred.ID, cred.Email, jwt.KindPinSession, cred.PinVersion)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate pin session jwt token", "member_id", cred.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &PinVerifyOutput{PinToken: pinToken}, nil
}

type PinChangeInput struct {
	OldPin string `validate:"required,pin"`
	NewPin string `validate:"required,pin"`
}

// PinChange replaces the PIN after re-proving the old one. The PIN version
// bump inside the update kills outstanding PIN session tokens.
func (s *Usecase) PinChange(ctx context.Context, in PinChangeInput) error {
	ctx, span := s.startSpan(ctx, "PinChange")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	cred, err := s.getPinCredential(ctx, clm.UserID)
	if err != nil {
		return err
	}

	if err := s.ensureMemberStatusAllowed(ctx, cred.ID, cred.Status); err != nil {
		return err
	}

	if cred.Pin == "" {
		slog.WarnContext(ctx, "pin not set for member", "member_id", cred.ID)
		return goerror.NewPolicy(entity.ReasonPinNotSet, "no PIN is set for this account", goerror.CodeInvalidFormat)
	}

	now := s.clock.Now()
	if cred.PinLockedUntil != nil && cred.PinLockedUntil.After(now) {
		slog.WarnContext(ctx, "member pin is locked", "member_id", cred.ID, "locked_until", cred.PinLockedUntil)
		return goerror.NewPolicy(entity.ReasonPinLocked,
			fmt.Sprintf("PIN is temporarily locked, try again in %d minutes", remainingMinutes(*cred.PinLockedUntil, now)),
			goerror.CodeLocked)
	}

	if !s.bcrypt.Verify(cred.Pin, in.OldPin) {
		return s.recordPinFailure(ctx, cred, entity.ReasonInvalidOldPin, now)
	}

	if in.NewPin == in.OldPin {
		slog.WarnContext(ctx, "new pin equals old pin", "member_id", cred.ID)
		return goerror.NewPolicy(entity.ReasonSamePin, "new PIN must be different from the old one", goerror.CodeConflict)
	}

	pinHash, err := s.bcrypt.Hash(in.NewPin)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash pin", "member_id", cred.ID, "error", err)
		return goerror.NewServer(err)
	}

	if _, err := s.repoDB.UpdatePin(ctx, cred.ID, string(pinHash)); err != nil {
		slog.ErrorContext(ctx, "failed to repo update pin", "member_id", cred.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
