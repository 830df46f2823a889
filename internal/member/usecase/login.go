package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/moolaigym/gymcore/internal/member/entity"
	"github.com/moolaigym/gymcore/internal/pkg/goerror"
	"github.com/moolaigym/gymcore/internal/pkg/jwt"
)

type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type LoginOutput struct {
	AccessToken string
	MemberID    int64
	FullName    string
	RequiresPin bool
}

// Login verifies the password under the progressive lockout policy. A success
// resets the counters and bumps the token version, so the returned token is
// the only live one for the account.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	email := strings.TrimSpace(in.Email)
	cred, err := s.repoDB.GetCredentialByEmail(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "member account not found", "email", email)
		return nil, goerror.NewPolicy(entity.ReasonInvalidCredentials, "invalid email or password", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get member credential", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	// Lock check comes before password verification: a locked account rejects
	// even the correct password, so the lock cannot be used as an oracle.
	now := s.clock.Now()
	if cred.LockedUntil != nil && cred.LockedUntil.After(now) {
		slog.WarnContext(ctx, "member account is locked", "member_id", cred.ID, "locked_until", cred.LockedUntil)
		return nil, goerror.NewPolicy(entity.ReasonAccountLocked,
			fmt.Sprintf("account is temporarily locked, try again in %d minutes", remainingMinutes(*cred.LockedUntil, now)),
			goerror.CodeLocked)
	}

	if err := s.ensureMemberStatusAllowed(ctx, cred.ID, cred.Status); err != nil {
		return nil, err
	}

	if !s.bcrypt.Verify(cred.Password, in.Password) {
		threshold := s.cfg.GetInt32("modules.member.max_login_attempts")
		lockUntil := now.Add(s.cfg.GetMinute("modules.member.login_lock_minutes"))

		res, ferr := s.repoDB.RecordLoginFailure(ctx, cred.ID, threshold, lockUntil)
		if ferr != nil {
			slog.ErrorContext(ctx, "failed to repo record login failure", "member_id", cred.ID, "error", ferr)
			return nil, goerror.NewServer(ferr)
		}

		if res.Locked(now) {
			slog.WarnContext(ctx, "member account locked after repeated failures",
				"member_id", cred.ID, "attempts", res.Attempts)
			s.publishAccountLocked(ctx, AccountLockedEvent{
				MemberID:    cred.ID,
				Email:       cred.Email,
				FullName:    cred.FullName,
				Scope:       entity.LockScopeLogin,
				Attempts:    res.Attempts,
				LockedUntil: *res.LockedUntil,
			})
			return nil, goerror.NewPolicy(entity.ReasonAccountLocked,
				fmt.Sprintf("account is temporarily locked, try again in %d minutes", remainingMinutes(*res.LockedUntil, now)),
				goerror.CodeLocked)
		}

		slog.WarnContext(ctx, "password member account not match", "member_id", cred.ID, "attempts", res.Attempts)
		return nil, goerror.NewPolicy(entity.ReasonInvalidCredentials,
			fmt.Sprintf("invalid email or password, %d attempts remaining", threshold-res.Attempts),
			goerror.CodeUnauthorized)
	}

	tokenVersion, err := s.repoDB.RecordLoginSuccess(ctx, cred.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo record login success", "member_id", cred.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	acToken, err := s.jwt.Generate(cred.ID, cred.Email, jwt.KindAccess, tokenVersion)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "member_id", cred.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	// RequiresPin steers the client toward PIN setup before the first
	// check-in; it carries no authorization weight on its own.
	return &LoginOutput{
		AccessToken: acToken,
		MemberID:    cred.ID,
		FullName:    cred.FullName,
		RequiresPin: !cred.HasPin,
	}, nil
}
