package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/moolaigym/gymcore/internal/member/entity"
	"github.com/moolaigym/gymcore/internal/pkg/clock"
	"github.com/moolaigym/gymcore/internal/pkg/config"
	"github.com/moolaigym/gymcore/internal/pkg/goerror"
	"github.com/moolaigym/gymcore/internal/pkg/goroutine"
	"github.com/moolaigym/gymcore/internal/pkg/hash"
	"github.com/moolaigym/gymcore/internal/pkg/idempotency"
	"github.com/moolaigym/gymcore/internal/pkg/instrument"
	"github.com/moolaigym/gymcore/internal/pkg/jwt"
	"github.com/moolaigym/gymcore/internal/pkg/uid"
	"github.com/moolaigym/gymcore/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type OTPIssuedEvent struct {
	MemberID  int64
	Email     string
	FullName  string
	Purpose   string
	Code      string
	ExpiresAt time.Time
}

type AccountLockedEvent struct {
	MemberID    int64
	Email       string
	FullName    string
	Scope       string
	Attempts    int32
	LockedUntil time.Time
}

type repoMessaging interface {
	PublishOTPIssued(ctx context.Context, msg OTPIssuedEvent) error
	PublishAccountLocked(ctx context.Context, msg AccountLockedEvent) error
}

type repoDB interface {
	GetCredentialByEmail(ctx context.Context, email string) (*entity.Credential, error)
	GetCredentialByID(ctx context.Context, id int64) (*entity.Credential, error)
	GetPinCredential(ctx context.Context, id int64) (*entity.PinCredential, error)
	GetVersionInfo(ctx context.Context, id int64) (*entity.VersionInfo, error)
	GetMemberByEmail(ctx context.Context, email string) (*entity.Member, error)
	GetMemberByID(ctx context.Context, id int64) (*entity.Member, error)

	CreateMember(ctx context.Context, member entity.NewMember, hash string) error

	RecordLoginFailure(ctx context.Context, id int64, threshold int32, lockUntil time.Time) (entity.LockoutResult, error)
	RecordLoginSuccess(ctx context.Context, id int64) (int32, error)
	UpdatePassword(ctx context.Context, id int64, hash string) (int32, error)
	BumpTokenVersion(ctx context.Context, id int64) (int32, error)

	RecordPinFailure(ctx context.Context, id int64, threshold int32, lockUntil time.Time) (entity.LockoutResult, error)
	RecordPinSuccess(ctx context.Context, id int64) error
	SetPinIfUnset(ctx context.Context, id int64, hash string) (bool, error)
	UpdatePin(ctx context.Context, id int64, hash string) (int32, error)
}

// otpManager is the in-process door to the verification module. Issue hands
// back the plain code so it can be delivered out-of-band; Redeem consumes it.
// userID is nil when no account exists yet.
type otpManager interface {
	Issue(ctx context.Context, contact, purpose string, userID *int64) (code string, expiresAt time.Time, err error)
	Redeem(ctx context.Context, contact, purpose, code string) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	otp           otpManager
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	bcrypt        hash.Hash
	uid           uid.NumberID
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	OTP           otpManager
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	Bcrypt        hash.Hash
	UID           uid.NumberID
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		otp:           dep.OTP,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		bcrypt:        dep.Bcrypt,
		uid:           dep.UID,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("member.usecase").Start(ctx, name)
}

// remainingMinutes reports the whole minutes left until the lock lifts, never
// less than one so the message stays truthful right before expiry.
func remainingMinutes(until, now time.Time) int {
	minutes := int(until.Sub(now).Minutes())
	if minutes < 1 {
		minutes = 1
	}

	return minutes
}

func (s *Usecase) authenticated(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	return clm, nil
}

func (s *Usecase) ensureMemberStatusAllowed(ctx context.Context, memberID int64, status entity.MemberStatus) error {
	switch status.Ensure() {
	case entity.MemberStatusUnknown:
		slog.WarnContext(ctx, "member account status is unrecognized", "member_id", memberID)
		return goerror.NewBusiness("account status is unrecognized", goerror.CodeForbidden)

	case entity.MemberStatusInactive:
		slog.WarnContext(ctx, "member account is inactive", "member_id", memberID)
		return goerror.NewPolicy(entity.ReasonAccountInactive, "account is inactive, contact the front desk", goerror.CodeForbidden)

	default:
		return nil
	}
}

// otpRequestWindow is how long a finished OTP request suppresses an
// identical one. Short enough that a member who never got the email can ask
// again, long enough to absorb a double-submitted form.
const otpRequestWindow = 30 * time.Second

// requestOTP runs the issue-and-publish flow at most once per key inside the
// suppression window. A duplicate of a successful request is answered as a
// success without issuing a second code.
func (s *Usecase) requestOTP(ctx context.Context, key string, fn func(context.Context) error) error {
	err := s.idemp.Exec(ctx, "otp-request:"+key, fn,
		idempotency.WithLockDuration(otpRequestWindow),
		idempotency.WithStateTTL(otpRequestWindow),
	)
	if errors.Is(err, idempotency.ErrAlreadyCompleted) || errors.Is(err, idempotency.ErrAlreadyInProgress) {
		slog.InfoContext(ctx, "duplicate otp request suppressed", "key", key)
		return nil
	}
	if errors.Is(err, idempotency.ErrAlreadyFailed) {
		slog.WarnContext(ctx, "otp request repeated inside failure window", "key", key)
		return goerror.NewBusiness("could not send a code, try again shortly", goerror.CodeConflict)
	}

	return err
}

// publishAccountLocked notifies asynchronously; a lost notification must not
// fail the request that triggered the lock.
func (s *Usecase) publishAccountLocked(ctx context.Context, msg AccountLockedEvent) {
	s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		if err := s.repoMessaging.PublishAccountLocked(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "failed to publish account locked event",
				"member_id", msg.MemberID, "scope", msg.Scope, "error", err)
			return err
		}
		return nil
	})
}
