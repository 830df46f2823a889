package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/moolaigym/gymcore/internal/member/entity"
	"github.com/moolaigym/gymcore/internal/pkg/clock"
	"github.com/moolaigym/gymcore/internal/pkg/config"
	"github.com/moolaigym/gymcore/internal/pkg/goerror"
	"github.com/moolaigym/gymcore/internal/pkg/goroutine"
	"github.com/moolaigym/gymcore/internal/pkg/idempotency"
	"github.com/moolaigym/gymcore/internal/pkg/instrument"
	"github.com/moolaigym/gymcore/internal/pkg/jwt"
	"github.com/moolaigym/gymcore/internal/pkg/validator"
)

var testNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

const testConfigYAML = `
modules:
  member:
    max_login_attempts: 5
    login_lock_minutes: 30
    max_pin_attempts: 3
    pin_lock_minutes: 15
`

// fakeRepo keeps a single member's row in memory and mirrors the SQL
// semantics of the real repository: counters, CASE-based locking and
// version bumps behave the same way.
type fakeRepo struct {
	mu sync.Mutex

	id       int64
	email    string
	phone    string
	fullName string
	status   entity.MemberStatus
	password string
	pin      string

	failedLoginAttempts int32
	lockedUntil         *time.Time
	failedPinAttempts   int32
	pinLockedUntil      *time.Time
	tokenVersion        int32
	pinVersion          int32

	created []entity.NewMember
	failErr error
}

func (f *fakeRepo) GetCredentialByEmail(_ context.Context, email string) (*entity.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failErr != nil {
		return nil, f.failErr
	}
	if !strings.EqualFold(email, f.email) {
		return nil, goerror.ErrNotFound
	}

	return &entity.Credential{
		ID:                  f.id,
		Email:               f.email,
		FullName:            f.fullName,
		Status:              f.status,
		Password:            f.password,
		HasPin:              f.pin != "",
		FailedLoginAttempts: f.failedLoginAttempts,
		LockedUntil:         f.lockedUntil,
		TokenVersion:        f.tokenVersion,
	}, nil
}

func (f *fakeRepo) GetCredentialByID(_ context.Context, id int64) (*entity.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if id != f.id {
		return nil, goerror.ErrNotFound
	}

	return &entity.Credential{
		ID:                  f.id,
		Email:               f.email,
		FullName:            f.fullName,
		Status:              f.status,
		Password:            f.password,
		HasPin:              f.pin != "",
		FailedLoginAttempts: f.failedLoginAttempts,
		LockedUntil:         f.lockedUntil,
		TokenVersion:        f.tokenVersion,
	}, nil
}

func (f *fakeRepo) GetPinCredential(_ context.Context, id int64) (*entity.PinCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if id != f.id {
		return nil, goerror.ErrNotFound
	}

	return &entity.PinCredential{
		ID:                f.id,
		Email:             f.email,
		FullName:          f.fullName,
		Status:            f.status,
		Pin:               f.pin,
		FailedPinAttempts: f.failedPinAttempts,
		PinLockedUntil:    f.pinLockedUntil,
		PinVersion:        f.pinVersion,
	}, nil
}

func (f *fakeRepo) GetVersionInfo(_ context.Context, id int64) (*entity.VersionInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if id != f.id {
		return nil, goerror.ErrNotFound
	}

	return &entity.VersionInfo{
		ID:           f.id,
		Status:       f.status,
		TokenVersion: f.tokenVersion,
		PinVersion:   f.pinVersion,
	}, nil
}

func (f *fakeRepo) GetMemberByEmail(_ context.Context, email string) (*entity.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.email == "" || !strings.EqualFold(email, f.email) {
		return nil, goerror.ErrNotFound
	}

	return &entity.Member{
		ID:       f.id,
		Email:    f.email,
		Phone:    f.phone,
		FullName: f.fullName,
		Status:   f.status,
		HasPin:   f.pin != "",
	}, nil
}

func (f *fakeRepo) GetMemberByID(_ context.Context, id int64) (*entity.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if id != f.id {
		return nil, goerror.ErrNotFound
	}

	return &entity.Member{
		ID:        f.id,
		Email:     f.email,
		Phone:     f.phone,
		FullName:  f.fullName,
		Status:    f.status,
		HasPin:    f.pin != "",
		CreatedAt: testNow.Add(-24 * time.Hour),
	}, nil
}

func (f *fakeRepo) CreateMember(_ context.Context, member entity.NewMember, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if strings.EqualFold(member.Email, f.email) {
		return goerror.ErrConflict
	}
	f.created = append(f.created, member)

	return nil
}

func (f *fakeRepo) RecordLoginFailure(_ context.Context, id int64, threshold int32, lockUntil time.Time) (entity.LockoutResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failedLoginAttempts++
	if f.failedLoginAttempts >= threshold {
		until := lockUntil
		f.lockedUntil = &until
	}

	return entity.LockoutResult{Attempts: f.failedLoginAttempts, LockedUntil: f.lockedUntil}, nil
}

func (f *fakeRepo) RecordLoginSuccess(_ context.Context, id int64) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failedLoginAttempts = 0
	f.lockedUntil = nil
	f.tokenVersion++

	return f.tokenVersion, nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id int64, hash string) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.password = hash
	f.failedLoginAttempts = 0
	f.lockedUntil = nil
	f.tokenVersion++

	return f.tokenVersion, nil
}

func (f *fakeRepo) BumpTokenVersion(_ context.Context, id int64) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tokenVersion++

	return f.tokenVersion, nil
}

func (f *fakeRepo) RecordPinFailure(_ context.Context, id int64, threshold int32, lockUntil time.Time) (entity.LockoutResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failedPinAttempts++
	if f.failedPinAttempts >= threshold {
		until := lockUntil
		f.pinLockedUntil = &until
	}

	return entity.LockoutResult{Attempts: f.failedPinAttempts, LockedUntil: f.pinLockedUntil}, nil
}

func (f *fakeRepo) RecordPinSuccess(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failedPinAttempts = 0
	f.pinLockedUntil = nil

	return nil
}

func (f *fakeRepo) SetPinIfUnset(_ context.Context, id int64, hash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pin != "" {
		return false, nil
	}
	f.pin = hash

	return true, nil
}

func (f *fakeRepo) UpdatePin(_ context.Context, id int64, hash string) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pin = hash
	f.failedPinAttempts = 0
	f.pinLockedUntil = nil
	f.pinVersion++

	return f.pinVersion, nil
}

type fakeMessaging struct {
	mu         sync.Mutex
	otpIssued  []OTPIssuedEvent
	lockEvents []AccountLockedEvent
}

func (f *fakeMessaging) PublishOTPIssued(_ context.Context, msg OTPIssuedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.otpIssued = append(f.otpIssued, msg)

	return nil
}

func (f *fakeMessaging) PublishAccountLocked(_ context.Context, msg AccountLockedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lockEvents = append(f.lockEvents, msg)

	return nil
}

func (f *fakeMessaging) lockedEvents() []AccountLockedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]AccountLockedEvent(nil), f.lockEvents...)
}

type fakeOTP struct {
	code      string
	redeemErr error
	issued    []string
	redeemed  []string
}

func (f *fakeOTP) Issue(_ context.Context, contact, purpose string, userID *int64) (string, time.Time, error) {
	owner := "anonymous"
	if userID != nil {
		owner = fmt.Sprintf("%d", *userID)
	}
	f.issued = append(f.issued, contact+"|"+purpose+"|"+owner)

	return f.code, testNow.Add(10 * time.Minute), nil
}

func (f *fakeOTP) Redeem(_ context.Context, contact, purpose, code string) error {
	f.redeemed = append(f.redeemed, contact+"|"+purpose+"|"+code)

	return f.redeemErr
}

// fakeIdemp runs every callback and records the keys it saw, replaying the
// stored outcome when a key repeats the way the redis tracker does.
type fakeIdemp struct {
	keys []string
	seen map[string]error
}

func (f *fakeIdemp) Exec(_ context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	f.keys = append(f.keys, key)

	if f.seen == nil {
		f.seen = make(map[string]error)
	}
	if prev, ok := f.seen[key]; ok {
		if prev != nil {
			return idempotency.ErrAlreadyFailed
		}
		return idempotency.ErrAlreadyCompleted
	}

	err := fn(context.Background())
	f.seen[key] = err

	return err
}

// fakeHash is deterministic so tests can seed stored digests directly.
type fakeHash struct{}

func (fakeHash) Hash(plaintext string) ([]byte, error) {
	return []byte("digest:" + plaintext), nil
}

func (fakeHash) Verify(hashed, plaintext string) bool {
	return hashed == "digest:"+plaintext
}

type fakeJWT struct{}

func (fakeJWT) Generate(uid int64, email string, kind jwt.Kind, version int32) (string, error) {
	return fmt.Sprintf("%s|%d|%s|%d", kind, uid, email, version), nil
}

func (fakeJWT) Verify(tokenStr string, kind jwt.Kind) (jwt.Claims, error) {
	return jwt.Claims{}, nil
}

type fakeNumberID struct{ next int64 }

func (f *fakeNumberID) Generate() int64 {
	f.next++

	return f.next
}

type fixture struct {
	uc    *Usecase
	repo  *fakeRepo
	msg   *fakeMessaging
	otp   *fakeOTP
	idemp *fakeIdemp
}

// flush waits for async event publishes to land.
func (f fixture) flush(t *testing.T) {
	t.Helper()

	if err := f.uc.goroutine.Wait(); err != nil {
		t.Fatalf("background goroutines failed: %v", err)
	}
}

func newFixture(t *testing.T, repo *fakeRepo) fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("build config: %v", err)
	}

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("build validator: %v", err)
	}

	msg := &fakeMessaging{}
	otp := &fakeOTP{code: "424242"}
	idemp := &fakeIdemp{}

	uc := New(Dependency{
		RepoDB:        repo,
		RepoMessaging: msg,
		OTP:           otp,
		Idempotency:   idemp,
		Validator:     v,
		Config:        cfg,
		Bcrypt:        fakeHash{},
		UID:           &fakeNumberID{},
		Clock:         &clock.Fixed{At: testNow},
		JWT:           fakeJWT{},
		Instrument:    instrument.NewNoop(),
		Goroutine:     goroutine.NewManager(4),
	})

	return fixture{uc: uc, repo: repo, msg: msg, otp: otp, idemp: idemp}
}

func activeMemberRepo() *fakeRepo {
	return &fakeRepo{
		id:           77,
		email:        "jane@example.com",
		phone:        "+628111234567",
		fullName:     "Jane Walker",
		status:       entity.MemberStatusActive,
		password:     "digest:Secret123!",
		tokenVersion: 3,
		pinVersion:   1,
	}
}

func authContext(id int64, email string) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: id, UserEmail: email, Kind: jwt.KindAccess})
}

func assertReason(t *testing.T, err error, reason string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error with reason %q, got nil", reason)
	}
	if got := goerror.ReasonOf(err); got != reason {
		t.Fatalf("expected reason %q, got %q (err: %v)", reason, got, err)
	}
}
