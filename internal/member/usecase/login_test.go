package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/moolaigym/gymcore/internal/member/entity"
)

func TestLogin(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		f := newFixture(t, activeMemberRepo())

		// Act
		out, err := f.uc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "Secret123!"})

		// Assert
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if out.AccessToken == "" || out.MemberID != 77 || out.FullName != "Jane Walker" {
			t.Fatalf("unexpected login output: %+v", out)
		}
		if !out.RequiresPin {
			t.Fatal("expected requires_pin for an account without a pin")
		}
	})

	t.Run("PinAlreadySet", func(t *testing.T) {
		// Arrange
		repo := activeMemberRepo()
		repo.pin = "digest:123456"
		f := newFixture(t, repo)

		// Act
		out, err := f.uc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "Secret123!"})

		// Assert
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if out.RequiresPin {
			t.Fatal("expected requires_pin to be false once a pin is set")
		}
	})

	t.Run("SuccessBumpsTokenVersion", func(t *testing.T) {
		// Arrange
		f := newFixture(t, activeMemberRepo())
		before := f.repo.tokenVersion

		// Act
		out, err := f.uc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "Secret123!"})

		// Assert
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if f.repo.tokenVersion != before+1 {
			t.Fatalf("expected token version %d, got %d", before+1, f.repo.tokenVersion)
		}
		want := "access|77|jane@example.com|4"
		if out.AccessToken != want {
			t.Fatalf("expected token carrying new version %q, got %q", want, out.AccessToken)
		}
	})

	t.Run("SuccessResetsFailureCounter", func(t *testing.T) {
		// Arrange
		repo := activeMemberRepo()
		repo.failedLoginAttempts = 3
		f := newFixture(t, repo)

		// Act
		_, err := f.uc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "Secret123!"})

		// Assert
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if f.repo.failedLoginAttempts != 0 || f.repo.lockedUntil != nil {
			t.Fatalf("expected counters reset, got attempts=%d locked=%v", f.repo.failedLoginAttempts, f.repo.lockedUntil)
		}
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		// Arrange
		f := newFixture(t, activeMemberRepo())

		// Act
		_, err := f.uc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "Secret123!"})

		// Assert
		assertReason(t, err, entity.ReasonInvalidCredentials)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		// Arrange
		f := newFixture(t, activeMemberRepo())

		// Act
		_, err := f.uc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "wrong-pass"})

		// Assert
		assertReason(t, err, entity.ReasonInvalidCredentials)
		if f.repo.failedLoginAttempts != 1 {
			t.Fatalf("expected 1 failed attempt, got %d", f.repo.failedLoginAttempts)
		}
	})

	t.Run("FourthFailureDoesNotLock", func(t *testing.T) {
		// Arrange
		repo := activeMemberRepo()
		repo.failedLoginAttempts = 3
		f := newFixture(t, repo)

		// Act
		_, err := f.uc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "wrong-pass"})

		// Assert
		assertReason(t, err, entity.ReasonInvalidCredentials)
		if f.repo.lockedUntil != nil {
			t.Fatalf("expected no lock after 4 failures, got locked until %v", f.repo.lockedUntil)
		}
	})

	t.Run("FifthFailureLocks", func(t *testing.T) {
		// Arrange
		repo := activeMemberRepo()
		repo.failedLoginAttempts = 4
		f := newFixture(t, repo)

		// Act
		_, err := f.uc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "wrong-pass"})

		// Assert
		assertReason(t, err, entity.ReasonAccountLocked)
		if f.repo.lockedUntil == nil {
			t.Fatal("expected lock after 5 failures")
		}
		if want := testNow.Add(30 * time.Minute); !f.repo.lockedUntil.Equal(want) {
			t.Fatalf("expected lock until %v, got %v", want, f.repo.lockedUntil)
		}

		f.flush(t)
		events := f.msg.lockedEvents()
		if len(events) != 1 {
			t.Fatalf("expected 1 lock event, got %d", len(events))
		}
		if events[0].Scope != entity.LockScopeLogin || events[0].Attempts != 5 || events[0].MemberID != 77 {
			t.Fatalf("unexpected lock event: %+v", events[0])
		}
	})

	t.Run("LockedRejectsCorrectPassword", func(t *testing.T) {
		// Arrange
		repo := activeMemberRepo()
		until := testNow.Add(10 * time.Minute)
		repo.failedLoginAttempts = 5
		repo.lockedUntil = &until
		f := newFixture(t, repo)

		// Act
		_, err := f.uc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "Secret123!"})

		// Assert
		assertReason(t, err, entity.ReasonAccountLocked)
		if f.repo.failedLoginAttempts != 5 {
			t.Fatalf("expected counter untouched while locked, got %d", f.repo.failedLoginAttempts)
		}
	})

	t.Run("ExpiredLockAllowsLogin", func(t *testing.T) {
		// Arrange
		repo := activeMemberRepo()
		until := testNow.Add(-time.Minute)
		repo.failedLoginAttempts = 5
		repo.lockedUntil = &until
		f := newFixture(t, repo)

		// Act
		out, err := f.uc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "Secret123!"})

		// Assert
		if err != nil {
			t.Fatalf("login after lock expiry failed: %v", err)
		}
		if out.AccessToken == "" {
			t.Fatal("expected access token")
		}
	})

	t.Run("InactiveAccount", func(t *testing.T) {
		// Arrange
		repo := activeMemberRepo()
		repo.status = entity.MemberStatusInactive
		f := newFixture(t, repo)

		// Act
		_, err := f.uc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "Secret123!"})

		// Assert
		assertReason(t, err, entity.ReasonAccountInactive)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		// Arrange
		f := newFixture(t, activeMemberRepo())

		// Act
		_, err := f.uc.Login(context.Background(), LoginInput{Email: "not-an-email", Password: ""})

		// Assert
		if err == nil {
			t.Fatal("expected validation error")
		}
	})
}
