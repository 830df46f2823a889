package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/moolaigym/gymcore/internal/member/entity"
)

func TestPinSet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		f := newFixture(t, activeMemberRepo())
		ctx := authContext(77, "jane@example.com")

		// Act
		err := f.uc.PinSet(ctx, PinSetInput{Pin: "135790"})

		// Assert
		if err != nil {
			t.Fatalf("pin set failed: %v", err)
		}
		if f.repo.pin != "digest:135790" {
			t.Fatalf("expected stored pin digest, got %q", f.repo.pin)
		}
	})

	t.Run("AlreadySet", func(t *testing.T) {
		// Arrange
		repo := activeMemberRepo()
		repo.pin = "digest:135790"
		f := newFixture(t, repo)
		ctx := authContext(77, "jane@example.com")

		// Act
		err := f.uc.PinSet(ctx, PinSetInput{Pin: "246800"})

		// Assert
		assertReason(t, err, entity.ReasonPinAlreadySet)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		// Arrange
		f := newFixture(t, activeMemberRepo())

		// Act
		err := f.uc.PinSet(context.Background(), PinSetInput{Pin: "135790"})

		// Assert
		if err == nil {
			t.Fatal("expected error without auth claims")
		}
	})

	t.Run("RejectsNonSixDigitPin", func(t *testing.T) {
		// Arrange
		f := newFixture(t, activeMemberRepo())
		ctx := authContext(77, "jane@example.com")

		// Act
		err := f.uc.PinSet(ctx, PinSetInput{Pin: "12345"})

		// Assert
		if err == nil {
			t.Fatal("expected validation error for 5-digit pin")
		}
	})
}

func TestPinVerify(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		repo := activeMemberRepo()
		repo.pin = "digest:135790"
		repo.failedPinAttempts = 2
		f := newFixture(t, repo)
		ctx := authContext(77, "jane@example.com")

		// Act
		out, err := f.uc.PinVerify(ctx, PinVerifyInput{Pin: "135790"})

		// Assert
		if err != nil {
			t.Fatalf("pin verify failed: %v", err)
		}
		want := "pin_session|77|jane@example.com|1"
		if out.PinToken != want {
			t.Fatalf("expected pin token %q, got %q", want, out.PinToken)
		}
		if f.repo.failedPinAttempts != 0 {
			t.Fatalf("expected pin counter reset, got %d", f.repo.failedPinAttempts)
		}
	})

	t.Run("SuccessDoesNotBumpPinVersion", func(t *testing.T) {
		// Arrange
		repo := activeMemberRepo()
		repo.pin = "digest:135790"
		f := newFixture(t, repo)
		before := repo.pinVersion
		ctx := authContext(77, "jane@example.com")

		// Act
		_, err := f.uc.PinVerify(ctx, PinVerifyInput{Pin: "135790"})

		// Assert
		if err != nil {
			t.Fatalf("pin verify failed: %v", err)
		}
		if f.repo.pinVersion != before {
			t.Fatalf("expected pin version unchanged at %d, got %d", before, f.repo.pinVersion)
		}
	})

	t.Run("NotSet", func(t *testing.T) {
		// Arrange
		f := newFixture(t, activeMemberRepo())
		ctx := authContext(77, "jane@example.com")

		// Act
		_, err := f.uc.PinVerify(ctx, PinVerifyInput{Pin: "135790"})

		// Assert
		assertReason(t, err, entity.ReasonPinNotSet)
	})

	t.Run("WrongPin", func(t *testing.T) {
		// Arrange
		repo := activeMemberRepo()
		repo.pin = "digest:135790"
		f := newFixture(t, repo)
		ctx := authContext(77, "jane@example.com")

		// Act
		_, err := f.uc.PinVerify(ctx, PinVerifyInput{Pin: "000000"})

		// Assert
		assertReason(t, err, entity.ReasonInvalidPin)
		if f.repo.failedPinAttempts != 1 {
			t.Fatalf("expected 1 failed pin attempt, got %d", f.repo.failedPinAttempts)
		}
	})

	t.Run("ThirdFailureLocks", func(t *testing.T) {
		// Arrange
		repo := activeMemberRepo()
		repo.pin = "digest:135790"
		repo.failedPinAttempts = 2
		f := newFixture(t, repo)
		ctx := authContext(77, "jane@example.com")

		// Act
		_, err := f.uc.PinVerify(ctx, PinVerifyInput{Pin: "000000"})

		// Assert
		assertReason(t, err, entity.ReasonPinLocked)
		if f.repo.pinLockedUntil == nil {
			t.Fatal("expected pin lock after 3 failures")
		}
		if want := testNow.Add(15 * time.Minute); !f.repo.pinLockedUntil.Equal(want) {
			t.Fatalf("expected pin lock until %v, got %v", want, f.repo.pinLockedUntil)
		}

		f.flush(t)
		events := f.msg.lockedEvents()
		if len(events) != 1 {
			t.Fatalf("expected 1 lock event, got %d", len(events))
		}
		if events[0].Scope != entity.LockScopePin || events[0].Attempts != 3 {
			t.Fatalf("unexpected lock event: %+v", events[0])
		}
	})

	t.Run("LockedRejectsCorrectPin", func(t *testing.T) {
		// Arrange
		repo := activeMemberRepo()
		repo.pin = "digest:135790"
		until := testNow.Add(5 * time.Minute)
		repo.failedPinAttempts = 3
		repo.pinLockedUntil = &until
		f := newFixture(t, repo)
		ctx := authContext(77, "jane@example.com")

		// Act
		_, err := f.uc.PinVerify(ctx, PinVerifyInput{Pin: "135790"})

		// Assert
		assertReason(t, err, entity.ReasonPinLocked)
	})

	t.Run("LoginLockDoesNotBlockPin", func(t *testing.T) {
		// Arrange
		repo := activeMemberRepo()
		repo.pin = "digest:135790"
		until := testNow.Add(10 * time.Minute)
		repo.failedLoginAttempts = 5
		repo.lockedUntil = &until
		f := newFixture(t, repo)
		ctx := authContext(77, "jane@example.com")

		// Act
		out, err := f.uc.PinVerify(ctx, PinVerifyInput{Pin: "135790"})

		// Assert
		if err != nil {
			t.Fatalf("pin verify failed under login lock: %v", err)
		}
		if out.PinToken == "" {
			t.Fatal("expected pin token")
		}
	})
}

func TestPinChange(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		repo := activeMemberRepo()
		repo.pin = "digest:135790"
		f := newFixture(t, repo)
		before := repo.pinVersion
		ctx := authContext(77, "jane@example.com")

		// Act
		err := f.uc.PinChange(ctx, PinChangeInput{OldPin: "135790", NewPin: "246801"})

		// Assert
		if err != nil {
			t.Fatalf("pin change failed: %v", err)
		}
		if f.repo.pin != "digest:246801" {
			t.Fatalf("expected new pin digest, got %q", f.repo.pin)
		}
		if f.repo.pinVersion != before+1 {
			t.Fatalf("expected pin version %d, got %d", before+1, f.repo.pinVersion)
		}
	})

	t.Run("WrongOldPin", func(t *testing.T) {
		// Arrange
		repo := activeMemberRepo()
		repo.pin = "digest:135790"
		f := newFixture(t, repo)
		ctx := authContext(77, "jane@example.com")

		// Act
		err := f.uc.PinChange(ctx, PinChangeInput{OldPin: "000000", NewPin: "246801"})

		// Assert
		assertReason(t, err, entity.ReasonInvalidOldPin)
		if f.repo.failedPinAttempts != 1 {
			t.Fatalf("expected wrong old pin to count against lockout, got %d attempts", f.repo.failedPinAttempts)
		}
	})

	t.Run("SamePin", func(t *testing.T) {
		// Arrange
		repo := activeMemberRepo()
		repo.pin = "digest:135790"
		f := newFixture(t, repo)
		ctx := authContext(77, "jane@example.com")

		// Act
		err := f.uc.PinChange(ctx, PinChangeInput{OldPin: "135790", NewPin: "135790"})

		// Assert
		assertReason(t, err, entity.ReasonSamePin)
		if f.repo.pin != "digest:135790" {
			t.Fatalf("expected pin unchanged, got %q", f.repo.pin)
		}
	})

	t.Run("NotSet", func(t *testing.T) {
		// Arrange
		f := newFixture(t, activeMemberRepo())
		ctx := authContext(77, "jane@example.com")

		// Act
		err := f.uc.PinChange(ctx, PinChangeInput{OldPin: "135790", NewPin: "246801"})

		// Assert
		assertReason(t, err, entity.ReasonPinNotSet)
	})
}
