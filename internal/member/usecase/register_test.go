package usecase

import (
	"context"
	"testing"

	"github.com/moolaigym/gymcore/internal/pkg/goerror"
	ventity "github.com/moolaigym/gymcore/internal/verification/entity"
)

func TestRegisterRequestOTP(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		f := newFixture(t, activeMemberRepo())

		// Act
		err := f.uc.RegisterRequestOTP(context.Background(), RegisterRequestOTPInput{Email: "new@example.com"})

		// Assert
		if err != nil {
			t.Fatalf("request otp failed: %v", err)
		}
		if len(f.msg.otpIssued) != 1 {
			t.Fatalf("expected 1 otp event, got %d", len(f.msg.otpIssued))
		}
		evt := f.msg.otpIssued[0]
		if evt.Purpose != ventity.PurposeRegistration.String() || evt.Email != "new@example.com" {
			t.Fatalf("unexpected otp event: %+v", evt)
		}
		wantIssue := "new@example.com|registration_verification|anonymous"
		if len(f.otp.issued) != 1 || f.otp.issued[0] != wantIssue {
			t.Fatalf("expected issue %q, got %v", wantIssue, f.otp.issued)
		}
	})

	t.Run("RapidDuplicateSuppressed", func(t *testing.T) {
		// Arrange
		f := newFixture(t, activeMemberRepo())
		in := RegisterRequestOTPInput{Email: "new@example.com"}
		if err := f.uc.RegisterRequestOTP(context.Background(), in); err != nil {
			t.Fatalf("first request failed: %v", err)
		}

		// Act
		err := f.uc.RegisterRequestOTP(context.Background(), in)

		// Assert
		if err != nil {
			t.Fatalf("duplicate request should succeed quietly, got %v", err)
		}
		if len(f.otp.issued) != 1 {
			t.Fatalf("expected 1 issued code, got %d", len(f.otp.issued))
		}
		if len(f.msg.otpIssued) != 1 {
			t.Fatalf("expected 1 otp event, got %d", len(f.msg.otpIssued))
		}
	})

	t.Run("RegisteredEmail", func(t *testing.T) {
		// Arrange
		f := newFixture(t, activeMemberRepo())

		// Act
		err := f.uc.RegisterRequestOTP(context.Background(), RegisterRequestOTPInput{Email: "jane@example.com"})

		// Assert
		if err == nil {
			t.Fatal("expected conflict for registered email")
		}
		if len(f.msg.otpIssued) != 0 {
			t.Fatal("expected no otp event for registered email")
		}
	})
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		f := newFixture(t, activeMemberRepo())

		// Act
		err := f.uc.Register(context.Background(), RegisterInput{
			Email:    "new@example.com",
			FullName: "New Member",
			Phone:    "+628111234568",
			Password: "Secret123!",
			Code:     "424242",
		})

		// Assert
		if err != nil {
			t.Fatalf("register failed: %v", err)
		}
		if len(f.repo.created) != 1 {
			t.Fatalf("expected 1 created member, got %d", len(f.repo.created))
		}
		if f.repo.created[0].Email != "new@example.com" || f.repo.created[0].ID == 0 {
			t.Fatalf("unexpected created member: %+v", f.repo.created[0])
		}
		want := "new@example.com|registration_verification|424242"
		if len(f.otp.redeemed) != 1 || f.otp.redeemed[0] != want {
			t.Fatalf("expected redeem %q, got %v", want, f.otp.redeemed)
		}
	})

	t.Run("InvalidCode", func(t *testing.T) {
		// Arrange
		f := newFixture(t, activeMemberRepo())
		f.otp.redeemErr = goerror.NewPolicy(ventity.ReasonInvalidOTP, "verification code is invalid", goerror.CodeUnauthorized)

		// Act
		err := f.uc.Register(context.Background(), RegisterInput{
			Email:    "new@example.com",
			FullName: "New Member",
			Password: "Secret123!",
			Code:     "000000",
		})

		// Assert
		assertReason(t, err, ventity.ReasonInvalidOTP)
		if len(f.repo.created) != 0 {
			t.Fatal("expected no member created on redeem failure")
		}
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		// Arrange
		f := newFixture(t, activeMemberRepo())

		// Act
		err := f.uc.Register(context.Background(), RegisterInput{
			Email:    "jane@example.com",
			FullName: "Jane Again",
			Password: "Secret123!",
			Code:     "424242",
		})

		// Assert
		if err == nil {
			t.Fatal("expected conflict for duplicate email")
		}
	})

	t.Run("PhoneOptional", func(t *testing.T) {
		// Arrange
		f := newFixture(t, activeMemberRepo())

		// Act
		err := f.uc.Register(context.Background(), RegisterInput{
			Email:    "new@example.com",
			FullName: "New Member",
			Password: "Secret123!",
			Code:     "424242",
		})

		// Assert
		if err != nil {
			t.Fatalf("register without phone failed: %v", err)
		}
	})

	t.Run("BadPhoneFormat", func(t *testing.T) {
		// Arrange
		f := newFixture(t, activeMemberRepo())

		// Act
		err := f.uc.Register(context.Background(), RegisterInput{
			Email:    "new@example.com",
			FullName: "New Member",
			Phone:    "08111234568",
			Password: "Secret123!",
			Code:     "424242",
		})

		// Assert
		if err == nil {
			t.Fatal("expected validation error for non-e164 phone")
		}
	})
}
