package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// Verify validates expiry against the wall clock, so tests steer token
// lifetimes by generating with a clock shifted into the past.
type fixedClock struct{ at time.Time }

func (f *fixedClock) Now() time.Time { return f.at }

type fixedUUID struct{}

func (fixedUUID) Generate() string { return "test-token-id" }

func newSymmetric(t *testing.T, clk *fixedClock) *Symmetric {
	t.Helper()

	s, err := NewHS512(Config{
		Secret:        []byte(strings.Repeat("s", 64)),
		Issuer:        "gymcore",
		Audiences:     []string{"gymcore-app"},
		AccessTTL:     24 * time.Hour,
		PinSessionTTL: time.Hour,
		Clock:         clk,
		UUID:          fixedUUID{},
	})
	if err != nil {
		t.Fatalf("build jwt: %v", err)
	}

	return s
}

func TestNewHS512(t *testing.T) {
	t.Run("ShortSecret", func(t *testing.T) {
		_, err := NewHS512(Config{Secret: []byte("too-short")})
		if !errors.Is(err, ErrSigningKeyTooShort) {
			t.Fatalf("expected ErrSigningKeyTooShort, got %v", err)
		}
	})
}

func TestSymmetric(t *testing.T) {
	t.Run("GenerateAndVerify", func(t *testing.T) {
		s := newSymmetric(t, &fixedClock{at: time.Now()})

		token, err := s.Generate(77, "jane@example.com", KindAccess, 3)
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}

		clm, err := s.Verify(token, KindAccess)
		if err != nil {
			t.Fatalf("verify failed: %v", err)
		}
		if clm.UserID != 77 || clm.UserEmail != "jane@example.com" || clm.Version != 3 {
			t.Fatalf("unexpected claims: %+v", clm)
		}
		if clm.Kind != KindAccess {
			t.Fatalf("expected access kind, got %q", clm.Kind)
		}
	})

	t.Run("KindMismatch", func(t *testing.T) {
		s := newSymmetric(t, &fixedClock{at: time.Now()})

		token, err := s.Generate(77, "jane@example.com", KindPinSession, 1)
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}

		if _, err := s.Verify(token, KindAccess); !errors.Is(err, ErrWrongTokenKind) {
			t.Fatalf("expected ErrWrongTokenKind, got %v", err)
		}
	})

	t.Run("PinSessionExpiresSooner", func(t *testing.T) {
		// Issued two hours ago: the PIN session (1h TTL) is dead while the
		// access token (24h TTL) still lives.
		s := newSymmetric(t, &fixedClock{at: time.Now().Add(-2 * time.Hour)})

		pinToken, err := s.Generate(77, "jane@example.com", KindPinSession, 1)
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		accessToken, err := s.Generate(77, "jane@example.com", KindAccess, 3)
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}

		if _, err := s.Verify(pinToken, KindPinSession); !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("expected expired pin session token, got %v", err)
		}
		if _, err := s.Verify(accessToken, KindAccess); err != nil {
			t.Fatalf("expected access token still valid: %v", err)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		s := newSymmetric(t, &fixedClock{at: time.Now().Add(-25 * time.Hour)})

		token, err := s.Generate(77, "jane@example.com", KindAccess, 3)
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}

		if _, err := s.Verify(token, KindAccess); !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("TamperedToken", func(t *testing.T) {
		s := newSymmetric(t, &fixedClock{at: time.Now()})

		token, err := s.Generate(77, "jane@example.com", KindAccess, 3)
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}

		tampered := token[:len(token)-4] + "AAAA"
		if _, err := s.Verify(tampered, KindAccess); err == nil {
			t.Fatal("expected tampered token to be rejected")
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		clk := &fixedClock{at: time.Now()}
		s := newSymmetric(t, clk)

		other, err := NewHS512(Config{
			Secret:        []byte(strings.Repeat("x", 64)),
			Issuer:        "gymcore",
			Audiences:     []string{"gymcore-app"},
			AccessTTL:     24 * time.Hour,
			PinSessionTTL: time.Hour,
			Clock:         clk,
			UUID:          fixedUUID{},
		})
		if err != nil {
			t.Fatalf("build jwt: %v", err)
		}

		token, err := s.Generate(77, "jane@example.com", KindAccess, 3)
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}

		if _, err := other.Verify(token, KindAccess); err == nil {
			t.Fatal("expected token signed with another secret to be rejected")
		}
	})
}
