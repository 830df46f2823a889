package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/moolaigym/gymcore/internal/pkg/clock"
	"github.com/moolaigym/gymcore/internal/pkg/config"
	"github.com/moolaigym/gymcore/internal/pkg/goerror"
	"github.com/moolaigym/gymcore/internal/pkg/instrument"
	"github.com/moolaigym/gymcore/internal/pkg/validator"
	"github.com/moolaigym/gymcore/internal/pkg/valueobject"
	"github.com/moolaigym/gymcore/internal/verification/entity"
)

var testNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

const testConfigYAML = `
modules:
  verification:
    code_ttl_minutes: 10
    retention_hours: 24
`

// fakeStore keeps code rows in memory and mirrors the SQL semantics of the
// real repository: supersession on issue, the claim outcome ladder, and the
// lazy expiry flag.
type fakeStore struct {
	rows []entity.Code
}

func (f *fakeStore) CreateCodeSuperseding(_ context.Context, code entity.NewCode) (int64, error) {
	var superseded int64
	for i := range f.rows {
		r := &f.rows[i]
		if r.Contact == code.Contact && r.Purpose == code.Purpose && !r.IsUsed && !r.IsExpired {
			r.IsExpired = true
			superseded++
		}
	}

	f.rows = append(f.rows, entity.Code{
		ID:          code.ID,
		Contact:     code.Contact,
		ContactType: code.ContactType,
		Purpose:     code.Purpose,
		CodeHash:    code.CodeHash,
		UserID:      code.UserID,
		Metadata:    code.Metadata,
		ExpiresAt:   code.ExpiresAt,
		CreatedAt:   testNow,
	})

	return superseded, nil
}

func (f *fakeStore) ClaimCode(_ context.Context, contact string, purpose entity.Purpose, codeHash string, now time.Time) (entity.ClaimResult, error) {
	var match *entity.Code
	for i := range f.rows {
		r := &f.rows[i]
		if r.Contact != contact || r.Purpose != purpose || r.CodeHash != codeHash {
			continue
		}
		if match == nil || r.CreatedAt.After(match.CreatedAt) || (r.CreatedAt.Equal(match.CreatedAt) && r.ID > match.ID) {
			match = r
		}
	}

	if match == nil {
		return entity.ClaimResult{Outcome: entity.RedeemOutcomeNotFound}, nil
	}
	if match.IsUsed {
		return entity.ClaimResult{Outcome: entity.RedeemOutcomeAlreadyUsed}, nil
	}
	if match.IsExpired {
		return entity.ClaimResult{Outcome: entity.RedeemOutcomeSuperseded}, nil
	}
	if !match.ExpiresAt.After(now) {
		match.IsExpired = true
		return entity.ClaimResult{Outcome: entity.RedeemOutcomeTimeExpired}, nil
	}

	match.IsUsed = true

	return entity.ClaimResult{
		Outcome:  entity.RedeemOutcomeRedeemed,
		UserID:   match.UserID,
		Metadata: match.Metadata,
	}, nil
}

func (f *fakeStore) DeleteCodesExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	kept := f.rows[:0]
	var deleted int64
	for _, r := range f.rows {
		if r.ExpiresAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept

	return deleted, nil
}

// fakeHMAC is deterministic so tests can seed stored digests directly.
type fakeHMAC struct{}

func (fakeHMAC) Hash(plaintext string) ([]byte, error) {
	return []byte("hmac:" + plaintext), nil
}

func (fakeHMAC) Verify(hashed, plaintext string) bool {
	return hashed == "hmac:"+plaintext
}

type fakeCodeGen struct {
	codes []string
	next  int
}

func (f *fakeCodeGen) Generate() (string, error) {
	code := f.codes[f.next%len(f.codes)]
	f.next++

	return code, nil
}

type fakeNumberID struct{ next int64 }

func (f *fakeNumberID) Generate() int64 {
	f.next++

	return f.next
}

type fixture struct {
	uc    *Usecase
	store *fakeStore
}

func newFixture(t *testing.T, codes ...string) fixture {
	t.Helper()

	if len(codes) == 0 {
		codes = []string{"424242"}
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("build config: %v", err)
	}

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("build validator: %v", err)
	}

	store := &fakeStore{}

	uc := New(Dependency{
		RepoDB:     store,
		Validator:  v,
		Config:     cfg,
		HMAC:       fakeHMAC{},
		Code:       &fakeCodeGen{codes: codes},
		UID:        &fakeNumberID{},
		Clock:      &clock.Fixed{At: testNow},
		Instrument: instrument.NewNoop(),
	})

	return fixture{uc: uc, store: store}
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

func TestIssue(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		out, err := f.uc.Issue(context.Background(), IssueInput{
			Contact:     "jane@example.com",
			ContactType: "email",
			Purpose:     "registration_verification",
		})

		// Assert
		if err != nil {
			t.Fatalf("issue failed: %v", err)
		}
		if out.Code != "424242" {
			t.Fatalf("expected plain code in output, got %q", out.Code)
		}
		if want := testNow.Add(10 * time.Minute); !out.ExpiresAt.Equal(want) {
			t.Fatalf("expected expiry %v, got %v", want, out.ExpiresAt)
		}
		if len(f.store.rows) != 1 || f.store.rows[0].CodeHash != "hmac:424242" {
			t.Fatalf("expected stored digest, got %+v", f.store.rows)
		}
		if f.store.rows[0].ContactType != entity.ContactTypeEmail {
			t.Fatalf("expected email contact type, got %q", f.store.rows[0].ContactType)
		}
	})

	t.Run("SupersedesPreviousCode", func(t *testing.T) {
		// Arrange
		f := newFixture(t, "111111", "222222")

		in := IssueInput{Contact: "jane@example.com", ContactType: "email", Purpose: "registration_verification"}
		if _, err := f.uc.Issue(context.Background(), in); err != nil {
			t.Fatalf("first issue failed: %v", err)
		}

		// Act
		_, err := f.uc.Issue(context.Background(), in)

		// Assert
		if err != nil {
			t.Fatalf("second issue failed: %v", err)
		}
		if !f.store.rows[0].IsExpired {
			t.Fatal("expected first code flagged expired by supersession")
		}
		if f.store.rows[1].IsExpired {
			t.Fatal("expected second code to stay live")
		}
	})

	t.Run("DistinctPurposesCoexist", func(t *testing.T) {
		// Arrange
		f := newFixture(t, "111111", "222222")

		if _, err := f.uc.Issue(context.Background(), IssueInput{
			Contact: "jane@example.com", ContactType: "email", Purpose: "registration_verification",
		}); err != nil {
			t.Fatalf("first issue failed: %v", err)
		}

		// Act
		_, err := f.uc.Issue(context.Background(), IssueInput{
			Contact: "jane@example.com", ContactType: "email", Purpose: "password_reset",
		})

		// Assert
		if err != nil {
			t.Fatalf("second issue failed: %v", err)
		}
		if f.store.rows[0].IsExpired || f.store.rows[1].IsExpired {
			t.Fatal("codes for different purposes must not supersede each other")
		}
	})

	t.Run("UnknownPurpose", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		_, err := f.uc.Issue(context.Background(), IssueInput{
			Contact: "jane@example.com", ContactType: "email", Purpose: "mystery",
		})

		// Assert
		if err == nil {
			t.Fatal("expected error for unknown purpose")
		}
	})

	t.Run("UnknownContactType", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		_, err := f.uc.Issue(context.Background(), IssueInput{
			Contact: "jane@example.com", ContactType: "pigeon", Purpose: "registration_verification",
		})

		// Assert
		if err == nil {
			t.Fatal("expected error for unknown contact type")
		}
	})
}

func TestRedeem(t *testing.T) {
	issue := func(t *testing.T, f fixture, in IssueInput) *IssueOutput {
		t.Helper()

		if in.ContactType == "" {
			in.ContactType = "email"
		}
		out, err := f.uc.Issue(context.Background(), in)
		if err != nil {
			t.Fatalf("issue failed: %v", err)
		}

		return out
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		out := issue(t, f, IssueInput{Contact: "jane@example.com", Purpose: "registration_verification"})

		// Act
		_, err := f.uc.Redeem(context.Background(), RedeemInput{Contact: "jane@example.com", Purpose: "registration_verification", Code: out.Code})

		// Assert
		if err != nil {
			t.Fatalf("redeem failed: %v", err)
		}
		if !f.store.rows[0].IsUsed {
			t.Fatal("expected code marked used")
		}
	})

	t.Run("ReturnsStoredOwnerAndMetadata", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		owner := int64(77)
		issue(t, f, IssueInput{
			Contact:  "jane@example.com",
			Purpose:  "password_reset",
			UserID:   &owner,
			Metadata: valueobject.JSONMap{"plan": "gold"},
		})

		// Act
		out, err := f.uc.Redeem(context.Background(), RedeemInput{Contact: "jane@example.com", Purpose: "password_reset", Code: "424242"})

		// Assert
		if err != nil {
			t.Fatalf("redeem failed: %v", err)
		}
		if out.UserID == nil || *out.UserID != owner {
			t.Fatalf("expected user id %d back, got %v", owner, out.UserID)
		}
		if got := out.Metadata.GetString("plan"); got != "gold" {
			t.Fatalf("expected metadata carried through, got %q", got)
		}
	})

	t.Run("SecondRedeemReportsReuse", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		out := issue(t, f, IssueInput{Contact: "jane@example.com", Purpose: "registration_verification"})
		in := RedeemInput{Contact: "jane@example.com", Purpose: "registration_verification", Code: out.Code}

		if _, err := f.uc.Redeem(context.Background(), in); err != nil {
			t.Fatalf("first redeem failed: %v", err)
		}

		// Act
		_, err := f.uc.Redeem(context.Background(), in)

		// Assert
		assertReason(t, err, entity.ReasonOTPAlreadyUsed)
	})

	t.Run("SupersededCodeReportsSupersession", func(t *testing.T) {
		// Arrange
		f := newFixture(t, "111111", "222222")
		old := issue(t, f, IssueInput{Contact: "jane@example.com", Purpose: "registration_verification"})
		issue(t, f, IssueInput{Contact: "jane@example.com", Purpose: "registration_verification"})

		// Act
		_, err := f.uc.Redeem(context.Background(), RedeemInput{Contact: "jane@example.com", Purpose: "registration_verification", Code: old.Code})

		// Assert
		assertReason(t, err, entity.ReasonOTPSuperseded)
	})

	t.Run("LatestCodeStillRedeemsAfterSupersession", func(t *testing.T) {
		// Arrange
		f := newFixture(t, "111111", "222222")
		issue(t, f, IssueInput{Contact: "jane@example.com", Purpose: "registration_verification"})
		latest := issue(t, f, IssueInput{Contact: "jane@example.com", Purpose: "registration_verification"})

		// Act
		_, err := f.uc.Redeem(context.Background(), RedeemInput{Contact: "jane@example.com", Purpose: "registration_verification", Code: latest.Code})

		// Assert
		if err != nil {
			t.Fatalf("redeem of latest code failed: %v", err)
		}
	})

	t.Run("WrongCode", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		issue(t, f, IssueInput{Contact: "jane@example.com", Purpose: "registration_verification"})

		// Act
		_, err := f.uc.Redeem(context.Background(), RedeemInput{Contact: "jane@example.com", Purpose: "registration_verification", Code: "000000"})

		// Assert
		assertReason(t, err, entity.ReasonInvalidOTP)
		if f.store.rows[0].IsUsed {
			t.Fatal("wrong code must not consume the stored one")
		}
	})

	t.Run("WrongPurpose", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		out := issue(t, f, IssueInput{Contact: "jane@example.com", Purpose: "registration_verification"})

		// Act
		_, err := f.uc.Redeem(context.Background(), RedeemInput{Contact: "jane@example.com", Purpose: "password_reset", Code: out.Code})

		// Assert
		assertReason(t, err, entity.ReasonInvalidOTP)
	})

	t.Run("ExpiredCodeFlaggedLazily", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.store.rows = append(f.store.rows, entity.Code{
			ID:          1,
			Contact:     "jane@example.com",
			ContactType: entity.ContactTypeEmail,
			Purpose:     entity.PurposeRegistration,
			CodeHash:    "hmac:424242",
			ExpiresAt:   testNow.Add(-time.Minute),
			CreatedAt:   testNow.Add(-11 * time.Minute),
		})

		// Act
		_, err := f.uc.Redeem(context.Background(), RedeemInput{Contact: "jane@example.com", Purpose: "registration_verification", Code: "424242"})

		// Assert
		assertReason(t, err, entity.ReasonOTPTimeExpired)
		if !f.store.rows[0].IsExpired {
			t.Fatal("expected expiry flag set on the attempt")
		}

		// The flag now wins over the deadline: a second attempt reports the
		// stored state, not time expiry again.
		_, err = f.uc.Redeem(context.Background(), RedeemInput{Contact: "jane@example.com", Purpose: "registration_verification", Code: "424242"})
		assertReason(t, err, entity.ReasonOTPSuperseded)
	})

	t.Run("ReuseWinsOverExpiry", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.store.rows = append(f.store.rows, entity.Code{
			ID:          1,
			Contact:     "jane@example.com",
			ContactType: entity.ContactTypeEmail,
			Purpose:     entity.PurposeRegistration,
			CodeHash:    "hmac:424242",
			IsUsed:      true,
			ExpiresAt:   testNow.Add(-time.Minute),
			CreatedAt:   testNow.Add(-11 * time.Minute),
		})

		// Act
		_, err := f.uc.Redeem(context.Background(), RedeemInput{Contact: "jane@example.com", Purpose: "registration_verification", Code: "424242"})

		// Assert
		assertReason(t, err, entity.ReasonOTPAlreadyUsed)
	})
}

func TestCleanup(t *testing.T) {
	t.Run("DeletesOnlyBeyondRetention", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.store.rows = []entity.Code{
			{ID: 1, Contact: "a@example.com", Purpose: entity.PurposeRegistration, ExpiresAt: testNow.Add(-25 * time.Hour)},
			{ID: 2, Contact: "b@example.com", Purpose: entity.PurposeRegistration, ExpiresAt: testNow.Add(-23 * time.Hour)},
			{ID: 3, Contact: "c@example.com", Purpose: entity.PurposeRegistration, ExpiresAt: testNow.Add(5 * time.Minute)},
		}

		// Act
		out, err := f.uc.Cleanup(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("cleanup failed: %v", err)
		}
		if out.Deleted != 1 {
			t.Fatalf("expected 1 deleted row, got %d", out.Deleted)
		}
		if len(f.store.rows) != 2 {
			t.Fatalf("expected 2 remaining rows, got %d", len(f.store.rows))
		}
	})

	t.Run("NothingToDelete", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		out, err := f.uc.Cleanup(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("cleanup failed: %v", err)
		}
		if out.Deleted != 0 {
			t.Fatalf("expected 0 deleted rows, got %d", out.Deleted)
		}
	})
}
