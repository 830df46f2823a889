package db

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/moolaigym/gymcore/internal/pkg/valueobject"
	"github.com/moolaigym/gymcore/internal/verification/entity"
)

const lockScopeVerification = "verification_codes"

// CreateCodeSuperseding inserts a new code and marks every still-live code
// for the same contact and purpose as expired, all in one transaction.
//
// An advisory transaction lock on (contact, purpose) serializes concurrent
// issues so two requests cannot both insert a "latest" code.
func (s *DB) CreateCodeSuperseding(ctx context.Context, code entity.NewCode) (superseded int64, err error) {
	ctx, span := s.startSpan(ctx, "CreateCodeSuperseding")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	if _, err = tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))`,
		lockScopeVerification, code.Contact+":"+code.Purpose.String(),
	); err != nil {
		return 0, s.mapError(err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE verification_codes
		SET is_expired = TRUE
		WHERE contact_value = $1 AND purpose = $2 AND is_used = FALSE AND is_expired = FALSE`,
		code.Contact, code.Purpose.String(),
	)
	if err != nil {
		return 0, s.mapError(err)
	}
	superseded = tag.RowsAffected()

	if _, err = tx.Exec(ctx, `
		INSERT INTO verification_codes (id, contact_value, contact_type, purpose, code_hash, user_id, metadata, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		code.ID, code.Contact, code.ContactType.String(), code.Purpose.String(),
		code.CodeHash, code.UserID, code.Metadata, code.ExpiresAt,
	); err != nil {
		return 0, s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, s.mapError(err)
	}

	return superseded, nil
}

// ClaimCode resolves one redeem attempt and applies its state transition.
//
// The matching row is locked FOR UPDATE so a concurrent attempt with the same
// code observes either the consumed or the expired state, never a second
// success. Time expiry is applied lazily here: a live row past its deadline is
// flagged is_expired before the outcome is reported.
func (s *DB) ClaimCode(
	ctx context.Context,
	contact string,
	purpose entity.Purpose,
	codeHash string,
	now time.Time,
) (res entity.ClaimResult, err error) {
	ctx, span := s.startSpan(ctx, "ClaimCode")
	defer func() { s.endSpan(span, err) }()

	notFound := entity.ClaimResult{Outcome: entity.RedeemOutcomeNotFound}

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return notFound, err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	var (
		id        int64
		isUsed    bool
		isExpired bool
		expiresAt time.Time
		userID    *int64
		metadata  valueobject.JSONMap
	)
	err = tx.QueryRow(ctx, `
		SELECT id, is_used, is_expired, expires_at, user_id, metadata
		FROM verification_codes
		WHERE contact_value = $1 AND purpose = $2 AND code_hash = $3
		ORDER BY created_at DESC, id DESC
		LIMIT 1
		FOR UPDATE`,
		contact, purpose.String(), codeHash,
	).Scan(&id, &isUsed, &isExpired, &expiresAt, &userID, &metadata)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.Commit(ctx)
		return notFound, s.mapError(err)
	}
	if err != nil {
		return notFound, s.mapError(err)
	}

	switch {
	case isUsed:
		res.Outcome = entity.RedeemOutcomeAlreadyUsed

	case isExpired:
		res.Outcome = entity.RedeemOutcomeSuperseded

	case !expiresAt.After(now):
		if _, err = tx.Exec(ctx,
			`UPDATE verification_codes SET is_expired = TRUE WHERE id = $1`, id,
		); err != nil {
			return notFound, s.mapError(err)
		}
		res.Outcome = entity.RedeemOutcomeTimeExpired

	default:
		if _, err = tx.Exec(ctx,
			`UPDATE verification_codes SET is_used = TRUE, used_at = $2 WHERE id = $1`, id, now,
		); err != nil {
			return notFound, s.mapError(err)
		}
		res = entity.ClaimResult{
			Outcome:  entity.RedeemOutcomeRedeemed,
			UserID:   userID,
			Metadata: metadata,
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return notFound, s.mapError(err)
	}

	return res, nil
}

// DeleteCodesExpiredBefore removes rows whose validity deadline passed before
// cutoff and reports how many were deleted.
func (s *DB) DeleteCodesExpiredBefore(ctx context.Context, cutoff time.Time) (deleted int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteCodesExpiredBefore")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`DELETE FROM verification_codes WHERE expires_at < $1`, cutoff,
	)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tag.RowsAffected(), nil
}
