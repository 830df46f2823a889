package db

import (
	"context"
	"time"

	"github.com/moolaigym/gymcore/internal/member/entity"
)

// RecordPinFailure bumps the failed-PIN counter and arms the PIN lock once
// the counter reaches threshold, in one statement.
func (s *DB) RecordPinFailure(
	ctx context.Context,
	id int64,
	threshold int32,
	lockUntil time.Time,
) (res entity.LockoutResult, err error) {
	ctx, span := s.startSpan(ctx, "RecordPinFailure")
	defer func() { s.endSpan(span, err) }()

	err = s.conn.QueryRow(ctx, `
		UPDATE members
		SET failed_pin_attempts = failed_pin_attempts + 1,
		    pin_locked_until = CASE WHEN failed_pin_attempts + 1 >= $2 THEN $3 ELSE pin_locked_until END,
		    updated_at = now()
		WHERE id = $1
		RETURNING failed_pin_attempts, pin_locked_until`,
		id, threshold, lockUntil,
	).Scan(&res.Attempts, &res.LockedUntil)
	if err != nil {
		return entity.LockoutResult{}, s.mapError(err)
	}

	return res, nil
}

// RecordPinSuccess clears the PIN lockout counters. The PIN version is left
// alone: verifying a PIN proves knowledge, it does not rotate the secret.
func (s *DB) RecordPinSuccess(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "RecordPinSuccess")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		UPDATE members
		SET failed_pin_attempts = 0, pin_locked_until = NULL, updated_at = now()
		WHERE id = $1`,
		id,
	)

	return s.mapError(err)
}

// SetPinIfUnset stores the first PIN digest. It reports false when a PIN
// already exists; the guard is in the statement so two concurrent first-time
// sets cannot both win.
func (s *DB) SetPinIfUnset(ctx context.Context, id int64, hash string) (ok bool, err error) {
	ctx, span := s.startSpan(ctx, "SetPinIfUnset")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE members
		SET pin_hash = $2, updated_at = now()
		WHERE id = $1 AND pin_hash IS NULL`,
		id, hash,
	)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() > 0, nil
}

// UpdatePin stores the new digest, clears the PIN lockout state and bumps
// the PIN version so outstanding PIN session tokens die.
func (s *DB) UpdatePin(ctx context.Context, id int64, hash string) (pinVersion int32, err error) {
	ctx, span := s.startSpan(ctx, "UpdatePin")
	defer func() { s.endSpan(span, err) }()

	err = s.conn.QueryRow(ctx, `
		UPDATE members
		SET pin_hash = $2,
		    failed_pin_attempts = 0,
		    pin_locked_until = NULL,
		    pin_version = pin_version + 1,
		    updated_at = now()
		WHERE id = $1
		RETURNING pin_version`,
		id, hash,
	).Scan(&pinVersion)
	if err != nil {
		return 0, s.mapError(err)
	}

	return pinVersion, nil
}
