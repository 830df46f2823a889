package db

import (
	"context"
	"time"

	"github.com/moolaigym/gymcore/internal/member/entity"
)

// RecordLoginFailure bumps the failed-login counter and arms the lock once
// the counter reaches threshold. Counter and lock move in one statement so
// concurrent failures cannot lose increments or race past the threshold.
func (s *DB) RecordLoginFailure(
	ctx context.Context,
	id int64,
	threshold int32,
	lockUntil time.Time,
) (res entity.LockoutResult, err error) {
	ctx, span := s.startSpan(ctx, "RecordLoginFailure")
	defer func() { s.endSpan(span, err) }()

	err = s.conn.QueryRow(ctx, `
		UPDATE members
		SET failed_login_attempts = failed_login_attempts + 1,
		    locked_until = CASE WHEN failed_login_attempts + 1 >= $2 THEN $3 ELSE locked_until END,
		    updated_at = now()
		WHERE id = $1
		RETURNING failed_login_attempts, locked_until`,
		id, threshold, lockUntil,
	).Scan(&res.Attempts, &res.LockedUntil)
	if err != nil {
		return entity.LockoutResult{}, s.mapError(err)
	}

	return res, nil
}

// RecordLoginSuccess clears the lockout state and bumps the token version,
// invalidating every previously issued access token.
func (s *DB) RecordLoginSuccess(ctx context.Context, id int64) (tokenVersion int32, err error) {
	ctx, span := s.startSpan(ctx, "RecordLoginSuccess")
	defer func() { s.endSpan(span, err) }()

	err = s.conn.QueryRow(ctx, `
		UPDATE members
		SET failed_login_attempts = 0,
		    locked_until = NULL,
		    token_version = token_version + 1,
		    updated_at = now()
		WHERE id = $1
		RETURNING token_version`,
		id,
	).Scan(&tokenVersion)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tokenVersion, nil
}

// UpdatePassword stores the new digest, clears the lockout state and bumps
// the token version so existing sessions must log in again.
func (s *DB) UpdatePassword(ctx context.Context, id int64, hash string) (tokenVersion int32, err error) {
	ctx, span := s.startSpan(ctx, "UpdatePassword")
	defer func() { s.endSpan(span, err) }()

	err = s.conn.QueryRow(ctx, `
		UPDATE members
		SET password_hash = $2,
		    failed_login_attempts = 0,
		    locked_until = NULL,
		    token_version = token_version + 1,
		    updated_at = now()
		WHERE id = $1
		RETURNING token_version`,
		id, hash,
	).Scan(&tokenVersion)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tokenVersion, nil
}

// BumpTokenVersion invalidates every issued access token without touching
// the credential itself. Used by logout.
func (s *DB) BumpTokenVersion(ctx context.Context, id int64) (tokenVersion int32, err error) {
	ctx, span := s.startSpan(ctx, "BumpTokenVersion")
	defer func() { s.endSpan(span, err) }()

	err = s.conn.QueryRow(ctx, `
		UPDATE members
		SET token_version = token_version + 1, updated_at = now()
		WHERE id = $1
		RETURNING token_version`,
		id,
	).Scan(&tokenVersion)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tokenVersion, nil
}
