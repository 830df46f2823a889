package db

import (
	"context"

	"github.com/moolaigym/gymcore/internal/member/entity"
)

func (s *DB) GetCredentialByEmail(ctx context.Context, email string) (_ *entity.Credential, err error) {
	ctx, span := s.startSpan(ctx, "GetCredentialByEmail")
	defer func() { s.endSpan(span, err) }()

	var cred entity.Credential
	err = s.conn.QueryRow(ctx, `
		SELECT id, email, full_name, status, password_hash, pin_hash IS NOT NULL, failed_login_attempts, locked_until, token_version
		FROM members
		WHERE lower(email) = lower($1)`,
		email,
	).Scan(
		&cred.ID,
		&cred.Email,
		&cred.FullName,
		&cred.Status,
		&cred.Password,
		&cred.HasPin,
		&cred.FailedLoginAttempts,
		&cred.LockedUntil,
		&cred.TokenVersion,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &cred, nil
}

func (s *DB) GetCredentialByID(ctx context.Context, id int64) (_ *entity.Credential, err error) {
	ctx, span := s.startSpan(ctx, "GetCredentialByID")
	defer func() { s.endSpan(span, err) }()

	var cred entity.Credential
	err = s.conn.QueryRow(ctx, `
		SELECT id, email, full_name, status, password_hash, pin_hash IS NOT NULL, failed_login_attempts, locked_until, token_version
		FROM members
		WHERE id = $1`,
		id,
	).Scan(
		&cred.ID,
		&cred.Email,
		&cred.FullName,
		&cred.Status,
		&cred.Password,
		&cred.HasPin,
		&cred.FailedLoginAttempts,
		&cred.LockedUntil,
		&cred.TokenVersion,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &cred, nil
}

func (s *DB) GetPinCredential(ctx context.Context, id int64) (_ *entity.PinCredential, err error) {
	ctx, span := s.startSpan(ctx, "GetPinCredential")
	defer func() { s.endSpan(span, err) }()

	var (
		cred entity.PinCredential
		pin  *string
	)
	err = s.conn.QueryRow(ctx, `
		SELECT id, email, full_name, status, pin_hash, failed_pin_attempts, pin_locked_until, pin_version
		FROM members
		WHERE id = $1`,
		id,
	).Scan(
		&cred.ID,
		&cred.Email,
		&cred.FullName,
		&cred.Status,
		&pin,
		&cred.FailedPinAttempts,
		&cred.PinLockedUntil,
		&cred.PinVersion,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	if pin != nil {
		cred.Pin = *pin
	}

	return &cred, nil
}

func (s *DB) GetVersionInfo(ctx context.Context, id int64) (_ *entity.VersionInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetVersionInfo")
	defer func() { s.endSpan(span, err) }()

	var info entity.VersionInfo
	err = s.conn.QueryRow(ctx, `
		SELECT id, status, token_version, pin_version
		FROM members
		WHERE id = $1`,
		id,
	).Scan(
		&info.ID,
		&info.Status,
		&info.TokenVersion,
		&info.PinVersion,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &info, nil
}

func (s *DB) GetMemberByEmail(ctx context.Context, email string) (_ *entity.Member, err error) {
	ctx, span := s.startSpan(ctx, "GetMemberByEmail")
	defer func() { s.endSpan(span, err) }()

	return s.getMember(ctx, `lower(email) = lower($1)`, email)
}

func (s *DB) GetMemberByID(ctx context.Context, id int64) (_ *entity.Member, err error) {
	ctx, span := s.startSpan(ctx, "GetMemberByID")
	defer func() { s.endSpan(span, err) }()

	return s.getMember(ctx, `id = $1`, id)
}

func (s *DB) getMember(ctx context.Context, where string, arg any) (*entity.Member, error) {
	var (
		member entity.Member
		phone  *string
	)
	err := s.conn.QueryRow(ctx, `
		SELECT id, email, phone, full_name, status, pin_hash IS NOT NULL, created_at
		FROM members
		WHERE `+where,
		arg,
	).Scan(
		&member.ID,
		&member.Email,
		&phone,
		&member.FullName,
		&member.Status,
		&member.HasPin,
		&member.CreatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	if phone != nil {
		member.Phone = *phone
	}

	return &member, nil
}
