package db

import (
	"context"

	"github.com/moolaigym/gymcore/internal/member/entity"
)

func (s *DB) CreateMember(ctx context.Context, member entity.NewMember, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "CreateMember")
	defer func() { s.endSpan(span, err) }()

	var phone *string
	if member.Phone != "" {
		phone = &member.Phone
	}

	_, err = s.conn.Exec(ctx, `
		INSERT INTO members (id, email, phone, full_name, password_hash, status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		member.ID, member.Email, phone, member.FullName, hash, member.Status,
	)

	return s.mapError(err)
}
