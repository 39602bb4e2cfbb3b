package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/trackroom/server/internal/domain"
	"github.com/trackroom/server/internal/repository/store"
)

func (s *Store) CreateMembership(ctx context.Context, params *store.CreateMembershipParams) error {
	s.logger.DebugContext(ctx, "called", "params", params)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memberships (id, room_id, user_id, role, capabilities, joined_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		params.Id, params.RoomId, params.UserId, string(params.Role), params.Capabilities, params.JoinedAt.Unix(),
	)

	return err
}

func (s *Store) MembershipById(ctx context.Context, membershipId string) (domain.Membership, error) {
	var (
		m        domain.Membership
		role     string
		joinedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, room_id, user_id, role, capabilities, joined_at FROM memberships WHERE id = ?`,
		membershipId,
	).Scan(&m.Id, &m.RoomId, &m.UserId, &role, &m.Capabilities, &joinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Membership{}, store.ErrMembershipNotFound
	}
	if err != nil {
		return domain.Membership{}, err
	}

	m.Role = domain.Role(role)
	m.JoinedAt = time.Unix(joinedAt, 0).UTC()

	return m, nil
}

func (s *Store) CountRoomMemberships(ctx context.Context, roomId string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM memberships WHERE room_id = ?`, roomId,
	).Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}

func (s *Store) UpdateMembershipCapabilities(ctx context.Context, membershipId string, capabilities int) error {
	s.logger.DebugContext(ctx, "called", "membership_id", membershipId, "capabilities", capabilities)
	res, err := s.db.ExecContext(ctx,
		`UPDATE memberships SET capabilities = ? WHERE id = ?`,
		capabilities, membershipId,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrMembershipNotFound
	}

	return nil
}
