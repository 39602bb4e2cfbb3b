package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/trackroom/server/internal/domain"
	"github.com/trackroom/server/internal/repository/store"
)

func (s *Store) CreateUser(ctx context.Context, params *store.CreateUserParams) error {
	s.logger.DebugContext(ctx, "called", "params", params)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, display_name, created_at) VALUES (?, ?, ?)`,
		params.Id, params.DisplayName, params.CreatedAt.Unix(),
	)

	return err
}

func (s *Store) UserById(ctx context.Context, userId string) (domain.User, error) {
	var (
		user      domain.User
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, display_name, created_at FROM users WHERE id = ?`, userId,
	).Scan(&user.Id, &user.DisplayName, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, store.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}

	user.CreatedAt = time.Unix(createdAt, 0).UTC()

	return user, nil
}

func (s *Store) CreateRoom(ctx context.Context, params *store.CreateRoomParams) error {
	s.logger.DebugContext(ctx, "called", "params", params)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rooms (id, code, host_id, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		params.Id, params.Code, params.HostId, string(params.Status), params.CreatedAt.Unix(),
	)

	return err
}

func (s *Store) RoomByCode(ctx context.Context, code string) (domain.Room, error) {
	var (
		room      domain.Room
		status    string
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, code, host_id, status, created_at FROM rooms WHERE code = ?`, code,
	).Scan(&room.Id, &room.Code, &room.HostId, &status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Room{}, store.ErrRoomNotFound
	}
	if err != nil {
		return domain.Room{}, err
	}

	room.Status = domain.RoomStatus(status)
	room.CreatedAt = time.Unix(createdAt, 0).UTC()

	return room, nil
}

func (s *Store) RoomCodeExists(ctx context.Context, code string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM rooms WHERE code = ?`, code,
	).Scan(&n); err != nil {
		return false, err
	}

	return n > 0, nil
}
