package sqlite

import (
	"context"

	"github.com/trackroom/server/internal/domain"
	"github.com/trackroom/server/internal/repository/store"
)

func (s *Store) CreateVote(ctx context.Context, params *store.CreateVoteParams) error {
	s.logger.DebugContext(ctx, "called", "params", params)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO votes (id, queue_item_id, user_id, type, created_at) VALUES (?, ?, ?, ?, ?)`,
		params.Id, params.QueueItemId, params.UserId, string(params.Type), params.CreatedAt.Unix(),
	)

	return err
}

func (s *Store) VoteExists(ctx context.Context, params *store.VoteKeyParams) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM votes WHERE queue_item_id = ? AND user_id = ? AND type = ?`,
		params.QueueItemId, params.UserId, string(params.Type),
	).Scan(&n); err != nil {
		return false, err
	}

	return n > 0, nil
}

func (s *Store) CountVotes(ctx context.Context, queueItemId string, voteType domain.VoteType) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM votes WHERE queue_item_id = ? AND type = ?`,
		queueItemId, voteType,
	).Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}
