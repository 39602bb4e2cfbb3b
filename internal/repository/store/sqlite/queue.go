package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/trackroom/server/internal/domain"
	"github.com/trackroom/server/internal/repository/store"
)

func (s *Store) CreateQueueItem(ctx context.Context, params *store.CreateQueueItemParams) error {
	s.logger.DebugContext(ctx, "called", "params", params)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO queue_items
		 (id, room_id, position, track_id, title, duration_seconds, thumb_url, added_by, status, enqueued_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		params.Id, params.RoomId, params.Position, params.TrackId, params.Title,
		params.DurationSeconds, nullableString(params.ThumbUrl), params.AddedById,
		string(params.Status), params.EnqueuedAt.Unix(),
	)

	return err
}

func (s *Store) QueueItemById(ctx context.Context, itemId string) (domain.QueueItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, room_id, position, track_id, title, duration_seconds, thumb_url, added_by, status, enqueued_at
		 FROM queue_items WHERE id = ?`, itemId)

	item, err := scanQueueItem(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.QueueItem{}, store.ErrQueueItemNotFound
	}
	if err != nil {
		return domain.QueueItem{}, err
	}

	return item, nil
}

// ActiveQueueItems returns the room's queued and playing items ordered by
// position, each joined with the adder's display name.
func (s *Store) ActiveQueueItems(ctx context.Context, roomId string) ([]store.ActiveQueueItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT q.id, q.room_id, q.position, q.track_id, q.title, q.duration_seconds,
		        q.thumb_url, q.added_by, q.status, q.enqueued_at, u.display_name
		 FROM queue_items q
		 JOIN users u ON u.id = q.added_by
		 WHERE q.room_id = ? AND q.status IN ('QUEUED', 'PLAYING')
		 ORDER BY q.position`, roomId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]store.ActiveQueueItem, 0)
	for rows.Next() {
		var (
			item        domain.QueueItem
			thumbUrl    sql.NullString
			status      string
			enqueuedAt  int64
			addedByName string
		)
		if err := rows.Scan(&item.Id, &item.RoomId, &item.Position, &item.TrackId, &item.Title,
			&item.DurationSeconds, &thumbUrl, &item.AddedById, &status, &enqueuedAt, &addedByName); err != nil {
			return nil, err
		}

		if thumbUrl.Valid {
			item.ThumbUrl = &thumbUrl.String
		}
		item.Status = domain.QueueItemStatus(status)
		item.EnqueuedAt = time.Unix(enqueuedAt, 0).UTC()

		items = append(items, store.ActiveQueueItem{QueueItem: item, AddedByName: addedByName})
	}

	return items, rows.Err()
}

// ApplyQueueOrder rewrites a room's queue ordering in one transaction: the
// optional tombstone and every position update land together or not at all.
func (s *Store) ApplyQueueOrder(ctx context.Context, params *store.ApplyQueueOrderParams) (err error) {
	s.logger.DebugContext(ctx, "called", "params", params)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if t := params.Tombstone; t != nil {
		res, err2 := tx.ExecContext(ctx,
			`UPDATE queue_items SET status = ?, position = -1 WHERE id = ?`,
			string(t.Status), t.ItemId,
		)
		if err2 != nil {
			err = err2
			return err
		}
		affected, err2 := res.RowsAffected()
		if err2 != nil {
			err = err2
			return err
		}
		if affected == 0 {
			err = store.ErrQueueItemNotFound
			return err
		}
	}

	stmt, err := tx.PrepareContext(ctx, `UPDATE queue_items SET position = ? WHERE id = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range params.Positions {
		if _, err = stmt.ExecContext(ctx, p.Position, p.ItemId); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func scanQueueItem(scan func(dest ...any) error) (domain.QueueItem, error) {
	var (
		item       domain.QueueItem
		thumbUrl   sql.NullString
		status     string
		enqueuedAt int64
	)
	if err := scan(&item.Id, &item.RoomId, &item.Position, &item.TrackId, &item.Title,
		&item.DurationSeconds, &thumbUrl, &item.AddedById, &status, &enqueuedAt); err != nil {
		return domain.QueueItem{}, err
	}

	if thumbUrl.Valid {
		item.ThumbUrl = &thumbUrl.String
	}
	item.Status = domain.QueueItemStatus(status)
	item.EnqueuedAt = time.Unix(enqueuedAt, 0).UTC()

	return item, nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}

	return *s
}
