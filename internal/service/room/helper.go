package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/trackroom/server/internal/domain"
	"github.com/trackroom/server/internal/repository/store"
)

func (s service) roomByCode(ctx context.Context, roomCode string) (domain.Room, error) {
	room, err := s.recordStore.RoomByCode(ctx, roomCode)
	if err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			return domain.Room{}, domain.NotFound("room not found")
		}
		return domain.Room{}, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

func (s service) activeRoomByCode(ctx context.Context, roomCode string) (domain.Room, error) {
	room, err := s.roomByCode(ctx, roomCode)
	if err != nil {
		return domain.Room{}, err
	}
	if room.Status != domain.RoomStatusActive {
		return domain.Room{}, domain.BadRequest("room is not active")
	}

	return room, nil
}

// boundMembership resolves the caller's membership record and requires it to
// belong to the given room. The token only proves identity; role and
// capabilities are read from the record.
func (s service) boundMembership(ctx context.Context, room domain.Room, member domain.AuthenticatedMember) (domain.Membership, error) {
	membership, err := s.recordStore.MembershipById(ctx, member.MembershipId)
	if err != nil {
		if errors.Is(err, store.ErrMembershipNotFound) {
			return domain.Membership{}, domain.Forbidden("membership not found")
		}
		return domain.Membership{}, fmt.Errorf("failed to get membership: %w", err)
	}
	if membership.RoomId != room.Id {
		return domain.Membership{}, domain.Forbidden("membership not associated with this room")
	}

	return membership, nil
}

func (s service) queueItemInRoom(ctx context.Context, room domain.Room, itemId string) (domain.QueueItem, error) {
	item, err := s.recordStore.QueueItemById(ctx, itemId)
	if err != nil {
		if errors.Is(err, store.ErrQueueItemNotFound) {
			return domain.QueueItem{}, domain.NotFound("queue item not found")
		}
		return domain.QueueItem{}, fmt.Errorf("failed to get queue item: %w", err)
	}
	if item.RoomId != room.Id {
		return domain.QueueItem{}, domain.BadRequest("item not in room")
	}
	if !item.IsActive() {
		return domain.QueueItem{}, domain.BadRequest("item is not active")
	}

	return item, nil
}

func (s service) activeQueueView(ctx context.Context, roomId string) (QueueView, error) {
	items, err := s.recordStore.ActiveQueueItems(ctx, roomId)
	if err != nil {
		return QueueView{}, fmt.Errorf("failed to get active queue items: %w", err)
	}

	views := make([]QueueItemView, 0, len(items))
	for _, item := range items {
		views = append(views, QueueItemView{
			Id:              item.Id,
			TrackId:         item.TrackId,
			Title:           item.Title,
			DurationSeconds: item.DurationSeconds,
			ThumbUrl:        item.ThumbUrl,
			Position:        item.Position,
			Status:          item.Status,
			EnqueuedAt:      item.EnqueuedAt,
			AddedBy:         item.AddedByName,
		})
	}

	return QueueView{Items: views}, nil
}

// broadcastQueue publishes the fresh queue snapshot to the room's queue
// channel. Fire-and-forget: a publish failure is logged, never surfaced.
func (s service) broadcastQueue(ctx context.Context, room domain.Room) {
	view, err := s.activeQueueView(ctx, room.Id)
	if err != nil {
		s.logger.InfoContext(ctx, "failed to build queue snapshot for broadcast", "error", err)
		return
	}

	if err := s.broadcaster.PublishQueue(ctx, room.Code, view); err != nil {
		s.logger.InfoContext(ctx, "failed to broadcast queue", "error", err)
	}
}

func (s service) broadcastPlayback(ctx context.Context, roomCode string, view PlaybackStateView) {
	if err := s.broadcaster.PublishPlayback(ctx, roomCode, view); err != nil {
		s.logger.InfoContext(ctx, "failed to broadcast playback", "error", err)
	}
}
