package room

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trackroom/server/internal/domain"
	"github.com/trackroom/server/internal/repository/store"
)

func (s service) GetQueue(ctx context.Context, roomCode string) (QueueView, error) {
	room, err := s.roomByCode(ctx, roomCode)
	if err != nil {
		return QueueView{}, err
	}

	return s.activeQueueView(ctx, room.Id)
}

type EnqueueParams struct {
	RoomCode        string
	Member          domain.AuthenticatedMember
	TrackId         string
	Title           string
	DurationSeconds int
	ThumbUrl        *string
}

// Enqueue appends a track to the room's queue. Any bound member may add;
// no capability is required.
func (s service) Enqueue(ctx context.Context, params *EnqueueParams) (QueueItemView, error) {
	room, err := s.activeRoomByCode(ctx, params.RoomCode)
	if err != nil {
		return QueueItemView{}, err
	}

	membership, err := s.boundMembership(ctx, room, params.Member)
	if err != nil {
		return QueueItemView{}, err
	}

	unlock := s.lockQueue(room.Id)
	defer unlock()

	// position = count of active items is a read-modify-write, hence the lock
	active, err := s.recordStore.ActiveQueueItems(ctx, room.Id)
	if err != nil {
		return QueueItemView{}, fmt.Errorf("failed to get active queue items: %w", err)
	}

	item := store.CreateQueueItemParams{
		Id:              uuid.NewString(),
		RoomId:          room.Id,
		Position:        len(active),
		TrackId:         params.TrackId,
		Title:           params.Title,
		DurationSeconds: params.DurationSeconds,
		ThumbUrl:        params.ThumbUrl,
		AddedById:       membership.UserId,
		Status:          domain.QueueItemStatusQueued,
		EnqueuedAt:      time.Now().UTC(),
	}
	if err := s.recordStore.CreateQueueItem(ctx, &item); err != nil {
		return QueueItemView{}, fmt.Errorf("failed to create queue item: %w", err)
	}

	adder, err := s.recordStore.UserById(ctx, membership.UserId)
	if err != nil {
		return QueueItemView{}, fmt.Errorf("failed to get user: %w", err)
	}

	s.broadcastQueue(ctx, room)

	return QueueItemView{
		Id:              item.Id,
		TrackId:         item.TrackId,
		Title:           item.Title,
		DurationSeconds: item.DurationSeconds,
		ThumbUrl:        item.ThumbUrl,
		Position:        item.Position,
		Status:          item.Status,
		EnqueuedAt:      item.EnqueuedAt,
		AddedBy:         adder.DisplayName,
	}, nil
}

type MoveParams struct {
	RoomCode    string
	ItemId      string
	NewPosition int
	Member      domain.AuthenticatedMember
}

func (s service) Move(ctx context.Context, params *MoveParams) (QueueView, error) {
	room, err := s.activeRoomByCode(ctx, params.RoomCode)
	if err != nil {
		return QueueView{}, err
	}

	membership, err := s.boundMembership(ctx, room, params.Member)
	if err != nil {
		return QueueView{}, err
	}
	if !membership.HasCapability(domain.CapabilityReorderQueue) {
		return QueueView{}, domain.Forbidden("you do not have permission to reorder the queue")
	}

	if _, err := s.queueItemInRoom(ctx, room, params.ItemId); err != nil {
		return QueueView{}, err
	}

	unlock := s.lockQueue(room.Id)
	defer unlock()

	items, err := s.recordStore.ActiveQueueItems(ctx, room.Id)
	if err != nil {
		return QueueView{}, fmt.Errorf("failed to get active queue items: %w", err)
	}

	currentIndex := -1
	for i, item := range items {
		if item.Id == params.ItemId {
			currentIndex = i
			break
		}
	}
	if currentIndex < 0 {
		return QueueView{}, domain.NotFound("item not found in queue")
	}

	target := items[currentIndex]
	items = append(items[:currentIndex], items[currentIndex+1:]...)

	newIndex := params.NewPosition
	if newIndex > len(items) {
		newIndex = len(items)
	}
	if newIndex < 0 {
		newIndex = 0
	}

	items = append(items[:newIndex], append([]store.ActiveQueueItem{target}, items[newIndex:]...)...)

	positions := make([]store.PositionUpdate, 0, len(items))
	for i := range items {
		items[i].Position = i
		positions = append(positions, store.PositionUpdate{ItemId: items[i].Id, Position: i})
	}

	if err := s.recordStore.ApplyQueueOrder(ctx, &store.ApplyQueueOrderParams{Positions: positions}); err != nil {
		return QueueView{}, fmt.Errorf("failed to apply queue order: %w", err)
	}

	view, err := s.activeQueueView(ctx, room.Id)
	if err != nil {
		return QueueView{}, err
	}

	s.broadcastQueue(ctx, room)

	return view, nil
}

type RemoveParams struct {
	RoomCode string
	ItemId   string
	Member   domain.AuthenticatedMember
}

func (s service) Remove(ctx context.Context, params *RemoveParams) error {
	room, err := s.activeRoomByCode(ctx, params.RoomCode)
	if err != nil {
		return err
	}

	membership, err := s.boundMembership(ctx, room, params.Member)
	if err != nil {
		return err
	}

	if _, err := s.queueItemInRoom(ctx, room, params.ItemId); err != nil {
		return err
	}

	// either the REMOVE_ITEMS bit or the HOST role suffices
	if !membership.HasCapability(domain.CapabilityRemoveItems) && membership.Role != domain.RoleHost {
		return domain.Forbidden("you do not have permission to remove items")
	}

	unlock := s.lockQueue(room.Id)
	defer unlock()

	if err := s.tombstone(ctx, room, params.ItemId, domain.QueueItemStatusRemoved); err != nil {
		return err
	}

	s.broadcastQueue(ctx, room)

	return nil
}

// tombstone marks the item with the terminal status and position -1, then
// renumbers the remaining active items densely in one store transaction.
// Caller holds the room's queue lock.
func (s service) tombstone(ctx context.Context, room domain.Room, itemId string, status domain.QueueItemStatus) error {
	items, err := s.recordStore.ActiveQueueItems(ctx, room.Id)
	if err != nil {
		return fmt.Errorf("failed to get active queue items: %w", err)
	}

	positions := make([]store.PositionUpdate, 0, len(items))
	next := 0
	for _, item := range items {
		if item.Id == itemId {
			continue
		}
		positions = append(positions, store.PositionUpdate{ItemId: item.Id, Position: next})
		next++
	}

	if err := s.recordStore.ApplyQueueOrder(ctx, &store.ApplyQueueOrderParams{
		Tombstone: &store.TombstoneParams{ItemId: itemId, Status: status},
		Positions: positions,
	}); err != nil {
		return fmt.Errorf("failed to apply queue order: %w", err)
	}

	return nil
}
