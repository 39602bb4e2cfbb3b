package room

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trackroom/server/internal/domain"
	"github.com/trackroom/server/internal/repository/store"
)

type VoteParams struct {
	RoomCode string
	ItemId   string
	Type     domain.VoteType
	Member   domain.AuthenticatedMember
}

// Vote casts a ballot against a queue item and reports whether the outcome
// was applied. The host bypasses voting entirely: no vote record, immediate
// outcome. The majority denominator counts every membership of the room,
// host included, even though the host never casts a normal vote.
func (s service) Vote(ctx context.Context, params *VoteParams) (bool, error) {
	room, err := s.activeRoomByCode(ctx, params.RoomCode)
	if err != nil {
		return false, err
	}

	item, err := s.queueItemInRoom(ctx, room, params.ItemId)
	if err != nil {
		return false, err
	}

	membership, err := s.boundMembership(ctx, room, params.Member)
	if err != nil {
		return false, err
	}

	unlock := s.lockQueue(room.Id)
	defer unlock()

	if membership.Role == domain.RoleHost {
		if err := s.applyOutcome(ctx, room, item.Id, params.Type); err != nil {
			return false, err
		}
		return true, nil
	}

	// check-insert-count-apply must not interleave with another cast for
	// the same room, otherwise two sub-threshold votes can both miss (or
	// both apply) the threshold crossing; the queue lock above covers it
	exists, err := s.recordStore.VoteExists(ctx, &store.VoteKeyParams{
		QueueItemId: item.Id,
		UserId:      membership.UserId,
		Type:        params.Type,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check vote: %w", err)
	}
	if exists {
		return false, domain.Forbidden("vote already recorded")
	}

	if err := s.recordStore.CreateVote(ctx, &store.CreateVoteParams{
		Id:          uuid.NewString(),
		QueueItemId: item.Id,
		UserId:      membership.UserId,
		Type:        params.Type,
		CreatedAt:   time.Now().UTC(),
	}); err != nil {
		return false, fmt.Errorf("failed to create vote: %w", err)
	}

	totalMembers, err := s.recordStore.CountRoomMemberships(ctx, room.Id)
	if err != nil {
		return false, fmt.Errorf("failed to count memberships: %w", err)
	}

	votes, err := s.recordStore.CountVotes(ctx, item.Id, params.Type)
	if err != nil {
		return false, fmt.Errorf("failed to count votes: %w", err)
	}

	required := totalMembers/2 + 1
	if required < 1 {
		required = 1
	}

	if votes >= required {
		if err := s.applyOutcome(ctx, room, item.Id, params.Type); err != nil {
			return false, err
		}
		return true, nil
	}

	return false, nil
}

// applyOutcome tombstones the item (SKIP marks it played, REMOVE removes
// it), renumbers the remaining active items and broadcasts the fresh queue.
// Caller holds the room's queue lock.
func (s service) applyOutcome(ctx context.Context, room domain.Room, itemId string, voteType domain.VoteType) error {
	status := domain.QueueItemStatusRemoved
	if voteType == domain.VoteTypeSkip {
		status = domain.QueueItemStatusPlayed
	}

	if err := s.tombstone(ctx, room, itemId, status); err != nil {
		return err
	}

	s.broadcastQueue(ctx, room)

	return nil
}
